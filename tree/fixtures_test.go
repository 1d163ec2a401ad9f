package tree_test

import (
	"fmt"
	"strconv"
)

type Stats struct {
	Level int `tree:"exposed"`
	xp    int
}

func (s *Stats) XP() int { return s.xp }

type Player struct {
	Stats

	Name   string `tree:"exposed"`
	Pet    *Pet
	health int `tree:"range=0..100"`
}

func (p *Player) Health() int { return p.health }

func (p *Player) SetHealth(v int) { p.health = v }

func (p *Player) Heal(n int) { p.health += n }

type Pet struct {
	Name  string `tree:"exposed"`
	Owner *Player
}

type Team struct {
	Captain *Player
}

type Link struct {
	Name string
	Next *Link
}

func chain(n int) *Link {
	var head *Link
	for i := n; i > 0; i-- {
		head = &Link{Name: strconv.Itoa(i), Next: head}
	}
	return head
}

// Ring embeds the next ring by pointer, so its base levels form a live chain.
type Ring struct {
	*Ring
	Value int
}

func ring(n int) *Ring {
	var head *Ring
	for i := n; i > 0; i-- {
		head = &Ring{Ring: head, Value: i}
	}
	return head
}

type Marker struct{}

func (Marker) Ping() string { return "pong" }

type Flags struct {
	A *Marker
	B *Marker
}

type Gauge struct {
	Label   string
	reading *int
}

func (g *Gauge) Reading() int { return *g.reading }

type Loud struct{ Name string }

func (l *Loud) String() string { panic("boom") }

type Named struct{ Label string }

func (n Named) String() string { return fmt.Sprintf("named %s", n.Label) }

type Base struct {
	Name  string
	Score int
}

func (Base) Describe() string { return "base" }

type Derived struct {
	Base

	Name string
}

func (*Derived) Describe() string { return "derived" }

func newPlayer() *Player {
	p := &Player{Stats: Stats{Level: 3, xp: 120}, Name: "Ada", health: 90}
	p.Pet = &Pet{Name: "Rex", Owner: p}
	return p
}
