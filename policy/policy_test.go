package policy_test

import (
	"context"
	"math/big"
	"net/netip"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"member-tree/introspect"
	"member-tree/policy"
)

type Color int

type Vec struct{ X, Y float64 }

type Body struct {
	Pos    Vec
	Tint   Color
	Label  string
	mass   float64
	Legacy int `deprecated:"use Pos"`
	Old    int `tree:"deprecated"`
	Seen   any
}

func (b *Body) Mass() float64 { return b.mass }

func TestPolicy_IsOpaqueType(t *testing.T) {
	p := policy.New()

	tests := []struct {
		value  any
		opaque bool
	}{
		{0, true},
		{3.5, true},
		{"s", true},
		{true, true},
		{Color(1), true},
		{time.Now(), true},
		{time.Second, true},
		{uuid.New(), true},
		{big.NewInt(1), true},
		{[3]int{}, true},
		{[]Vec{}, true},
		{map[string]Vec{}, true},
		{make(chan int), true},
		{func() {}, true},
		{Vec{}, false},
		{&Vec{}, false},
		{Body{}, false},
		{netip.Addr{}, false},
	}

	for _, tt := range tests {
		t.Run(reflect.TypeOf(tt.value).String(), func(t *testing.T) {
			assert.Equal(t, tt.opaque, p.IsOpaqueType(reflect.TypeOf(tt.value)))
		})
	}

	assert.True(t, p.IsOpaqueType(nil))
	assert.False(t, p.IsOpaqueType(reflect.TypeOf((*any)(nil)).Elem()))
}

func TestPolicy_RegisteredOpaqueTypes(t *testing.T) {
	p := policy.New(
		policy.WithOpaqueTypes(Vec{}),
		policy.WithOpaqueTypeNames("net/netip.Addr"),
	)

	assert.True(t, p.IsOpaqueType(reflect.TypeOf(Vec{})))
	assert.True(t, p.IsOpaqueType(reflect.TypeOf(&Vec{})))
	assert.True(t, p.IsOpaqueType(reflect.TypeOf(netip.Addr{})))
	assert.False(t, p.IsOpaqueType(reflect.TypeOf(Body{})))
}

func TestPolicy_IsEngineManagedType(t *testing.T) {
	p := policy.New()

	assert.True(t, p.IsEngineManagedType(reflect.TypeOf(sync.Mutex{})))
	assert.True(t, p.IsEngineManagedType(reflect.TypeOf(&sync.WaitGroup{})))
	assert.True(t, p.IsEngineManagedType(reflect.TypeOf(zap.NewNop())))
	assert.True(t, p.IsEngineManagedType(reflect.TypeOf(context.Background())))
	assert.True(t, p.IsEngineManagedType(reflect.TypeOf(netip.Addr{})), "net prefix covers net/netip")
	assert.False(t, p.IsEngineManagedType(reflect.TypeOf(Body{})))
	assert.False(t, p.IsEngineManagedType(reflect.TypeOf(0)))

	custom := policy.New(policy.WithManagedPackages("member-tree/policy_test"))
	assert.True(t, custom.IsEngineManagedType(reflect.TypeOf(Body{})))
	assert.False(t, custom.IsEngineManagedType(reflect.TypeOf(sync.Mutex{})))

	optIn := policy.New(policy.IncludeManaged(true))
	assert.False(t, optIn.IsEngineManagedType(reflect.TypeOf(sync.Mutex{})))
}

func TestPolicy_PrefixMatchesWholeSegments(t *testing.T) {
	p := policy.New(policy.WithManagedPackages("member-tree/pol"))
	assert.False(t, p.IsEngineManagedType(reflect.TypeOf(Body{})))
}

func bodyMembers() map[string]*introspect.Descriptor {
	v := reflect.ValueOf(&Body{}).Elem()
	r := introspect.NewReflector(nil, nil)

	out := make(map[string]*introspect.Descriptor)
	for _, d := range r.MembersOf(introspect.Level{Type: v.Type(), Owner: v}) {
		out[d.Name] = d
	}
	return out
}

func TestPolicy_IsValidMember(t *testing.T) {
	p := policy.New()
	members := bodyMembers()

	assert.True(t, p.IsValidMember(members["Pos"], nil))
	assert.True(t, p.IsValidMember(members["Mass"], nil))
	assert.False(t, p.IsValidMember(nil, nil))
	assert.False(t, p.IsValidMember(&introspect.Descriptor{Name: "_"}, nil))

	legacy := members["Legacy"]
	assert.False(t, p.IsValidMember(legacy, introspect.ParseTag(legacy.Tag)))

	old := members["Old"]
	assert.False(t, p.IsValidMember(old, introspect.ParseTag(old.Tag)))

	typ := reflect.TypeOf(Body{})
	cell, _ := typ.FieldByName("mass")
	storage := &introspect.Descriptor{Name: "mass", Kind: introspect.MemberField, Declaring: typ, Index: cell.Index[0]}
	assert.False(t, p.IsValidMember(storage, nil))
}

func TestPolicy_IsSearchable(t *testing.T) {
	p := policy.New()
	members := bodyMembers()

	b := &Body{Seen: &Vec{}}
	owner := reflect.ValueOf(b).Elem()

	assert.True(t, p.IsSearchable(introspect.MemberField, members["Pos"].Type, owner.FieldByName("Pos")))
	assert.False(t, p.IsSearchable(introspect.MemberField, members["Tint"].Type, owner.FieldByName("Tint")))
	assert.False(t, p.IsSearchable(introspect.MemberField, members["Label"].Type, owner.FieldByName("Label")))
	assert.False(t, p.IsSearchable(introspect.MemberProperty, members["Mass"].Type, reflect.ValueOf(1.5)))
	assert.False(t, p.IsSearchable(introspect.MemberMethod, reflect.TypeOf(Vec{}), reflect.ValueOf(Vec{})))

	seen := members["Seen"].Type
	assert.True(t, p.IsSearchable(introspect.MemberField, seen, owner.FieldByName("Seen")))

	b.Seen = "text"
	assert.False(t, p.IsSearchable(introspect.MemberField, seen, owner.FieldByName("Seen")))

	b.Seen = nil
	assert.False(t, p.IsSearchable(introspect.MemberField, seen, owner.FieldByName("Seen")))

	var mu sync.Mutex
	assert.False(t, p.IsSearchable(introspect.MemberField, reflect.TypeOf(&mu), reflect.ValueOf(&mu)))
	assert.True(t, policy.New(policy.IncludeManaged(true)).
		IsSearchable(introspect.MemberField, reflect.TypeOf(&mu), reflect.ValueOf(&mu)))
}
