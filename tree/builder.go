package tree

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"member-tree/internal/diagnostic"
	"member-tree/introspect"
	"member-tree/policy"
)

// ErrNilInstance is returned when a tree is requested for a nil value.
var ErrNilInstance = errors.New("nil instance")

// Builder creates and expands member nodes. A Builder holds no per-build
// state and may be reused; a single build is not safe for concurrent use.
type Builder struct {
	introspector introspect.TypeIntrospector
	metadata     *introspect.MetadataSource
	policy       *policy.Policy
	logger       *zap.Logger
	namer        Namer
	maxDepth     int
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts ...Option) *Builder {
	cfg := newConfig(opts)

	return &Builder{
		introspector: cfg.introspector,
		metadata:     introspect.NewMetadataSource(cfg.introspector, cfg.naming),
		policy:       policy.New(cfg.policy...),
		logger:       cfg.logger,
		namer:        cfg.namer,
		maxDepth:     cfg.maxDepth,
	}
}

// MaxDepth returns the deepest level the builder expands.
func (b *Builder) MaxDepth() int {
	return b.maxDepth
}

// Policy returns the traversal policy of the builder.
func (b *Builder) Policy() *policy.Policy {
	return b.policy
}

// Root creates the unexpanded root node for instance.
func (b *Builder) Root(instance any) (*Node, error) {
	v := reflect.ValueOf(instance)
	if !introspect.Indirect(v).IsValid() {
		return nil, ErrNilInstance
	}

	t := v.Type()

	return &Node{
		Name:         b.namer(v, b.policy.IsEngineManagedType(t)),
		Path:         rootPath(t),
		Kind:         introspect.MemberRoot,
		Type:         t,
		Value:        instance,
		Annotations:  []introspect.Annotation{},
		value:        v,
		introspector: b.introspector,
	}, nil
}

// Expand computes the subtree below n. Each call starts with an empty
// visited set; the returned diagnostics explain every cut and degraded member.
func (b *Builder) Expand(n *Node) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	if n != nil {
		b.expand(n, b.maxDepth, 0, make(visitedSet), &diags)
	}

	return diags
}

// identity is the address and type of a struct value. Two nodes reaching the
// same struct through different pointers share an identity.
type identity struct {
	addr uintptr
	typ  reflect.Type
}

type visitedSet map[identity]struct{}

// identityOf reports no identity for non-addressable values and for
// zero-size types, whose distinct values may share one address.
func identityOf(target reflect.Value) (identity, bool) {
	if !target.CanAddr() || target.Type().Size() == 0 {
		return identity{}, false
	}

	return identity{addr: target.UnsafeAddr(), typ: target.Type()}, true
}

// visit records target and reports whether it was already present.
func (s visitedSet) visit(target reflect.Value) bool {
	id, ok := identityOf(target)
	if !ok {
		return false
	}

	if _, seen := s[id]; seen {
		return true
	}
	s[id] = struct{}{}

	return false
}

// members accumulates the children of one node across its embedding levels.
type members struct {
	parent   *Node
	maxDepth int
	emitted  map[string]struct{}
	levels   visitedSet
	children []*Node
	diags    *diagnostic.Diagnostics
}

func (b *Builder) expand(n *Node, maxDepth, depth int, visited visitedSet, diags *diagnostic.Diagnostics) {
	target := introspect.Indirect(n.value)
	if !target.IsValid() || n.Unreadable() {
		return
	}

	if visited.visit(target) {
		b.logger.Debug("cycle cut", zap.String("path", n.Path), zap.Stringer("type", target.Type()))
		diags.AddInfo(diagnostic.CodeCycle, "value already visited", target.Type().String(), n.Path)
		return
	}

	if depth > maxDepth {
		b.logger.Debug("depth limit reached", zap.String("path", n.Path), zap.Int("depth", depth))
		diags.AddInfo(diagnostic.CodeDepthLimit,
			fmt.Sprintf("depth %d exceeds %d", depth, maxDepth), target.Type().String(), n.Path)
		return
	}

	m := &members{
		parent:   n,
		maxDepth: maxDepth,
		emitted:  make(map[string]struct{}),
		levels:   make(visitedSet),
		children: []*Node{},
		diags:    diags,
	}
	m.levels.visit(target)

	b.collect(m, introspect.Level{Type: target.Type(), Owner: target}, 0)
	n.Children = m.children

	for _, child := range n.Children {
		if child.Unreadable() || !b.policy.IsSearchable(child.Kind, child.Type, child.value) {
			continue
		}

		b.expand(child, maxDepth, depth+1, visited, diags)
	}
}

// collect appends the members of level and then of its embedded levels,
// depth-first in declaration order. A member hidden by a more-derived member
// of the same name is skipped. hops counts the embedded pointers followed to
// reach level; it is bounded by the depth limit, and a level already walked
// for this node is not walked again.
func (b *Builder) collect(m *members, level introspect.Level, hops int) {
	parent := m.parent

	if b.policy.IsExcluded(level.Type) {
		if level.Type != parent.Type && reflect.PointerTo(level.Type) != parent.Type {
			m.diags.AddInfo(diagnostic.CodeExcluded, "embedded level not expanded", level.Type.String(), parent.Path)
		}
		return
	}

	for _, d := range b.introspector.MembersOf(level) {
		anns := b.metadata.AnnotationsFor(d, level.Type)
		if !b.policy.IsValidMember(d, anns) {
			b.logger.Debug("member skipped", zap.String("path", parent.Path), zap.Stringer("member", d))
			continue
		}

		path := parent.Path + "." + d.Segment()
		if _, ok := m.emitted[d.Name]; ok {
			m.diags.AddInfo(diagnostic.CodeShadowed, "hidden by a more-derived member", level.Type.String(), path)
			continue
		}
		if _, ok := m.emitted[d.Segment()]; ok {
			m.diags.AddInfo(diagnostic.CodeShadowed, "path segment already taken", level.Type.String(), path)
			continue
		}
		m.emitted[d.Name] = struct{}{}
		m.emitted[d.Segment()] = struct{}{}

		child := b.materialize(d, level.Owner)
		child.Path = path
		child.Annotations = anns

		if child.Unreadable() {
			b.logger.Debug("member unreadable", zap.String("path", path), zap.Error(child.ReadErr))
			m.diags.AddWarning(diagnostic.CodeUnreadable, child.ReadErr.Error(), level.Type.String(), path)
		}

		m.children = append(m.children, child)
	}

	for _, base := range b.introspector.Embedded(level.Owner) {
		if m.levels.visit(base.Owner) {
			b.logger.Debug("embedded cycle cut", zap.String("path", parent.Path), zap.Stringer("type", base.Type))
			m.diags.AddInfo(diagnostic.CodeCycle, "embedded level already visited", base.Type.String(), parent.Path)
			continue
		}

		next := hops
		if base.Pointer {
			next++
		}

		if next > m.maxDepth {
			b.logger.Debug("embedding limit reached", zap.String("path", parent.Path), zap.Int("hops", next))
			m.diags.AddInfo(diagnostic.CodeDepthLimit,
				fmt.Sprintf("embedding depth %d exceeds %d", next, m.maxDepth), base.Type.String(), parent.Path)
			continue
		}

		b.collect(m, base, next)
	}
}

// materialize reads the member into a node. Methods are never invoked; their
// value is the descriptor. A failed read keeps the descriptor as an inert
// sentinel value.
func (b *Builder) materialize(d *introspect.Descriptor, owner reflect.Value) *Node {
	n := &Node{
		Name:         d.Name,
		Kind:         d.Kind,
		Type:         d.Type,
		Owner:        owner,
		Descriptor:   d,
		introspector: b.introspector,
	}

	if d.Kind == introspect.MemberMethod {
		n.Value = d
		n.value = reflect.ValueOf(d)
		return n
	}

	v, err := b.introspector.Read(d, owner)
	if err != nil {
		n.Value = d
		n.value = reflect.ValueOf(d)
		n.ReadErr = err
		return n
	}

	n.Value = interfaceOf(v)
	n.value = v

	return n
}
