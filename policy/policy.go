// Package policy decides which types and members a member tree exposes and
// which nodes it expands.
package policy

import (
	"reflect"
	"strings"

	"member-tree/introspect"
	"member-tree/primitive"
)

// DefaultManagedPackages are the package path prefixes whose types are
// runtime machinery rather than user data: locks, loggers, contexts, OS handles.
var DefaultManagedPackages = []string{
	"sync",
	"reflect",
	"runtime",
	"context",
	"os",
	"net",
	"go.uber.org/zap",
}

// Option represents an option to customize a Policy.
type Option func(*Policy)

// Policy holds the traversal predicates. The zero value is not usable; use New.
type Policy struct {
	opaqueTypes    map[reflect.Type]struct{}
	opaqueNames    map[string]struct{}
	managed        []string
	includeManaged bool
	naming         introspect.ShadowNaming
}

// WithOpaqueTypes returns an Option that makes the types of the given values opaque.
func WithOpaqueTypes(values ...any) Option {
	return func(p *Policy) {
		for i := range values {
			if t := reflect.TypeOf(values[i]); t != nil {
				p.opaqueTypes[base(t)] = struct{}{}
			}
		}
	}
}

// WithOpaqueTypeNames returns an Option that makes the named types opaque.
// Names have the TypeID form "pkg/path.Name".
func WithOpaqueTypeNames(names ...string) Option {
	return func(p *Policy) {
		for _, name := range names {
			p.opaqueNames[name] = struct{}{}
		}
	}
}

// WithManagedPackages returns an Option that replaces the engine-managed package prefixes.
func WithManagedPackages(prefixes ...string) Option {
	return func(p *Policy) {
		p.managed = append([]string(nil), prefixes...)
	}
}

// IncludeManaged returns an Option that opts in to expanding engine-managed types.
func IncludeManaged(include bool) Option {
	return func(p *Policy) {
		p.includeManaged = include
	}
}

// WithShadowNaming returns an Option that sets the storage cell naming strategy.
func WithShadowNaming(naming introspect.ShadowNaming) Option {
	return func(p *Policy) {
		if naming != nil {
			p.naming = naming
		}
	}
}

// New creates a Policy with the default engine-managed packages.
func New(opts ...Option) *Policy {
	p := &Policy{
		opaqueTypes: make(map[reflect.Type]struct{}),
		opaqueNames: make(map[string]struct{}),
		managed:     append([]string(nil), DefaultManagedPackages...),
		naming:      introspect.GetterNaming{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func base(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// IsOpaqueType reports whether values of t are terminal: primitive kinds,
// enums, strings, value-like library types, collections and registered types.
// Pointers are looked through; an interface type is not opaque by itself.
func (p *Policy) IsOpaqueType(t reflect.Type) bool {
	t = base(t)
	if t == nil {
		return true
	}

	if _, ok := p.opaqueTypes[t]; ok {
		return true
	}

	if len(p.opaqueNames) > 0 && t.Name() != "" {
		if _, ok := p.opaqueNames[introspect.TypeIDOf(t).String()]; ok {
			return true
		}
	}

	if primitive.FromReflectType(t) != 0 {
		return true
	}

	switch t.Kind() {
	case reflect.Array, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// IsEngineManagedType reports whether t belongs to an engine-managed package.
// It is always false once the policy opts in with IncludeManaged.
func (p *Policy) IsEngineManagedType(t reflect.Type) bool {
	if p.includeManaged {
		return false
	}

	t = base(t)
	if t == nil || t.PkgPath() == "" {
		return false
	}

	pkg := t.PkgPath()
	for _, prefix := range p.managed {
		if pkg == prefix || strings.HasPrefix(pkg, prefix+"/") {
			return true
		}
	}

	return false
}

// IsExcluded reports whether a type level or value of type t must not be expanded.
func (p *Policy) IsExcluded(t reflect.Type) bool {
	return p.IsOpaqueType(t) || p.IsEngineManagedType(t)
}

// IsValidMember reports whether a discovered member is exposed at all.
// Blank fields, storage cells and deprecated members are not.
func (p *Policy) IsValidMember(d *introspect.Descriptor, anns []introspect.Annotation) bool {
	if d == nil || d.Name == "" || d.Name == "_" {
		return false
	}

	if d.Kind == introspect.MemberField && d.Declaring != nil && d.Declaring.Kind() == reflect.Struct &&
		d.Index >= 0 && d.Index < d.Declaring.NumField() && p.naming.IsCell(d.Declaring.Field(d.Index)) {
		return false
	}

	return !introspect.HasAnnotation(anns, introspect.Deprecated)
}

// IsSearchable reports whether a node is eligible for expansion. Methods never
// are. The value's dynamic type decides when the declared type is an
// interface (or unknown).
func (p *Policy) IsSearchable(kind introspect.MemberKind, declared reflect.Type, value reflect.Value) bool {
	if kind == introspect.MemberMethod {
		return false
	}

	t := base(declared)
	if t == nil || t.Kind() == reflect.Interface {
		v := introspect.Indirect(value)
		if !v.IsValid() {
			return false
		}
		t = v.Type()
	}

	return !p.IsExcluded(t)
}
