package tree

import (
	"fmt"
	"reflect"

	"member-tree/introspect"
)

// Node is one member of a live object graph.
type Node struct {
	Name        string                  // member name, or the root value name
	Path        string                  // dot-delimited, unique within the tree
	Kind        introspect.MemberKind   // root, field, property or method
	Type        reflect.Type            // declared type of the member
	Value       any                     // value at construction; the descriptor for methods and unreadable members
	ReadErr     error                   // non-nil when the member could not be read
	Owner       reflect.Value           // value holding the member; invalid for the root
	Descriptor  *introspect.Descriptor  // nil for the root
	Annotations []introspect.Annotation // never nil after construction
	Children    []*Node                 // nil until expanded

	value        reflect.Value
	introspector introspect.TypeIntrospector
}

// GetValue re-reads the member from its owner.
func (n *Node) GetValue() (any, error) {
	switch {
	case n.Kind == introspect.MemberRoot || n.Descriptor == nil:
		return n.Value, nil
	case n.Kind == introspect.MemberMethod:
		return n.Descriptor, nil
	}

	v, err := n.introspector.Read(n.Descriptor, n.Owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.Path, err)
	}

	return interfaceOf(v), nil
}

// SetValue writes v into the member through the field or the property setter.
// The node's Value keeps the value read at construction.
func (n *Node) SetValue(v any) error {
	if n.Kind == introspect.MemberRoot || n.Descriptor == nil {
		return fmt.Errorf("%s: %w", n.Path, introspect.ErrReadOnly)
	}

	if err := n.introspector.Write(n.Descriptor, n.Owner, reflect.ValueOf(v)); err != nil {
		return fmt.Errorf("%s: %w", n.Path, err)
	}

	return nil
}

// Unreadable reports whether reading the member failed.
func (n *Node) Unreadable() bool {
	return n.ReadErr != nil
}

// Expanded reports whether the children of the node have been computed.
func (n *Node) Expanded() bool {
	return n.Children != nil
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Annotation returns the first annotation with the given name.
func (n *Node) Annotation(name string) (introspect.Annotation, bool) {
	return introspect.FindAnnotation(n.Annotations, name)
}

// HasAnnotation reports whether the node carries an annotation with the given name.
func (n *Node) HasAnnotation(name string) bool {
	return introspect.HasAnnotation(n.Annotations, name)
}

// MatchesName reports whether name is the member name or, for properties,
// the name of the storage cell.
func (n *Node) MatchesName(name string) bool {
	if n.Name == name {
		return true
	}

	return n.Kind == introspect.MemberProperty && n.Descriptor != nil && n.Descriptor.Cell == name
}

// Walk visits the subtree rooted at n in pre-order until fn returns false.
// It returns false when the walk was stopped.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}

	if !fn(n) {
		return false
	}

	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}

	return true
}

// String returns the node path and kind.
func (n *Node) String() string {
	return n.Path + " (" + n.Kind.String() + ")"
}

func interfaceOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	default:
	}

	if !v.CanInterface() {
		return nil
	}

	return v.Interface()
}
