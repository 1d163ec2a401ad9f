package introspect

import (
	"errors"
	"fmt"
	"reflect"

	"member-tree/internal/common"
)

var (
	// ErrReadOnly is returned when writing a member that has no write accessor.
	ErrReadOnly = errors.New("member is read-only")
	// ErrNotAddressable is returned when writing a field of a value that was not reached through a pointer.
	ErrNotAddressable = errors.New("member owner is not addressable")
	// ErrTypeMismatch is returned when a written value is not assignable to the member type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnreadable is returned when a member value cannot be read.
	ErrUnreadable = errors.New("member is unreadable")
)

// TypeID uniquely identifies a named type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "member-tree/store"
	Name    string // e.g., "Order"
}

// TypeIDOf returns the TypeID of t, looking through pointers.
func TypeIDOf(t reflect.Type) TypeID {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil {
		return TypeID{}
	}

	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// MemberKind tells which kind of member a node or descriptor stands for.
type MemberKind int

const (
	MemberRoot MemberKind = iota
	MemberField
	MemberProperty
	MemberMethod
)

// String returns a human-readable representation of the MemberKind.
func (k MemberKind) String() string {
	switch k {
	case MemberRoot:
		return "root"
	case MemberField:
		return "field"
	case MemberProperty:
		return "property"
	case MemberMethod:
		return "method"
	default:
		return common.UnknownStr
	}
}

// Descriptor is the handle for one member of a declaring type.
type Descriptor struct {
	Name      string            // Go member name
	Kind      MemberKind        // field, property or method
	Type      reflect.Type      // field type, property type or first method result (nil for no results)
	Declaring reflect.Type      // struct (or named) type that declares the member
	Cell      string            // storage cell field name, properties only
	Tag       reflect.StructTag // field tag; for properties, the storage cell tag
	Index     int               // field index in Declaring, -1 for methods and properties
	Setter    string            // setter method name, properties only; empty when read-only
	Method    reflect.Method    // method or property getter
}

// Segment returns the path segment of the member: the storage cell name for
// properties, the plain name otherwise.
func (d *Descriptor) Segment() string {
	if d.Kind == MemberProperty && d.Cell != "" {
		return d.Cell
	}

	return d.Name
}

// Writable reports whether the member has a write accessor.
func (d *Descriptor) Writable() bool {
	switch d.Kind {
	case MemberField:
		return true
	case MemberProperty:
		return d.Setter != ""
	default:
		return false
	}
}

// String returns "Declaring.Name".
func (d *Descriptor) String() string {
	if d.Declaring == nil {
		return d.Name
	}

	return TypeIDOf(d.Declaring).Name + "." + d.Name
}

// Level is one declaring type of an embedding chain together with the value
// holding its members.
type Level struct {
	Type  reflect.Type  // declaring type, never a pointer
	Owner reflect.Value // value of Type; addressable when reached through a pointer

	// Pointer is set for a base level reached through an embedded pointer.
	// Such levels form a live chain that may be long or cyclic.
	Pointer bool
}

// ConversionError reports a write whose value does not fit the member type.
type ConversionError struct {
	Member string
	From   reflect.Type
	To     reflect.Type
}

func (e *ConversionError) Error() string {
	from := "nil"
	if e.From != nil {
		from = e.From.String()
	}

	return fmt.Sprintf("cannot assign %s to %s of type %s", from, e.Member, e.To)
}

func (e *ConversionError) Unwrap() error {
	return ErrTypeMismatch
}

// TypeIntrospector discovers, reads and writes the members of live values.
type TypeIntrospector interface {
	// Embedded returns the base levels directly embedded in owner, in declaration order.
	Embedded(owner reflect.Value) []Level
	// MembersOf returns the members declared by the level type itself.
	MembersOf(level Level) []*Descriptor
	// Read returns the current value of the member held by owner.
	Read(d *Descriptor, owner reflect.Value) (reflect.Value, error)
	// Write stores value into the member held by owner.
	Write(d *Descriptor, owner reflect.Value, value reflect.Value) error
	// AnnotationsOf returns the annotations declared directly on the member.
	AnnotationsOf(d *Descriptor) []Annotation
	// CellAnnotations returns the annotations of the field named cell in owner, if any.
	CellAnnotations(owner reflect.Type, cell string) ([]Annotation, bool)
}
