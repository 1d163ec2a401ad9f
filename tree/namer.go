package tree

import (
	"fmt"
	"reflect"
)

// Namer names the root node of a tree. managed reports whether the value's
// type is engine-managed.
type Namer func(v reflect.Value, managed bool) string

// DefaultNamer names engine-managed values by their type. Other values use
// their String method when they have one and fall back to the type name when
// it panics or returns nothing.
func DefaultNamer(v reflect.Value, managed bool) string {
	if !v.IsValid() {
		return "<nil>"
	}

	name := typeName(v.Type())
	if managed || !v.CanInterface() {
		return name
	}

	s, ok := v.Interface().(fmt.Stringer)
	if !ok {
		return name
	}

	if str := safeString(s); str != "" {
		return str
	}

	return name
}

func safeString(s fmt.Stringer) (str string) {
	defer func() {
		if recover() != nil {
			str = ""
		}
	}()

	return s.String()
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

func rootPath(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() != "" {
		return t.Name()
	}

	return "root"
}
