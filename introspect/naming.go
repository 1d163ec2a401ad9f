package introspect

import (
	"reflect"
	"unicode"
)

// ShadowNaming maps a property to the storage cell field backing it.
type ShadowNaming interface {
	// CellName returns the storage cell field name for a property name.
	CellName(property string) string
	// IsCell reports whether a struct field is a storage cell, reachable only
	// through its owning property.
	IsCell(field reflect.StructField) bool
}

// GetterNaming is the Go getter convention: property Name() is backed by the
// unexported field name, ID() by id and HTTPServer() by httpServer.
type GetterNaming struct{}

func (GetterNaming) CellName(property string) string {
	r := []rune(property)

	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}

	// keep the last capital of an initialism that starts the next word
	if n > 1 && n < len(r) {
		n--
	}

	for i := range n {
		r[i] = unicode.ToLower(r[i])
	}

	return string(r)
}

func (GetterNaming) IsCell(field reflect.StructField) bool {
	return !field.IsExported()
}
