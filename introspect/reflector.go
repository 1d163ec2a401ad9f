package introspect

import (
	"fmt"
	"reflect"
	"runtime"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Reflector is the reflection-based TypeIntrospector.
type Reflector struct {
	registry *Registry
	naming   ShadowNaming
}

// NewReflector creates a Reflector. A nil registry means members carry only
// their struct tags; a nil naming falls back to GetterNaming.
func NewReflector(registry *Registry, naming ShadowNaming) *Reflector {
	if naming == nil {
		naming = GetterNaming{}
	}

	return &Reflector{
		registry: registry,
		naming:   naming,
	}
}

// Naming returns the shadow naming strategy used to detect properties.
func (r *Reflector) Naming() ShadowNaming {
	return r.naming
}

// Indirect follows pointers and interfaces down to the value they hold.
// It returns the zero Value when a nil is met on the way.
func Indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

// Embedded returns the exported, non-nil structs embedded directly in owner.
// Unexported embedded structs are skipped: their members cannot be read
// through reflection.
func (r *Reflector) Embedded(owner reflect.Value) []Level {
	owner = Indirect(owner)
	if !owner.IsValid() || owner.Kind() != reflect.Struct {
		return nil
	}

	t := owner.Type()

	var levels []Level
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous || !f.IsExported() {
			continue
		}

		v := Indirect(owner.Field(i))
		if !v.IsValid() || v.Kind() != reflect.Struct {
			continue
		}

		levels = append(levels, Level{Type: v.Type(), Owner: v, Pointer: f.Type.Kind() == reflect.Pointer})
	}

	return levels
}

// MembersOf returns the fields of the level in declaration order followed by
// its properties and methods in method set order (sorted by name). Methods
// promoted from embedded types are left to the level that declares them.
func (r *Reflector) MembersOf(level Level) []*Descriptor {
	t := level.Type
	if t == nil {
		return nil
	}

	var out []*Descriptor

	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			f := t.Field(i)
			if f.Anonymous || !f.IsExported() {
				continue
			}

			out = append(out, &Descriptor{
				Name:      f.Name,
				Kind:      MemberField,
				Type:      f.Type,
				Declaring: t,
				Tag:       f.Tag,
				Index:     i,
			})
		}
	}

	mt := t
	if level.Owner.CanAddr() {
		mt = reflect.PointerTo(t)
	}

	promoted := promotedNames(t)
	setters := make(map[string]struct{})

	var methods []*Descriptor
	for i := range mt.NumMethod() {
		m := mt.Method(i)
		if _, ok := promoted[m.Name]; ok && !declares(t, m) {
			continue
		}

		if d, ok := r.property(t, mt, m); ok {
			if d.Setter != "" {
				setters[d.Setter] = struct{}{}
			}

			methods = append(methods, d)
			continue
		}

		var result reflect.Type
		if m.Type.NumOut() > 0 {
			result = m.Type.Out(0)
		}

		methods = append(methods, &Descriptor{
			Name:      m.Name,
			Kind:      MemberMethod,
			Type:      result,
			Declaring: t,
			Index:     -1,
			Method:    m,
		})
	}

	for _, d := range methods {
		if _, ok := setters[d.Name]; ok && d.Kind == MemberMethod {
			continue
		}

		out = append(out, d)
	}

	return out
}

// property recognizes a getter backed by a storage cell declared on t.
func (r *Reflector) property(t, mt reflect.Type, m reflect.Method) (*Descriptor, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}

	ft := m.Type
	if ft.NumIn() != 1 || ft.NumOut() == 0 || ft.NumOut() > 2 {
		return nil, false
	}

	if ft.NumOut() == 2 && ft.Out(1) != errorType {
		return nil, false
	}

	cell, ok := directField(t, r.naming.CellName(m.Name))
	if !ok || !r.naming.IsCell(cell) {
		return nil, false
	}

	d := &Descriptor{
		Name:      m.Name,
		Kind:      MemberProperty,
		Type:      ft.Out(0),
		Declaring: t,
		Cell:      cell.Name,
		Tag:       cell.Tag,
		Index:     -1,
		Method:    m,
	}

	if s, ok := mt.MethodByName("Set" + m.Name); ok && isSetter(s.Type, d.Type) {
		d.Setter = s.Name
	}

	return d, true
}

func isSetter(ft, value reflect.Type) bool {
	if ft.NumIn() != 2 || !value.AssignableTo(ft.In(1)) {
		return false
	}

	switch ft.NumOut() {
	case 0:
		return true
	case 1:
		return ft.Out(0) == errorType
	default:
		return false
	}
}

func directField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name == name && !f.Anonymous {
			return f, true
		}
	}

	return reflect.StructField{}, false
}

// promotedNames collects the method names provided by the types embedded in t.
func promotedNames(t reflect.Type) map[string]struct{} {
	names := make(map[string]struct{})
	if t.Kind() != reflect.Struct {
		return names
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		ft := f.Type
		if ft.Kind() != reflect.Pointer && ft.Kind() != reflect.Interface {
			ft = reflect.PointerTo(ft)
		}

		for j := range ft.NumMethod() {
			names[ft.Method(j).Name] = struct{}{}
		}
	}

	return names
}

// declares reports whether t itself declares m rather than inheriting a
// compiler-generated promotion wrapper from an embedded type.
func declares(t reflect.Type, m reflect.Method) bool {
	if !isWrapper(m) {
		return true
	}

	// value receiver methods reached through the pointer method set are wrappers too
	if vm, ok := t.MethodByName(m.Name); ok && !isWrapper(vm) {
		return true
	}

	return false
}

func isWrapper(m reflect.Method) bool {
	if !m.Func.IsValid() {
		return false
	}

	fn := runtime.FuncForPC(m.Func.Pointer())
	if fn == nil {
		return false
	}

	file, _ := fn.FileLine(fn.Entry())
	return file == "<autogenerated>"
}

func receiver(owner reflect.Value) reflect.Value {
	if owner.CanAddr() {
		return owner.Addr()
	}

	return owner
}

// Read returns the current member value. Getter panics and getter errors are
// reported as ErrUnreadable; a method reads as its own descriptor.
func (r *Reflector) Read(d *Descriptor, owner reflect.Value) (v reflect.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			v, err = reflect.Value{}, fmt.Errorf("%w: %s: %v", ErrUnreadable, d, p)
		}
	}()

	if !owner.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s: no owner", ErrUnreadable, d)
	}

	switch d.Kind {
	case MemberField:
		f := owner.Field(d.Index)
		if !f.CanInterface() {
			return reflect.Value{}, fmt.Errorf("%w: %s: not exported", ErrUnreadable, d)
		}

		return f, nil

	case MemberProperty:
		getter := receiver(owner).MethodByName(d.Method.Name)
		if !getter.IsValid() {
			return reflect.Value{}, fmt.Errorf("%w: %s: getter not in method set", ErrUnreadable, d)
		}

		out := getter.Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: %s: %w", ErrUnreadable, d, out[1].Interface().(error))
		}

		return out[0], nil

	case MemberMethod:
		return reflect.ValueOf(d), nil

	default:
		return reflect.Value{}, fmt.Errorf("%w: %s: unsupported member kind %s", ErrUnreadable, d, d.Kind)
	}
}

// Write stores value into a field or passes it to a property setter. The
// value must be assignable to the member type; no conversion is attempted.
func (r *Reflector) Write(d *Descriptor, owner reflect.Value, value reflect.Value) (err error) {
	if !d.Writable() {
		return fmt.Errorf("%s: %w", d, ErrReadOnly)
	}

	if !owner.IsValid() {
		return fmt.Errorf("%s: %w", d, ErrNotAddressable)
	}

	switch d.Kind {
	case MemberField:
		f := owner.Field(d.Index)
		if !f.CanSet() {
			return fmt.Errorf("%s: %w", d, ErrNotAddressable)
		}

		v, convErr := assignable(d, value, f.Type())
		if convErr != nil {
			return convErr
		}

		f.Set(v)
		return nil

	default:
		setter := receiver(owner).MethodByName(d.Setter)
		if !setter.IsValid() {
			return fmt.Errorf("%s: %w", d, ErrNotAddressable)
		}

		v, convErr := assignable(d, value, setter.Type().In(0))
		if convErr != nil {
			return convErr
		}

		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%s: setter panicked: %v", d, p)
			}
		}()

		out := setter.Call([]reflect.Value{v})
		if len(out) == 1 && !out[0].IsNil() {
			return out[0].Interface().(error)
		}

		return nil
	}
}

func assignable(d *Descriptor, value reflect.Value, to reflect.Type) (reflect.Value, error) {
	if !value.IsValid() {
		switch to.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(to), nil
		default:
			return reflect.Value{}, &ConversionError{Member: d.String(), To: to}
		}
	}

	if !value.Type().AssignableTo(to) {
		return reflect.Value{}, &ConversionError{Member: d.String(), From: value.Type(), To: to}
	}

	return value, nil
}

// AnnotationsOf returns the struct tag annotations of a field followed by the
// registry annotations of the member. Properties and methods have registry
// annotations only; a property's storage cell is merged by MetadataSource.
func (r *Reflector) AnnotationsOf(d *Descriptor) []Annotation {
	if d == nil {
		return nil
	}

	var out []Annotation
	if d.Kind == MemberField {
		out = append(out, ParseTag(d.Tag)...)
	}

	return append(out, r.registry.Lookup(TypeIDOf(d.Declaring), d.Name)...)
}

// CellAnnotations returns the tag and registry annotations of the field
// named cell declared directly on owner.
func (r *Reflector) CellAnnotations(owner reflect.Type, cell string) ([]Annotation, bool) {
	for owner != nil && owner.Kind() == reflect.Pointer {
		owner = owner.Elem()
	}

	if owner == nil || owner.Kind() != reflect.Struct {
		return nil, false
	}

	f, ok := directField(owner, cell)
	if !ok {
		return nil, false
	}

	out := ParseTag(f.Tag)
	return append(out, r.registry.Lookup(TypeIDOf(owner), cell)...), true
}
