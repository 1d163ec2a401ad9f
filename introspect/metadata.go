package introspect

import "reflect"

// MetadataSource collects the annotations of a member. For a property it
// appends the annotations of its storage cell after the property's own.
type MetadataSource struct {
	introspector TypeIntrospector
	naming       ShadowNaming
}

// NewMetadataSource creates a MetadataSource; a nil naming falls back to GetterNaming.
func NewMetadataSource(introspector TypeIntrospector, naming ShadowNaming) *MetadataSource {
	if naming == nil {
		naming = GetterNaming{}
	}

	return &MetadataSource{
		introspector: introspector,
		naming:       naming,
	}
}

// AnnotationsFor returns the direct annotations of d followed by the
// annotations of its storage cell in owner, without deduplication.
// Missing metadata yields an empty, non-nil slice.
func (m *MetadataSource) AnnotationsFor(d *Descriptor, owner reflect.Type) []Annotation {
	out := []Annotation{}
	if m == nil || m.introspector == nil || d == nil {
		return out
	}

	out = append(out, m.introspector.AnnotationsOf(d)...)

	if d.Kind != MemberProperty || owner == nil {
		return out
	}

	if cell, ok := m.introspector.CellAnnotations(owner, m.naming.CellName(d.Name)); ok {
		out = append(out, cell...)
	}

	return out
}
