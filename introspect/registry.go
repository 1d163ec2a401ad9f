package introspect

import (
	"reflect"
	"sync"
)

type memberKey struct {
	Type   TypeID
	Member string
}

// Registry holds annotations for members that cannot carry struct tags:
// methods, properties and storage cells annotated from source comments.
// Safe for concurrent registration and lookup.
type Registry struct {
	mu      sync.RWMutex
	members map[memberKey][]Annotation
}

// NewRegistry creates an empty annotation registry.
func NewRegistry() *Registry {
	return &Registry{
		members: make(map[memberKey][]Annotation),
	}
}

// Annotate appends annotations to a member of the type identified by id.
func (r *Registry) Annotate(id TypeID, member string, anns ...Annotation) {
	if len(anns) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey{Type: id, Member: member}
	r.members[key] = append(r.members[key], anns...)
}

// AnnotateType is Annotate keyed by a runtime type; pointers are looked through.
func (r *Registry) AnnotateType(t reflect.Type, member string, anns ...Annotation) {
	r.Annotate(TypeIDOf(t), member, anns...)
}

// Lookup returns a copy of the annotations registered for a member.
// A nil registry has no annotations.
func (r *Registry) Lookup(id TypeID, member string) []Annotation {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	anns := r.members[memberKey{Type: id, Member: member}]
	if len(anns) == 0 {
		return nil
	}

	return append([]Annotation(nil), anns...)
}

// Count returns the number of annotated members.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Reset clears all registered annotations.
func (r *Registry) Reset() {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = make(map[memberKey][]Annotation)
}
