package analyze

import (
	"sort"

	"member-tree/internal/common"
	"member-tree/introspect"
)

// MemberKind tells whether a doc comment belongs to a field or a method.
type MemberKind int

const (
	MemberUnknown MemberKind = iota
	MemberField
	MemberMethod
)

// String returns a human-readable representation of the MemberKind.
func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberMethod:
		return "method"
	default:
		return common.UnknownStr
	}
}

// MemberDoc describes the annotations declared in the doc comment of one member.
type MemberDoc struct {
	Type       introspect.TypeID       // declaring type
	Member     string                  // field or method name
	Kind       MemberKind              // field or method
	Deprecated string                  // text of the "Deprecated:" paragraph, without the prefix
	Directives []introspect.Annotation // entries of //tree: directives
}

// IsDeprecated reports whether the member doc carries a deprecation notice.
func (m *MemberDoc) IsDeprecated() bool {
	return m.Deprecated != ""
}

// Annotations returns the directive annotations followed by the deprecated annotation.
func (m *MemberDoc) Annotations() []introspect.Annotation {
	out := append([]introspect.Annotation(nil), m.Directives...)
	if m.IsDeprecated() {
		out = append(out, introspect.Annotation{Name: introspect.Deprecated, Value: m.Deprecated})
	}
	return out
}

type memberKey struct {
	Type   introspect.TypeID
	Member string
}

// DocIndex holds the annotated member docs of all loaded packages.
type DocIndex struct {
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo

	members map[memberKey]*MemberDoc
}

// NewDocIndex creates a new empty DocIndex.
func NewDocIndex() *DocIndex {
	return &DocIndex{
		Packages: make(map[string]*PackageInfo),
		members:  make(map[memberKey]*MemberDoc),
	}
}

// Get returns the doc of a member, or nil if it carries no annotations.
func (d *DocIndex) Get(id introspect.TypeID, member string) *MemberDoc {
	return d.members[memberKey{Type: id, Member: member}]
}

// Members returns all member docs sorted by type and member name.
func (d *DocIndex) Members() []*MemberDoc {
	out := make([]*MemberDoc, 0, len(d.members))
	for _, m := range d.members {
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type.String() < out[j].Type.String()
		}
		return out[i].Member < out[j].Member
	})

	return out
}

// Register adds the annotations of every member doc to reg and returns the
// number of members registered.
func (d *DocIndex) Register(reg *introspect.Registry) int {
	var n int

	for _, m := range d.Members() {
		if anns := m.Annotations(); len(anns) > 0 {
			reg.Annotate(m.Type, m.Member, anns...)
			n++
		}
	}

	return n
}

func (d *DocIndex) add(m *MemberDoc) {
	key := memberKey{Type: m.Type, Member: m.Member}
	if prev, ok := d.members[key]; ok {
		prev.Directives = append(prev.Directives, m.Directives...)
		if prev.Deprecated == "" {
			prev.Deprecated = m.Deprecated
		}
		return
	}

	d.members[key] = m
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string              // Import path
	Name  string              // Package name
	Types []introspect.TypeID // Named struct types defined in this package
}
