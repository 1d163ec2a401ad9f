package introspect

import (
	"reflect"
	"strconv"
	"strings"
)

const (
	// TagKey is the struct tag whose comma-separated entries each become an annotation:
	// `tree:"exposed,range=0..100"`.
	TagKey = "tree"
	// Deprecated is the annotation name marking a member that must not be exposed.
	Deprecated = "deprecated"
)

// Annotation is a metadata tag attached to a member, queryable by its name.
type Annotation struct {
	Name  string
	Value string
}

// Is reports whether the annotation has the given name, ignoring case.
func (a Annotation) Is(name string) bool {
	return strings.EqualFold(a.Name, name)
}

// String returns "name" or "name=value".
func (a Annotation) String() string {
	if a.Value == "" {
		return a.Name
	}

	return a.Name + "=" + a.Value
}

// FindAnnotation returns the first annotation with the given name.
func FindAnnotation(anns []Annotation, name string) (Annotation, bool) {
	for _, a := range anns {
		if a.Is(name) {
			return a, true
		}
	}

	return Annotation{}, false
}

// HasAnnotation reports whether anns contains an annotation with the given name.
func HasAnnotation(anns []Annotation, name string) bool {
	_, ok := FindAnnotation(anns, name)
	return ok
}

// ParseFlags parses a comma-separated list of "name" or "name=value" entries.
func ParseFlags(s string) []Annotation {
	var out []Annotation

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, _ := strings.Cut(part, "=")
		out = append(out, Annotation{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}

	return out
}

// ParseTag converts every key:"value" pair of a struct tag into an annotation,
// in tag order. Entries of the TagKey tag are expanded with ParseFlags.
// Parsing stops at the first malformed pair, like reflect.StructTag.Lookup.
func ParseTag(tag reflect.StructTag) []Annotation {
	var out []Annotation

	for tag != "" {
		// Skip leading space.
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}

		tag = tag[i:]
		if tag == "" {
			break
		}

		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}

		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}

		name := string(tag[:i])
		tag = tag[i+1:]

		// Scan quoted string to find value.
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}

		if i >= len(tag) {
			break
		}

		qvalue := string(tag[:i+1])
		tag = tag[i+1:]

		value, err := strconv.Unquote(qvalue)
		if err != nil {
			break
		}

		if name == TagKey {
			out = append(out, ParseFlags(value)...)
			continue
		}

		out = append(out, Annotation{Name: name, Value: value})
	}

	return out
}
