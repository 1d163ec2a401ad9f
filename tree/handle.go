package tree

import (
	"member-tree/internal/diagnostic"
)

// Handle is an expanded tree over one root instance.
type Handle struct {
	root  *Node
	diags diagnostic.Diagnostics
}

// New builds and fully expands the member tree of instance. It returns
// ErrNilInstance when instance is nil or a nil pointer.
func New(instance any, opts ...Option) (*Handle, error) {
	b := NewBuilder(opts...)

	root, err := b.Root(instance)
	if err != nil {
		return nil, err
	}

	return &Handle{root: root, diags: b.Expand(root)}, nil
}

// Root returns the root node.
func (h *Handle) Root() *Node {
	return h.root
}

// FindByName searches the tree for a member named name.
func (h *Handle) FindByName(name string, recursive bool) *Node {
	return FindByName(h.root, name, recursive)
}

// FindAllByAnnotation returns every member carrying the annotation.
func (h *Handle) FindAllByAnnotation(annotation string, recursive bool) []Match {
	return FindAllByAnnotation(h.root, annotation, recursive)
}

// FindByPath returns the node with the given full path.
func (h *Handle) FindByPath(path string) *Node {
	return FindByPath(h.root, path)
}

// Suggest returns nodes whose names resemble name.
func (h *Handle) Suggest(name string, limit int) []*Node {
	return Suggest(h.root, name, limit)
}

// Walk visits every node in pre-order until fn returns false.
func (h *Handle) Walk(fn func(*Node) bool) {
	h.root.Walk(fn)
}

// Paths returns the paths of all nodes in pre-order.
func (h *Handle) Paths() []string {
	var paths []string

	h.root.Walk(func(n *Node) bool {
		paths = append(paths, n.Path)
		return true
	})

	return paths
}

// Diagnostics returns what the build recorded about cut and degraded members.
func (h *Handle) Diagnostics() diagnostic.Diagnostics {
	return h.diags
}
