package tree

import (
	"strings"

	"member-tree/internal/match"
	"member-tree/introspect"
)

// Match pairs a node with one of its annotations.
type Match struct {
	Node       *Node
	Annotation introspect.Annotation
}

// FindByName returns the first child of root whose name, or storage cell name
// for properties, equals name. A recursive search checks every immediate
// child before descending, then searches each child's subtree in order.
func FindByName(root *Node, name string, recursive bool) *Node {
	if root == nil {
		return nil
	}

	for _, child := range root.Children {
		if child.MatchesName(name) {
			return child
		}
	}

	if !recursive {
		return nil
	}

	for _, child := range root.Children {
		if found := FindByName(child, name, true); found != nil {
			return found
		}
	}

	return nil
}

// FindAllByAnnotation returns a Match for every annotation named annotation on
// the immediate children of root. A recursive search then appends the matches
// of each child's subtree in order.
func FindAllByAnnotation(root *Node, annotation string, recursive bool) []Match {
	var matches []Match
	if root == nil {
		return matches
	}

	for _, child := range root.Children {
		for _, ann := range child.Annotations {
			if ann.Is(annotation) {
				matches = append(matches, Match{Node: child, Annotation: ann})
			}
		}
	}

	if recursive {
		for _, child := range root.Children {
			matches = append(matches, FindAllByAnnotation(child, annotation, true)...)
		}
	}

	return matches
}

// FindByPath returns the node with the given full path, or nil.
func FindByPath(root *Node, path string) *Node {
	if root == nil {
		return nil
	}

	if root.Path == path {
		return root
	}

	for _, child := range root.Children {
		if child.Path == path || strings.HasPrefix(path, child.Path+".") {
			return FindByPath(child, path)
		}
	}

	return nil
}

// Suggest returns up to limit nodes below root whose names resemble name,
// best first. A negative limit returns all candidates.
func Suggest(root *Node, name string, limit int) []*Node {
	if root == nil {
		return nil
	}

	var (
		nodes []*Node
		names []string
	)

	root.Walk(func(n *Node) bool {
		if n != root {
			nodes = append(nodes, n)
			names = append(names, n.Name)
		}
		return true
	})

	ranked := match.RankCandidates(name, names).AboveThreshold(match.DefaultSuggestThreshold).Top(limit)

	out := make([]*Node, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, nodes[c.Index])
	}

	return out
}
