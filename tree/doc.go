// Package tree builds navigable member trees over live Go values.
//
// A tree mirrors the structure of an in-process object graph. Every exported
// field, getter-backed property and method reachable from a root instance
// becomes a Node carrying its live value, its annotations and a dot-delimited
// path:
//
//	h, err := tree.New(order)
//	if err != nil {
//		return err
//	}
//	n := h.FindByName("Health", true)
//	_ = n.SetValue(50)
//
// Expansion walks embedded structs most-derived first, cuts cycles by value
// identity and stops below a configurable depth. Members that cannot be read
// stay in the tree as inert leaves and are reported through Diagnostics.
package tree
