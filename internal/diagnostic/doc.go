// Package diagnostic provides structured warnings and notes recorded while a
// member tree is built.
//
// Traversal never fails on a single member; instead it records why a branch
// looks the way it does:
//   - Unreadable members degraded to inert leaves
//   - Branches cut by the cycle guard
//   - Branches cut by the depth limit
//   - Base-level members hidden by a more-derived member of the same name
//   - Levels left unexpanded because their type is opaque or engine-managed
package diagnostic
