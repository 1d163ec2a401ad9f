// Package introspect is the boundary between a member tree and the live Go
// object model it mirrors.
//
// It discovers the members of a runtime type, reads and writes them, and
// collects their annotations. The default implementation, Reflector, uses the
// reflect package; other implementations (for example a generated descriptor
// table) can satisfy TypeIntrospector instead.
//
// Key types:
//   - Descriptor: one field, property or method of a declaring type
//   - Level: one declaring type of an embedding chain and the value holding it
//   - Annotation: a metadata tag attached to a member
//   - Registry: annotations for members that cannot carry struct tags
//   - ShadowNaming: maps a property to its storage cell field
//   - MetadataSource: merges a property's own and its storage cell's annotations
//
// # Go object model
//
// Exported struct fields are fields. An exported getter method Name() T (or
// Name() (T, error)) whose declaring struct has a storage cell field, named
// by the ShadowNaming strategy, is a property; a SetName(T) method makes it
// writable. Every other exported method is a method. Embedded structs are the
// base levels of the outer struct.
package introspect
