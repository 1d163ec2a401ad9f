// Package analyze provides package loading and doc comment extraction.
//
// It uses golang.org/x/tools/go/packages to read the doc comments of struct
// fields and methods and turns two conventions into member annotations:
//   - a "Deprecated:" paragraph becomes the deprecated annotation
//   - a //tree:name[=value][,name...] directive adds one annotation per entry
//
// Key types:
//   - MemberDoc: the annotations found on one field or method
//   - DocIndex: all member docs of the loaded packages, keyed by TypeID
package analyze
