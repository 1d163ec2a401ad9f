package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"member-tree/introspect"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// DirectivePrefix starts a doc comment line that declares annotations.
const DirectivePrefix = "//" + introspect.TagKey + ":"

const deprecatedPrefix = "Deprecated:"

// Analyzer loads Go packages and indexes the doc comments of their members.
type Analyzer struct {
	index *DocIndex
	dir   string
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		index: NewDocIndex(),
	}
}

// WithDir sets the directory packages are resolved from.
func (a *Analyzer) WithDir(dir string) *Analyzer {
	a.dir = dir
	return a
}

// LoadPackages loads the specified packages and indexes their member docs.
// Patterns are standard Go package patterns (e.g., "./store", "member-tree/store").
func (a *Analyzer) LoadPackages(patterns ...string) (*DocIndex, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.index, nil
}

// Index returns the current doc index.
func (a *Analyzer) Index() *DocIndex {
	return a.index
}

// processPackage indexes the members of the named struct types of a package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	structs := make(map[string]bool)
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		if _, ok := typeName.Type().Underlying().(*types.Struct); !ok {
			continue
		}

		structs[name] = true
		pkgInfo.Types = append(pkgInfo.Types, introspect.TypeID{PkgPath: pkg.PkgPath, Name: name})
	}

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				a.processTypeDecl(pkg.PkgPath, d, structs)
			case *ast.FuncDecl:
				a.processMethod(pkg.PkgPath, d, structs)
			}
		}
	}

	a.index.Packages[pkg.PkgPath] = pkgInfo
}

func (a *Analyzer) processTypeDecl(pkgPath string, decl *ast.GenDecl, structs map[string]bool) {
	for _, spec := range decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok || !structs[ts.Name.Name] {
			continue
		}

		st, ok := ts.Type.(*ast.StructType)
		if !ok || st.Fields == nil {
			continue
		}

		id := introspect.TypeID{PkgPath: pkgPath, Name: ts.Name.Name}
		for _, field := range st.Fields.List {
			deprecated, directives := ParseDoc(field.Doc)
			_, trailing := ParseDoc(field.Comment)
			directives = append(directives, trailing...)

			if deprecated == "" && len(directives) == 0 {
				continue
			}

			for _, name := range field.Names {
				a.index.add(&MemberDoc{
					Type:       id,
					Member:     name.Name,
					Kind:       MemberField,
					Deprecated: deprecated,
					Directives: append([]introspect.Annotation(nil), directives...),
				})
			}
		}
	}
}

func (a *Analyzer) processMethod(pkgPath string, decl *ast.FuncDecl, structs map[string]bool) {
	recv := receiverName(decl)
	if recv == "" || !structs[recv] || !decl.Name.IsExported() {
		return
	}

	deprecated, directives := ParseDoc(decl.Doc)
	if deprecated == "" && len(directives) == 0 {
		return
	}

	a.index.add(&MemberDoc{
		Type:       introspect.TypeID{PkgPath: pkgPath, Name: recv},
		Member:     decl.Name.Name,
		Kind:       MemberMethod,
		Deprecated: deprecated,
		Directives: directives,
	})
}

// receiverName returns the base type name of a method receiver.
func receiverName(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}

	expr := decl.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}

	switch e := expr.(type) {
	case *ast.IndexExpr:
		expr = e.X
	case *ast.IndexListExpr:
		expr = e.X
	}

	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}

	return ""
}

// ParseDoc returns the text of the "Deprecated:" paragraph of a comment group
// and the annotations of its //tree: directives.
func ParseDoc(cg *ast.CommentGroup) (string, []introspect.Annotation) {
	if cg == nil {
		return "", nil
	}

	var directives []introspect.Annotation
	for _, c := range cg.List {
		if rest, ok := strings.CutPrefix(c.Text, DirectivePrefix); ok {
			directives = append(directives, introspect.ParseFlags(rest)...)
		}
	}

	var deprecated string
	for _, para := range strings.Split(cg.Text(), "\n\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(para), deprecatedPrefix); ok {
			deprecated = strings.Join(strings.Fields(rest), " ")
			if deprecated == "" {
				deprecated = introspect.Deprecated
			}
			break
		}
	}

	return deprecated, directives
}
