// Package render prints member trees for terminals.
//
// Values are formatted without calling any method of the inspected values:
// go-spew runs with DisableMethods, and only library value types such as
// time.Time and uuid.UUID are printed through their String methods.
package render

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"member-tree/internal/common"
	"member-tree/internal/diagnostic"
	"member-tree/introspect"
	"member-tree/primitive"
	"member-tree/tree"
)

// Options configures printer behavior.
type Options struct {
	NoColor bool
	// MaxValueWidth truncates formatted values; zero keeps them whole.
	MaxValueWidth int
}

// Printer writes nodes, matches and diagnostics to a writer.
type Printer struct {
	w     io.Writer
	opts  Options
	spew  *spew.ConfigState
	title *color.Color
	kind  *color.Color
	typ   *color.Color
	ann   *color.Color
	num   *color.Color
	text  *color.Color
	time  *color.Color
	dim   *color.Color
	bad   *color.Color
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, opts *Options) *Printer {
	p := &Printer{
		w: w,
		spew: &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                2,
			DisableMethods:          true,
			DisablePointerMethods:   true,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
		title: color.New(color.Bold),
		kind:  color.New(color.FgCyan),
		typ:   color.New(color.FgHiBlack),
		ann:   color.New(color.FgBlue),
		num:   color.New(color.FgYellow),
		text:  color.New(color.FgGreen),
		time:  color.New(color.FgMagenta),
		dim:   color.New(color.FgHiBlack),
		bad:   color.New(color.FgRed),
	}

	if opts != nil {
		p.opts = *opts
	}

	if p.opts.NoColor {
		for _, c := range []*color.Color{p.title, p.kind, p.typ, p.ann, p.num, p.text, p.time, p.dim, p.bad} {
			c.DisableColor()
		}
	}

	return p
}

// Title returns the heading of a root node: its name and type.
func (p *Printer) Title(n *tree.Node) string {
	return p.title.Sprint(n.Name) + " " + p.typ.Sprint("("+TypeString(n.Type)+")")
}

// Line returns a one-line description of n: path segment, kind, type, value
// and annotations.
func (p *Printer) Line(n *tree.Node) string {
	if n.Kind == introspect.MemberRoot {
		return p.Title(n)
	}

	var b strings.Builder

	b.WriteString(p.title.Sprint(segment(n)))
	b.WriteString(" ")
	b.WriteString(p.kind.Sprint(n.Kind.String()))

	switch {
	case n.Kind == introspect.MemberMethod:
		b.WriteString(" ")
		b.WriteString(p.typ.Sprint(Signature(n.Descriptor.Method)))
	case n.Unreadable():
		b.WriteString(" ")
		b.WriteString(p.typ.Sprint(TypeString(n.Type)))
		b.WriteString(" ")
		b.WriteString(p.bad.Sprint("<unreadable: " + n.ReadErr.Error() + ">"))
	case n.Expanded():
		b.WriteString(" ")
		b.WriteString(p.typ.Sprint(TypeString(n.Type)))
	default:
		b.WriteString(" ")
		b.WriteString(p.typ.Sprint(TypeString(n.Type)))
		b.WriteString(" = ")
		b.WriteString(p.value(n))
	}

	if !common.IsEmpty(n.Annotations) {
		anns := make([]string, 0, len(n.Annotations))
		for _, a := range n.Annotations {
			anns = append(anns, a.String())
		}
		b.WriteString(" ")
		b.WriteString(p.ann.Sprint("[" + strings.Join(anns, ", ") + "]"))
	}

	return b.String()
}

// Tree writes the subtree rooted at n with box-drawing connectors.
func (p *Printer) Tree(n *tree.Node) {
	fmt.Fprintln(p.w, p.Line(n))
	p.children(n, "")
}

func (p *Printer) children(n *tree.Node, indent string) {
	for i, child := range n.Children {
		connector, next := "├── ", "│   "
		if i == len(n.Children)-1 {
			connector, next = "└── ", "    "
		}

		fmt.Fprintln(p.w, indent+p.dim.Sprint(connector)+p.Line(child))
		p.children(child, indent+next)
	}
}

// Paths writes one full path per line.
func (p *Printer) Paths(paths []string) {
	for _, path := range paths {
		fmt.Fprintln(p.w, path)
	}
}

// Node writes the full path of n followed by its line.
func (p *Printer) Node(n *tree.Node) {
	fmt.Fprintln(p.w, p.title.Sprint(n.Path))
	fmt.Fprintln(p.w, "  "+p.Line(n))

	if decl := Declaring(n); decl != "" {
		fmt.Fprintln(p.w, "  "+p.dim.Sprint("declared by "+decl))
	}
}

// Matches writes one line per annotation match.
func (p *Printer) Matches(matches []tree.Match) {
	for _, m := range matches {
		fmt.Fprintf(p.w, "%s %s = %s\n", p.title.Sprint(m.Node.Path), p.ann.Sprint(m.Annotation.String()), p.value(m.Node))
	}
}

// Diagnostics writes warnings followed by infos.
func (p *Printer) Diagnostics(diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		c := p.dim
		if d.Severity == diagnostic.DiagnosticWarning {
			c = p.bad
		}
		fmt.Fprintln(p.w, c.Sprint(d.Severity.String()+": ")+d.String())
	}
}

// Value returns the formatted value of n without colors.
func Value(n *tree.Node) string {
	return NewPrinter(io.Discard, &Options{NoColor: true}).value(n)
}

func (p *Printer) value(n *tree.Node) string {
	switch {
	case n.Unreadable():
		return p.bad.Sprint("<unreadable>")
	case n.Kind == introspect.MemberMethod:
		return p.typ.Sprint(Signature(n.Descriptor.Method))
	case n.Value == nil:
		return p.dim.Sprint("<nil>")
	}

	rv := reflect.ValueOf(n.Value)
	kind := primitive.FromReflectType(rv.Type())

	var s string
	switch {
	case rv.Kind() == reflect.String:
		s = strconv.Quote(rv.String())
	case kind.IsTemporal() || kind == primitive.KindUUID || kind == primitive.KindBigInt ||
		kind == primitive.KindBigFloat || kind == primitive.KindBigRat:
		s = fmt.Sprint(n.Value)
	default:
		s = p.spew.Sprintf("%v", n.Value)
	}

	if w := p.opts.MaxValueWidth; w > 0 && len(s) > w {
		s = s[:w] + "…"
	}

	switch {
	case kind.IsNumber():
		return p.num.Sprint(s)
	case kind.IsText():
		return p.text.Sprint(s)
	case kind.IsTemporal():
		return p.time.Sprint(s)
	default:
		return s
	}
}

func segment(n *tree.Node) string {
	if n.Descriptor != nil {
		return n.Descriptor.Segment()
	}
	return n.Name
}

// TypeString returns the Go spelling of t, or "-" when t is nil.
func TypeString(t reflect.Type) string {
	if t == nil {
		return "-"
	}
	return t.String()
}

// Signature returns the signature of m without its receiver.
func Signature(m reflect.Method) string {
	ft := m.Type
	if ft == nil {
		return "func()"
	}

	in := make([]string, 0, ft.NumIn())
	for i := 1; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i).String())
	}

	out := make([]string, 0, ft.NumOut())
	for i := range ft.NumOut() {
		out = append(out, ft.Out(i).String())
	}

	sig := "func(" + strings.Join(in, ", ") + ")"
	switch len(out) {
	case 0:
		return sig
	case 1:
		return sig + " " + out[0]
	default:
		return sig + " (" + strings.Join(out, ", ") + ")"
	}
}

// Declaring returns "pkg.Type" for the type declaring the member of n.
func Declaring(n *tree.Node) string {
	if n.Descriptor == nil || n.Descriptor.Declaring == nil {
		return ""
	}

	t := n.Descriptor.Declaring
	if alias := common.PkgAlias(t.PkgPath()); alias != "" {
		return alias + "." + t.Name()
	}
	return t.Name()
}
