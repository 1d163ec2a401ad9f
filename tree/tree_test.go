package tree_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"member-tree/internal/diagnostic"
	"member-tree/introspect"
	"member-tree/options"
	"member-tree/tree"
)

func build(t *testing.T, instance any, opts ...tree.Option) *tree.Handle {
	t.Helper()

	h, err := tree.New(instance, opts...)
	require.NoError(t, err)
	require.NotNil(t, h.Root())

	return h
}

func TestNew_NilInstance(t *testing.T) {
	_, err := tree.New(nil)
	assert.ErrorIs(t, err, tree.ErrNilInstance)

	_, err = tree.New((*Player)(nil))
	assert.ErrorIs(t, err, tree.ErrNilInstance)
}

func TestNew_Root(t *testing.T) {
	p := newPlayer()
	root := build(t, p).Root()

	assert.Equal(t, "Player", root.Name)
	assert.Equal(t, "Player", root.Path)
	assert.Equal(t, introspect.MemberRoot, root.Kind)
	assert.Same(t, p, root.Value)
	assert.NotNil(t, root.Annotations)
	assert.Nil(t, root.Descriptor)
	assert.True(t, root.Expanded())
}

func TestNew_UnnamedRoot(t *testing.T) {
	root := build(t, &struct{ X int }{X: 1}).Root()

	assert.Equal(t, "root", root.Path)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "root.X", root.Children[0].Path)
	assert.Equal(t, 1, root.Children[0].Value)
}

func TestNew_OpaqueRoot(t *testing.T) {
	root := build(t, time.Second).Root()

	assert.True(t, root.Expanded())
	assert.Empty(t, root.Children)
}

func TestCycleSafety(t *testing.T) {
	self := &Link{Name: "loop"}
	self.Next = self

	h := build(t, self)
	next := h.FindByName("Next", false)
	require.NotNil(t, next)
	assert.Same(t, self, next.Value)
	assert.False(t, next.Expanded(), "second visit of the same value is cut")
	assert.Len(t, h.Diagnostics().ByCode(diagnostic.CodeCycle), 1)

	p := newPlayer()
	h = build(t, p)
	owner := h.FindByPath("Player.Pet.Owner")
	require.NotNil(t, owner)
	assert.Same(t, p, owner.Value)
	assert.False(t, owner.Expanded())
}

func TestCycleSafety_EmbeddedSelf(t *testing.T) {
	r := &Ring{Value: 1}
	r.Ring = r

	h := build(t, r)
	root := h.Root()
	require.Len(t, root.Children, 1)
	assert.Equal(t, "Ring.Value", root.Children[0].Path)
	assert.Equal(t, 1, root.Children[0].Value)

	cycles := h.Diagnostics().ByCode(diagnostic.CodeCycle)
	require.Len(t, cycles, 1)
	assert.Equal(t, "Ring", cycles[0].NodePath)
	assert.Equal(t, "embedded level already visited", cycles[0].Message)
}

func TestDepthBound_EmbeddedChain(t *testing.T) {
	h := build(t, ring(50), tree.WithMaxDepth(2))

	assert.Equal(t, []string{"Ring", "Ring.Value"}, h.Paths())
	assert.Len(t, h.Diagnostics().ByCode(diagnostic.CodeShadowed), 2, "two base levels walked")
	assert.Len(t, h.Diagnostics().ByCode(diagnostic.CodeDepthLimit), 1)
}

func TestZeroSizeValuesAreNotCycles(t *testing.T) {
	h := build(t, &Flags{A: &Marker{}, B: &Marker{}})

	for _, path := range []string{"Flags.A.Ping", "Flags.B.Ping"} {
		n := h.FindByPath(path)
		require.NotNil(t, n, path)
		assert.Equal(t, introspect.MemberMethod, n.Kind)
	}
	assert.Empty(t, h.Diagnostics().ByCode(diagnostic.CodeCycle))
}

func TestDepthBound(t *testing.T) {
	h := build(t, chain(20), tree.WithMaxDepth(2))

	for _, path := range []string{"Link", "Link.Next", "Link.Next.Next"} {
		n := h.FindByPath(path)
		require.NotNil(t, n, path)
		assert.True(t, n.Expanded(), path)
	}

	deepest := h.FindByPath("Link.Next.Next.Next")
	require.NotNil(t, deepest)
	assert.False(t, deepest.Expanded())
	assert.Nil(t, h.FindByPath("Link.Next.Next.Next.Name"))
	assert.Len(t, h.Diagnostics().ByCode(diagnostic.CodeDepthLimit), 1)

	h = build(t, chain(3), tree.WithMaxDepth(0))
	assert.True(t, h.Root().Expanded())
	assert.False(t, h.FindByName("Next", false).Expanded())
}

func TestDefaultDepth(t *testing.T) {
	h := build(t, chain(30))

	var deepest int
	h.Walk(func(n *tree.Node) bool {
		if n.Expanded() {
			deepest = max(deepest, len(n.Path))
		}
		return true
	})

	expanded := h.FindByPath("Link" + repeat(".Next", tree.DefaultMaxDepth))
	require.NotNil(t, expanded)
	assert.True(t, expanded.Expanded())

	cut := h.FindByPath("Link" + repeat(".Next", tree.DefaultMaxDepth+1))
	require.NotNil(t, cut)
	assert.False(t, cut.Expanded())
	assert.Equal(t, len(expanded.Path), deepest)
}

func repeat(s string, n int) string {
	out := ""
	for range n {
		out += s
	}
	return out
}

func TestOpaqueLeaves(t *testing.T) {
	type record struct {
		Count   int
		Label   string
		When    time.Time
		Tags    []string
		Index   map[string]int
		Nothing *Link
		Any     any
	}

	h := build(t, &record{Count: 2, Label: "x", Tags: []string{"a"}, Any: 3})

	require.Len(t, h.Root().Children, 7)
	for _, n := range h.Root().Children {
		assert.False(t, n.Expanded(), n.Path)
	}

	assert.Equal(t, 2, h.FindByName("Count", false).Value)
	assert.Equal(t, []string{"a"}, h.FindByName("Tags", false).Value)
	assert.Nil(t, h.FindByName("Index", false).Value)
	assert.Nil(t, h.FindByName("Nothing", false).Value)
}

func TestInterfaceFieldUsesDynamicType(t *testing.T) {
	type holder struct{ Item any }

	h := build(t, &holder{Item: &Pet{Name: "Rex"}})
	item := h.FindByName("Item", false)
	require.NotNil(t, item)
	assert.True(t, item.Expanded())
	assert.NotNil(t, tree.FindByName(item, "Name", false))
}

func TestPathUniqueness(t *testing.T) {
	for _, instance := range []any{newPlayer(), &Derived{}, chain(5)} {
		h := build(t, instance)

		seen := make(map[string]bool)
		for _, path := range h.Paths() {
			assert.False(t, seen[path], "duplicate path %s", path)
			seen[path] = true
		}
	}
}

func TestShadowedBaseMembers(t *testing.T) {
	d := &Derived{Base: Base{Name: "base", Score: 7}, Name: "derived"}
	h := build(t, d)

	var paths []string
	for _, n := range h.Root().Children {
		paths = append(paths, n.Path)
	}

	assert.Equal(t, []string{"Derived.Name", "Derived.Describe", "Derived.Score"}, paths)
	assert.Equal(t, "derived", h.FindByName("Name", false).Value)
	assert.Len(t, h.Diagnostics().ByCode(diagnostic.CodeShadowed), 2)
}

func TestOrderStability(t *testing.T) {
	first := build(t, newPlayer()).Paths()
	second := build(t, newPlayer()).Paths()

	assert.Equal(t, first, second)
}

func TestAnnotationMerge(t *testing.T) {
	reg := introspect.NewRegistry()
	reg.AnnotateType(reflect.TypeOf(Player{}), "Health", introspect.Annotation{Name: "audited"})

	h := build(t, newPlayer(), tree.WithRegistry(reg))
	health := h.FindByName("Health", false)
	require.NotNil(t, health)

	assert.Equal(t, []introspect.Annotation{
		{Name: "audited"},
		{Name: "range", Value: "0..100"},
	}, health.Annotations)

	ann, ok := health.Annotation("range")
	require.True(t, ok)
	assert.Equal(t, "0..100", ann.Value)
	assert.True(t, health.HasAnnotation("Audited"))
}

func TestRegistryDeprecation(t *testing.T) {
	reg := introspect.NewRegistry()
	reg.AnnotateType(reflect.TypeOf(Player{}), "Name", introspect.Annotation{Name: introspect.Deprecated})

	h := build(t, newPlayer(), tree.WithRegistry(reg))
	assert.Nil(t, h.FindByPath("Player.Name"))
	assert.NotNil(t, h.FindByPath("Player.Pet.Name"))
}

func TestReadFailureContainment(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	h := build(t, &Gauge{Label: "pressure"}, tree.WithLogger(zap.New(core)))
	require.Len(t, h.Root().Children, 2)

	label := h.FindByName("Label", false)
	assert.Equal(t, "pressure", label.Value)
	assert.False(t, label.Unreadable())

	reading := h.FindByName("Reading", false)
	require.NotNil(t, reading)
	assert.Equal(t, "Gauge.reading", reading.Path)
	assert.True(t, reading.Unreadable())
	assert.ErrorIs(t, reading.ReadErr, introspect.ErrUnreadable)
	assert.Same(t, reading.Descriptor, reading.Value)
	assert.False(t, reading.Expanded())

	_, err := reading.GetValue()
	assert.ErrorIs(t, err, introspect.ErrUnreadable)

	assert.True(t, h.Diagnostics().HasWarnings())
	assert.Equal(t, 1, logs.FilterMessage("member unreadable").Len())
}

func TestFindByName(t *testing.T) {
	h := build(t, newPlayer())

	health := h.FindByName("Health", false)
	require.NotNil(t, health)
	assert.Equal(t, introspect.MemberProperty, health.Kind)
	assert.Equal(t, 90, health.Value)
	assert.Same(t, health, h.FindByName("health", false), "storage cell name matches the property")

	assert.Equal(t, "Player.Name", h.FindByName("Name", true).Path, "immediate children win")
	assert.Nil(t, h.FindByName("Missing", true))
	assert.Nil(t, h.FindByName("Owner", false))
	assert.Equal(t, "Player.Pet.Owner", h.FindByName("Owner", true).Path)

	team := build(t, &Team{Captain: newPlayer()})
	assert.Equal(t, "Team.Captain.Name", team.FindByName("Name", true).Path)
	assert.Nil(t, team.FindByName("Name", false))
	assert.Nil(t, tree.FindByName(nil, "Name", true))
}

func TestFindAllByAnnotation(t *testing.T) {
	h := build(t, newPlayer())

	paths := func(ms []tree.Match) []string {
		var out []string
		for _, m := range ms {
			out = append(out, m.Node.Path)
			assert.True(t, m.Annotation.Is("exposed"))
		}
		return out
	}

	assert.Equal(t, []string{"Player.Name", "Player.Level"}, paths(h.FindAllByAnnotation("exposed", false)))
	assert.Equal(t, []string{"Player.Name", "Player.Level", "Player.Pet.Name"},
		paths(h.FindAllByAnnotation("exposed", true)))
	assert.Empty(t, h.FindAllByAnnotation("missing", true))
	assert.Empty(t, tree.FindAllByAnnotation(nil, "exposed", true))
}

func TestFindByPath(t *testing.T) {
	h := build(t, newPlayer())

	assert.Same(t, h.Root(), h.FindByPath("Player"))
	assert.Equal(t, "Rex", h.FindByPath("Player.Pet.Name").Value)
	assert.Equal(t, 120, h.FindByPath("Player.xp").Value)
	assert.Nil(t, h.FindByPath("Player.Nope"))
	assert.Nil(t, h.FindByPath("Other.Name"))
}

func TestSuggest(t *testing.T) {
	h := build(t, newPlayer())

	got := h.Suggest("Helth", 3)
	require.Len(t, got, 1)
	assert.Equal(t, "Player.health", got[0].Path)
	assert.Empty(t, h.Suggest("zzzzzz", 3))
}

func TestSetValue(t *testing.T) {
	p := newPlayer()
	h := build(t, p)

	health := h.FindByName("Health", false)
	require.NoError(t, health.SetValue(50))
	assert.Equal(t, 50, p.Health())
	assert.Equal(t, 90, health.Value, "node keeps the value read at construction")

	v, err := health.GetValue()
	require.NoError(t, err)
	assert.Equal(t, 50, v)

	err = health.SetValue("full")
	assert.ErrorIs(t, err, introspect.ErrTypeMismatch)
	var convErr *introspect.ConversionError
	assert.True(t, errors.As(err, &convErr))

	name := h.FindByName("Name", false)
	require.NoError(t, name.SetValue("Grace"))
	assert.Equal(t, "Grace", p.Name)

	pet := h.FindByName("Pet", false)
	require.NoError(t, pet.SetValue(nil))
	assert.Nil(t, p.Pet)

	assert.ErrorIs(t, h.FindByName("XP", true).SetValue(1), introspect.ErrReadOnly)
	assert.ErrorIs(t, h.FindByName("Heal", false).SetValue(1), introspect.ErrReadOnly)
	assert.ErrorIs(t, h.Root().SetValue(&Player{}), introspect.ErrReadOnly)
}

func TestMethodNodes(t *testing.T) {
	p := newPlayer()
	h := build(t, p)

	heal := h.FindByName("Heal", false)
	require.NotNil(t, heal)
	assert.Equal(t, introspect.MemberMethod, heal.Kind)
	assert.Same(t, heal.Descriptor, heal.Value)
	assert.False(t, heal.Expanded())
	assert.Equal(t, 90, p.health, "methods are never invoked")

	v, err := heal.GetValue()
	require.NoError(t, err)
	assert.Same(t, heal.Descriptor, v)
}

func TestRootByValue(t *testing.T) {
	h := build(t, Link{Name: "copy"})

	name := h.FindByName("Name", false)
	require.NotNil(t, name)
	assert.Equal(t, "copy", name.Value)
	assert.ErrorIs(t, name.SetValue("changed"), introspect.ErrNotAddressable)
}

func TestOpaqueTypeOptions(t *testing.T) {
	h := build(t, newPlayer(), tree.WithOpaqueTypes(Pet{}))
	pet := h.FindByName("Pet", false)
	require.NotNil(t, pet)
	assert.False(t, pet.Expanded())

	h = build(t, newPlayer(), tree.WithTraversal(options.Traversal{
		MaxDepth:    5,
		OpaqueTypes: options.StringArray{"member-tree/tree_test.Pet"},
	}))
	assert.False(t, h.FindByName("Pet", false).Expanded())
}

func TestManagedTypes(t *testing.T) {
	type guarded struct {
		Log *zap.Logger
		Pet *Pet
	}

	g := &guarded{Log: zap.NewNop(), Pet: &Pet{Name: "Rex"}}

	h := build(t, g)
	assert.False(t, h.FindByName("Log", false).Expanded())
	assert.True(t, h.FindByName("Pet", false).Expanded())

	h = build(t, g, tree.WithManagedPackages("member-tree/tree_test"))
	assert.True(t, h.Root().Expanded())
	assert.Empty(t, h.Root().Children, "a managed root level exposes nothing")

	h = build(t, g, tree.IncludeManaged(true), tree.WithMaxDepth(1))
	assert.True(t, h.FindByName("Log", false).Expanded())
}

func TestNamer(t *testing.T) {
	assert.Equal(t, "Loud", tree.DefaultNamer(reflect.ValueOf(&Loud{}), false))
	assert.Equal(t, "named x", tree.DefaultNamer(reflect.ValueOf(Named{Label: "x"}), false))
	assert.Equal(t, "Named", tree.DefaultNamer(reflect.ValueOf(Named{Label: "x"}), true))
	assert.Equal(t, "<nil>", tree.DefaultNamer(reflect.Value{}, false))

	h := build(t, &Loud{Name: "quiet"})
	assert.Equal(t, "Loud", h.Root().Name)

	h = build(t, &Named{Label: "x"}, tree.WithNamer(func(reflect.Value, bool) string { return "custom" }))
	assert.Equal(t, "custom", h.Root().Name)
	assert.Equal(t, "Named", h.Root().Path)
}

func TestNodeWalkStops(t *testing.T) {
	h := build(t, newPlayer())

	var visited []string
	h.Walk(func(n *tree.Node) bool {
		visited = append(visited, n.Path)
		return len(visited) < 3
	})

	assert.Equal(t, []string{"Player", "Player.Name", "Player.Pet"}, visited)
}

func TestBuilder_Reuse(t *testing.T) {
	b := tree.NewBuilder(tree.WithMaxDepth(1))
	assert.Equal(t, 1, b.MaxDepth())

	p := newPlayer()
	for range 2 {
		root, err := b.Root(p)
		require.NoError(t, err)

		diags := b.Expand(root)
		assert.Len(t, diags.ByCode(diagnostic.CodeCycle), 1, "each expansion starts with an empty visited set")
		assert.True(t, tree.FindByName(root, "Pet", false).Expanded())
	}
}
