package cli

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"member-tree/internal/render"
	"member-tree/options"
	"member-tree/tree"
	"member-tree/utils"
)

func (a *app) newDumpCommand() *cobra.Command {
	var diagnostics bool

	cmd := &cobra.Command{
		Use:   "dump [path]",
		Short: "Print the member tree",
		Long:  "Print the member tree of the sample graph, or the subtree at the given path.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.build()
			if err != nil {
				return err
			}

			node := h.Root()
			if len(args) == 1 {
				if node, err = lookupPath(h, args[0]); err != nil {
					return err
				}
			}

			p := a.printer(cmd.OutOrStdout())
			p.Tree(node)

			if diagnostics {
				p.Diagnostics(h.Diagnostics())
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "print cut and degraded members")

	return cmd
}

func (a *app) newFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <name>",
		Short: "Find a member by name",
		Long:  "Find the first member whose name, or storage cell name for properties, matches.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.build()
			if err != nil {
				return err
			}

			node := h.FindByName(args[0], a.recursive)
			if node == nil {
				return notFound(h, "member named", args[0])
			}

			a.printer(cmd.OutOrStdout()).Node(node)
			return nil
		},
	}
}

func (a *app) newTaggedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tagged <annotation>",
		Short: "List members carrying an annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.build()
			if err != nil {
				return err
			}

			matches := h.FindAllByAnnotation(args[0], a.recursive)
			if len(matches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no members tagged %q\n", args[0])
				return nil
			}

			a.printer(cmd.OutOrStdout()).Matches(matches)
			return nil
		},
	}
}

func (a *app) newPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List the paths of all members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.build()
			if err != nil {
				return err
			}

			a.printer(cmd.OutOrStdout()).Paths(h.Paths())
			return nil
		},
	}
}

func (a *app) newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Write a member of the sample graph",
		Long: `Write a field or a property with a setter and print the value read back.
The value is parsed as YAML into the member type.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.build()
			if err != nil {
				return err
			}

			node, err := lookupPath(h, args[0])
			if err != nil {
				return err
			}

			value, err := parseValue(node, args[1])
			if err != nil {
				return err
			}

			if err := checkRange(node, value); err != nil {
				return err
			}

			before := render.Value(node)
			if err := node.SetValue(value); err != nil {
				return err
			}

			after, err := node.GetValue()
			if err != nil {
				return err
			}

			written := *node
			written.Value = after
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", node.Path, before, render.Value(&written))
			return nil
		},
	}
}

func (a *app) newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := options.Marshal(a.settings)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func lookupPath(h *tree.Handle, path string) (*tree.Node, error) {
	if node := h.FindByPath(path); node != nil {
		return node, nil
	}

	last := path
	if i := strings.LastIndex(path, "."); i >= 0 {
		last = path[i+1:]
	}

	return nil, notFound(h, "member at path", last)
}

func notFound(h *tree.Handle, what, name string) error {
	suggestions := h.Suggest(name, 3)
	if len(suggestions) == 0 {
		return fmt.Errorf("no %s %q", what, name)
	}

	paths := make([]string, 0, len(suggestions))
	for _, n := range suggestions {
		paths = append(paths, n.Path)
	}

	return fmt.Errorf("no %s %q, did you mean: %s", what, name, strings.Join(paths, ", "))
}

// parseValue decodes text as YAML into a value of the member type.
func parseValue(node *tree.Node, text string) (any, error) {
	if node.Type == nil {
		return nil, fmt.Errorf("%s has no value type", node.Path)
	}

	ptr := reflect.New(node.Type)
	if err := yaml.Unmarshal([]byte(text), ptr.Interface()); err != nil {
		return nil, fmt.Errorf("cannot parse %q as %s: %w", text, node.Type, err)
	}

	return ptr.Elem().Interface(), nil
}

// checkRange rejects numeric values outside the member's range annotation.
func checkRange(node *tree.Node, value any) error {
	ann, ok := node.Annotation("range")
	if !ok {
		return nil
	}

	r, err := utils.ParseRange(ann.Value)
	if err != nil {
		return fmt.Errorf("%s: %w", node.Path, err)
	}

	var f float64
	switch rv := reflect.ValueOf(value); {
	case rv.CanInt():
		f = float64(rv.Int())
	case rv.CanUint():
		f = float64(rv.Uint())
	case rv.CanFloat():
		f = rv.Float()
	default:
		return nil
	}

	if !r.Contains(f) {
		return fmt.Errorf("%s: %v is outside %s", node.Path, value, r)
	}

	return nil
}
