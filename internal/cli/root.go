// Package cli implements the member-tree command line interface over the
// bundled store sample graph.
package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"member-tree/internal/analyze"
	"member-tree/internal/render"
	"member-tree/introspect"
	"member-tree/options"
	"member-tree/store"
	"member-tree/tree"
)

// SamplePackage is the package whose doc comments --source-annotations loads.
const SamplePackage = "member-tree/store"

type app struct {
	configPath        string
	maxDepth          int
	includeManaged    bool
	recursive         bool
	sourceAnnotations bool
	noColor           bool
	verbose           bool

	settings *options.Traversal
	logger   *zap.Logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "member-tree",
		Short: "Inspect the member tree of a live Go object graph",
		Long: `member-tree builds a navigable tree over a sample order graph: every
exported field, getter-backed property and method becomes a node with its
current value, its annotations and a dot-delimited path.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "settings file (default ./"+ConfigName+".yaml)")
	flags.IntVar(&a.maxDepth, "max-depth", options.DefaultMaxDepth, "deepest expanded level, the root is level 0")
	flags.BoolVar(&a.includeManaged, "include-managed", false, "expand types of engine-managed packages")
	flags.BoolVarP(&a.recursive, "recursive", "r", true, "search below immediate children")
	flags.BoolVar(&a.sourceAnnotations, "source-annotations", false, "load annotations from doc comments of "+SamplePackage)
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log traversal details")

	rootCmd.AddCommand(a.newDumpCommand())
	rootCmd.AddCommand(a.newFindCommand())
	rootCmd.AddCommand(a.newTaggedCommand())
	rootCmd.AddCommand(a.newPathsCommand())
	rootCmd.AddCommand(a.newSetCommand())
	rootCmd.AddCommand(a.newConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.noColor {
		color.NoColor = true
	}

	if a.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			logger = zap.NewNop()
		}
		a.logger = logger
	}

	settings, err := LoadConfig(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.settings = settings

	a.logger.Debug("settings loaded",
		zap.Int("max_depth", settings.MaxDepth),
		zap.Bool("include_managed", settings.IncludeManaged),
		zap.Strings("managed_packages", settings.ManagedPackages),
		zap.Strings("opaque_types", settings.OpaqueTypes))

	return nil
}

func (a *app) printer(w io.Writer) *render.Printer {
	return render.NewPrinter(w, &render.Options{NoColor: a.noColor, MaxValueWidth: 80})
}

// build expands the tree of a fresh sample graph.
func (a *app) build() (*tree.Handle, error) {
	opts := []tree.Option{
		tree.WithTraversal(*a.settings),
		tree.WithLogger(a.logger),
	}

	if a.sourceAnnotations {
		index, err := analyze.NewAnalyzer().LoadPackages(SamplePackage)
		if err != nil {
			return nil, fmt.Errorf("failed to load source annotations: %w", err)
		}

		reg := introspect.NewRegistry()
		n := index.Register(reg)
		a.logger.Debug("source annotations registered", zap.Int("members", n))

		opts = append(opts, tree.WithRegistry(reg))
	}

	return tree.New(store.Sample(), opts...)
}
