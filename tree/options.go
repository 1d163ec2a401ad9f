package tree

import (
	"go.uber.org/zap"

	"member-tree/introspect"
	"member-tree/options"
	"member-tree/policy"
)

// DefaultMaxDepth is the deepest level expanded when no limit is configured.
const DefaultMaxDepth = options.DefaultMaxDepth

// Option represents an option to customize a Builder.
type Option func(*config)

type config struct {
	maxDepth     int
	logger       *zap.Logger
	registry     *introspect.Registry
	naming       introspect.ShadowNaming
	introspector introspect.TypeIntrospector
	namer        Namer
	policy       []policy.Option
}

func newConfig(opts []Option) *config {
	cfg := &config{
		maxDepth: DefaultMaxDepth,
		logger:   zap.NewNop(),
		namer:    DefaultNamer,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.naming == nil {
		cfg.naming = introspect.GetterNaming{}
	}

	if cfg.introspector == nil {
		cfg.introspector = introspect.NewReflector(cfg.registry, cfg.naming)
	}

	return cfg
}

// WithMaxDepth returns an Option that sets the deepest expanded level. The root is level 0.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth >= 0 {
			c.maxDepth = depth
		}
	}
}

// WithLogger returns an Option that sets the logger receiving traversal records.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegistry returns an Option that sets the registry consulted for member annotations.
func WithRegistry(registry *introspect.Registry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

// WithShadowNaming returns an Option that sets how properties find their storage cells.
func WithShadowNaming(naming introspect.ShadowNaming) Option {
	return func(c *config) {
		c.naming = naming
		c.policy = append(c.policy, policy.WithShadowNaming(naming))
	}
}

// WithIntrospector returns an Option that replaces the reflection-based introspector.
// Registry and shadow naming options do not apply to a replaced introspector.
func WithIntrospector(introspector introspect.TypeIntrospector) Option {
	return func(c *config) {
		c.introspector = introspector
	}
}

// WithNamer returns an Option that sets how the root node is named.
func WithNamer(namer Namer) Option {
	return func(c *config) {
		if namer != nil {
			c.namer = namer
		}
	}
}

// WithOpaqueTypes returns an Option that keeps values of the given types unexpanded.
func WithOpaqueTypes(values ...any) Option {
	return func(c *config) {
		c.policy = append(c.policy, policy.WithOpaqueTypes(values...))
	}
}

// WithManagedPackages returns an Option that replaces the engine-managed package prefixes.
func WithManagedPackages(prefixes ...string) Option {
	return func(c *config) {
		c.policy = append(c.policy, policy.WithManagedPackages(prefixes...))
	}
}

// IncludeManaged returns an Option that opts in to expanding engine-managed types.
func IncludeManaged(include bool) Option {
	return func(c *config) {
		c.policy = append(c.policy, policy.IncludeManaged(include))
	}
}

// WithTraversal returns an Option that applies loaded traversal settings.
// Empty lists keep the current values.
func WithTraversal(t options.Traversal) Option {
	return func(c *config) {
		WithMaxDepth(t.MaxDepth)(c)
		IncludeManaged(t.IncludeManaged)(c)

		if len(t.ManagedPackages) > 0 {
			WithManagedPackages(t.ManagedPackages...)(c)
		}

		if len(t.OpaqueTypes) > 0 {
			c.policy = append(c.policy, policy.WithOpaqueTypeNames(t.OpaqueTypes...))
		}
	}
}
