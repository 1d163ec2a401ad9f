package options

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxDepth is the deepest level expanded when no limit is configured.
const DefaultMaxDepth = 10

// Traversal controls how far and into which types a tree is expanded.
type Traversal struct {
	// MaxDepth is the deepest expanded level; the root is level 0.
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
	// IncludeManaged expands types of engine-managed packages too.
	IncludeManaged bool `yaml:"include_managed" mapstructure:"include_managed"`
	// ManagedPackages replaces the engine-managed package prefixes when set.
	ManagedPackages StringArray `yaml:"managed_packages,omitempty" mapstructure:"managed_packages"`
	// OpaqueTypes lists extra terminal types as "pkg/path.Name".
	OpaqueTypes StringArray `yaml:"opaque_types,omitempty" mapstructure:"opaque_types"`
}

// Default returns the default traversal settings.
func Default() Traversal {
	return Traversal{MaxDepth: DefaultMaxDepth}
}

var (
	// ErrNegativeDepth is returned by Validate for a negative max depth.
	ErrNegativeDepth = errors.New("max_depth must not be negative")
	// ErrInvalidTypeName is returned by Validate for a malformed opaque type name.
	ErrInvalidTypeName = errors.New("opaque type must be written as pkg/path.Name")
)

// Validate checks the settings for values no traversal can use.
func (t *Traversal) Validate() error {
	var errs []error

	if t.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrNegativeDepth, t.MaxDepth))
	}

	for i, pkg := range t.ManagedPackages {
		if strings.TrimSpace(pkg) == "" {
			errs = append(errs, fmt.Errorf("managed_packages[%d]: empty package prefix", i))
		}
	}

	for i, name := range t.OpaqueTypes {
		dot := strings.LastIndex(name, ".")
		if dot <= 0 || dot == len(name)-1 {
			errs = append(errs, fmt.Errorf("opaque_types[%d]: %w: %q", i, ErrInvalidTypeName, name))
		}
	}

	return errors.Join(errs...)
}

// StringArray is a string slice that can be unmarshaled from a single string or a list.
type StringArray []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringArray) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}

	var multi []string
	if err := unmarshal(&multi); err == nil {
		*s = multi
		return nil
	}

	return errors.New("expected string or list of strings")
}
