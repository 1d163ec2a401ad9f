package options

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML settings file from the given path.
func LoadFile(path string) (*Traversal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into Traversal settings. Keys missing from data keep
// their default values.
func Parse(data []byte) (*Traversal, error) {
	t := Default()

	err := yaml.Unmarshal(data, &t)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	normalize(&t)

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &t, nil
}

// normalize trims list entries and drops empty ones.
func normalize(t *Traversal) {
	t.ManagedPackages = trimAll(t.ManagedPackages)
	t.OpaqueTypes = trimAll(t.OpaqueTypes)
}

func trimAll(values StringArray) StringArray {
	var out StringArray

	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}

// Marshal serializes Traversal settings to YAML.
func Marshal(t *Traversal) ([]byte, error) {
	return yaml.Marshal(t)
}

// WriteFile writes Traversal settings to the given path.
func WriteFile(t *Traversal, path string) error {
	data, err := Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}

	return nil
}
