package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yaml := `
max_depth: 3
include_managed: true
managed_packages:
  - sync
  - " go.uber.org/zap "
opaque_types: time.Location
`

	tr, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, tr)

	assert.Equal(t, 3, tr.MaxDepth)
	assert.True(t, tr.IncludeManaged)
	assert.Equal(t, StringArray{"sync", "go.uber.org/zap"}, tr.ManagedPackages)
	assert.Equal(t, StringArray{"time.Location"}, tr.OpaqueTypes)
}

func TestParse_Defaults(t *testing.T) {
	tr, err := Parse([]byte("include_managed: false\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxDepth, tr.MaxDepth)
	assert.Empty(t, tr.ManagedPackages)
	assert.Empty(t, tr.OpaqueTypes)

	zero, err := Parse([]byte("max_depth: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, zero.MaxDepth)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{name: "negative depth", yaml: "max_depth: -1\n", err: ErrNegativeDepth},
		{name: "type without package", yaml: "opaque_types: [Location]\n", err: ErrInvalidTypeName},
		{name: "type without name", yaml: "opaque_types: [time.]\n", err: ErrInvalidTypeName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := Parse([]byte("max_depth: [1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("managed_packages: {a: b}\n"))
	assert.Error(t, err)
}

func TestWriteFile_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "member-tree.yaml")

	in := Default()
	in.MaxDepth = 4
	in.OpaqueTypes = StringArray{"net/netip.Addr"}

	require.NoError(t, WriteFile(&in, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_depth: 4")
	assert.NotContains(t, string(data), "managed_packages")

	out, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
