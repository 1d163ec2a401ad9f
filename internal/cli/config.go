package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"member-tree/options"
)

// Setting keys shared by the config file, the environment and flags.
const (
	keyMaxDepth        = "max_depth"
	keyIncludeManaged  = "include_managed"
	keyManagedPackages = "managed_packages"
	keyOpaqueTypes     = "opaque_types"
)

// EnvPrefix prefixes the environment variables overriding settings,
// e.g. MEMBER_TREE_MAX_DEPTH.
const EnvPrefix = "MEMBER_TREE"

// ConfigName is the base name of the config file looked up in the working directory.
const ConfigName = "member-tree"

// LoadConfig resolves the traversal settings from, in increasing precedence,
// defaults, the config file, the environment and changed flags. An explicit
// path must exist; the default config file is optional.
func LoadConfig(path string, flags *pflag.FlagSet) (*options.Traversal, error) {
	v := viper.New()

	defaults := options.Default()
	v.SetDefault(keyMaxDepth, defaults.MaxDepth)
	v.SetDefault(keyIncludeManaged, defaults.IncludeManaged)
	v.SetDefault(keyManagedPackages, []string{})
	v.SetDefault(keyOpaqueTypes, []string{})

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range map[string]string{
			keyMaxDepth:       "max-depth",
			keyIncludeManaged: "include-managed",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var settings options.Traversal
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &settings, nil
}
