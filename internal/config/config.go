// Package config loads engine configuration from file, environment and
// command-line flags. Precedence, lowest to highest: built-in defaults,
// etlgraph.yaml, ETLGRAPH_* environment variables, flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "etlgraph.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "etlgraph.yml"

// EnvPrefix namespaces environment variables, e.g.
// ETLGRAPH_HIGH_CONTENTION_THRESHOLD=5.
const EnvPrefix = "ETLGRAPH_"

// Config holds all engine settings.
type Config struct {
	// HighContentionThreshold is the pipeline count above which a
	// shared resource is flagged high contention.
	HighContentionThreshold int `koanf:"high_contention_threshold"`

	// Workers caps the number of packages built in parallel. Zero
	// means one worker per package.
	Workers int `koanf:"workers"`

	// StatePath is the SQLite file for run history. Empty disables
	// run recording.
	StatePath string `koanf:"state_path"`

	// Output selects report rendering: "table" or "json".
	Output string `koanf:"output"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

func defaults() map[string]any {
	return map[string]any{
		"high_contention_threshold": 3,
		"workers":                   0,
		"state_path":                "",
		"output":                    "table",
		"log_level":                 "info",
	}
}

// Load assembles the configuration for the given directory. A missing
// config file is not an error; flags may be nil.
func Load(dir string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(dir); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		cb := func(f *pflag.Flag) (string, any) {
			key := f.Name
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, cb), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// flagKeys maps CLI flag names to config keys where they differ.
var flagKeys = map[string]string{
	"state":     "state_path",
	"threshold": "high_contention_threshold",
	"log-level": "log_level",
}

// findConfigFile returns the config file path in dir, or "".
func findConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
