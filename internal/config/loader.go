package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// configFileUsed tracks which config file the last load read, for
// verbose output.
var configFileUsed string

// currentConfig holds the configuration from the last successful load so
// commands can reach it without threading it through every call.
var currentConfig *Config

// GetCurrentConfig returns the currently loaded configuration, nil before
// the first LoadConfig.
func GetCurrentConfig() *Config {
	return currentConfig
}

// GetConfigFileUsed returns the config file used by the last LoadConfig.
func GetConfigFileUsed() string {
	return configFileUsed
}

// findConfigFile finds the config file to use.
// Priority: explicit path > dbtgov.yaml > dbtgov.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}
	for _, name := range []string{DefaultConfigFileName, DefaultConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig loads tool configuration from file, environment variables,
// and flags. Precedence (highest to lowest): flags > env vars > config
// file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"rules_file":  DefaultRulesFileName,
		"output_path": DefaultOutputFileName,
		"state_path":  DefaultStateFile,
		"no_history":  false,
		"verbose":     false,
		"output":      DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	} else if cfgFile != "" {
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}

	// 3. Environment variables (DBTGOV_ prefix)
	// Transform: DBTGOV_RULES_FILE -> rules_file
	if err := k.Load(env.Provider("DBTGOV_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DBTGOV_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}
