// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/woozymasta/globstream"
)

// envPrefix is the prefix of environment overrides, e.g. GLOBSTREAM_DOT=true.
const envPrefix = "GLOBSTREAM_"

// config is the merged command configuration.
type config struct {
	globstream.Options `koanf:",squash"`

	// Patterns come from the "patterns" key, a string or a list.
	Patterns []string `koanf:"-"`
	From     []string `koanf:"from"`
	Ext      []string `koanf:"ext"`
	Format   string   `koanf:"format"`
	Relative bool     `koanf:"relative"`
}

// flagKeys maps command flags to configuration keys.
var flagKeys = map[string]string{
	"cwd":         "cwd",
	"base":        "base",
	"root":        "root",
	"ignore":      "ignore",
	"hwm":         "high_water_mark",
	"dot":         "dot",
	"nonull":      "nonull",
	"silent":      "silent",
	"allow-empty": "allow_empty",
	"cwdbase":     "cwdbase",
	"strict":      "strict",
	"nodir":       "nodir",
	"from":        "from",
	"ext":         "ext",
	"format":      "format",
	"relative":    "relative",
}

// defaultConfig returns the lowest configuration layer.
func defaultConfig() map[string]any {
	opts := globstream.DefaultOptions()

	return map[string]any{
		"silent":          opts.Silent,
		"high_water_mark": opts.HighWaterMark,
		"format":          formatText,
		"relative":        false,
	}
}

// loadConfig merges defaults, the optional config file, GLOBSTREAM_*
// environment variables and explicitly set flags, in that order.
func loadConfig(path string, flags *pflag.FlagSet) (config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultConfig(), "."), nil); err != nil {
		return config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return config{}, err
		}

		if err := k.Load(file.Provider(path), parser); err != nil {
			return config{}, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(confmap.Provider(changedFlags(flags), "."), nil); err != nil {
			return config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	patterns, err := globstream.NormalizePatterns(k.Get("patterns"))
	if err != nil {
		return config{}, fmt.Errorf("patterns: %w", err)
	}
	cfg.Patterns = patterns

	if err := validateFormat(cfg.Format); err != nil {
		return config{}, err
	}

	return cfg, nil
}

// parserFor picks a koanf parser by config file extension.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// changedFlags collects explicitly set flags as configuration keys.
func changedFlags(flags *pflag.FlagSet) map[string]any {
	out := make(map[string]any)

	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}

		switch f.Value.Type() {
		case "stringSlice":
			if v, err := flags.GetStringSlice(f.Name); err == nil {
				out[key] = v
			}
		case "bool":
			if v, err := flags.GetBool(f.Name); err == nil {
				out[key] = v
			}
		case "int":
			if v, err := flags.GetInt(f.Name); err == nil {
				out[key] = v
			}
		default:
			out[key] = f.Value.String()
		}
	})

	return out
}

// collectPatterns assembles the final pattern list:
// config patterns, --from files, positional arguments, then --ext.
func collectPatterns(cfg config, args []string) ([]string, error) {
	var fromFiles []string
	if len(cfg.From) > 0 {
		loaded, err := globstream.LoadPatternsFiles(cfg.From...)
		if err != nil {
			return nil, err
		}

		fromFiles = loaded
	}

	return slices.Concat(
		cfg.Patterns,
		fromFiles,
		args,
		globstream.ParseExtensions(cfg.Ext),
	), nil
}
