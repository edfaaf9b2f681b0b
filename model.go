// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const defaultHighWaterMark = 16

// Match is one matched path descriptor.
type Match struct {
	// Cwd is the working directory used for pattern resolution.
	Cwd string `json:"cwd" yaml:"cwd" msgpack:"cwd"`
	// Base is the directory relative paths are computed against.
	Base string `json:"base" yaml:"base" msgpack:"base"`
	// Path is the cleaned absolute path of the match.
	Path string `json:"path" yaml:"path" msgpack:"path"`
}

// Relative returns Path relative to Base.
func (m Match) Relative() (string, error) {
	rel, err := filepath.Rel(m.Base, m.Path)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}

	return rel, nil
}

// PatternEntry is one classified input pattern.
type PatternEntry struct {
	// Pattern is the pattern text without negation marker.
	Pattern string `json:"pattern" yaml:"pattern"`
	// Index is the entry position in the input list.
	Index int `json:"index" yaml:"index"`
	// Negated reports whether the entry had a negation marker.
	Negated bool `json:"negated,omitempty" yaml:"negated,omitempty"`
}

// ResolvedSpec is a positive pattern prepared for enumeration.
type ResolvedSpec struct {
	// Absolute is the pattern resolved against cwd, "/"-separated.
	Absolute string `json:"absolute" yaml:"absolute"`
	// Base is the derived or overridden base directory.
	Base string `json:"base" yaml:"base"`
	// Ignore holds later negated patterns (absolute) followed by global ignores.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	// Entry is the source positive entry.
	Entry PatternEntry `json:"entry" yaml:"entry"`
}

// Options configures a stream pipeline.
type Options struct {
	// Logger receives per-match trace logs and walker diagnostics.
	Logger *zerolog.Logger `json:"-" yaml:"-" koanf:"-"`
	// Cwd resolves relative patterns. Empty means process working directory.
	Cwd string `json:"cwd,omitempty" yaml:"cwd,omitempty" koanf:"cwd"`
	// Base overrides the derived base path of every positive pattern.
	Base string `json:"base,omitempty" yaml:"base,omitempty" koanf:"base"`
	// Root re-roots "/"-prefixed patterns and replaces a filesystem-root base.
	Root string `json:"root,omitempty" yaml:"root,omitempty" koanf:"root"`
	// Ignore is excluded from every positive pattern.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty" koanf:"ignore"`
	// HighWaterMark is the per-pattern read-ahead depth. Zero means 16.
	HighWaterMark int `json:"high_water_mark,omitempty" yaml:"high_water_mark,omitempty" koanf:"high_water_mark"`
	// Dot includes names starting with "." in wildcard matches.
	Dot bool `json:"dot,omitempty" yaml:"dot,omitempty" koanf:"dot"`
	// NoNull emits a pattern that matched nothing as its own match.
	NoNull bool `json:"nonull,omitempty" yaml:"nonull,omitempty" koanf:"nonull"`
	// Silent suppresses walker diagnostics.
	Silent bool `json:"silent" yaml:"silent" koanf:"silent"`
	// AllowEmpty suppresses ErrNotFound for singular patterns.
	AllowEmpty bool `json:"allow_empty,omitempty" yaml:"allow_empty,omitempty" koanf:"allow_empty"`
	// CwdBase forces Base to Cwd.
	CwdBase bool `json:"cwdbase,omitempty" yaml:"cwdbase,omitempty" koanf:"cwdbase"`
	// Strict fails enumeration on I/O errors instead of skipping them.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty" koanf:"strict"`
	// NoDir skips directory matches.
	NoDir bool `json:"nodir,omitempty" yaml:"nodir,omitempty" koanf:"nodir"`
}

// DefaultOptions returns options with documented defaults.
func DefaultOptions() Options {
	return Options{
		Silent:        true,
		HighWaterMark: defaultHighWaterMark,
	}
}

// normalize fills zero-valued options and resolves Cwd once.
func (opts Options) normalize() (Options, error) {
	if opts.Cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return opts, fmt.Errorf("working directory: %w", err)
		}

		opts.Cwd = wd
	} else if !filepath.IsAbs(opts.Cwd) {
		abs, err := filepath.Abs(opts.Cwd)
		if err != nil {
			return opts, fmt.Errorf("abs cwd: %w", err)
		}

		opts.Cwd = abs
	}

	if opts.HighWaterMark <= 0 {
		opts.HighWaterMark = defaultHighWaterMark
	}

	if opts.CwdBase {
		opts.Base = opts.Cwd
	}

	if opts.Ignore != nil {
		opts.Ignore = append([]string(nil), opts.Ignore...)
	}

	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}

	return opts, nil
}
