// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/globstream/glob"
)

// Resolve binds a positive entry to its absolute pattern, base directory
// and ignore list. opts must be normalized.
//
// Only negated entries with a greater index apply: patterns are a rule list
// evaluated left to right.
func Resolve(entry PatternEntry, negatives []PatternEntry, opts Options) ResolvedSpec {
	ignore := make([]string, 0, len(negatives)+len(opts.Ignore))
	for _, neg := range negatives {
		if neg.Index <= entry.Index {
			continue
		}

		ignore = append(ignore, glob.ToAbsolute(neg.Pattern, opts.Cwd, opts.Root))
	}

	for _, pattern := range opts.Ignore {
		ignore = append(ignore, glob.ToAbsolute(pattern, opts.Cwd, opts.Root))
	}

	base := opts.Base
	if base == "" {
		base = BasePath(entry.Pattern, opts)
	}

	return ResolvedSpec{
		Entry:    entry,
		Absolute: glob.ToAbsolute(entry.Pattern, opts.Cwd, opts.Root),
		Base:     base,
		Ignore:   ignore,
	}
}

// BasePath derives the base directory of pattern: its non-wildcard parent
// resolved against opts.Cwd, always ending with a path separator.
//
// A parent equal to the filesystem root is replaced by opts.Root when set.
func BasePath(pattern string, opts Options) string {
	parent := glob.Parent(pattern)

	var base string
	if parent == "/" && opts.Root != "" {
		base = filepath.Clean(opts.Root)
	} else {
		base = filepath.FromSlash(glob.ToAbsolute(parent, opts.Cwd, opts.Root))
	}

	if !strings.HasSuffix(base, string(os.PathSeparator)) && !strings.HasSuffix(base, "/") {
		base += string(os.PathSeparator)
	}

	return base
}
