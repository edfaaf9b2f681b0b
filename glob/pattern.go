// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

// Package glob enumerates filesystem matches of one absolute glob pattern.
package glob

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ParseNegated splits a leading "!" negation marker from raw pattern.
//
// Only one marker is recognized. A leading "!(" is an extglob group, not a
// negation, and is returned unchanged.
func ParseNegated(raw string) (pattern string, negated bool) {
	if raw == "" || raw[0] != '!' {
		return raw, false
	}

	if len(raw) > 1 && raw[1] == '(' {
		return raw, false
	}

	return raw[1:], true
}

// HasMeta reports whether pattern contains unescaped glob meta.
func HasMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '*', '?':
			return true
		case '[':
			if findCharClassEnd(pattern, i) >= 0 {
				return true
			}
		case '{':
			if findBraceSetEnd(pattern, i) >= 0 {
				return true
			}
		case '+', '@', '!':
			if i+1 < len(pattern) && pattern[i+1] == '(' {
				return true
			}
		}
	}

	return false
}

// IsSingular reports whether pattern denotes exactly one literal path:
// no brace alternatives and no wildcard segments.
func IsSingular(pattern string) bool {
	return pattern != "" && !HasMeta(pattern)
}

// Parent returns the non-wildcard parent directory of pattern.
//
// "src/**/*.ts" -> "src", "*.js" -> ".", "/*.js" -> "/", "a/b.txt" -> "a".
func Parent(pattern string) string {
	p := filepath.ToSlash(pattern)
	if !HasMeta(p) {
		// Literal paths: a trailing slash names the directory itself.
		if strings.HasSuffix(p, "/") && p != "/" {
			return strings.TrimSuffix(p, "/")
		}

		dir := path.Dir(p)
		if dir == "" {
			return "."
		}

		return dir
	}

	base, _ := doublestar.SplitPattern(p)
	return base
}

// ToAbsolute resolves pattern against cwd.
//
// Patterns starting with "/" are re-rooted under root when root is set.
// A trailing slash on pattern is preserved. The result uses "/" separators.
func ToAbsolute(pattern, cwd, root string) string {
	p := filepath.ToSlash(pattern)
	trailing := strings.HasSuffix(p, "/")

	switch {
	case root != "" && strings.HasPrefix(p, "/"):
		p = path.Join(filepath.ToSlash(root), p)
	case !isAbs(p):
		p = path.Join(filepath.ToSlash(cwd), p)
	}

	if trailing && !strings.HasSuffix(p, "/") {
		p += "/"
	}

	return p
}

// isAbs reports whether slash-separated p is absolute on the current OS.
func isAbs(p string) bool {
	return strings.HasPrefix(p, "/") || filepath.IsAbs(filepath.FromSlash(p))
}

// findCharClassEnd returns index of closing "]" for a "[...]" class, or -1.
func findCharClassEnd(pat string, start int) int {
	if start < 0 || start >= len(pat) || pat[start] != '[' {
		return -1
	}

	idx := start + 1
	if idx < len(pat) && (pat[idx] == '!' || pat[idx] == '^') {
		idx++
	}

	if idx < len(pat) && pat[idx] == ']' {
		idx++
	}

	for ; idx < len(pat); idx++ {
		if pat[idx] == ']' {
			return idx
		}
	}

	return -1
}

// findBraceSetEnd returns index of closing "}" for a "{a,b}" alternative set, or -1.
// Sets without a top-level comma expand to themselves and are not meta.
func findBraceSetEnd(pat string, start int) int {
	if start < 0 || start >= len(pat) || pat[start] != '{' {
		return -1
	}

	depth := 0
	comma := false
	for i := start; i < len(pat); i++ {
		switch pat[i] {
		case '\\':
			i++
		case '{':
			depth++
		case ',':
			if depth == 1 {
				comma = true
			}
		case '}':
			depth--
			if depth == 0 {
				if !comma {
					return -1
				}

				return i
			}
		}
	}

	return -1
}
