// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import "strings"

// ParseExtensions converts an extension list to recursive positive patterns.
//
// Accepted extension forms:
//   - "txt"
//   - ".txt"
//   - "*.txt"
//
// Empty values are skipped. Returned patterns have the "**/*.ext" form and
// preserve input order; extension case is kept since matching is case sensitive.
func ParseExtensions(exts []string) []string {
	patterns := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		ext = strings.TrimPrefix(ext, "*.")
		ext = strings.TrimLeft(ext, ".")
		if ext == "" {
			continue
		}

		patterns = append(patterns, "**/*."+ext)
	}

	return patterns
}
