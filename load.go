// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import (
	"fmt"
	"os"
	"slices"
)

// LoadPatternsFile reads and parses a pattern list file.
func LoadPatternsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open patterns file: %w", err)
	}
	defer func() { _ = f.Close() }()

	patterns, err := ParsePatterns(f)
	if err != nil {
		return nil, fmt.Errorf("parse patterns file: %w", err)
	}

	return patterns, nil
}

// LoadPatternsFiles reads and merges pattern lists from files in the given order.
//
// Returned patterns preserve file order and line order inside each file, so
// negations keep applying only to patterns listed before them.
func LoadPatternsFiles(paths ...string) ([]string, error) {
	sets := make([][]string, 0, len(paths))
	for _, path := range paths {
		patterns, err := LoadPatternsFile(path)
		if err != nil {
			return nil, err
		}

		sets = append(sets, patterns)
	}

	return slices.Concat(sets...), nil
}
