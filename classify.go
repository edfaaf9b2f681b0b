// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import (
	"fmt"
	"strings"

	"github.com/woozymasta/globstream/glob"
)

// Classify splits patterns into positive and negated entries, keeping input indexes.
//
// Empty or blank entries fail with ConfigError wrapping ErrInvalidGlob.
// A list without positive entries fails with ConfigError wrapping ErrMissingPositive.
func Classify(patterns []string) (positives, negatives []PatternEntry, err error) {
	for i, raw := range patterns {
		if strings.TrimSpace(raw) == "" {
			return nil, nil, &ConfigError{Err: ErrInvalidGlob, Index: i}
		}

		pattern, negated := glob.ParseNegated(raw)
		if pattern == "" {
			return nil, nil, &ConfigError{Err: ErrInvalidGlob, Index: i}
		}

		entry := PatternEntry{
			Index:   i,
			Pattern: pattern,
			Negated: negated,
		}

		if negated {
			negatives = append(negatives, entry)
		} else {
			positives = append(positives, entry)
		}
	}

	if len(positives) == 0 {
		return nil, nil, &ConfigError{Err: ErrMissingPositive, Index: -1}
	}

	return positives, negatives, nil
}

// NormalizePatterns converts a decoded "string or list" value into a pattern list.
//
// Accepted values are string, []string and []any with string elements.
// A non-string element fails with ConfigError carrying its index.
func NormalizePatterns(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{val}, nil
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &ConfigError{
					Err:   fmt.Errorf("%w: %T", ErrInvalidGlob, item),
					Index: i,
				}
			}

			out = append(out, s)
		}

		return out, nil
	default:
		return nil, &ConfigError{
			Err:   fmt.Errorf("%w: unsupported pattern list type %T", ErrInvalidGlob, v),
			Index: -1,
		}
	}
}
