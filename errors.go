// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import (
	"errors"
	"fmt"
)

// Sentinel errors for globstream operations.
var (
	// ErrInvalidGlob indicates a malformed pattern list entry.
	ErrInvalidGlob = errors.New("invalid glob")
	// ErrMissingPositive indicates a pattern list without any positive pattern.
	ErrMissingPositive = errors.New("missing positive glob")
	// ErrNotFound indicates a singular pattern that matched nothing.
	ErrNotFound = errors.New("file not found with singular glob")
	// ErrDestroyed is returned by Next after Destroy without an error.
	ErrDestroyed = errors.New("stream destroyed")
)

// ConfigError reports invalid pipeline input detected at setup.
type ConfigError struct {
	// Err is ErrInvalidGlob, ErrMissingPositive, or a pattern compile error.
	Err error
	// Index is the offending pattern index, -1 when no single entry is at fault.
	Index int
}

func (e *ConfigError) Error() string {
	if e.Index < 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("%v at index %d", e.Err, e.Index)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a singular pattern that produced no match.
type NotFoundError struct {
	// Pattern is the pattern text as given by the caller.
	Pattern string
	// Absolute is the resolved pattern that was enumerated.
	Absolute string
}

func (e *NotFoundError) Error() string {
	return ErrNotFound.Error() + ": " + e.Pattern
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
