// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/woozymasta/globstream"
)

// Output formats.
const (
	formatText    = "text"
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

var errorColor = color.New(color.FgRed, color.Bold)

// record is one encoded match.
type record struct {
	globstream.Match `msgpack:",inline"`

	Relative string `json:"relative,omitempty" msgpack:"relative,omitempty"`
}

// encoder writes matches in one output format.
type encoder struct {
	w        *bufio.Writer
	json     *json.Encoder
	msgpack  *msgpack.Encoder
	format   string
	relative bool
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatMsgpack:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatText, formatJSON, formatMsgpack)
	}
}

func newEncoder(w io.Writer, format string, relative bool) (*encoder, error) {
	if err := validateFormat(format); err != nil {
		return nil, err
	}

	e := &encoder{
		w:        bufio.NewWriter(w),
		format:   format,
		relative: relative,
	}

	switch format {
	case formatJSON:
		e.json = json.NewEncoder(e.w)
	case formatMsgpack:
		e.msgpack = msgpack.NewEncoder(e.w)
	}

	return e, nil
}

// Encode writes one match.
func (e *encoder) Encode(m globstream.Match) error {
	rec := record{Match: m}
	if e.relative {
		rel, err := m.Relative()
		if err != nil {
			return err
		}

		rec.Relative = rel
	}

	switch e.format {
	case formatJSON:
		return e.json.Encode(rec)
	case formatMsgpack:
		return e.msgpack.Encode(rec)
	default:
		line := rec.Path
		if e.relative {
			line = rec.Relative
		}

		_, err := fmt.Fprintln(e.w, line)
		return err
	}
}

// Flush writes buffered output.
func (e *encoder) Flush() error {
	return e.w.Flush()
}

// printError renders err for the terminal.
func printError(w io.Writer, err error) {
	_, _ = errorColor.Fprint(w, "error: ")
	_, _ = fmt.Fprintln(w, err)
}
