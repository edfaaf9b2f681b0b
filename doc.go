// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

/*
Package globstream turns a list of glob patterns into one lazy, deduplicated
stream of matched paths.

Patterns are a rule list evaluated left to right: a pattern prefixed with "!"
excludes its matches from the positive patterns listed before it, never from
the ones after it.

Basic flow:
  - optionally load patterns from files (`LoadPatternsFile`) or build them from
    extensions (`ParseExtensions`)
  - build a stream (`New`) with `DefaultOptions`
  - pull matches with `Next` until `io.EOF`, or use `Collect` / `All`
  - cancel early with `Destroy`

Each positive pattern is enumerated by its own walker. The walker is paused
after every match and resumed only when the consumer asks for more, so memory
use is bounded by the high water mark per pattern, not by the result size.

A pattern without wildcards that matches nothing fails the stream with
`ErrNotFound` unless `Options.AllowEmpty` is set.
*/
package globstream
