// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package glob

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// ErrBadPattern indicates a pattern doublestar cannot compile.
var ErrBadPattern = doublestar.ErrBadPattern

// errAborted stops an in-progress walk after Abort.
var errAborted = errors.New("walk aborted")

// Listener receives walker events. Calls are made from the walker goroutine,
// one at a time.
type Listener interface {
	// OnMatch is called once per matched absolute path.
	OnMatch(path string)
	// OnError is called once when enumeration fails; no further events follow.
	OnError(err error)
	// OnEnd is called once when enumeration completes.
	OnEnd()
}

// Options controls one walker.
type Options struct {
	// Ignore holds absolute patterns excluded from matches.
	Ignore []string
	// Logger receives diagnostics; zero value discards them.
	Logger zerolog.Logger
	// Dot allows wildcards to match names starting with ".".
	Dot bool
	// NoNull emits the pattern itself when nothing matched.
	NoNull bool
	// Silent suppresses diagnostics about skipped I/O errors.
	Silent bool
	// Strict fails the walk on I/O errors instead of skipping them.
	Strict bool
	// NoDir skips directory matches.
	NoDir bool
}

// Walker enumerates filesystem matches for one absolute pattern.
//
// A walker starts paused: nothing is read from disk before the first Resume.
// Before every event the walk goroutine blocks until the walker is resumed,
// so a listener that calls Pause inside OnMatch receives no further events
// until the next Resume.
type Walker struct {
	listener Listener
	cond     *sync.Cond
	log      zerolog.Logger

	pattern string
	// base is the literal directory walked; rest is matched below it.
	base string
	rest string

	// segments is rest split for per-segment dot checks.
	segments []string

	opts     Options
	singular bool

	mu      sync.Mutex
	paused  bool
	aborted bool
	started bool
}

// NewWalker prepares a walker for absolute slash-separated pattern.
func NewWalker(pattern string, opts Options, l Listener) (*Walker, error) {
	if l == nil {
		return nil, errors.New("glob: nil listener")
	}

	singular := IsSingular(pattern)
	base, rest := splitAbsolute(pattern)
	if !singular && !doublestar.ValidatePattern(rest) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	w := &Walker{
		listener: l,
		log:      opts.Logger,
		pattern:  pattern,
		base:     base,
		rest:     rest,
		opts:     opts,
		singular: singular,
		segments: patternSegments(rest),
		paused:   true,
	}
	w.cond = sync.NewCond(&w.mu)

	return w, nil
}

// Singular reports whether the pattern denotes one literal path.
func (w *Walker) Singular() bool {
	return w.singular
}

// Pause stops event delivery until the next Resume.
func (w *Walker) Pause() {
	w.mu.Lock()
	w.paused = true
	w.mu.Unlock()
}

// Resume starts or continues event delivery.
func (w *Walker) Resume() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.aborted {
		return
	}

	w.paused = false
	if !w.started {
		w.started = true
		go w.run()
	}

	w.cond.Broadcast()
}

// Abort stops the walk; no events are delivered afterwards. Idempotent.
func (w *Walker) Abort() {
	w.mu.Lock()
	w.aborted = true
	w.cond.Broadcast()
	w.mu.Unlock()
}

// wait blocks while paused and reports false once aborted.
func (w *Walker) wait() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for w.paused && !w.aborted {
		w.cond.Wait()
	}

	return !w.aborted
}

// isAborted reports whether Abort was called.
func (w *Walker) isAborted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.aborted
}

// run is the walk goroutine.
func (w *Walker) run() {
	if err := w.checkBase(); err != nil {
		if !w.isAborted() {
			w.listener.OnError(err)
		}

		return
	}

	found := false
	err := w.walk(func(full string) error {
		if !w.wait() {
			return errAborted
		}

		found = true
		w.listener.OnMatch(filepath.FromSlash(full))
		return nil
	})

	switch {
	case errors.Is(err, errAborted):
		return
	case err != nil:
		if !w.isAborted() {
			w.listener.OnError(err)
		}

		return
	}

	if !found && w.opts.NoNull {
		if !w.wait() {
			return
		}

		w.listener.OnMatch(filepath.FromSlash(w.pattern))
	}

	if !w.wait() {
		return
	}

	w.listener.OnEnd()
}

// walk enumerates matches below base and calls emit for each kept one.
func (w *Walker) walk(emit func(full string) error) error {
	if w.singular {
		return w.walkLiteral(emit)
	}

	fsys := os.DirFS(filepath.FromSlash(w.base))
	return doublestar.GlobWalk(fsys, w.rest, func(rel string, d fs.DirEntry) error {
		full := path.Join(w.base, rel)
		if w.ignored(full) || !w.visible(rel) {
			return nil
		}

		w.log.Trace().Str("pattern", w.pattern).Str("path", full).Msg("walker match")
		return emit(full)
	}, w.walkOptions()...)
}

// walkLiteral emits the single path named by a pattern without glob meta.
// The path is looked up as is; "[" and "{" in it are plain characters.
func (w *Walker) walkLiteral(emit func(full string) error) error {
	full := w.base
	if w.rest != "" {
		full = path.Join(w.base, w.rest)
	}
	full = unescapeLiteral(full)

	info, err := os.Stat(filepath.FromSlash(full))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		if w.opts.Strict {
			return fmt.Errorf("stat %s: %w", full, err)
		}

		if !w.opts.Silent {
			w.log.Warn().Err(err).Str("path", full).Msg("skipping unreadable path")
		}

		return nil
	}

	if (w.opts.NoDir && info.IsDir()) || w.ignored(full) {
		return nil
	}

	w.log.Trace().Str("pattern", w.pattern).Str("path", full).Msg("walker match")
	return emit(full)
}

// walkOptions maps walker options to doublestar options.
func (w *Walker) walkOptions() []doublestar.GlobOption {
	var opts []doublestar.GlobOption
	if w.opts.Strict {
		opts = append(opts, doublestar.WithFailOnIOErrors())
	}

	if w.opts.NoDir {
		opts = append(opts, doublestar.WithFilesOnly())
	}

	return opts
}

// checkBase reports base directory access problems other than absence.
// Only strict walkers fail on them.
func (w *Walker) checkBase() error {
	_, err := os.Stat(filepath.FromSlash(w.base))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if w.opts.Strict {
		return fmt.Errorf("stat %s: %w", w.base, err)
	}

	if !w.opts.Silent {
		w.log.Warn().Err(err).Str("base", w.base).Msg("skipping unreadable glob base")
	}

	return nil
}

// ignored reports whether absolute slash path matches any ignore pattern.
func (w *Walker) ignored(full string) bool {
	for _, pattern := range w.opts.Ignore {
		ok, err := doublestar.Match(filepath.ToSlash(pattern), full)
		if err != nil {
			if !w.opts.Silent {
				w.log.Warn().Err(err).Str("ignore", pattern).Msg("bad ignore pattern")
			}

			continue
		}

		if ok {
			return true
		}
	}

	return false
}

// visible applies the dotfile policy to a path relative to base.
//
// With Dot disabled a name starting with "." is only matched by a pattern
// segment that itself spells the leading "."; "*" and "**" never match it.
func (w *Walker) visible(rel string) bool {
	if w.opts.Dot || !hasDotSegment(rel) {
		return true
	}

	if w.segments == nil {
		// Braces spanning "/" cannot be aligned per segment.
		return hasDotSegment(w.rest)
	}

	return dotAllowed(w.segments, strings.Split(rel, "/"))
}

// dotAllowed aligns pattern segments with path segments and reports whether
// every dot name lines up with a pattern segment spelling the dot.
func dotAllowed(pattern, names []string) bool {
	if len(pattern) == 0 {
		return len(names) == 0
	}

	if pattern[0] == "**" {
		if dotAllowed(pattern[1:], names) {
			return true
		}

		return len(names) > 0 && !isDotName(names[0]) && dotAllowed(pattern, names[1:])
	}

	if len(names) == 0 {
		return false
	}

	if isDotName(names[0]) && !spellsDot(pattern[0]) {
		return false
	}

	if ok, err := doublestar.Match(pattern[0], names[0]); err != nil || !ok {
		return false
	}

	return dotAllowed(pattern[1:], names[1:])
}

// patternSegments splits rest into slash segments for dot alignment.
// It returns nil when a brace set contains "/".
func patternSegments(rest string) []string {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case '{':
			end := findBraceSetEnd(rest, i)
			if end >= 0 && strings.Contains(rest[i:end], "/") {
				return nil
			}
		}
	}

	return strings.Split(strings.TrimSuffix(rest, "/"), "/")
}

// spellsDot reports whether pattern segment seg can only match a dot name
// through a literal leading ".", including inside a brace alternative.
func spellsDot(seg string) bool {
	return strings.HasPrefix(seg, ".") || strings.Contains(seg, "{.") || strings.Contains(seg, ",.")
}

func isDotName(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}

// hasDotSegment reports whether any slash segment of p starts with ".".
func hasDotSegment(p string) bool {
	for seg := range strings.SplitSeq(p, "/") {
		if isDotName(seg) {
			return true
		}
	}

	return false
}

// unescapeLiteral drops the backslash of every escaped character in p.
func unescapeLiteral(p string) string {
	if !strings.Contains(p, `\`) {
		return p
	}

	var sb strings.Builder
	sb.Grow(len(p))
	for i := 0; i < len(p); i++ {
		if p[i] == '\\' && i+1 < len(p) {
			i++
		}

		sb.WriteByte(p[i])
	}

	return sb.String()
}

// splitAbsolute splits absolute pattern into a literal base directory and
// the remaining pattern matched below it.
func splitAbsolute(pattern string) (base, rest string) {
	p := filepath.ToSlash(pattern)
	if !HasMeta(p) {
		trimmed := strings.TrimSuffix(p, "/")
		if trimmed == "" {
			return "/", ""
		}

		if strings.HasSuffix(p, "/") {
			return trimmed, ""
		}

		dir, file := path.Split(trimmed)
		if dir == "" {
			return ".", file
		}

		if dir != "/" {
			dir = strings.TrimSuffix(dir, "/")
		}

		return dir, file
	}

	return doublestar.SplitPattern(p)
}
