// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import (
	"sync"

	"github.com/woozymasta/globstream/glob"
)

// fakeScript describes what one fake walker emits.
type fakeScript struct {
	// err is emitted after paths instead of end.
	err      error
	paths    []string
	singular bool
	// hang keeps the walker running after paths until aborted.
	hang bool
}

// fakeWalker replays a script from its own goroutine and honors Pause/Resume
// the way glob.Walker does.
type fakeWalker struct {
	l      glob.Listener
	cond   *sync.Cond
	script fakeScript

	mu      sync.Mutex
	emitted int
	resumes int
	paused  bool
	aborted bool
	started bool
}

func newFakeWalker(script fakeScript, l glob.Listener) *fakeWalker {
	f := &fakeWalker{
		l:      l,
		script: script,
		paused: true,
	}
	f.cond = sync.NewCond(&f.mu)

	return f
}

func (f *fakeWalker) Pause() {
	f.mu.Lock()
	f.paused = true
	f.mu.Unlock()
}

func (f *fakeWalker) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.resumes++
	if f.aborted {
		return
	}

	f.paused = false
	if !f.started {
		f.started = true
		go f.run()
	}

	f.cond.Broadcast()
}

func (f *fakeWalker) Abort() {
	f.mu.Lock()
	f.aborted = true
	f.cond.Broadcast()
	f.mu.Unlock()
}

func (f *fakeWalker) Singular() bool {
	return f.script.singular
}

func (f *fakeWalker) wait() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for f.paused && !f.aborted {
		f.cond.Wait()
	}

	return !f.aborted
}

func (f *fakeWalker) run() {
	for _, p := range f.script.paths {
		if !f.wait() {
			return
		}

		f.mu.Lock()
		f.emitted++
		f.mu.Unlock()

		f.l.OnMatch(p)
	}

	if f.script.hang {
		f.mu.Lock()
		for !f.aborted {
			f.cond.Wait()
		}
		f.mu.Unlock()

		return
	}

	if !f.wait() {
		return
	}

	if f.script.err != nil {
		f.l.OnError(f.script.err)
		return
	}

	f.l.OnEnd()
}

func (f *fakeWalker) stats() (emitted, resumes int, aborted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.emitted, f.resumes, f.aborted
}

// fakeWalkers builds fake walkers keyed by entry pattern.
type fakeWalkers struct {
	scripts map[string]fakeScript
	made    map[string]*fakeWalker
	mu      sync.Mutex
}

func newFakeWalkers(scripts map[string]fakeScript) *fakeWalkers {
	return &fakeWalkers{
		scripts: scripts,
		made:    make(map[string]*fakeWalker),
	}
}

func (fw *fakeWalkers) factory(spec ResolvedSpec, _ Options, l glob.Listener) (Walker, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	w := newFakeWalker(fw.scripts[spec.Entry.Pattern], l)
	fw.made[spec.Entry.Pattern] = w

	return w, nil
}

func (fw *fakeWalkers) get(pattern string) *fakeWalker {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	return fw.made[pattern]
}
