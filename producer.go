// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/woozymasta/globstream/glob"
)

// Walker is the control surface of a glob matcher driven by a Producer.
type Walker interface {
	// Pause stops match delivery until Resume.
	Pause()
	// Resume starts or continues match delivery.
	Resume()
	// Abort stops enumeration for good.
	Abort()
	// Singular reports whether the pattern denotes one literal path.
	Singular() bool
}

// walkerFactory builds the walker for spec, reporting events to l.
type walkerFactory func(spec ResolvedSpec, opts Options, l glob.Listener) (Walker, error)

// newGlobWalker is the default walkerFactory backed by glob.Walker.
func newGlobWalker(spec ResolvedSpec, opts Options, l glob.Listener) (Walker, error) {
	return glob.NewWalker(spec.Absolute, glob.Options{
		Ignore: spec.Ignore,
		Logger: *opts.Logger,
		Dot:    opts.Dot,
		NoNull: opts.NoNull,
		Silent: opts.Silent,
		Strict: opts.Strict,
		NoDir:  opts.NoDir,
	}, l)
}

// producerState is the demand state of one Producer.
type producerState uint8

const (
	// stateIdle means no read request is outstanding and the walker is paused.
	stateIdle producerState = iota
	// stateReading means the walker is resumed and a match is awaited.
	stateReading
	// stateEnded means the walker finished or failed.
	stateEnded
	// stateDestroyed means the producer was cancelled.
	stateDestroyed
)

// pollResult is the outcome of one non-blocking poll.
type pollResult uint8

const (
	pollPending pollResult = iota
	pollReady
	pollEnded
	pollFailed
)

// Producer turns one walker's match events into a pull-based stream.
//
// The walker is paused on every match and only resumed on demand, so at most
// one match is in flight and the read-ahead queue never exceeds the high water mark.
type Producer struct {
	walker Walker
	log    zerolog.Logger
	// wake is signaled on every state change; it may be shared with an Aggregate.
	wake chan struct{}
	done chan struct{}

	queue []Match
	spec  ResolvedSpec
	cwd   string
	err   error

	closeOnce  sync.Once
	mu         sync.Mutex
	hwm        int
	state      producerState
	found      bool
	allowEmpty bool
}

// newProducer builds a producer for spec. opts must be normalized.
func newProducer(spec ResolvedSpec, opts Options, wake chan struct{}, factory walkerFactory) (*Producer, error) {
	p := &Producer{
		spec:       spec,
		cwd:        opts.Cwd,
		hwm:        opts.HighWaterMark,
		allowEmpty: opts.AllowEmpty,
		log:        opts.Logger.With().Str("pattern", spec.Entry.Pattern).Logger(),
		wake:       wake,
		done:       make(chan struct{}),
	}

	w, err := factory(spec, opts, p)
	if err != nil {
		return nil, &ConfigError{Err: err, Index: spec.Entry.Index}
	}

	p.walker = w
	return p, nil
}

// Spec returns the resolved pattern enumerated by the producer.
func (p *Producer) Spec() ResolvedSpec {
	return p.spec
}

// Next returns the next match, io.EOF at the end, or the terminal error.
//
// Context cancellation returns ctx.Err() and leaves the producer usable.
func (p *Producer) Next(ctx context.Context) (Match, error) {
	return next(ctx, p.wake, p.poll)
}

// Destroy cancels the producer. The optional err and the close notification
// are delivered asynchronously. Calls after the first are no-ops.
func (p *Producer) Destroy(err error) {
	p.mu.Lock()
	if p.state == stateDestroyed {
		p.mu.Unlock()
		return
	}

	p.state = stateDestroyed
	p.queue = nil
	p.walker.Abort()
	p.mu.Unlock()

	p.log.Debug().Err(err).Msg("producer destroyed")

	go func() {
		if err != nil {
			p.mu.Lock()
			if p.err == nil {
				p.err = err
			}
			p.mu.Unlock()
		}

		p.close()
	}()
}

// Done is closed once the producer stopped enumerating.
func (p *Producer) Done() <-chan struct{} {
	return p.done
}

// Err returns the terminal error, if any.
func (p *Producer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

// OnMatch implements glob.Listener.
func (p *Producer) OnMatch(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.walker.Pause()
	if p.state == stateEnded || p.state == stateDestroyed {
		return
	}

	p.found = true
	m := Match{
		Cwd:  p.cwd,
		Base: p.spec.Base,
		Path: filepath.Clean(path),
	}

	p.log.Trace().Str("path", m.Path).Msg("match")

	p.queue = append(p.queue, m)
	p.state = stateIdle
	if len(p.queue) < p.hwm {
		p.readLocked()
	}

	p.signal()
}

// OnError implements glob.Listener.
func (p *Producer) OnError(err error) {
	p.mu.Lock()
	if p.state == stateEnded || p.state == stateDestroyed {
		p.mu.Unlock()
		return
	}

	p.err = err
	p.state = stateEnded
	p.signal()
	p.mu.Unlock()

	p.log.Debug().Err(err).Msg("walker failed")
	go p.close()
}

// OnEnd implements glob.Listener.
func (p *Producer) OnEnd() {
	p.mu.Lock()
	if p.state == stateEnded || p.state == stateDestroyed {
		p.mu.Unlock()
		return
	}

	if !p.allowEmpty && !p.found && p.walker.Singular() {
		p.err = &NotFoundError{
			Pattern:  p.spec.Entry.Pattern,
			Absolute: p.spec.Absolute,
		}
	}

	p.state = stateEnded
	p.signal()
	p.mu.Unlock()

	go p.close()
}

// poll takes one ready match without blocking and issues demand otherwise.
func (p *Producer) poll() (Match, pollResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == stateDestroyed {
		if p.err != nil {
			return Match{}, pollFailed, p.err
		}

		select {
		case <-p.done:
			return Match{}, pollFailed, ErrDestroyed
		default:
			return Match{}, pollPending, nil
		}
	}

	// Matches delivered before a walker error are still served.
	if len(p.queue) > 0 {
		m := p.queue[0]
		p.queue[0] = Match{}
		p.queue = p.queue[1:]
		p.readLocked()
		return m, pollReady, nil
	}

	if p.err != nil {
		return Match{}, pollFailed, p.err
	}

	if p.state == stateEnded {
		return Match{}, pollEnded, nil
	}

	p.readLocked()
	return Match{}, pollPending, nil
}

// readLocked resumes the walker unless a read is outstanding or the producer finished.
func (p *Producer) readLocked() {
	if p.state != stateIdle {
		return
	}

	p.state = stateReading
	p.walker.Resume()
}

// failed reports whether the producer holds a terminal error.
func (p *Producer) failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err != nil
}

// buffered returns the current read-ahead queue length.
func (p *Producer) buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.queue)
}

// close delivers the close notification once.
func (p *Producer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})

	p.signal()
}

// signal wakes a waiting consumer without blocking.
func (p *Producer) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}
