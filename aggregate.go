// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Aggregate merges several producers into one stream of unique paths.
//
// Matches of one producer keep their relative order. Across producers the
// first one holding a ready match serves the demand, lower index first.
// A path already emitted is dropped; the first occurrence wins.
type Aggregate struct {
	log  zerolog.Logger
	wake chan struct{}
	done chan struct{}
	err  error

	// seen is the dedup key set, keyed on Match.Path.
	seen      map[string]struct{}
	producers []*Producer
	finished  []bool

	closeOnce sync.Once
	mu        sync.Mutex
	destroyed bool
}

// newAggregate merges producers that share the wake channel.
func newAggregate(producers []*Producer, wake chan struct{}, log zerolog.Logger) *Aggregate {
	return &Aggregate{
		producers: producers,
		finished:  make([]bool, len(producers)),
		seen:      make(map[string]struct{}),
		wake:      wake,
		done:      make(chan struct{}),
		log:       log,
	}
}

// Producers returns the merged producers in source order.
func (a *Aggregate) Producers() []*Producer {
	return a.producers
}

// Next returns the next unique match, io.EOF once every producer ended,
// or the first producer error.
func (a *Aggregate) Next(ctx context.Context) (Match, error) {
	return next(ctx, a.wake, a.poll)
}

// Destroy cancels every producer. The optional err and the close notification
// are delivered asynchronously. Calls after the first are no-ops.
func (a *Aggregate) Destroy(err error) {
	a.mu.Lock()
	if a.destroyed {
		a.mu.Unlock()
		return
	}

	a.destroyed = true
	for _, p := range a.producers {
		p.Destroy(nil)
	}
	a.mu.Unlock()

	go func() {
		if err != nil {
			a.mu.Lock()
			if a.err == nil {
				a.err = err
			}
			a.mu.Unlock()
		}

		a.close()
	}()
}

// Done is closed once every producer stopped or the aggregate failed.
func (a *Aggregate) Done() <-chan struct{} {
	return a.done
}

// Err returns the terminal error, if any.
func (a *Aggregate) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.err
}

// poll serves one unique match from the first ready producer.
func (a *Aggregate) poll() (Match, pollResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.err != nil {
		return Match{}, pollFailed, a.err
	}

	if a.destroyed {
		select {
		case <-a.done:
			return Match{}, pollFailed, ErrDestroyed
		default:
			return Match{}, pollPending, nil
		}
	}

	// A failed source preempts the others. Its own queued matches drain first.
	for i, p := range a.producers {
		if a.finished[i] || !p.failed() {
			continue
		}

		m, res, err := a.pollUnique(p)
		if res == pollReady {
			return m, pollReady, nil
		}

		a.failLocked(i, err)
		return Match{}, pollFailed, err
	}

	active := 0
	for i, p := range a.producers {
		if a.finished[i] {
			continue
		}

		m, res, err := a.pollUnique(p)
		switch res {
		case pollReady:
			return m, pollReady, nil
		case pollEnded:
			a.finished[i] = true
			continue
		case pollFailed:
			a.failLocked(i, err)
			return Match{}, pollFailed, err
		}

		active++
	}

	if active == 0 {
		go a.close()
		return Match{}, pollEnded, nil
	}

	return Match{}, pollPending, nil
}

// pollUnique polls p until it yields an unseen path or stops being ready.
func (a *Aggregate) pollUnique(p *Producer) (Match, pollResult, error) {
	for {
		m, res, err := p.poll()
		if res != pollReady {
			return m, res, err
		}

		if _, dup := a.seen[m.Path]; dup {
			a.log.Trace().Str("path", m.Path).Int("source", p.Spec().Entry.Index).Msg("duplicate dropped")
			continue
		}

		a.seen[m.Path] = struct{}{}
		return m, pollReady, nil
	}
}

// failLocked records the error of producer i and destroys the others.
func (a *Aggregate) failLocked(i int, err error) {
	a.err = err
	for j, p := range a.producers {
		if j != i && !a.finished[j] {
			p.Destroy(nil)
		}
	}

	a.log.Debug().Err(err).Int("source", a.producers[i].Spec().Entry.Index).Msg("aggregate failed")
	go a.close()
}

// close delivers the close notification once.
func (a *Aggregate) close() {
	a.closeOnce.Do(func() {
		close(a.done)
	})

	select {
	case a.wake <- struct{}{}:
	default:
	}
}
