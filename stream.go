// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import (
	"context"
	"errors"
	"io"
	"iter"
)

// Stream is a pull-based, non-restartable sequence of matches.
type Stream interface {
	// Next returns the next match, io.EOF at the end, or the terminal error.
	Next(ctx context.Context) (Match, error)
	// Destroy cancels enumeration; err and the close notification follow asynchronously.
	Destroy(err error)
	// Done is closed once the stream stopped enumerating.
	Done() <-chan struct{}
	// Err returns the terminal error, if any.
	Err() error
}

// New builds a stream for patterns.
//
// A single positive pattern is served by its Producer directly; several are
// merged by an Aggregate that drops duplicate paths. Setup problems are
// returned as *ConfigError.
func New(patterns []string, opts Options) (Stream, error) {
	return newStream(patterns, opts, newGlobWalker)
}

// newStream is New with an injectable walker factory.
func newStream(patterns []string, opts Options, factory walkerFactory) (Stream, error) {
	positives, negatives, err := Classify(patterns)
	if err != nil {
		return nil, err
	}

	opts, err = opts.normalize()
	if err != nil {
		return nil, err
	}

	wake := make(chan struct{}, 1)
	producers := make([]*Producer, 0, len(positives))
	for _, entry := range positives {
		spec := Resolve(entry, negatives, opts)
		p, err := newProducer(spec, opts, wake, factory)
		if err != nil {
			for _, created := range producers {
				created.Destroy(nil)
			}

			return nil, err
		}

		opts.Logger.Debug().
			Str("pattern", entry.Pattern).
			Str("absolute", spec.Absolute).
			Str("base", spec.Base).
			Strs("ignore", spec.Ignore).
			Msg("producer ready")

		producers = append(producers, p)
	}

	if len(producers) == 1 {
		return producers[0], nil
	}

	return newAggregate(producers, wake, *opts.Logger), nil
}

// Collect drains s into a slice.
func Collect(ctx context.Context, s Stream) ([]Match, error) {
	var out []Match
	for m, err := range All(ctx, s) {
		if err != nil {
			return out, err
		}

		out = append(out, m)
	}

	return out, nil
}

// All adapts s to a range-over-func sequence. A terminal error is yielded
// once with a zero Match; io.EOF ends the sequence silently. Breaking out of
// the loop destroys the stream.
func All(ctx context.Context, s Stream) iter.Seq2[Match, error] {
	return func(yield func(Match, error) bool) {
		for {
			m, err := s.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				yield(Match{}, err)
				return
			}

			if !yield(m, nil) {
				s.Destroy(nil)
				return
			}
		}
	}
}

// next blocks on poll until it yields a result, waiting on wake in between.
func next(ctx context.Context, wake <-chan struct{}, poll func() (Match, pollResult, error)) (Match, error) {
	for {
		m, res, err := poll()
		switch res {
		case pollReady:
			return m, nil
		case pollEnded:
			return Match{}, io.EOF
		case pollFailed:
			return Match{}, err
		}

		select {
		case <-ctx.Done():
			return Match{}, ctx.Err()
		case <-wake:
		}
	}
}
