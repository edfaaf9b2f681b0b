// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package globstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeStream(t *testing.T, patterns []string, scripts map[string]fakeScript) (Stream, *fakeWalkers) {
	t.Helper()

	fw := newFakeWalkers(scripts)
	opts := DefaultOptions()
	opts.Cwd = "/work"

	s, err := newStream(patterns, opts, fw.factory)
	require.NoError(t, err)

	return s, fw
}

func TestStreamSinglePatternShortcut(t *testing.T) {
	t.Parallel()

	s, _ := newFakeStream(t, []string{"*.txt"}, map[string]fakeScript{
		"*.txt": {paths: []string{"/work/a.txt"}},
	})

	_, ok := s.(*Producer)
	assert.True(t, ok, "single positive pattern must not be aggregated, got %T", s)
}

func TestAggregateDropsDuplicatePaths(t *testing.T) {
	t.Parallel()

	s, _ := newFakeStream(t, []string{"*.txt", "a*.txt"}, map[string]fakeScript{
		"*.txt":  {paths: []string{"/work/abc.txt", "/work/b.txt"}},
		"a*.txt": {paths: []string{"/work/abc.txt", "/work/axe.txt"}},
	})

	_, ok := s.(*Aggregate)
	require.True(t, ok, "got %T", s)

	got, err := Collect(context.Background(), s)
	require.NoError(t, err)

	paths := make([]string, 0, len(got))
	for _, m := range got {
		paths = append(paths, m.Path)
	}

	assert.ElementsMatch(t, []string{"/work/abc.txt", "/work/b.txt", "/work/axe.txt"}, paths)
}

func TestAggregatePreservesPerSourceOrder(t *testing.T) {
	t.Parallel()

	var left, right []string
	for i := range 20 {
		left = append(left, fmt.Sprintf("/work/l/%02d", i))
		right = append(right, fmt.Sprintf("/work/r/%02d", 19-i))
	}

	s, _ := newFakeStream(t, []string{"l/*", "r/*"}, map[string]fakeScript{
		"l/*": {paths: left},
		"r/*": {paths: right},
	})

	got, err := Collect(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, got, 40)

	var gotLeft, gotRight []string
	for _, m := range got {
		switch m.Base {
		case "/work/l/":
			gotLeft = append(gotLeft, m.Path)
		case "/work/r/":
			gotRight = append(gotRight, m.Path)
		default:
			t.Fatalf("unexpected base %q", m.Base)
		}
	}

	assert.Equal(t, left, gotLeft)
	assert.Equal(t, right, gotRight)
}

func TestAggregateOverlappingBases(t *testing.T) {
	t.Parallel()

	s, _ := newFakeStream(t, []string{"sub/*.txt", "**/*.txt"}, map[string]fakeScript{
		"sub/*.txt": {paths: []string{"/work/sub/a.txt"}},
		"**/*.txt":  {paths: []string{"/work/sub/a.txt", "/work/b.txt"}},
	})

	got, err := Collect(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for _, m := range got {
		switch m.Path {
		case "/work/sub/a.txt":
			// Either source may win the race; the winner's base is kept.
			assert.Contains(t, []string{"/work/sub/", "/work/"}, m.Base)
		case "/work/b.txt":
			assert.Equal(t, "/work/", m.Base)
		default:
			t.Fatalf("unexpected path %q", m.Path)
		}
	}
}

func TestAggregateErrorTerminates(t *testing.T) {
	t.Parallel()

	walkErr := errors.New("io failure")
	s, fw := newFakeStream(t, []string{"a/*", "b/*"}, map[string]fakeScript{
		"a/*": {err: walkErr},
		"b/*": {paths: []string{"/work/b/1"}, hang: true},
	})

	var err error
	for err == nil {
		_, err = s.Next(context.Background())
	}

	require.ErrorIs(t, err, walkErr)

	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, walkErr, "error must be terminal")

	require.Eventually(t, func() bool {
		_, _, aborted := fw.get("b/*").stats()
		return aborted
	}, time.Second, 5*time.Millisecond)

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("close notification not delivered")
	}
}

func TestAggregateLaterSourceErrorPreemptsReadyMatches(t *testing.T) {
	t.Parallel()

	var paths []string
	for i := range 40 {
		paths = append(paths, fmt.Sprintf("/work/a/%02d", i))
	}

	walkErr := errors.New("io failure")
	s, fw := newFakeStream(t, []string{"a/*", "b/*"}, map[string]fakeScript{
		"a/*": {paths: paths},
		"b/*": {err: walkErr},
	})

	agg, ok := s.(*Aggregate)
	require.True(t, ok, "got %T", s)

	_, err := agg.Next(context.Background())
	if err == nil {
		require.Eventually(t, func() bool {
			return agg.Producers()[1].Err() != nil
		}, time.Second, 5*time.Millisecond)

		_, err = agg.Next(context.Background())
	}

	require.ErrorIs(t, err, walkErr, "source 0 still had ready matches")
	assert.Same(t, walkErr, agg.Err())

	require.Eventually(t, func() bool {
		_, _, aborted := fw.get("a/*").stats()
		return aborted
	}, time.Second, 5*time.Millisecond)
}

func TestAggregateNotFoundFromOneSource(t *testing.T) {
	t.Parallel()

	s, _ := newFakeStream(t, []string{"*.txt", "exact.txt"}, map[string]fakeScript{
		"*.txt":     {paths: []string{"/work/a.txt"}},
		"exact.txt": {singular: true},
	})

	_, err := Collect(context.Background(), s)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "exact.txt")
}

func TestAggregateEndsWhenAllSourcesEnd(t *testing.T) {
	t.Parallel()

	s, _ := newFakeStream(t, []string{"a/*", "b/*", "c/*"}, map[string]fakeScript{
		"a/*": {paths: []string{"/work/a/1"}},
		"b/*": {},
		"c/*": {paths: []string{"/work/c/1", "/work/c/2"}},
	})

	got, err := Collect(context.Background(), s)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("close notification not delivered")
	}
}

func TestAggregateDestroy(t *testing.T) {
	t.Parallel()

	s, fw := newFakeStream(t, []string{"a/*", "b/*"}, map[string]fakeScript{
		"a/*": {hang: true},
		"b/*": {hang: true},
	})

	cause := errors.New("stop")
	s.Destroy(cause)
	s.Destroy(nil)

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("close notification not delivered")
	}

	_, err := s.Next(context.Background())
	assert.Same(t, cause, err)

	for _, pattern := range []string{"a/*", "b/*"} {
		_, _, aborted := fw.get(pattern).stats()
		assert.True(t, aborted, pattern)
	}
}

func TestAllBreakDestroysStream(t *testing.T) {
	t.Parallel()

	s, fw := newFakeStream(t, []string{"a/*"}, map[string]fakeScript{
		"a/*": {paths: []string{"/work/a/1", "/work/a/2", "/work/a/3"}},
	})

	var seen []string
	for m, err := range All(context.Background(), s) {
		require.NoError(t, err)
		seen = append(seen, m.Path)
		if strings.HasSuffix(m.Path, "/1") {
			break
		}
	}

	assert.Equal(t, []string{"/work/a/1"}, seen)

	_, _, aborted := fw.get("a/*").stats()
	assert.True(t, aborted)
}
