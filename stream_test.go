// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weave

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStreamInvokeComposesStages(t *testing.T) {
	p := NewPool(2)
	p.Start()
	defer p.Stop(true)

	s := Pipe(Pipe(Compose[int](),
		func(v int) (int, error) { return v + 1, nil }),
		func(v int) (int, error) { return v * 6, nil })

	done := make(chan int, 1)
	s.Invoke(p, 11, func(v int) { done <- v }, func(idx int, err error) {
		t.Fatalf("unexpected error at stage %d: %v", idx, err)
	})

	select {
	case v := <-done:
		require.Equal(t, 72, v)
	case <-time.After(5 * time.Second):
		t.Fatal("stream invocation did not complete")
	}
}

func TestStreamInvokeReportsFailingStageIndex(t *testing.T) {
	p := NewPool(2)
	p.Start()
	defer p.Stop(true)

	wantErr := errors.New("stage 1 exploded")
	s := Pipe(Pipe(Pipe(Compose[int](),
		func(v int) (int, error) { return v, nil }),
		func(v int) (int, error) { return 0, wantErr }),
		func(v int) (int, error) { t.Fatal("stage 2 must not run"); return v, nil })

	errCh := make(chan struct {
		idx int
		err error
	}, 1)
	s.Invoke(p, 1, func(int) {
		t.Fatal("on-done must not run when a stage fails")
	}, func(idx int, err error) {
		errCh <- struct {
			idx int
			err error
		}{idx, err}
	})

	select {
	case got := <-errCh:
		require.Equal(t, 1, got.idx)
		require.ErrorIs(t, got.err, wantErr)
	case <-time.After(5 * time.Second):
		t.Fatal("stream invocation did not complete")
	}
}

func TestStreamInvokeReportsPanicAsStagePanicked(t *testing.T) {
	p := NewPool(2)
	p.Start()
	defer p.Stop(true)

	s := Pipe(Compose[int](), func(v int) (int, error) {
		panic("stage panic")
	})

	errCh := make(chan error, 1)
	s.Invoke(p, 1, func(int) {
		t.Fatal("on-done must not run")
	}, func(idx int, err error) {
		require.Equal(t, 0, idx)
		errCh <- err
	})

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrStagePanicked)
	case <-time.After(5 * time.Second):
		t.Fatal("stream invocation did not complete")
	}
}
