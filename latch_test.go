// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weave

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLatchFiresAfterExactCount(t *testing.T) {
	l := NewLatch(3)
	require.False(t, l.TryWait())
	l.Notify()
	require.False(t, l.TryWait())
	l.Notify()
	require.False(t, l.TryWait())
	l.Notify()
	require.True(t, l.TryWait())
	l.Wait()
}

func TestLatchZeroIsAlreadyFired(t *testing.T) {
	l := NewLatch(0)
	require.True(t, l.TryWait())
}

func TestLatchOverNotifyPanics(t *testing.T) {
	l := NewLatch(1)
	l.Notify()
	require.Panics(t, func() { l.Notify() })
}

func TestLatchConcurrentNotify(t *testing.T) {
	const n = 500
	l := NewLatch(n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Notify()
		}()
	}
	l.Wait()
	wg.Wait()
	require.True(t, l.TryWait())
}
