// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package parallel_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mwilkerson-oss/weave/parallel"
)

func TestSortProducesNonDecreasingOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.SliceOfN(rapid.IntRange(-1000, 1000), 0, 4000).Draw(t, "s")
		want := slices.Clone(s)
		slices.Sort(want)

		err := parallel.Sort(s, func(a, b int) bool { return a < b },
			parallel.WithSequentialThresholdBytes(1))
		require.NoError(t, err)
		require.Equal(t, want, s)
	})
}

type taggedKey struct {
	key int
	seq int
}

func TestStableSortPreservesEquivalentOrder(t *testing.T) {
	const n = 2000
	s := make([]taggedKey, n)
	for i := range s {
		s[i] = taggedKey{key: i % 17, seq: i}
	}

	err := parallel.StableSort(s, func(a, b taggedKey) bool { return a.key < b.key },
		parallel.WithSequentialThresholdBytes(1))
	require.NoError(t, err)

	require.True(t, slices.IsSortedFunc(s, func(a, b taggedKey) int { return a.key - b.key }))
	lastSeqByKey := make(map[int]int)
	for _, v := range s {
		if prev, ok := lastSeqByKey[v.key]; ok {
			require.Greater(t, v.seq, prev, "equal-key elements must stay in original order")
		}
		lastSeqByKey[v.key] = v.seq
	}
}

func TestSortAlreadySorted(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}
	err := parallel.Sort(s, func(a, b int) bool { return a < b })
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5}, s)
}

func TestSortEmptyAndSingleton(t *testing.T) {
	var empty []int
	require.NoError(t, parallel.Sort(empty, func(a, b int) bool { return a < b }))

	single := []int{9}
	require.NoError(t, parallel.Sort(single, func(a, b int) bool { return a < b }))
	require.Equal(t, []int{9}, single)
}
