// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package parallel_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mwilkerson-oss/weave/parallel"
)

func TestTransformMapsEveryElement(t *testing.T) {
	src := make([]int, 5000)
	for i := range src {
		src[i] = i
	}
	dst := make([]string, len(src))
	err := parallel.Transform(dst, src, strconv.Itoa, parallel.WithSequentialThresholdBytes(1))
	require.NoError(t, err)
	for i, v := range dst {
		require.Equal(t, strconv.Itoa(i), v)
	}
}

func TestTransformInPlaceAliasing(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}
	err := parallel.Transform(s, s, func(v int) int { return v * v },
		parallel.WithSequentialThresholdBytes(1))
	require.NoError(t, err)
	require.Equal(t, []int{1, 4, 9, 16, 25}, s)
}

func TestTransformLengthMismatchPanics(t *testing.T) {
	require.Panics(t, func() {
		_ = parallel.Transform(make([]int, 2), make([]int, 3), func(v int) int { return v })
	})
}
