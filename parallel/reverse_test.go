// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package parallel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mwilkerson-oss/weave/parallel"
)

func TestReverseEvenLength(t *testing.T) {
	s := []int{1, 2, 3, 4, 5, 6}
	err := parallel.Reverse(s, parallel.WithSequentialThresholdBytes(1))
	require.NoError(t, err)
	require.Equal(t, []int{6, 5, 4, 3, 2, 1}, s)
}

func TestReverseOddLength(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}
	err := parallel.Reverse(s, parallel.WithSequentialThresholdBytes(1))
	require.NoError(t, err)
	require.Equal(t, []int{5, 4, 3, 2, 1}, s)
}

func TestReverseEmptyAndSingleton(t *testing.T) {
	var empty []int
	require.NoError(t, parallel.Reverse(empty))

	single := []int{1}
	require.NoError(t, parallel.Reverse(single))
	require.Equal(t, []int{1}, single)
}
