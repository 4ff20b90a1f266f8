// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package parallel

import (
	"sync"

	"github.com/addrummond/heap"
)

// chunkExtremum is one chunk's locally-best element, ordered for the
// combine heap by chunkIndex rather than by value: chunks complete in
// whatever order tasks happen to finish (including out of order, under
// stealing), but the leftmost-wins tie-break requires combining them back in
// original chunk order.
type chunkExtremum[T any] struct {
	chunkIndex int
	index      int
	value      T
}

func (a *chunkExtremum[T]) Cmp(b *chunkExtremum[T]) int {
	return a.chunkIndex - b.chunkIndex
}

// extremum finds the index of the element for which better eventually
// returns false against every other candidate, breaking ties toward the
// leftmost (lowest-index) element. better(candidate, current) reports
// whether candidate should replace current as the running best.
func extremum[T any](s []T, better func(candidate, current T) bool, opts ...Option) (int, error) {
	n := len(s)
	if n == 0 {
		return -1, nil
	}
	c := newConfig(opts)
	chunks := planChunks[T](c, n)

	var mu sync.Mutex
	var h heap.Heap[chunkExtremum[T], heap.Min]
	err := runChunks(c, chunks, func(ci, lo, hi int) {
		bestIdx := lo
		bestVal := s[lo]
		for i := lo + 1; i < hi; i++ {
			if better(s[i], bestVal) {
				bestIdx = i
				bestVal = s[i]
			}
		}
		mu.Lock()
		heap.PushOrderable(&h, chunkExtremum[T]{chunkIndex: ci, index: bestIdx, value: bestVal})
		mu.Unlock()
	}, n)
	if err != nil {
		return -1, err
	}

	resultIdx := -1
	var resultVal T
	have := false
	for {
		cr, ok := heap.PopOrderable(&h)
		if !ok {
			break
		}
		if !have || better(cr.value, resultVal) {
			resultIdx, resultVal, have = cr.index, cr.value, true
		}
	}
	return resultIdx, nil
}

// MinElement returns the index of the smallest element under less, or -1 if
// s is empty. Ties return the leftmost (lowest-index) occurrence.
func MinElement[T any](s []T, less func(a, b T) bool, opts ...Option) (int, error) {
	return extremum(s, less, opts...)
}

// MaxElement returns the index of the largest element under less, or -1 if
// s is empty. Ties return the leftmost (lowest-index) occurrence.
func MaxElement[T any](s []T, less func(a, b T) bool, opts ...Option) (int, error) {
	return extremum(s, func(candidate, current T) bool { return less(current, candidate) }, opts...)
}
