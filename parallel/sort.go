// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package parallel

import (
	"fmt"
	"slices"

	"github.com/mwilkerson-oss/weave"
)

// Sort arranges s into non-decreasing order under less. Equivalent elements
// may end up in any relative order; use [StableSort] to preserve it.
func Sort[T any](s []T, less func(a, b T) bool, opts ...Option) error {
	return sortImpl(s, less, opts, false)
}

// StableSort arranges s into non-decreasing order under less, preserving
// the relative order of equivalent elements.
func StableSort[T any](s []T, less func(a, b T) bool, opts ...Option) error {
	return sortImpl(s, less, opts, true)
}

func sortImpl[T any](s []T, less func(a, b T) bool, opts []Option, stable bool) error {
	n := len(s)
	c := newConfig(opts)
	chunks := planChunks[T](c, n)
	if chunks <= 1 {
		sequentialSort(s, less, stable)
		return nil
	}
	if err := runChunks(c, chunks, func(_, lo, hi int) {
		sequentialSort(s[lo:hi], less, stable)
	}, n); err != nil {
		return err
	}
	return mergeChunks(c, s, n, chunks, less)
}

func sequentialSort[T any](s []T, less func(a, b T) bool, stable bool) {
	cmpFn := compareFunc(less)
	if stable {
		slices.SortStableFunc(s, cmpFn)
	} else {
		slices.SortFunc(s, cmpFn)
	}
}

func compareFunc[T any](less func(a, b T) bool) func(a, b T) int {
	return func(a, b T) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	}
}

// mergeChunks repeatedly merges adjacent sorted chunks pairwise, in
// parallel, until one sorted range remains, mirroring the original
// algorithm set's merge_reduce_range: round r merges pairs (0,1), (2,3), ...
// and carries a dangling odd range forward unmerged to round r+1.
func mergeChunks[T any](c *config, s []T, n, chunks int, less func(a, b T) bool) error {
	type span struct{ lo, hi int }
	ranges := make([]span, chunks)
	for i := range ranges {
		lo, hi := bounds(n, chunks, i)
		ranges[i] = span{lo, hi}
	}

	for len(ranges) > 1 {
		count := len(ranges)
		if count%2 != 0 {
			count--
		}
		pairs := count / 2
		next := make([]span, 0, pairs+1)
		latch := weave.NewLatch(uint32(pairs))
		errs := make([]error, pairs)
		for pairIdx, i := 0, 1; i < count; pairIdx, i = pairIdx+1, i+2 {
			pairIdx, lo, mid, hi := pairIdx, ranges[i-1].lo, ranges[i].lo, ranges[i].hi
			submitted := c.pool.Submit(func() {
				defer latch.Notify()
				errs[pairIdx] = mergeAdjacent(c, s, lo, mid, hi, less)
			})
			if !submitted {
				errs[pairIdx] = weave.ErrSubmissionRefused
				latch.Notify()
			}
			next = append(next, span{lo, hi})
		}
		c.pool.WaitFor(latch)
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
		if count != len(ranges) {
			next = append(next, ranges[len(ranges)-1])
		}
		ranges = next
	}
	return nil
}

// mergeAdjacent merges the two sorted, contiguous ranges [lo,mid) and
// [mid,hi) of s into a scratch buffer, then copies the result back.
func mergeAdjacent[T any](c *config, s []T, lo, mid, hi int, less func(a, b T) bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", weave.ErrStagePanicked, r)
		}
	}()
	buf := make([]T, hi-lo)
	if e := mergeTwoRanges(c, buf, s, lo, mid, mid, hi, less); e != nil {
		return e
	}
	copy(s[lo:hi], buf)
	return nil
}

// mergeTwoRanges merges the sorted ranges [aLo,aHi) and [bLo,bHi) of s into
// buf (which must have length (aHi-aLo)+(bHi-bLo)). Below the sequential
// threshold, or when only two elements remain, it merges directly;
// otherwise it picks the median of the larger range, binary-searches that
// value's insertion point in the smaller range, and recurses on the two
// resulting pieces in parallel. A tie at the pivot is resolved toward the
// range that appears first in s, so stability is preserved when the
// caller's per-chunk sort was stable.
func mergeTwoRanges[T any](c *config, buf []T, s []T, aLo, aHi, bLo, bHi int, less func(a, b T) bool) error {
	lenA, lenB := aHi-aLo, bHi-bLo
	if lenA == 0 {
		copy(buf, s[bLo:bHi])
		return nil
	}
	if lenB == 0 {
		copy(buf, s[aLo:aHi])
		return nil
	}
	// Two single elements cannot be split further: the split below would
	// hand the same two ranges back to itself.
	if lenA+lenB < elementThreshold[T](c) || lenA+lenB <= 2 {
		mergeSequentialInto(buf, s, aLo, aHi, bLo, bHi, less)
		return nil
	}

	var aMid, bMid int
	if lenA >= lenB {
		aMid = aLo + lenA/2
		bMid = searchInsertion(s, bLo, bHi, s[aMid], less)
	} else {
		bMid = bLo + lenB/2
		// Upper bound: elements of the first range equal to the pivot stay
		// in the left piece, ahead of the pivot and its equals from B.
		pivot := s[bMid]
		i, _ := slices.BinarySearchFunc(s[aLo:aHi], pivot, func(e, p T) int {
			if less(p, e) {
				return 1
			}
			return -1
		})
		aMid = aLo + i
	}
	leftLen := (aMid - aLo) + (bMid - bLo)
	leftBuf, rightBuf := buf[:leftLen], buf[leftLen:]

	latch := weave.NewLatch(2)
	var errLeft, errRight error
	if submitted := c.pool.Submit(func() {
		defer latch.Notify()
		errLeft = mergeRecover(c, leftBuf, s, aLo, aMid, bLo, bMid, less)
	}); !submitted {
		errLeft = weave.ErrSubmissionRefused
		latch.Notify()
	}
	if submitted := c.pool.Submit(func() {
		defer latch.Notify()
		errRight = mergeRecover(c, rightBuf, s, aMid, aHi, bMid, bHi, less)
	}); !submitted {
		errRight = weave.ErrSubmissionRefused
		latch.Notify()
	}
	c.pool.WaitFor(latch)
	if errLeft != nil {
		return errLeft
	}
	return errRight
}

func mergeRecover[T any](c *config, buf []T, s []T, aLo, aHi, bLo, bHi int, less func(a, b T) bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", weave.ErrStagePanicked, r)
		}
	}()
	return mergeTwoRanges(c, buf, s, aLo, aHi, bLo, bHi, less)
}

func mergeSequentialInto[T any](buf []T, s []T, aLo, aHi, bLo, bHi int, less func(a, b T) bool) {
	i, j, k := aLo, bLo, 0
	for i < aHi && j < bHi {
		if less(s[j], s[i]) {
			buf[k] = s[j]
			j++
		} else {
			buf[k] = s[i]
			i++
		}
		k++
	}
	for ; i < aHi; i, k = i+1, k+1 {
		buf[k] = s[i]
	}
	for ; j < bHi; j, k = j+1, k+1 {
		buf[k] = s[j]
	}
}

// searchInsertion returns the lowest index in s[lo:hi] at which pivot could
// be inserted without violating sort order (a lower-bound search), so that
// elements equal to pivot already in s[lo:hi] land after it.
func searchInsertion[T any](s []T, lo, hi int, pivot T, less func(a, b T) bool) int {
	i, _ := slices.BinarySearchFunc(s[lo:hi], pivot, compareFunc(less))
	return lo + i
}
