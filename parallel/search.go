// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package parallel

import "sync/atomic"

// Find returns the index of the leftmost element of s equal to v, or -1 if
// none matches.
func Find[T comparable](s []T, v T, opts ...Option) (int, error) {
	return FindIf(s, func(e T) bool { return e == v }, opts...)
}

// FindIf returns the index of the leftmost element of s for which pred
// reports true, or -1 if none matches. Chunk tasks scanning to the right of
// an already-found match exit early once they observe it, without a
// cancellation token: each records its own best index into a shared atomic
// and later chunks check it before reporting a worse one.
func FindIf[T any](s []T, pred func(T) bool, opts ...Option) (int, error) {
	n := len(s)
	if n == 0 {
		return -1, nil
	}
	c := newConfig(opts)
	chunks := planChunks[T](c, n)

	var best atomic.Int64
	best.Store(int64(n))
	err := runChunks(c, chunks, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			if int64(i) >= best.Load() {
				return
			}
			if pred(s[i]) {
				for {
					cur := best.Load()
					if int64(i) >= cur || best.CompareAndSwap(cur, int64(i)) {
						return
					}
				}
			}
		}
	}, n)
	if err != nil {
		return -1, err
	}
	if v := best.Load(); v < int64(n) {
		return int(v), nil
	}
	return -1, nil
}

// Equal reports whether a and b have the same length and are elementwise
// equal under eq. Chunk tasks stop scanning early once any chunk has
// already reported a mismatch.
func Equal[T any](a, b []T, eq func(x, y T) bool, opts ...Option) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	n := len(a)
	if n == 0 {
		return true, nil
	}
	c := newConfig(opts)
	chunks := planChunks[T](c, n)

	var mismatch atomic.Bool
	err := runChunks(c, chunks, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			if mismatch.Load() {
				return
			}
			if !eq(a[i], b[i]) {
				mismatch.Store(true)
				return
			}
		}
	}, n)
	if err != nil {
		return false, err
	}
	return !mismatch.Load(), nil
}
