// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package parallel

// ForEach calls fn(s[i]) for every element of s. Chunk order is
// unspecified; within a chunk elements are visited front to back, but
// nothing enforces a total order across chunks, so fn must be safe to
// observe concurrently with itself.
func ForEach[T any](s []T, fn func(T), opts ...Option) error {
	c := newConfig(opts)
	n := len(s)
	chunks := planChunks[T](c, n)
	return runChunks(c, chunks, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			fn(s[i])
		}
	}, n)
}

// Fill sets every element of s to v. It is [ForEach] specialized to a
// constant write, matching the original algorithm set's treatment of fill
// as a for_each variant rather than a distinct driver.
func Fill[T any](s []T, v T, opts ...Option) error {
	c := newConfig(opts)
	n := len(s)
	chunks := planChunks[T](c, n)
	return runChunks(c, chunks, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			s[i] = v
		}
	}, n)
}
