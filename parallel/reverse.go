// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package parallel

// Reverse reverses s in place. Work is split into paired front/back chunks,
// each swapping its own front-half elements with the corresponding
// back-half elements, so chunks never contend on the same index.
func Reverse[T any](s []T, opts ...Option) error {
	n := len(s)
	if n < 2 {
		return nil
	}
	c := newConfig(opts)
	half := n / 2
	chunks := planChunks[T](c, half)
	return runChunks(c, chunks, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			j := n - 1 - i
			s[i], s[j] = s[j], s[i]
		}
	}, half)
}
