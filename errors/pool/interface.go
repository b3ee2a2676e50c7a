/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package pool is a small, thread-safe error collector used by
// pool.Manager.CloseAll to gather one Close error per evicted connection
// without letting a single failure abort the sweep.
package pool

// Pool collects errors concurrently and folds them into one error.
type Pool interface {
	// Add appends every non-nil error in e, each under its own sequential index.
	Add(e ...error)

	// Get retrieves the error at index i, or nil if none is stored there.
	Get(i uint64) error

	// Slice returns every stored error; order is not guaranteed.
	Slice() []error

	// Len returns the count of stored errors.
	Len() uint64

	// Clear empties the pool without resetting the sequence counter.
	Clear()

	// Error folds every stored error into a single hashicorp/go-multierror,
	// or nil if the pool is empty.
	Error() error
}

// New creates an empty, ready-to-use error Pool.
func New() Pool {
	return &mod{errs: make(map[uint64]error)}
}
