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

// Package gzipbody implements the gzip transfer-decoding enumeratee (C5) on
// top of klauspost/compress/gzip, a drop-in, faster replacement for
// compress/gzip already used elsewhere across the teacher's dependency tree.
//
// Per spec §4.3/P10, gzip always wraps the already de-chunked byte stream:
// callers must interpose chunked.NewDecoder first when Transfer-Encoding is
// chunked, then wrap that reader here when Content-Encoding is gzip. Wrapping
// in the other order silently produces garbage instead of an error, so this
// package takes no chunked-awareness shortcuts and only ever sees plain
// bytes.
package gzipbody

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// NewReader wraps src, inflating gzip content as the caller reads. The gzip
// header is read from src inside NewReader itself, so a src that is not a
// valid gzip stream makes NewReader return an error.
func NewReader(src io.Reader) (io.ReadCloser, error) {
	gz, err := gzip.NewReader(src)
	if err != nil {
		return nil, err
	}
	return gz, nil
}
