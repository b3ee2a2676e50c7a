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

// Package chunked implements the HTTP/1.1 chunked transfer-decoding
// enumeratee (C4): an explicit state machine over a bufio.Reader that peels
// chunk framing off as the consumer reads, rather than buffering the whole
// body up front.
package chunked

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	liberr "github.com/sabouaram/gohttpcli/errors"
)

type state int

const (
	stateNeedChunkHeader state = iota
	stateInChunk
	stateNeedNewline
	stateDone
)

// Decoder is an io.Reader that strips chunk framing from src, per spec §4.3.
type Decoder struct {
	src      *bufio.Reader
	st       state
	remain   int64
	// trailing is true once a non-empty trailer remains on src after the
	// zero chunk: such a connection must be closed, never pooled (§9).
	trailing bool
}

// NewDecoder wraps src in a chunked Decoder starting at NeedChunkHeader.
func NewDecoder(src *bufio.Reader) *Decoder {
	return &Decoder{src: src, st: stateNeedChunkHeader}
}

// Trailing reports whether unread trailer bytes remain on the connection
// after Done — the caller must not return such a connection to the pool.
func (d *Decoder) Trailing() bool { return d.trailing }

// Done reports whether the decoder actually reached the zero chunk: the
// wire is fully consumed up to (and including) the trailer CRLF, so src sits
// at the start of the next response. Read returning io.EOF is necessary but
// not sufficient for "safe to pool" on its own — a caller that stops reading
// before the zero chunk never reaches stateDone, and Done reports false.
func (d *Decoder) Done() bool { return d.st == stateDone }

// Read implements io.Reader, returning io.EOF once the zero chunk is reached.
func (d *Decoder) Read(p []byte) (int, error) {
	for {
		switch d.st {
		case stateDone:
			return 0, io.EOF

		case stateNeedChunkHeader:
			n, err := d.readChunkHeader()
			if err != nil {
				return 0, err
			}
			if n == 0 {
				if err = d.consumeTrailer(); err != nil {
					return 0, err
				}
				d.st = stateDone
				return 0, io.EOF
			}
			d.remain = n
			d.st = stateInChunk

		case stateInChunk:
			if len(p) == 0 {
				return 0, nil
			}
			toRead := int64(len(p))
			if toRead > d.remain {
				toRead = d.remain
			}
			n, err := d.src.Read(p[:toRead])
			d.remain -= int64(n)
			if d.remain == 0 {
				d.st = stateNeedNewline
			}
			if n > 0 {
				return n, nil
			}
			if err != nil {
				return 0, err
			}

		case stateNeedNewline:
			if err := d.readCRLF(); err != nil {
				return 0, err
			}
			d.st = stateNeedChunkHeader
		}
	}
}

// readChunkHeader reads "<hex digits>[;ext...]\r\n" and returns the chunk
// size. Extensions after ';' are discarded, matching the source's behavior
// of ignoring chunk extensions entirely.
func (d *Decoder) readChunkHeader() (int64, error) {
	line, err := d.src.ReadString('\n')
	if err != nil {
		return 0, liberr.NewHTTPParser("Chunk header")
	}
	line = trimCRLF(line)

	if semi := strings.IndexByte(line, ';'); semi >= 0 {
		line = line[:semi]
	}
	if line == "" {
		return 0, liberr.NewHTTPParser("Chunk header")
	}

	n, err := strconv.ParseInt(line, 16, 64)
	if err != nil || n < 0 {
		return 0, liberr.NewHTTPParser("Chunk header")
	}
	return n, nil
}

var errBadNewline = liberr.NewHTTPParser("End of chunk newline")

func (d *Decoder) readCRLF() error {
	line, err := d.src.ReadString('\n')
	if err != nil {
		return err
	}
	if trimCRLF(line) != "" {
		return errBadNewline
	}
	return nil
}

// consumeTrailer reads exactly one CRLF after the zero chunk, matching the
// source's minimal trailer handling: an empty trailer section leaves the
// stream at a clean response boundary, any actual trailer header line
// leaves bytes unread and flags Trailing.
func (d *Decoder) consumeTrailer() error {
	line, err := d.src.ReadString('\n')
	if err != nil {
		return liberr.NewHTTPParser("Chunk header")
	}
	if trimCRLF(line) != "" {
		d.trailing = true
	}
	return nil
}

func trimCRLF(s string) string {
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s
}
