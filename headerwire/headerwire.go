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

// Package headerwire implements the Header Parser (C3): reads an HTTP/1.1
// status line and header block from a bufio.Reader, emitting the parsed
// status code, reason phrase, and headers in wire order, and leaves the
// reader positioned at the first body byte.
package headerwire

import (
	"bufio"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"

	liberr "github.com/sabouaram/gohttpcli/errors"
	"github.com/sabouaram/gohttpcli/request"
)

// StatusLine is the parsed "HTTP/1.1 200 OK" line; the HTTP version itself
// is not surfaced to callers (spec §6 "httpVersion-ignored").
type StatusLine struct {
	StatusCode int
	Reason     string
}

// ReadResponse reads the status line and header block from r, stopping
// after the blank line that terminates headers so r is positioned at the
// first body byte.
func ReadResponse(r *bufio.Reader) (StatusLine, request.Headers, error) {
	sl, err := readStatusLine(r)
	if err != nil {
		return StatusLine{}, nil, err
	}

	headers, err := readHeaders(r)
	if err != nil {
		return StatusLine{}, nil, err
	}

	return sl, headers, nil
}

func readStatusLine(r *bufio.Reader) (StatusLine, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return StatusLine{}, liberr.NewHTTPParser("status line")
	}
	line = strings.TrimRight(line, "\r\n")

	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/") {
		return StatusLine{}, liberr.NewHTTPParser("status line")
	}

	code, err := strconv.Atoi(parts[1])
	if err != nil || code < 100 || code > 999 {
		return StatusLine{}, liberr.NewHTTPParser("status line")
	}

	reason := ""
	if len(parts) == 3 {
		reason = parts[2]
	}

	return StatusLine{StatusCode: code, Reason: reason}, nil
}

// readHeaders reads "Name: Value\r\n" lines, preserving both order and the
// name's original case, until a blank line. A folded continuation line
// (leading space/tab) is appended to the previous header's value, per
// RFC 7230 §3.2.4 obsolete line folding.
func readHeaders(r *bufio.Reader) (request.Headers, error) {
	var headers request.Headers

	for {
		raw, err := r.ReadString('\n')
		if err != nil {
			return nil, liberr.NewHTTPParser("header")
		}
		line := strings.TrimRight(raw, "\r\n")

		if line == "" {
			return headers, nil
		}

		if (line[0] == ' ' || line[0] == '\t') && len(headers) > 0 {
			headers[len(headers)-1].Value += " " + strings.TrimSpace(line)
			continue
		}

		idx := strings.IndexByte(line, ':')
		if idx <= 0 {
			return nil, liberr.NewHTTPParser("header")
		}

		name := line[:idx]
		value := strings.TrimSpace(line[idx+1:])

		if !httpguts.ValidHeaderFieldName(name) {
			return nil, liberr.NewHTTPParser("header")
		}

		headers = append(headers, request.Header{Name: name, Value: value})
	}
}
