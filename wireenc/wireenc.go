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

// Package wireenc implements the Request Encoder (C6): serializes a
// request.Request into the raw HTTP/1.1 request-line/headers/body byte
// stream written to a connection.
package wireenc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sabouaram/gohttpcli/request"
	"github.com/sabouaram/gohttpcli/urlutil"
)

// requestTarget builds "path?query" per spec §4.4, percent-encoding the
// query in insertion order.
func requestTarget(r request.Request) string {
	path := r.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if len(r.QueryString) == 0 {
		return path
	}
	return path + "?" + urlutil.EncodeQuery(r.QueryString)
}

func hostHeaderValue(r request.Request) string {
	if (!r.Secure && r.Port == 80) || (r.Secure && r.Port == 443) {
		return r.Host
	}
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Write serializes req onto w: request line, auto headers (Host,
// Content-Length, Accept-Encoding), then user headers, then the body bytes
// read from req.RequestBody.Open(). No buffering of the full body for the Stream variant:
// io.Copy drives bytes straight through.
func Write(w *bufio.Writer, req request.Request) error {
	target := requestTarget(req)

	if _, err := fmt.Fprintf(w, "%s %s HTTP/1.1\r\n", req.Method, target); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Host: %s\r\n", hostHeaderValue(req)); err != nil {
		return err
	}

	length := int64(0)
	if req.RequestBody != nil {
		length = req.RequestBody.Len()
	}
	if _, err := fmt.Fprintf(w, "Content-Length: %s\r\n", strconv.FormatInt(length, 10)); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "Accept-Encoding: gzip\r\n"); err != nil {
		return err
	}

	for _, h := range req.RequestHeaders {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", h.Name, h.Value); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return err
	}

	if length == 0 {
		return w.Flush()
	}

	body, err := req.RequestBody.Open()
	if err != nil {
		return err
	}
	if closer, ok := body.(io.Closer); ok {
		defer closer.Close()
	}

	if _, err = io.Copy(w, body); err != nil {
		return err
	}

	return w.Flush()
}
