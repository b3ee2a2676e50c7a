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

// Package gohttpcli is a from-scratch HTTP/1.1 client engine: raw TCP/TLS
// sockets, a streaming request encoder and response decoder, chunked and
// gzip transfer-decoding, a keep-alive connection pool, and a redirect
// driver with bounded depth and 303-method coercion.
//
// The packages are layered bottom-up:
//
//	request      - shared data model (Request, Response, Headers, ConnKey)
//	errors       - the four HttpException error variants, plus errors/pool
//	urlutil      - URL parsing (C9), percent-encoding, form-body helper
//	certificates - TLS configuration and peer-certificate-chain checks
//	transport    - raw TCP/TLS socket opening (C1)
//	chunked      - chunked transfer-decoding state machine (C4)
//	gzipbody     - gzip transfer-decoding (C5)
//	headerwire   - status-line and header parsing (C3)
//	wireenc      - request serialization (C6)
//	pool         - the keep-alive connection Manager (C2)
//	client       - the request/redirect drivers and public façade (C7, C8)
//	logger       - ambient structured logging
//	metrics      - optional Prometheus instrumentation of the pool
//	config       - file-backed configuration and hot reload
//	cmd/gohttpcli - a small CLI front-end
package gohttpcli
