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

// Package request holds the immutable data model shared by every other
// package of gohttpcli: Request, its RequestBody variants, Response, the
// connection pool key, and the peer-certificate check callback.
package request

import (
	"crypto/x509"
	"io"
	"strings"
)

// CertCheck is invoked with the verified peer certificate chain only when a
// Request is secure. Returning false aborts the handshake.
type CertCheck func(chain []*x509.Certificate) bool

// AcceptAllCerts is the default CertCheck used by parsed URLs (spec §4.7).
func AcceptAllCerts([]*x509.Certificate) bool { return true }

// QueryParam is one entry of an ordered query string. Value is nil for a
// bare key with no "=".
type QueryParam struct {
	Name  string
	Value *string
}

// Header is one ordered, case-preserving request header.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header list with case-insensitive lookup, matching
// the wire's case-insensitive name comparison (spec §4.5 "Case policy").
type Headers []Header

// Get returns the first value for name (case-insensitive) and whether it was found.
func (h Headers) Get(name string) (string, bool) {
	for _, e := range h {
		if strings.EqualFold(e.Name, name) {
			return e.Value, true
		}
	}
	return "", false
}

// Has reports whether name is present, case-insensitively.
func (h Headers) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Without returns a copy of h with every entry named name removed
// (case-insensitive). Used by urlEncodedBody to drop a prior Content-Type.
func (h Headers) Without(name string) Headers {
	out := make(Headers, 0, len(h))
	for _, e := range h {
		if !strings.EqualFold(e.Name, name) {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a shallow copy safe to mutate independently of h.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	copy(out, h)
	return out
}

// Set returns a copy of h with any existing name (case-insensitive) removed
// and name/value appended, preserving wire order for the remaining entries.
func (h Headers) Set(name, value string) Headers {
	out := h.Without(name)
	return append(out, Header{Name: name, Value: value})
}

// Body is the RequestBody variant of spec §3: either a finite byte sequence
// of known length, or a declared-length, restartable byte producer.
//
// Only two implementations exist: BytesBody and StreamBody. Open is a pure
// factory: the redirect driver (C8) may call it more than once when a
// request is replayed after a 3xx response, so it must never consume shared
// state irreversibly.
type Body interface {
	// Len returns the declared content length.
	Len() int64
	// Open returns a fresh reader over the body content. For BytesBody this
	// always succeeds and starts from byte zero; for StreamBody it delegates
	// to the caller-supplied factory.
	Open() (io.Reader, error)
}

// EmptyBody is the zero-length Bytes body used by default (GET, HEAD, ...).
var EmptyBody Body = BytesBody(nil)

// BytesBody is the "fully-known bytes" RequestBody variant.
type BytesBody []byte

func (b BytesBody) Len() int64 { return int64(len(b)) }

func (b BytesBody) Open() (io.Reader, error) {
	return newByteReader(b), nil
}

// StreamBody is the "declared length + restartable producer" RequestBody
// variant (spec §3, §9 "Restartable request bodies"). Open must be callable
// repeatedly and return a fresh, independent reader each time.
type StreamBody struct {
	Length int64
	Open_  func() (io.Reader, error)
}

func (s StreamBody) Len() int64 { return s.Length }

func (s StreamBody) Open() (io.Reader, error) {
	return s.Open_()
}

// Request is the immutable value bundling everything needed to encode and
// send one HTTP/1.1 request (spec §3).
type Request struct {
	Method         string
	Secure         bool
	Host           string
	Port           int
	Path           string
	QueryString    []QueryParam
	RequestHeaders Headers
	CheckCerts     CertCheck
	RequestBody    Body
}

// ConnKey is the (host, port, secure) tuple the connection pool keys on.
// Keys compare byte-exact on host: no case folding, no DNS unification
// (spec §3 "ConnKey").
type ConnKey struct {
	Host   string
	Port   int
	Secure bool
}

// Key derives the pool key for this request.
func (r Request) Key() ConnKey {
	return ConnKey{Host: r.Host, Port: r.Port, Secure: r.Secure}
}

// Clone returns an independent copy of r whose header/query slices can be
// mutated without aliasing the original — required by the redirect driver,
// which rewrites host/port/path/query on every hop while preserving the rest
// of the request (spec §4.6).
func (r Request) Clone() Request {
	n := r
	n.QueryString = append([]QueryParam(nil), r.QueryString...)
	n.RequestHeaders = r.RequestHeaders.Clone()
	return n
}

// Response is only produced by the default "collect to bytes" consumer
// (spec §4.8); streaming callers never materialize it.
type Response struct {
	StatusCode      int
	ResponseHeaders Headers
	ResponseBody    []byte
}
