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

// Package client implements the Request Driver (C7), the Redirect Driver
// (C8), the default "collect to bytes" consumer, and the public façade of
// spec §6: Do, DoRedirect, HTTPLbs, HTTPLbsRedirect, SimpleHTTP.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sabouaram/gohttpcli/chunked"
	liberr "github.com/sabouaram/gohttpcli/errors"
	"github.com/sabouaram/gohttpcli/gzipbody"
	"github.com/sabouaram/gohttpcli/headerwire"
	"github.com/sabouaram/gohttpcli/logger"
	"github.com/sabouaram/gohttpcli/pool"
	"github.com/sabouaram/gohttpcli/request"
	"github.com/sabouaram/gohttpcli/urlutil"
	"github.com/sabouaram/gohttpcli/wireenc"
)

// Consumer receives the parsed status/headers and a reader over the body,
// already de-chunked and gzip-inflated per spec §4.5 step 6, and returns an
// arbitrary user value.
type Consumer func(statusCode int, headers request.Headers, body io.Reader) (any, error)

// DefaultRedirectBudget is the initial redirect budget of spec §4.6.
const DefaultRedirectBudget = 10

// Do implements the Request Driver (C7).
func Do(ctx context.Context, req request.Request, consumer Consumer, mgr *pool.Manager) (any, error) {
	key := req.Key()

	conn, err := mgr.Borrow(ctx, key, req.CheckCerts)
	if err != nil {
		return nil, err
	}

	rw := bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn))

	if err = wireenc.Write(rw.Writer, req); err != nil {
		_ = conn.Close()
		return nil, err
	}

	status, headers, err := headerwire.ReadResponse(rw.Reader)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if req.Method == "HEAD" {
		result, cerr := consumer(status.StatusCode, headers, strings.NewReader(""))
		if cerr != nil {
			_ = conn.Close()
			return nil, cerr
		}
		mgr.Release(key, conn)
		return result, nil
	}

	body, pooledSafe, err := buildBodyPipeline(rw.Reader, headers, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	result, err := consumer(status.StatusCode, headers, body)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if pooledSafe() {
		mgr.Release(key, conn)
	} else {
		_ = conn.Close()
	}

	return result, nil
}

// countingReader bounds reads to the declared Content-Length and tracks how
// many of those bytes have actually been pulled through it. Unlike a bare
// io.LimitReader, it can report from the outside whether the consumer
// genuinely reached the end of the framed body rather than stopping partway
// — the signal buildBodyPipeline needs to decide pooling safety (spec §9).
type countingReader struct {
	r         io.Reader
	remaining int64
}

func newCountingReader(r io.Reader, n int64) *countingReader {
	return &countingReader{r: r, remaining: n}
}

func (c *countingReader) Read(p []byte) (int, error) {
	if c.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	return n, err
}

// Done reports whether every declared Content-Length byte has been read.
func (c *countingReader) Done() bool { return c.remaining <= 0 }

// buildBodyPipeline wires the chunked decoder and/or Content-Length limiter
// outer-most, then the gzip inflater inner to framing, per spec §4.5 step 6
// and P10. pooledSafe reports, once the body has been fully drained by the
// consumer, whether the connection ended at a clean boundary: genuine
// exhaustion of the framing (chunked.Decoder.Done, or every Content-Length
// byte read), not merely "no malformed trailer observed" — a consumer that
// stops reading early (spec §1's bounded-memory streaming case) must never
// have its connection reported safe to pool (spec §9).
func buildBodyPipeline(r *bufio.Reader, headers request.Headers, conn io.Closer) (io.Reader, func() bool, error) {
	var (
		framed io.Reader
		safe   func() bool
	)

	if te, ok := headers.Get("Transfer-Encoding"); ok && te == "chunked" {
		dec := chunked.NewDecoder(r)
		framed = dec
		safe = func() bool { return dec.Done() && !dec.Trailing() }
	} else if cl, ok := headers.Get("Content-Length"); ok {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || n < 0 {
			return nil, nil, liberr.NewHTTPParser("Content-Length")
		}
		cr := newCountingReader(r, n)
		framed = cr
		safe = cr.Done
	} else {
		// Close-delimited body: no framing tells us where it ends besides
		// EOF, so the connection cannot be trusted at a clean boundary
		// afterward and must not be pooled.
		framed = r
		safe = func() bool { return false }
	}

	if ce, ok := headers.Get("Content-Encoding"); ok && ce == "gzip" {
		gz, err := gzipbody.NewReader(framed)
		if err != nil {
			return nil, nil, err
		}
		return gz, safe, nil
	}

	return framed, safe, nil
}

// collectConsumer is the default "collect to bytes" consumer (§4.8).
func collectConsumer(status int, headers request.Headers, body io.Reader) (any, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return request.Response{StatusCode: status, ResponseHeaders: headers, ResponseBody: b}, nil
}

// HTTPLbs runs Do with the default collect-to-bytes consumer.
func HTTPLbs(ctx context.Context, req request.Request, mgr *pool.Manager) (request.Response, error) {
	v, err := Do(ctx, req, collectConsumer, mgr)
	if err != nil {
		return request.Response{}, err
	}
	return v.(request.Response), nil
}

func isRedirectStatus(code int) bool { return code >= 300 && code < 400 }

// DoRedirect implements the Redirect Driver (C8): wraps Do with a
// redirect-aware consumer that, on 3xx+Location, records the next hop; the
// hop is issued once Do has returned (and released or closed the current
// connection), recursing up to budget hops.
func DoRedirect(ctx context.Context, req request.Request, consumer Consumer, mgr *pool.Manager, budget int) (any, error) {
	var hop *request.Request

	wrapped := func(status int, headers request.Headers, body io.Reader) (any, error) {
		if !isRedirectStatus(status) {
			return consumer(status, headers, body)
		}

		loc, ok := headers.Get("Location")
		if !ok {
			return consumer(status, headers, body)
		}

		// Drain the body fully before the connection is released/closed by
		// Do, so a keep-alive connection sees a clean boundary.
		_, _ = io.Copy(io.Discard, body)

		if budget <= 0 {
			return nil, liberr.ErrTooManyRedirects
		}

		next, err := resolveRedirect(req, loc, status)
		if err != nil {
			return nil, err
		}

		hop = &next
		return nil, nil
	}

	v, err := Do(ctx, req, wrapped, mgr)
	if err != nil || hop == nil {
		return v, err
	}

	return DoRedirect(ctx, *hop, consumer, mgr, budget-1)
}

// resolveRedirect builds the next hop's Request per spec §4.6.
func resolveRedirect(req request.Request, location string, status int) (request.Request, error) {
	var absolute string
	if strings.HasPrefix(location, "/") {
		scheme := "http"
		if req.Secure {
			scheme = "https"
		}
		absolute = fmt.Sprintf("%s://%s:%d%s", scheme, req.Host, req.Port, location)
	} else {
		absolute = location
	}

	parsed, err := urlutil.ParseURL(absolute)
	if err != nil {
		return request.Request{}, err
	}

	next := req.Clone()
	next.Host = parsed.Host
	next.Port = parsed.Port
	next.Secure = parsed.Secure
	next.Path = parsed.Path
	next.QueryString = parsed.QueryString

	if status == 303 {
		next.Method = "GET"
		next.RequestBody = request.EmptyBody
	}

	return next, nil
}

// HTTPLbsRedirect runs DoRedirect with the default collect-to-bytes consumer
// and the default redirect budget.
func HTTPLbsRedirect(ctx context.Context, req request.Request, mgr *pool.Manager) (request.Response, error) {
	return HTTPLbsRedirectBudget(ctx, req, mgr, DefaultRedirectBudget)
}

// HTTPLbsRedirectBudget runs DoRedirect with the default collect-to-bytes
// consumer and an explicit redirect budget, letting callers (e.g. cmd/gohttpcli,
// driven by config.Config.RedirectBudget) override DefaultRedirectBudget.
func HTTPLbsRedirectBudget(ctx context.Context, req request.Request, mgr *pool.Manager, budget int) (request.Response, error) {
	v, err := DoRedirect(ctx, req, collectConsumer, mgr, budget)
	if err != nil {
		return request.Response{}, err
	}
	return v.(request.Response), nil
}

// SimpleHTTP implements spec §6's simpleHttp(url) → bytes: parse, follow
// redirects, and fail with StatusCodeError for a non-2xx final response.
func SimpleHTTP(ctx context.Context, url string, mgr *pool.Manager) ([]byte, error) {
	req, err := urlutil.ParseURL(url)
	if err != nil {
		return nil, err
	}

	resp, err := HTTPLbsRedirect(ctx, req, mgr)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, liberr.NewStatusCode(resp.StatusCode, resp.ResponseBody)
	}

	return resp.ResponseBody, nil
}

// NewManager, CloseManager, and WithManager re-export pool's lifecycle
// operations under the names spec §6 gives the public surface.
func NewManager(tlsCfg pool.TLSConfigFunc, log logger.Logger, hooks pool.Hooks) *pool.Manager {
	return pool.New(tlsCfg, log, hooks)
}

func CloseManager(mgr *pool.Manager) error {
	return mgr.CloseAll()
}

func WithManager(tlsCfg pool.TLSConfigFunc, log logger.Logger, hooks pool.Hooks, f func(mgr *pool.Manager) error) error {
	return pool.WithManager(tlsCfg, log, hooks, f)
}
