/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package client_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gohttpcli/client"
	liberr "github.com/sabouaram/gohttpcli/errors"
	"github.com/sabouaram/gohttpcli/pool"
	"github.com/sabouaram/gohttpcli/request"
)

func newReq(host string, port int, path string) request.Request {
	return request.Request{
		Method:      "GET",
		Host:        host,
		Port:        port,
		Path:        path,
		RequestBody: request.EmptyBody,
		CheckCerts:  request.AcceptAllCerts,
	}
}

var _ = Describe("HTTPLbs", func() {

	It("returns the body for a Content-Length response (scenario 1)", func() {
		host, port, closeFn := newScriptedServer([]string{
			"HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello",
		})
		defer closeFn()

		mgr := pool.New(nil, nil, pool.Hooks{})
		defer mgr.CloseAll()

		resp, err := client.HTTPLbs(context.Background(), newReq(host, port, "/"), mgr)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(200))
		Expect(string(resp.ResponseBody)).To(Equal("hello"))
	})

	It("decodes a chunked body (scenario 2)", func() {
		host, port, closeFn := newScriptedServer([]string{
			"HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n",
		})
		defer closeFn()

		mgr := pool.New(nil, nil, pool.Hooks{})
		defer mgr.CloseAll()

		resp, err := client.HTTPLbs(context.Background(), newReq(host, port, "/"), mgr)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(resp.ResponseBody)).To(Equal("hello world"))
	})

	It("inflates gzip inner to chunk framing (scenario 3, P10)", func() {
		var gz bytes.Buffer
		w := gzip.NewWriter(&gz)
		_, _ = w.Write([]byte("abc"))
		_ = w.Close()

		chunkedBody := chunkedFrame(gz.Bytes())

		host, port, closeFn := newScriptedServer([]string{
			"HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\nContent-Encoding: gzip\r\n\r\n" + chunkedBody,
		})
		defer closeFn()

		mgr := pool.New(nil, nil, pool.Hooks{})
		defer mgr.CloseAll()

		resp, err := client.HTTPLbs(context.Background(), newReq(host, port, "/"), mgr)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(resp.ResponseBody)).To(Equal("abc"))
	})

	It("opens exactly one socket for two sequential calls to the same key (scenario 6, P1)", func() {
		host, port, closeFn := newScriptedServer([]string{
			"HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok",
			"HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok",
		})
		defer closeFn()

		mgr := pool.New(nil, nil, pool.Hooks{})
		defer mgr.CloseAll()

		_, err := client.HTTPLbs(context.Background(), newReq(host, port, "/"), mgr)
		Expect(err).ToNot(HaveOccurred())

		_, err = client.HTTPLbs(context.Background(), newReq(host, port, "/"), mgr)
		Expect(err).ToNot(HaveOccurred())
	})
})

var _ = Describe("HTTPLbsRedirect", func() {

	It("follows a relative Location, preserving method (scenario 4)", func() {
		host, port, closeFn := newScriptedServer([]string{
			"HTTP/1.1 302 Found\r\nLocation: /b\r\nContent-Length: 0\r\n\r\n",
			"HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok",
		})
		defer closeFn()

		mgr := pool.New(nil, nil, pool.Hooks{})
		defer mgr.CloseAll()

		resp, err := client.HTTPLbsRedirect(context.Background(), newReq(host, port, "/a"), mgr)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(200))
		Expect(string(resp.ResponseBody)).To(Equal("ok"))
	})

	It("coerces a 303 follow-up to GET (scenario 5, P7)", func() {
		host, port, closeFn := newScriptedServer([]string{
			"HTTP/1.1 303 See Other\r\nLocation: /x\r\nContent-Length: 0\r\n\r\n",
			"HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok",
		})
		defer closeFn()

		req := newReq(host, port, "/create")
		req.Method = "POST"
		req.RequestBody = request.BytesBody([]byte("payload"))

		mgr := pool.New(nil, nil, pool.Hooks{})
		defer mgr.CloseAll()

		resp, err := client.HTTPLbsRedirect(context.Background(), req, mgr)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(200))
	})

	It("fails with TooManyRedirects after 11 requests on an endless redirect chain (P6)", func() {
		responses := make([]string, 0, 11)
		for i := 0; i < 11; i++ {
			responses = append(responses, "HTTP/1.1 302 Found\r\nLocation: /loop\r\nContent-Length: 0\r\n\r\n")
		}
		host, port, closeFn := newScriptedServer(responses)
		defer closeFn()

		mgr := pool.New(nil, nil, pool.Hooks{})
		defer mgr.CloseAll()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := client.HTTPLbsRedirect(ctx, newReq(host, port, "/loop"), mgr)
		Expect(err).To(MatchError(liberr.ErrTooManyRedirects))
	})
})

// chunkedFrame wraps b in a single HTTP/1.1 chunk followed by the
// terminating zero chunk, for tests that need gzip-inside-chunked bytes.
func chunkedFrame(b []byte) string {
	return hex(len(b)) + "\r\n" + string(b) + "\r\n0\r\n\r\n"
}

func hex(n int) string {
	const digits = "0123456789abcdef"
	if n == 0 {
		return "0"
	}
	var out []byte
	for n > 0 {
		out = append([]byte{digits[n%16]}, out...)
		n /= 16
	}
	return string(out)
}
