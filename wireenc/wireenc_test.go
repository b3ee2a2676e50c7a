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

package wireenc_test

import (
	"bufio"
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gohttpcli/request"
	"github.com/sabouaram/gohttpcli/wireenc"
)

func encode(req request.Request) string {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	Expect(wireenc.Write(w, req)).To(Succeed())
	return buf.String()
}

var _ = Describe("Write", func() {

	It("defaults Host to the bare host on default ports (P3)", func() {
		req := request.Request{Method: "GET", Host: "example.com", Port: 80, Path: "/", RequestBody: request.EmptyBody}
		Expect(encode(req)).To(ContainSubstring("Host: example.com\r\n"))
	})

	It("includes the port when it is non-default (P3)", func() {
		req := request.Request{Method: "GET", Secure: true, Host: "example.com", Port: 8443, Path: "/", RequestBody: request.EmptyBody}
		Expect(encode(req)).To(ContainSubstring("Host: example.com:8443\r\n"))
	})

	It("is deterministic for a non-stream body (P2)", func() {
		req := request.Request{
			Method: "POST", Host: "h", Port: 80, Path: "/p",
			RequestHeaders: request.Headers{{Name: "X-Foo", Value: "bar"}},
			RequestBody:    request.BytesBody([]byte("abc")),
		}
		Expect(encode(req)).To(Equal(encode(req)))
	})

	It("auto-adds Host, Content-Length, and Accept-Encoding before user headers", func() {
		req := request.Request{
			Method: "GET", Host: "h", Port: 80, Path: "/",
			RequestHeaders: request.Headers{{Name: "X-Custom", Value: "1"}},
			RequestBody:    request.EmptyBody,
		}
		out := encode(req)
		Expect(out).To(Equal("GET / HTTP/1.1\r\nHost: h\r\nContent-Length: 0\r\nAccept-Encoding: gzip\r\nX-Custom: 1\r\n\r\n"))
	})

	It("prefixes path with / and renders the query in insertion order", func() {
		v1, v2 := "1", "2"
		req := request.Request{
			Method: "GET", Host: "h", Port: 80, Path: "a",
			QueryString: []request.QueryParam{{Name: "x", Value: &v1}, {Name: "y", Value: &v2}},
			RequestBody: request.EmptyBody,
		}
		Expect(encode(req)).To(ContainSubstring("GET /a?x=1&y=2 HTTP/1.1\r\n"))
	})
})
