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

package headerwire_test

import (
	"bufio"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gohttpcli/headerwire"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

var _ = Describe("ReadResponse", func() {

	It("parses the status line and headers in wire order", func() {
		sl, headers, err := headerwire.ReadResponse(reader(
			"HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nX-A: 1\r\nX-B: 2\r\n\r\nbody",
		))
		Expect(err).ToNot(HaveOccurred())
		Expect(sl.StatusCode).To(Equal(200))
		Expect(sl.Reason).To(Equal("OK"))
		Expect(headers).To(HaveLen(3))
		Expect(headers[0].Name).To(Equal("Content-Type"))
		Expect(headers[2].Name).To(Equal("X-B"))
	})

	It("leaves the reader positioned at the first body byte", func() {
		r := reader("HTTP/1.1 204 No Content\r\n\r\nREST")
		_, _, err := headerwire.ReadResponse(r)
		Expect(err).ToNot(HaveOccurred())

		rest, err := r.ReadString(0)
		Expect(err.Error()).To(Equal("EOF"))
		Expect(rest).To(Equal("REST"))
	})

	It("appends an obsolete folded continuation line to the previous value", func() {
		_, headers, err := headerwire.ReadResponse(reader(
			"HTTP/1.1 200 OK\r\nX-Long: part1\r\n part2\r\n\r\n",
		))
		Expect(err).ToNot(HaveOccurred())
		v, ok := headers.Get("X-Long")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("part1 part2"))
	})

	It("rejects a status line missing the HTTP/ prefix", func() {
		_, _, err := headerwire.ReadResponse(reader("NOTHTTP 200 OK\r\n\r\n"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects a header line with no colon", func() {
		_, _, err := headerwire.ReadResponse(reader("HTTP/1.1 200 OK\r\nBroken\r\n\r\n"))
		Expect(err).To(HaveOccurred())
	})
})
