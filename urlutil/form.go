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

package urlutil

import "github.com/sabouaram/gohttpcli/request"

// FormPair is one key/value entry for UrlEncodedBody.
type FormPair struct {
	Key   string
	Value string
}

// UrlEncodedBody implements spec §4.9: sets method to POST, replaces the
// body with "k1=v1&k2=v2..." (percent-encoded, a key with empty value emits
// "k" alone), drops any prior Content-Type, and prepends
// "Content-Type: application/x-www-form-urlencoded".
func UrlEncodedBody(pairs []FormPair, req request.Request) request.Request {
	n := req.Clone()
	n.Method = "POST"
	n.RequestBody = request.BytesBody(encodeForm(pairs))

	headers := n.RequestHeaders.Without("Content-Type")
	n.RequestHeaders = append(request.Headers{{Name: "Content-Type", Value: "application/x-www-form-urlencoded"}}, headers...)

	return n
}

func encodeForm(pairs []FormPair) []byte {
	out := make([]byte, 0, 32*len(pairs))

	for i, p := range pairs {
		if i > 0 {
			out = append(out, '&')
		}

		out = append(out, PercentEncode(p.Key, false)...)
		if p.Value != "" {
			out = append(out, '=')
			out = append(out, PercentEncode(p.Value, false)...)
		}
	}

	return out
}
