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

// Package errors holds the four wire/protocol error variants the client
// surfaces to callers (spec §7). Each is a plain struct implementing error,
// matched with errors.As/errors.Is rather than a code registry: the taxonomy
// is small and closed, so it needs no more machinery than that.
package errors

import "fmt"

// InvalidURLError reports that a URL string could not be parsed into a
// Request: an unsupported scheme or an unparseable port.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url: %q: %s", e.URL, e.Reason)
}

// NewInvalidURL builds the InvalidURLException(url, reason) variant of spec §3/§7.
func NewInvalidURL(url, reason string) error {
	return &InvalidURLError{URL: url, Reason: reason}
}

// HTTPParserError reports malformed wire bytes: a bad status line, header,
// chunk header, or chunk trailer. Where names the parsing stage.
type HTTPParserError struct {
	Where string
}

func (e *HTTPParserError) Error() string {
	return fmt.Sprintf("http wire parser error: %s", e.Where)
}

// NewHTTPParser builds the HttpParserException(where) variant of spec §3/§7.
func NewHTTPParser(where string) error {
	return &HTTPParserError{Where: where}
}

// TooManyRedirectsError reports that the redirect budget (default 10, see
// spec §4.6/P6) was exhausted.
type TooManyRedirectsError struct{}

func (e *TooManyRedirectsError) Error() string {
	return "too many redirects"
}

// ErrTooManyRedirects is the singleton TooManyRedirects variant; it carries
// no state, so callers may compare against it directly with errors.Is.
var ErrTooManyRedirects error = &TooManyRedirectsError{}

// StatusCodeError is surfaced only by the simpleHttp-equivalent façade when
// the final response status falls outside [200, 300).
type StatusCodeError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// NewStatusCode builds the StatusCodeException(code, body) variant of spec §3/§7.
func NewStatusCode(statusCode int, body []byte) error {
	return &StatusCodeError{StatusCode: statusCode, Body: body}
}
