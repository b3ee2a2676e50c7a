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

// Package urlutil implements C9 (URL Parser) and the percent-encoding table
// of spec §4.7: turning a URL string into a request.Request with defaults,
// and the x-www-form-urlencoded request-body helper of spec §4.9.
package urlutil

import (
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	liberr "github.com/sabouaram/gohttpcli/errors"
	"github.com/sabouaram/gohttpcli/request"
)

const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// ParseURL accepts an ASCII (or IRI, byte-reinterpreted as UTF-8) URL string
// and returns a Request with defaults: method GET, empty headers, empty
// body, CertCheck accepting all peer chains (spec §4.7).
func ParseURL(raw string) (request.Request, error) {
	var secure bool

	switch {
	case strings.HasPrefix(raw, schemeHTTPS):
		secure = true
		raw = raw[len(schemeHTTPS):]
	case strings.HasPrefix(raw, schemeHTTP):
		secure = false
		raw = raw[len(schemeHTTP):]
	default:
		return request.Request{}, liberr.NewInvalidURL(raw, "Invalid scheme")
	}

	// UTF-8-encode the rest before structural split, accepting IRIs by
	// byte-reinterpretation: raw is already a Go string (UTF-8 bytes), so
	// the structural split below operates directly on those bytes.
	rest := raw

	authority, pathAndQuery := splitOnce(rest, '/')
	if pathAndQuery != "" {
		pathAndQuery = "/" + pathAndQuery
	}

	host, portStr := splitAuthority(authority)

	host, idnaErr := toASCIIHost(host)
	if idnaErr != nil {
		return request.Request{}, liberr.NewInvalidURL(raw, "Invalid host")
	}

	port, err := resolvePort(portStr, secure)
	if err != nil {
		return request.Request{}, liberr.NewInvalidURL(raw, "Invalid port")
	}

	path, query := splitPathQuery(pathAndQuery)

	return request.Request{
		Method:         "GET",
		Secure:         secure,
		Host:           host,
		Port:           port,
		Path:           path,
		QueryString:    query,
		RequestHeaders: nil,
		CheckCerts:     request.AcceptAllCerts,
		RequestBody:    request.EmptyBody,
	}, nil
}

// splitOnce splits s on the first occurrence of sep, returning (s, "") when
// sep is absent — matching "split on the first '/' into authority and
// path-plus-query" (spec §4.7).
func splitOnce(s string, sep byte) (before, after string) {
	idx := strings.IndexByte(s, sep)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}

// splitAuthority splits "host[:port]" on the first ':'.
func splitAuthority(authority string) (host, portStr string) {
	idx := strings.IndexByte(authority, ':')
	if idx < 0 {
		return authority, ""
	}
	return authority[:idx], authority[idx+1:]
}

// toASCIIHost punycode-encodes non-ASCII authority labels (IRI support);
// ASCII hosts pass through untouched, matching the source's "host (ASCII)"
// contract for the common case.
func toASCIIHost(host string) (string, error) {
	for i := 0; i < len(host); i++ {
		if host[i] >= 0x80 {
			return idna.Lookup.ToASCII(host)
		}
	}
	return host, nil
}

// resolvePort applies the default-port rule of spec §4.7: 80 plaintext / 443
// secure when omitted, else the parsed decimal integer.
func resolvePort(portStr string, secure bool) (int, error) {
	if portStr == "" {
		if secure {
			return 443, nil
		}
		return 80, nil
	}

	p, err := strconv.Atoi(portStr)
	if err != nil || p < 1 || p > 65535 {
		return 0, liberr.NewInvalidURL(portStr, "Invalid port")
	}
	return p, nil
}

// splitPathQuery extracts path and query from "path[?query][#fragment]":
// fragment is discarded, path defaults to "/" and is percent-encoded
// preserving '/', query is parsed into ordered name[=value] pairs.
func splitPathQuery(pathAndQuery string) (string, []request.QueryParam) {
	if hash := strings.IndexByte(pathAndQuery, '#'); hash >= 0 {
		pathAndQuery = pathAndQuery[:hash]
	}

	var rawPath, rawQuery string
	if qIdx := strings.IndexByte(pathAndQuery, '?'); qIdx >= 0 {
		rawPath, rawQuery = pathAndQuery[:qIdx], pathAndQuery[qIdx+1:]
	} else {
		rawPath = pathAndQuery
	}

	if rawPath == "" {
		rawPath = "/"
	}

	return PercentEncode(rawPath, true), parseQuery(rawQuery)
}

// parseQuery parses "name[=value][&name2[=value2]]..." in insertion order.
func parseQuery(raw string) []request.QueryParam {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, "&")
	out := make([]request.QueryParam, 0, len(parts))

	for _, p := range parts {
		if p == "" {
			continue
		}

		name, value := splitOnce(p, '=')
		if strings.Contains(p, "=") {
			v := value
			out = append(out, request.QueryParam{Name: name, Value: &v})
		} else {
			out = append(out, request.QueryParam{Name: name, Value: nil})
		}
	}

	return out
}

// EncodeQuery renders an ordered query string in insertion order, percent
// encoding each name/value with the shared table (no '/' preservation).
func EncodeQuery(q []request.QueryParam) string {
	if len(q) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(PercentEncode(p.Name, false))
		if p.Value != nil {
			b.WriteByte('=')
			b.WriteString(PercentEncode(*p.Value, false))
		}
	}
	return b.String()
}
