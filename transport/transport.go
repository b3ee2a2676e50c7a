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

// Package transport opens the raw TCP (or TLS) socket for one ConnKey (C1).
// It never pools anything: pool/ owns connection lifetime, transport/ only
// knows how to dial and how to shut a socket down.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sabouaram/gohttpcli/certificates"
	"github.com/sabouaram/gohttpcli/request"
)

// Conn is one open socket, either plain TCP or a completed TLS session.
// Close is idempotent: the pool may call it from an eviction path that races
// a caller still holding the same *Conn.
type Conn interface {
	io.Reader
	io.Writer
	Close() error
	// Secure reports whether this connection carries TLS.
	Secure() bool
}

type conn struct {
	net.Conn
	secure bool
	once   sync.Once
	err    error
}

func (c *conn) Secure() bool { return c.secure }

func (c *conn) Close() error {
	c.once.Do(func() { c.err = c.Conn.Close() })
	return c.err
}

// DialTimeout bounds the TCP handshake; Open's ctx still governs the TLS
// handshake on top of it.
var DialTimeout = 30 * time.Second

// Open dials key.Host:key.Port, completing a TLS handshake (verifying against
// tlsCfg plus the request's CertCheck) when key.Secure is set. tlsCfg may be
// nil for a plain (non-secure) key.
func Open(ctx context.Context, key request.ConnKey, tlsCfg *tls.Config) (Conn, error) {
	d := &net.Dialer{Timeout: DialTimeout}

	addr := net.JoinHostPort(key.Host, fmt.Sprintf("%d", key.Port))

	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	if !key.Secure {
		return &conn{Conn: raw, secure: false}, nil
	}

	cfg := tlsCfg
	if cfg == nil {
		cfg = &tls.Config{ServerName: key.Host, RootCAs: certificates.SystemRootCA()}
	}
	if cfg.ServerName == "" {
		cfg = cfg.Clone()
		cfg.ServerName = key.Host
	}

	tc := tls.Client(raw, cfg)
	if err = tc.HandshakeContext(ctx); err != nil {
		_ = raw.Close()
		return nil, err
	}

	return &conn{Conn: tc, secure: true}, nil
}
