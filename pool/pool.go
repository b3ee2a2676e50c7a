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

// Package pool implements the Connection Pool (C2): an idle-connection
// Manager keyed by request.ConnKey, at most one idle connection per key,
// mutated by whole-map atomic swap rather than per-key locking.
package pool

import (
	"context"
	"crypto/tls"

	hcuuid "github.com/hashicorp/go-uuid"

	libatm "github.com/sabouaram/gohttpcli/atomic"
	"github.com/sabouaram/gohttpcli/certificates"
	errpool "github.com/sabouaram/gohttpcli/errors/pool"
	"github.com/sabouaram/gohttpcli/logger"
	"github.com/sabouaram/gohttpcli/request"
	"github.com/sabouaram/gohttpcli/transport"
)

// TLSConfigFunc resolves the *tls.Config to use for a secure ConnKey. New's
// default, and cmd/gohttpcli's buildManager, wire this to
// certificates.Config.BuildTLSConfig per key.Host, forwarding the per-request checkCerts predicate
// (spec §3/§4.1, request.Request.CheckCerts) through to
// tls.Config.VerifyPeerCertificate. checkCerts is per-request, not per-key:
// two requests sharing a ConnKey may supply different predicates, so it
// cannot be bound once at Manager-construction time.
type TLSConfigFunc func(key request.ConnKey, checkCerts request.CertCheck) (*tls.Config, error)

// Hooks lets callers observe pool activity without hard-wiring metrics/ or
// logger/ into this package; every field may be nil.
type Hooks struct {
	OnBorrowHit  func(key request.ConnKey)
	OnBorrowMiss func(key request.ConnKey)
	OnEvict      func(key request.ConnKey)
	OnRelease    func(key request.ConnKey)
}

// Manager owns the idle connection map. The zero value is not usable; build
// one with New.
type Manager struct {
	idle   libatm.Value[map[request.ConnKey]transport.Conn]
	tlsCfg TLSConfigFunc
	log    logger.Logger
	hooks  Hooks
}

// New builds a Manager. tlsCfg may be nil, in which case secure connections
// fall back to certificates.Default.
func New(tlsCfg TLSConfigFunc, log logger.Logger, hooks Hooks) *Manager {
	if tlsCfg == nil {
		tlsCfg = func(key request.ConnKey, checkCerts request.CertCheck) (*tls.Config, error) {
			return certificates.Default.BuildTLSConfig(key.Host, checkCerts)
		}
	}
	if log == nil {
		log = logger.Discard
	}

	m := &Manager{tlsCfg: tlsCfg, log: log, hooks: hooks, idle: libatm.NewValue[map[request.ConnKey]transport.Conn]()}
	m.idle.Store(map[request.ConnKey]transport.Conn{})
	return m
}

func connID() string {
	id, err := hcuuid.GenerateUUID()
	if err != nil {
		return "unknown"
	}
	return id
}

// Borrow atomically removes any idle connection for key; if none is idle,
// it dials a fresh one via transport.Open. checkCerts is the requesting
// Request's per-request TLS certificate predicate (spec §3/§4.1); it is
// applied only on a miss, since a borrowed idle connection already completed
// its handshake under whatever predicate dialed it.
func (m *Manager) Borrow(ctx context.Context, key request.ConnKey, checkCerts request.CertCheck) (transport.Conn, error) {
	for {
		cur := m.idle.Load()
		conn, present := cur[key]

		next := make(map[request.ConnKey]transport.Conn, len(cur))
		for k, v := range cur {
			if k != key {
				next[k] = v
			}
		}

		if !present {
			if m.idle.CompareAndSwap(cur, next) {
				break
			}
			continue
		}

		if m.idle.CompareAndSwap(cur, next) {
			if m.hooks.OnBorrowHit != nil {
				m.hooks.OnBorrowHit(key)
			}
			m.log.WithField("key", key).Debug("pool: borrow hit")
			return conn, nil
		}
	}

	if m.hooks.OnBorrowMiss != nil {
		m.hooks.OnBorrowMiss(key)
	}
	m.log.WithField("key", key).WithField("conn", connID()).Debug("pool: borrow miss, dialing")

	var cfg *tls.Config
	if key.Secure {
		var err error
		cfg, err = m.tlsCfg(key, checkCerts)
		if err != nil {
			return nil, err
		}
	}

	return transport.Open(ctx, key, cfg)
}

// Release atomically inserts conn for key. A connection already present for
// key is evicted (closed), keeping the newer one, per spec §4.2.
func (m *Manager) Release(key request.ConnKey, conn transport.Conn) {
	for {
		cur := m.idle.Load()

		next := make(map[request.ConnKey]transport.Conn, len(cur)+1)
		for k, v := range cur {
			next[k] = v
		}
		displaced, hadPrior := next[key]
		next[key] = conn

		if m.idle.CompareAndSwap(cur, next) {
			if hadPrior {
				if m.hooks.OnEvict != nil {
					m.hooks.OnEvict(key)
				}
				_ = displaced.Close()
			}
			if m.hooks.OnRelease != nil {
				m.hooks.OnRelease(key)
			}
			m.log.WithField("key", key).Debug("pool: release")
			return
		}
	}
}

// CloseAll atomically swaps the idle map to empty and closes every removed
// connection. Close errors are collected concurrently-safely in an
// errpool.Pool (closing connections for distinct keys never races here, but
// Manager itself is meant to be driven from multiple goroutines, so the
// collector must tolerate it), then folded into a single
// hashicorp/go-multierror for the caller.
func (m *Manager) CloseAll() error {
	errs := errpool.New()

	for {
		cur := m.idle.Load()
		if m.idle.CompareAndSwap(cur, map[request.ConnKey]transport.Conn{}) {
			for key, conn := range cur {
				errs.Add(conn.Close())
				if m.hooks.OnEvict != nil {
					m.hooks.OnEvict(key)
				}
			}
			break
		}
	}

	return errs.Error()
}

// WithManager runs f against a fresh Manager, guaranteeing CloseAll on every
// exit path including a panic or an error return from f.
func WithManager(tlsCfg TLSConfigFunc, log logger.Logger, hooks Hooks, f func(m *Manager) error) error {
	m := New(tlsCfg, log, hooks)
	defer func() { _ = m.CloseAll() }()
	return f(m)
}
