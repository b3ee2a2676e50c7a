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

package certificates

import (
	"crypto/tls"
	"crypto/x509"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher rebuilds a *tls.Config whenever one of Config.RootCAFiles changes
// on disk, so a long-lived pool (C2) picks up rotated CA bundles without a
// process restart.
type Watcher struct {
	cfg        *Config
	serverName string
	checkCerts func(chain []*x509.Certificate) bool

	current atomic.Value // *tls.Config

	watcher *fsnotify.Watcher
	closeMu sync.Mutex
	closed  bool
}

// NewWatcher builds the initial TLS config and starts watching
// cfg.RootCAFiles for writes. Callers without file-backed roots should just
// call cfg.BuildTLSConfig directly instead.
func NewWatcher(cfg *Config, serverName string, checkCerts func(chain []*x509.Certificate) bool) (*Watcher, error) {
	tlsCfg, err := cfg.BuildTLSConfig(serverName, checkCerts)
	if err != nil {
		return nil, err
	}

	w := &Watcher{cfg: cfg, serverName: serverName, checkCerts: checkCerts}
	w.current.Store(tlsCfg)

	if len(cfg.RootCAFiles) == 0 {
		return w, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, f := range cfg.RootCAFiles {
		if err = fsw.Add(f); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	w.watcher = fsw

	go w.loop()

	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if tlsCfg, err := w.cfg.BuildTLSConfig(w.serverName, w.checkCerts); err == nil {
					w.current.Store(tlsCfg)
				}
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// TLSConfig returns the most recently built *tls.Config.
func (w *Watcher) TLSConfig() *tls.Config {
	return w.current.Load().(*tls.Config)
}

// Close stops the background watch goroutine. Idempotent.
func (w *Watcher) Close() error {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()

	if w.closed || w.watcher == nil {
		w.closed = true
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
