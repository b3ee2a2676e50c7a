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

package main

import (
	"crypto/tls"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sabouaram/gohttpcli/config"
	"github.com/sabouaram/gohttpcli/metrics"
	"github.com/sabouaram/gohttpcli/pool"
	"github.com/sabouaram/gohttpcli/request"
)

// loadConfig resolves the --config flag through config.Load, falling back to
// config.Default() when the flag is unset so the CLI works with no file on
// disk.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildManager constructs a pool.Manager from cfg: TLS trust from cfg.TLS,
// and Prometheus hooks from metrics.NewPoolMetrics when cfg.MetricsEnabled.
// The returned func closes the manager's idle connections.
func buildManager(cfg config.Config) (*pool.Manager, func()) {
	tlsCfg := func(key request.ConnKey, checkCerts request.CertCheck) (*tls.Config, error) {
		return cfg.TLS.BuildTLSConfig(key.Host, checkCerts)
	}

	var hooks pool.Hooks
	if cfg.MetricsEnabled {
		hooks = metrics.NewPoolMetrics(prometheus.DefaultRegisterer, "gohttpcli").Hooks()
	}

	mgr := pool.New(tlsCfg, nil, hooks)
	return mgr, func() { _ = mgr.CloseAll() }
}
