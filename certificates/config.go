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
	"fmt"

	libval "github.com/go-playground/validator/v10"
)

// Config is the caller-facing, tag-driven TLS configuration: decoded from
// YAML/JSON/env by the config package, validated here, then turned into a
// *tls.Config by BuildTLSConfig.
type Config struct {
	RootCAFiles []string `mapstructure:"rootCAFiles" json:"rootCAFiles" yaml:"rootCAFiles"`
	RootCAPEM   []string `mapstructure:"rootCAPEM" json:"rootCAPEM" yaml:"rootCAPEM"`
	MinVersion  uint16   `mapstructure:"minVersion" json:"minVersion" yaml:"minVersion" validate:"omitempty,gte=769,lte=772"`
	MaxVersion  uint16   `mapstructure:"maxVersion" json:"maxVersion" yaml:"maxVersion" validate:"omitempty,gte=769,lte=772"`
}

// Validate runs struct tag validation over the configured TLS versions.
func (c *Config) Validate() error {
	if err := libval.New().Struct(c); err != nil {
		if ve, ok := err.(libval.ValidationErrors); ok {
			return fmt.Errorf("certificates: invalid config: %w", ve)
		}
		return err
	}
	return nil
}

// RootPool builds the root CA pool: system trust store plus every
// configured PEM string and file, in that order.
func (c *Config) RootPool() (*x509.CertPool, error) {
	pool := SystemRootCA()

	for _, pem := range c.RootCAPEM {
		if !pool.AppendCertsFromPEM([]byte(pem)) {
			return nil, ErrCertAppend
		}
	}

	for _, path := range c.RootCAFiles {
		b, err := readPEMFile(path)
		if err != nil {
			return nil, err
		}
		if !pool.AppendCertsFromPEM(b) {
			return nil, ErrCertAppend
		}
	}

	return pool, nil
}

func versionOrDefault(v, def uint16) uint16 {
	if v == 0 {
		return def
	}
	return v
}

// BuildTLSConfig builds a *tls.Config for serverName. When checkCerts is
// non-nil it is wired to run after the standard chain verification succeeds
// (C1's "checkCerts ... invoked only when secure" contract):
// VerifyPeerCertificate receives the already-verified chains and applies the
// caller's predicate to each one, accepting the connection if any chain
// passes.
func (c *Config) BuildTLSConfig(serverName string, checkCerts func(chain []*x509.Certificate) bool) (*tls.Config, error) {
	pool, err := c.RootPool()
	if err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		ServerName: serverName,
		RootCAs:    pool,
		MinVersion: versionOrDefault(c.MinVersion, tls.VersionTLS12),
		MaxVersion: versionOrDefault(c.MaxVersion, tls.VersionTLS13),
	}

	if checkCerts != nil {
		cfg.VerifyPeerCertificate = func(_ [][]byte, verifiedChains [][]*x509.Certificate) error {
			for _, chain := range verifiedChains {
				if checkCerts(chain) {
					return nil
				}
			}
			return ErrPeerRejected
		}
	}

	return cfg, nil
}

// Default is the zero-value Config: system trust store, TLS 1.2-1.3.
var Default = &Config{}
