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

package certificates_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gohttpcli/certificates"
)

func selfSignedPEM() string {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	Expect(err).ToNot(HaveOccurred())

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test-root"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		IsCA:         true,
		KeyUsage:     x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	Expect(err).ToNot(HaveOccurred())

	var buf bytes.Buffer
	Expect(pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: der})).To(Succeed())
	return buf.String()
}

var _ = Describe("Config", func() {

	Describe("Validate", func() {
		It("accepts the zero-value config", func() {
			c := certificates.Config{}
			Expect(c.Validate()).To(Succeed())
		})

		It("rejects a MinVersion outside the TLS 1.0-1.3 range", func() {
			c := certificates.Config{MinVersion: 1}
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("accepts an explicit TLS 1.2/1.3 pairing", func() {
			c := certificates.Config{MinVersion: tls.VersionTLS12, MaxVersion: tls.VersionTLS13}
			Expect(c.Validate()).To(Succeed())
		})
	})

	Describe("RootPool", func() {
		It("appends a configured PEM root to the system pool", func() {
			c := certificates.Config{RootCAPEM: []string{selfSignedPEM()}}
			pool, err := c.RootPool()
			Expect(err).ToNot(HaveOccurred())
			Expect(pool).ToNot(BeNil())
		})

		It("fails on an invalid PEM string", func() {
			c := certificates.Config{RootCAPEM: []string{"not a pem"}}
			_, err := c.RootPool()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("BuildTLSConfig", func() {
		It("defaults MinVersion and MaxVersion when unset", func() {
			c := certificates.Config{}
			cfg, err := c.BuildTLSConfig("example.com", nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.MinVersion).To(Equal(uint16(tls.VersionTLS12)))
			Expect(cfg.MaxVersion).To(Equal(uint16(tls.VersionTLS13)))
			Expect(cfg.ServerName).To(Equal("example.com"))
			Expect(cfg.VerifyPeerCertificate).To(BeNil())
		})

		It("wires checkCerts into VerifyPeerCertificate, rejecting when it always returns false", func() {
			c := certificates.Config{}
			cfg, err := c.BuildTLSConfig("example.com", func([]*x509.Certificate) bool { return false })
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.VerifyPeerCertificate).ToNot(BeNil())

			err = cfg.VerifyPeerCertificate(nil, [][]*x509.Certificate{{}})
			Expect(err).To(HaveOccurred())
		})

		It("accepts the handshake when checkCerts approves at least one chain", func() {
			c := certificates.Config{}
			cfg, err := c.BuildTLSConfig("example.com", func([]*x509.Certificate) bool { return true })
			Expect(err).ToNot(HaveOccurred())

			err = cfg.VerifyPeerCertificate(nil, [][]*x509.Certificate{{}})
			Expect(err).ToNot(HaveOccurred())
		})
	})
})
