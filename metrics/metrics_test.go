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

package metrics_test

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gohttpcli/metrics"
	"github.com/sabouaram/gohttpcli/request"
)

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	_ = c.Write(&m)
	return m.GetCounter().GetValue()
}

func gaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	_ = g.Write(&m)
	return m.GetGauge().GetValue()
}

var _ = Describe("PoolMetrics", func() {
	It("registers every collector under the given namespace", func() {
		reg := prometheus.NewRegistry()
		_ = metrics.NewPoolMetrics(reg, "gohttpcli")

		mfs, err := reg.Gather()
		Expect(err).ToNot(HaveOccurred())
		Expect(mfs).To(HaveLen(5))
	})

	It("increments BorrowHit and decrements Idle on a hit", func() {
		reg := prometheus.NewRegistry()
		pm := metrics.NewPoolMetrics(reg, "gohttpcli")
		hooks := pm.Hooks()

		hooks.OnRelease(request.ConnKey{Host: "h", Port: 80})
		Expect(gaugeValue(pm.Idle)).To(Equal(1.0))

		hooks.OnBorrowHit(request.ConnKey{Host: "h", Port: 80})
		Expect(counterValue(pm.BorrowHit)).To(Equal(1.0))
		Expect(gaugeValue(pm.Idle)).To(Equal(0.0))
	})

	It("increments Evicted on eviction", func() {
		reg := prometheus.NewRegistry()
		pm := metrics.NewPoolMetrics(reg, "gohttpcli")
		pm.Hooks().OnEvict(request.ConnKey{Host: "h", Port: 80})
		Expect(counterValue(pm.Evicted)).To(Equal(1.0))
	})
})
