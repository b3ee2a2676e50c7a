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

package pool

import (
	"sync"

	"github.com/hashicorp/go-multierror"
)

// mod is the concrete Pool: a mutex-guarded map keyed by a monotonic
// sequence number. The map (not atomic.MapTyped) is enough here — the pool
// is only ever used for the short burst of Close calls inside
// pool.Manager.CloseAll, not a hot path.
type mod struct {
	mu   sync.Mutex
	next uint64
	errs map[uint64]error
}

func (o *mod) Add(e ...error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, err := range e {
		if err == nil {
			continue
		}
		o.next++
		o.errs[o.next] = err
	}
}

func (o *mod) Get(i uint64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errs[i]
}

func (o *mod) Slice() []error {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]error, 0, len(o.errs))
	for _, err := range o.errs {
		out = append(out, err)
	}
	return out
}

func (o *mod) Len() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return uint64(len(o.errs))
}

func (o *mod) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errs = make(map[uint64]error)
}

// Error folds every stored error into a hashicorp/go-multierror, the same
// aggregation pool.Manager.CloseAll's caller-facing error uses.
func (o *mod) Error() error {
	var merr *multierror.Error
	for _, err := range o.Slice() {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}
