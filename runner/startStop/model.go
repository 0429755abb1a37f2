/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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
 */

package startStop

import (
	"context"
	"errors"
	"sync"
	"time"

	librun "github.com/nabbar/goncat/runner"
)

// ErrAlreadyRunning is returned by Start when the run function is already active.
var ErrAlreadyRunning = errors.New("already running")

const maxErrHistory = 16

type runner struct {
	fct      func(ctx context.Context) error
	closeFct func(ctx context.Context) error

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
	started time.Time

	errMu sync.Mutex
	errs  []error
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()

	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}

	if ctx == nil {
		ctx = context.Background()
	}

	cctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.cancel = cancel
	r.done = done
	r.running = true
	r.started = time.Now()
	r.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			librun.RecoveryCaller("goncat/runner/startStop/run", recover())
		}()
		defer func() {
			r.mu.Lock()
			r.running = false
			r.mu.Unlock()
		}()

		if e := r.fct(cctx); e != nil {
			r.pushError(e)
		}
	}()

	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	running := r.running
	r.mu.Unlock()

	if !running || cancel == nil {
		return nil
	}

	cancel()

	if r.closeFct != nil {
		if e := r.closeFct(ctx); e != nil {
			r.pushError(e)
		}
	}

	if done == nil {
		return nil
	}

	if ctx == nil {
		<-done
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *runner) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running || r.started.IsZero() {
		return 0
	}

	return time.Since(r.started)
}

func (r *runner) pushError(e error) {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	r.errs = append(r.errs, e)

	if len(r.errs) > maxErrHistory {
		r.errs = r.errs[len(r.errs)-maxErrHistory:]
	}
}

func (r *runner) ErrorsLast() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	if len(r.errs) == 0 {
		return nil
	}

	return r.errs[len(r.errs)-1]
}

func (r *runner) ErrorsList() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	if len(r.errs) == 0 {
		return nil
	}

	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}
