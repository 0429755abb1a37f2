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

// Package semaphore bounds the number of concurrent goroutines a caller
// spawns, on top of golang.org/x/sync/semaphore. It adds worker-tracking
// (WaitAll, DeferMain) on top of the bare weighted-acquire primitive, which
// the ioutils/aggregator package uses to cap fan-out goroutines.
package semaphore

import (
	"context"
	"sync"

	xsem "golang.org/x/sync/semaphore"
)

// Semaphore bounds concurrent workers started by a single owner goroutine.
type Semaphore interface {
	// NewWorker blocks until a slot is available, then reserves it.
	// Call DeferWorker when the worker goroutine completes.
	NewWorker() error

	// NewWorkerTry reserves a slot without blocking. Returns false if the
	// semaphore is currently full.
	NewWorkerTry() bool

	// DeferWorker releases a slot reserved by NewWorker/NewWorkerTry.
	DeferWorker()

	// WaitAll blocks until every reserved worker has called DeferWorker.
	WaitAll() error

	// DeferMain waits for all workers, for use in the owner's own defer.
	DeferMain()
}

type sem struct {
	ctx context.Context
	wgt *xsem.Weighted
	wg  sync.WaitGroup
}

// New creates a Semaphore capping concurrent workers at max. max <= 0 means
// unbounded: NewWorker/NewWorkerTry never block or refuse. blocking is
// accepted for interface compatibility with callers that distinguish a
// blocking pool from a try-only one; New always exposes both operations.
func New(ctx context.Context, max int, blocking bool) Semaphore {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &sem{ctx: ctx}

	if max > 0 {
		s.wgt = xsem.NewWeighted(int64(max))
	}

	return s
}

// NewSemaphoreWithContext creates a blocking Semaphore capping concurrent
// workers at max, using ctx to bound NewWorker's wait.
func NewSemaphoreWithContext(ctx context.Context, max int) Semaphore {
	return New(ctx, max, true)
}

func (s *sem) NewWorker() error {
	if s.wgt != nil {
		if e := s.wgt.Acquire(s.ctx, 1); e != nil {
			return e
		}
	}

	s.wg.Add(1)
	return nil
}

func (s *sem) NewWorkerTry() bool {
	if s.wgt != nil && !s.wgt.TryAcquire(1) {
		return false
	}

	s.wg.Add(1)
	return true
}

func (s *sem) DeferWorker() {
	if s.wgt != nil {
		s.wgt.Release(1)
	}

	s.wg.Done()
}

func (s *sem) WaitAll() error {
	s.wg.Wait()
	return nil
}

func (s *sem) DeferMain() {
	s.wg.Wait()
}
