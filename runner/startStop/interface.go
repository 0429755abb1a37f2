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

// Package startStop provides a minimal, reusable goroutine lifecycle: a run
// function started in the background, stoppable and restartable, with the
// last few errors it returned kept for inspection.
package startStop

import (
	"context"
	"time"
)

// StartStop is the lifecycle contract of the background worker loop in
// ioutils/aggregator.
type StartStop interface {
	// Start launches the run function in a new goroutine. Returns
	// ErrAlreadyRunning if a previous run is still active.
	Start(ctx context.Context) error

	// Stop cancels the running goroutine's context and waits for it to
	// return, bounded by ctx. A no-op if not running.
	Stop(ctx context.Context) error

	// IsRunning reports whether the run function is currently active.
	IsRunning() bool

	// Uptime returns the duration since Start succeeded, or 0 if not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recent error returned by the run or close
	// function, or nil if none occurred.
	ErrorsLast() error

	// ErrorsList returns the errors collected over the runner's lifetime
	// (Start does not clear them), oldest first, bounded to a fixed
	// history size.
	ErrorsList() []error
}

// New builds a StartStop that runs fct in the background on Start, and
// invokes closeFct (if non-nil) once fct returns or Stop is requested.
func New(fct func(ctx context.Context) error, closeFct func(ctx context.Context) error) StartStop {
	return &runner{
		fct:      fct,
		closeFct: closeFct,
	}
}
