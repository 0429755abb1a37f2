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

// Package pump implements spec §4.3's bidirectional pump: two fixed-size
// ring buffers, one per direction, each driven by its own goroutine per
// spec §5's "two parallel workers" alternative (the single-threaded
// readiness-multiplexer alternative needs a poll/kqueue/epoll/IOCP wrapper
// this module's example pack does not carry, so it is not pursued here).
// Every direction runs the Open → SourceEof → Draining → Closed state
// machine and the pump as a whole exits on the first of the five
// termination rules in spec §4.3.
package pump

import (
	"context"
	"time"

	libstm "github.com/nabbar/goncat/stream"
)

// DefaultBufferSize is the per-direction ring buffer size (spec §4.3).
const DefaultBufferSize = 16 * 1024

// Config drives a single pump.Run call connecting Local and Remote.
type Config struct {
	Local  libstm.Stream
	Remote libstm.Stream

	// BufferSize overrides DefaultBufferSize when non-zero.
	BufferSize int

	// IdleTimeout aborts the pump when no bytes move in either direction
	// for this long; zero disables it.
	IdleTimeout time.Duration

	// QuitAfterEOF aborts the pump this long after local→remote reaches
	// SourceEof with remote→local idle; zero disables it.
	QuitAfterEOF time.Duration

	// SendOnly disables the remote→local direction (immediate SourceEof).
	SendOnly bool
	// RecvOnly disables the local→remote direction (immediate SourceEof).
	RecvOnly bool

	// NoShutdown suppresses shutdown_write on the SourceEof → Draining
	// transition (ncat's --no-shutdown, spec §4.3).
	NoShutdown bool

	// CRLFTranslate rewrites bare '\n' to "\r\n" on the local→remote
	// direction only (spec §4.3).
	CRLFTranslate bool

	// DelayMs throttles each direction between successive flushes.
	DelayMs time.Duration
}

// Stats summarizes one finished pump.
type Stats struct {
	LocalToRemote int64
	RemoteToLocal int64
	Duration      time.Duration
}

// Run moves bytes between cfg.Local and cfg.Remote until one of the five
// termination rules in spec §4.3 fires. ctx cancellation implements rule 5.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	return run(ctx, cfg)
}
