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

package pump

import (
	"context"
	"time"
)

const tickInterval = 20 * time.Millisecond

func run(ctx context.Context, cfg Config) (Stats, error) {
	if cfg.Local == nil || cfg.Remote == nil {
		return Stats{}, ErrorParamsEmpty.Error(nil)
	}

	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	started := time.Now()

	l2r := newDirection(cfg.Local, cfg.Remote, bufSize, cfg.CRLFTranslate, cfg.NoShutdown, cfg.RecvOnly, cfg.DelayMs)
	r2l := newDirection(cfg.Remote, cfg.Local, bufSize, false, cfg.NoShutdown, cfg.SendOnly, cfg.DelayMs)

	l2r.start()
	r2l.start()
	// Seed both directions' idle clocks at launch so idleSince measures
	// from pump start, not from a zero lastByte that would otherwise read
	// as "infinitely idle" and never fire on a connection that is silent
	// from the first tick.
	l2r.touch()
	r2l.touch()

	both := make(chan struct{})
	go func() {
		l2r.wait()
		r2l.wait()
		close(both)
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var termErr error

loop:
	for {
		select {
		case <-both:
			// rule 1: both directions reached Closed.
			break loop

		case <-ctx.Done():
			// rule 5: external cancellation. Closing both streams, not just
			// aborting the rings, is what actually unblocks a goroutine
			// parked in a native Read/Write call.
			l2r.abort()
			r2l.abort()
			_ = cfg.Local.Close()
			_ = cfg.Remote.Close()
			<-both
			termErr = ErrorCancelled.Error(nil)
			break loop

		case <-ticker.C:
			now := time.Now()

			if l2r.Err() != nil || r2l.Err() != nil {
				// rule 4: fatal transport error in either direction.
				l2r.abort()
				r2l.abort()
				_ = cfg.Local.Close()
				_ = cfg.Remote.Close()
				<-both
				break loop
			}

			if cfg.IdleTimeout > 0 && idleSince(l2r, r2l, now) >= cfg.IdleTimeout {
				l2r.abort()
				r2l.abort()
				_ = cfg.Local.Close()
				_ = cfg.Remote.Close()
				<-both
				termErr = ErrorTimeoutIdle.Error(nil)
				break loop
			}

			if cfg.QuitAfterEOF > 0 && l2r.State() >= stSourceEof {
				elapsed := now.Sub(time.Unix(0, l2r.lastByte.Load()))
				if elapsed >= cfg.QuitAfterEOF && r2l.ring.Empty() {
					l2r.abort()
					r2l.abort()
					_ = cfg.Local.Close()
					_ = cfg.Remote.Close()
					<-both
					break loop
				}
			}
		}
	}

	if termErr == nil {
		if e := l2r.Err(); e != nil {
			termErr = ErrorIo.Error(e)
		} else if e := r2l.Err(); e != nil {
			termErr = ErrorIo.Error(e)
		}
	}

	return Stats{
		LocalToRemote: l2r.moved.Load(),
		RemoteToLocal: r2l.moved.Load(),
		Duration:      time.Since(started),
	}, termErr
}

// idleSince returns how long it has been since either direction last moved
// a byte (spec §4.3 rule 3: "both reads and writes reset the tick"). Both
// directions have lastByte seeded at pump start, so a connection that is
// silent from the first tick still measures idle time correctly instead of
// reading as "never idle".
func idleSince(l2r, r2l *direction, now time.Time) time.Duration {
	last := l2r.lastByte.Load()
	if o := r2l.lastByte.Load(); o > last {
		last = o
	}
	return now.Sub(time.Unix(0, last))
}
