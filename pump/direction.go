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
	"io"
	"sync"
	"sync/atomic"
	"time"

	libstm "github.com/nabbar/goncat/stream"
)

// dirState is one direction's position in the Open → SourceEof → Draining →
// Closed state machine (spec §4.3).
type dirState int32

const (
	stOpen dirState = iota
	stSourceEof
	stDraining
	stClosed
)

// direction drives one half of the pump: src.Read feeds a ring buffer that
// a second goroutine drains into dst.Write, matching the per-direction
// worker pair spec §5 sanctions as an alternative to a single-threaded
// multiplexer.
type direction struct {
	src, dst libstm.Stream
	ring     *ringBuffer

	translate  bool
	noShutdown bool
	delay      time.Duration
	disabled   bool

	state    atomic.Int32
	moved    atomic.Int64
	lastByte atomic.Int64 // unix nano of last byte moved, for idle tracking

	pendingCR bool // CRLF translate: trailing bare '\r' held across reads

	doneWG sync.WaitGroup
	err    atomic.Value
}

func newDirection(src, dst libstm.Stream, bufSize int, translate, noShutdown, disabled bool, delay time.Duration) *direction {
	d := &direction{
		src: src, dst: dst,
		ring:       newRingBuffer(bufSize),
		translate:  translate,
		noShutdown: noShutdown,
		delay:      delay,
		disabled:   disabled,
	}
	if disabled {
		d.state.Store(int32(stSourceEof))
		d.ring.CloseWrite()
	}
	return d
}

func (d *direction) touch() {
	d.lastByte.Store(time.Now().UnixNano())
}

func (d *direction) start() {
	if d.disabled {
		return
	}

	d.doneWG.Add(2)
	go d.readLoop()
	go d.writeLoop()
}

func (d *direction) wait() {
	d.doneWG.Wait()
}

func (d *direction) abort() {
	d.ring.Abort()
}

func (d *direction) State() dirState {
	return dirState(d.state.Load())
}

func (d *direction) setErr(e error) {
	if e != nil {
		d.err.Store(e)
	}
}

func (d *direction) Err() error {
	v := d.err.Load()
	if v == nil {
		return nil
	}
	return v.(error)
}

func (d *direction) readLoop() {
	defer d.doneWG.Done()

	buf := make([]byte, 4096)
	for {
		n, e := d.src.Read(buf)
		if n > 0 {
			out := buf[:n]
			if d.translate {
				out = d.applyCRLF(out)
			}
			if len(out) > 0 {
				if _, aborted := d.ring.Write(out); aborted {
					return
				}
			}
			d.touch()
		}
		if e != nil {
			if d.translate && d.pendingCR {
				d.pendingCR = false
				if _, aborted := d.ring.Write([]byte{'\r'}); aborted {
					return
				}
			}
			d.state.Store(int32(stSourceEof))
			d.ring.CloseWrite()
			if e != io.EOF {
				d.setErr(e)
			}
			return
		}
	}
}

// applyCRLF rewrites bare '\n' (not already preceded by '\r') to "\r\n",
// holding a trailing lone '\r' across calls so translation never splits a
// CRLF pair across two reads (spec §4.3).
func (d *direction) applyCRLF(in []byte) []byte {
	out := make([]byte, 0, len(in)+8)

	if d.pendingCR {
		out = append(out, '\r')
		d.pendingCR = false
	}

	for i := 0; i < len(in); i++ {
		b := in[i]
		switch b {
		case '\r':
			if i == len(in)-1 {
				d.pendingCR = true
			} else {
				out = append(out, '\r')
			}
		case '\n':
			if len(out) == 0 || out[len(out)-1] != '\r' {
				out = append(out, '\r', '\n')
			} else {
				out = append(out, '\n')
			}
		default:
			out = append(out, b)
		}
	}

	return out
}

func (d *direction) writeLoop() {
	defer d.doneWG.Done()

	buf := make([]byte, 4096)
	for {
		n, eof, aborted := d.ring.Read(buf)
		if aborted {
			d.state.Store(int32(stClosed))
			return
		}

		if n > 0 {
			if _, e := d.dst.Write(buf[:n]); e != nil {
				d.setErr(e)
				d.state.Store(int32(stClosed))
				return
			}
			d.moved.Add(int64(n))
			d.touch()

			if d.delay > 0 {
				time.Sleep(d.delay)
			}
		}

		if eof {
			d.state.Store(int32(stDraining))
			if !d.noShutdown {
				_ = d.dst.ShutdownWrite()
			}
			d.state.Store(int32(stClosed))
			return
		}
	}
}
