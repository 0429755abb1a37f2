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

package stream

import (
	"net"
	"sync/atomic"
	"time"

	libatm "github.com/nabbar/goncat/atomic"
)

// base implements the bookkeeping shared by every transport variant: byte
// counters, half-closed/closed flags, and open time. Variants embed it and
// supply Read/Write/ShutdownWrite/Close/PollHandle/PeerAddress/Kind.
type base struct {
	conn   net.Conn
	kind   Kind
	opened time.Time

	wShut  atomic.Bool
	closed atomic.Bool

	bytesRead    atomic.Int64
	bytesWritten atomic.Int64
	closedAt     libatm.Value[time.Time]
}

func newBase(conn net.Conn, kind Kind) base {
	return base{
		conn:     conn,
		kind:     kind,
		opened:   time.Now(),
		closedAt: libatm.NewValue[time.Time](),
	}
}

func (b *base) readTracked(p []byte) (int, error) {
	n, e := b.conn.Read(p)
	if n > 0 {
		b.bytesRead.Add(int64(n))
	}
	return n, e
}

func (b *base) writeTracked(p []byte) (int, error) {
	if b.wShut.Load() {
		return 0, ErrorBrokenPipe.Error(nil)
	}

	n, e := b.conn.Write(p)
	if n > 0 {
		b.bytesWritten.Add(int64(n))
	}
	return n, e
}

func (b *base) markClosed() bool {
	if !b.closed.CompareAndSwap(false, true) {
		return false
	}
	b.closedAt.Store(time.Now())
	return true
}

func (b *base) PollHandle() net.Conn {
	return b.conn
}

func (b *base) PeerAddress() net.Addr {
	return b.conn.RemoteAddr()
}

func (b *base) Kind() Kind {
	return b.kind
}

func (b *base) Stats() Stats {
	return Stats{
		BytesRead:    b.bytesRead.Load(),
		BytesWritten: b.bytesWritten.Load(),
		Opened:       b.opened,
		Closed:       b.closedAt.Load(),
	}
}
