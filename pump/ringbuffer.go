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

import "sync"

// ringBuffer is a fixed-capacity byte ring shared between one direction's
// reader and writer goroutine (spec §4.3: "a direction's data must drain to
// its sink before more is read from its source when the sink is
// backpressured"). Write blocks once the ring is full until space frees up
// or the ring is aborted; Read blocks until bytes are available, the ring
// is closed for writing and drained, or the ring is aborted.
type ringBuffer struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buf        []byte
	head, tail int
	size       int

	writerDone bool
	aborted    bool
}

func newRingBuffer(capacity int) *ringBuffer {
	r := &ringBuffer{buf: make([]byte, capacity)}
	r.notEmpty = sync.NewCond(&r.mu)
	r.notFull = sync.NewCond(&r.mu)
	return r
}

// Write copies p into the ring, blocking in chunks as space frees up. It
// returns early with n < len(p) only if the ring has been aborted.
func (r *ringBuffer) Write(p []byte) (n int, aborted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for len(p) > 0 {
		for r.size == len(r.buf) && !r.aborted {
			r.notFull.Wait()
		}
		if r.aborted {
			return n, true
		}

		free := len(r.buf) - r.size
		chunk := len(p)
		if chunk > free {
			chunk = free
		}

		for i := 0; i < chunk; i++ {
			r.buf[(r.tail+i)%len(r.buf)] = p[i]
		}
		r.tail = (r.tail + chunk) % len(r.buf)
		r.size += chunk
		n += chunk
		p = p[chunk:]

		r.notEmpty.Signal()
	}

	return n, false
}

// Read drains up to len(p) bytes, blocking until at least one byte is
// available, the writer side is marked done and the ring is empty (eof),
// or the ring is aborted.
func (r *ringBuffer) Read(p []byte) (n int, eof bool, aborted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.size == 0 && !r.writerDone && !r.aborted {
		r.notEmpty.Wait()
	}

	if r.aborted {
		return 0, false, true
	}
	if r.size == 0 && r.writerDone {
		return 0, true, false
	}

	chunk := len(p)
	if chunk > r.size {
		chunk = r.size
	}

	for i := 0; i < chunk; i++ {
		p[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	r.head = (r.head + chunk) % len(r.buf)
	r.size -= chunk
	n = chunk

	r.notFull.Signal()
	return n, false, false
}

// CloseWrite marks that no further Write calls will occur; pending Reads
// still drain whatever remains buffered before reporting eof.
func (r *ringBuffer) CloseWrite() {
	r.mu.Lock()
	r.writerDone = true
	r.mu.Unlock()
	r.notEmpty.Broadcast()
}

// Abort unblocks any pending Read/Write immediately, used on cancellation.
func (r *ringBuffer) Abort() {
	r.mu.Lock()
	r.aborted = true
	r.mu.Unlock()
	r.notEmpty.Broadcast()
	r.notFull.Broadcast()
}

// Empty reports whether the ring currently holds no buffered bytes, i.e.
// nothing is in flight between the reader and writer goroutines.
func (r *ringBuffer) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size == 0
}
