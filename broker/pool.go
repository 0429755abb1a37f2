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

package broker

import (
	"sync"
	"sync/atomic"

	libstm "github.com/nabbar/goncat/stream"
)

// slot is one live ClientPool entry. Every mutation of pool-wide state goes
// through pool's mutex (spec §4.4's concurrency invariant); a slot's own
// stream is only ever touched by its own reader/writer goroutines.
type slot struct {
	id     uint64
	stream libstm.Stream

	nick atomic.Value // string

	out    chan []byte
	slow   atomic.Int32
	closed atomic.Bool
}

func (s *slot) nickname() string {
	v := s.nick.Load()
	if v == nil {
		return ""
	}
	return v.(string)
}

func (s *slot) setNickname(n string) {
	s.nick.Store(n)
}

// enqueue delivers data to the slot's outbound buffer without blocking. If
// the buffer is full, the bytes are dropped for this slot only and its slow
// counter is bumped; the caller is told whether the slot crossed the
// disconnect threshold so it can be dropped (spec §4.4 backpressure).
func (s *slot) enqueue(data []byte, slowDisconnect int) (dropped, disconnect bool) {
	cp := make([]byte, len(data))
	copy(cp, data)

	select {
	case s.out <- cp:
		s.slow.Store(0)
		return false, false
	default:
		n := s.slow.Add(1)
		return true, slowDisconnect > 0 && int(n) >= slowDisconnect
	}
}

// pool is the ClientPool: a map of live slots guarded by a single mutex.
type pool struct {
	mu     sync.Mutex
	slots  map[uint64]*slot
	nextID uint64
}

func newPool() *pool {
	return &pool{slots: make(map[uint64]*slot)}
}

// add registers a new slot, already carrying its final nickname (empty in
// broker mode). The slot is only reachable by broadcast/others once this
// returns, so a chat handshake should run BEFORE calling add — otherwise
// another client's concurrent broadcast could race the handshake prompt on
// the wire.
func (p *pool) add(s libstm.Stream, nick string, maxConns, outBuf int) (*slot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if maxConns > 0 && len(p.slots) >= maxConns {
		return nil, ErrorPoolFull.Error(nil)
	}

	p.nextID++
	sl := &slot{id: p.nextID, stream: s, out: make(chan []byte, outBuf)}
	if nick != "" {
		sl.setNickname(nick)
	}
	p.slots[sl.id] = sl
	return sl, nil
}

func (p *pool) remove(id uint64) {
	p.mu.Lock()
	delete(p.slots, id)
	p.mu.Unlock()
}

func (p *pool) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}

func (p *pool) nicknameTaken(nick string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.slots {
		if s.nickname() == nick {
			return true
		}
	}
	return false
}

// others returns every live slot except id, snapshotted under the lock so
// fan-out never races a concurrent join/leave.
func (p *pool) others(id uint64) []*slot {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*slot, 0, len(p.slots))
	for sid, s := range p.slots {
		if sid != id {
			out = append(out, s)
		}
	}
	return out
}

// broadcast enqueues data on every slot except except, per-slot
// backpressure applying independently (spec §4.4).
func (p *pool) broadcast(except uint64, data []byte, slowDisconnect int) {
	for _, s := range p.others(except) {
		if _, disconnect := s.enqueue(data, slowDisconnect); disconnect {
			_ = s.stream.Close()
		}
	}
}
