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

// Package broker implements spec §4.4's broker/chat relay: a ClientPool
// fans bytes received from one slot out to every other live slot. Chat mode
// layers a nickname handshake, `<nick> ` line prefixing, and `/nick`
// rename commands on top of the same fan-out. A per-slot outbound buffer
// provides backpressure; a slot that stays backed up past SlowDisconnect
// ticks is dropped. A global per-slot per-round line cap bounds how much of
// one flooding client's input is processed before other slots get a turn
// (spec's MAX_LINES_PER_TICK).
package broker

import (
	"context"

	libstm "github.com/nabbar/goncat/stream"
)

// Mode selects plain byte relay versus the nickname-augmented chat relay.
type Mode uint8

const (
	ModeBroker Mode = iota
	ModeChat
)

// DefaultMaxLinesPerTick is spec §4.4's MAX_LINES_PER_TICK.
const DefaultMaxLinesPerTick = 100

// DefaultOutboundBuffer is how many pending outbound messages a slot
// queues before it is considered backpressured.
const DefaultOutboundBuffer = 256

// DefaultSlowDisconnect is how many consecutive backpressured rounds a
// slot tolerates before being dropped.
const DefaultSlowDisconnect = 50

// MaxNicknameLen is spec's Glossary "Nickname" length bound.
const MaxNicknameLen = 32

// Config drives a Broker instance.
type Config struct {
	MaxConns int `validate:"required,min=1"`
	Mode     Mode

	MaxLinesPerTick int
	OutboundBuffer  int
	SlowDisconnect  int
}

// Broker accepts client streams and relays bytes among them.
type Broker interface {
	// Join adds s to the pool and runs its full lifecycle (optional
	// nickname handshake, inbound relay, outbound delivery) until s
	// disconnects, ctx is cancelled, or the pool is full. It returns once
	// the slot is fully cleaned up.
	Join(ctx context.Context, s libstm.Stream) error

	// Count returns the number of live slots.
	Count() int
}

// New creates a Broker ready to accept Join calls.
func New(cfg Config) Broker {
	return newBroker(cfg)
}
