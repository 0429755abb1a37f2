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

// Package listener implements spec §4.2's Listener/Acceptor: it binds a
// single TCP, UDP, or Unix-domain address and yields connected Streams to
// one of three consumer modes (single, keep-open, concurrent). SO_REUSEADDR
// and SO_REUSEPORT are applied on POSIX platforms; Unix sockets are probed
// for a stale peer before bind and get a tightened 0o077 umask plus a
// post-bind refusal if any group or other permission bit is set (spec §9
// decision: hard refuse rather than warn).
package listener

import (
	"context"

	libacl "github.com/nabbar/goncat/acl"
	libstm "github.com/nabbar/goncat/stream"
)

// Mode selects how Accept consumes incoming connections (spec §4.2).
type Mode uint8

const (
	// ModeSingle accepts exactly one connection then stops listening.
	ModeSingle Mode = iota
	// ModeKeepOpen accepts connections serially, one at a time.
	ModeKeepOpen
	// ModeConcurrent accepts connections and hands each to its own goroutine.
	ModeConcurrent
)

// Config is the Listener's input.
type Config struct {
	// Network is "tcp", "tcp4", "tcp6", "udp", or "unix".
	Network string `validate:"required,oneof=tcp tcp4 tcp6 udp unix"`

	// Address is host:port for tcp/udp, or a filesystem path for unix.
	Address string `validate:"required"`

	// TLS, if non-nil, wraps every accepted connection in a server TLS
	// handshake before it is handed to the consumer.
	TLS *libstm.TLSDialConfig

	// Acl, if non-nil, is evaluated against the peer address before a
	// connection is handed to the consumer; denied peers are closed
	// immediately (spec §4.7).
	Acl libacl.Acl

	// UnixSocketPermOverride, when true, skips the post-bind group/other
	// permission refusal check. Off by default per spec §9 decision 2.
	UnixSocketPermOverride bool
}

// Handler processes one accepted Stream. Accept blocks the caller (mode
// Single/KeepOpen) or runs Handler in its own goroutine (mode Concurrent).
type Handler func(ctx context.Context, s libstm.Stream)

// Listener is a bound socket ready to accept connections.
type Listener interface {
	// Accept runs until ctx is cancelled, the listener is closed, or (mode
	// Single) one connection has been handled. A UDP listener handles a
	// single peer and returns, in every mode.
	Accept(ctx context.Context, mode Mode, h Handler) error

	// Addr returns the bound local address.
	Addr() string

	// Close releases the listening socket (and, for unix sockets, removes
	// the socket file).
	Close() error
}

// Listen binds cfg.Network/cfg.Address and returns a ready Listener.
func Listen(cfg Config) (Listener, error) {
	return newListener(cfg)
}
