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

// Package stream unifies plain TCP, TLS, UDP (datagram-as-stream), and Unix
// sockets behind one read/write/shutdown contract (spec §3, §4.1), so the
// pump, broker, and exec splicers work identically regardless of transport.
//
// Half-close invariant: after ShutdownWrite, every subsequent Write fails
// with ErrorBrokenPipe; Read keeps succeeding until the peer's own EOF.
// Close is idempotent: additional calls after the first successful one are
// no-ops that return nil.
package stream

import (
	"net"
	"time"

	tlscfg "github.com/nabbar/goncat/certificates"
)

// Kind identifies which transport a Stream wraps.
type Kind uint8

const (
	KindTCP Kind = iota
	KindTLS
	KindUDP
	KindUnix
)

func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "tcp"
	case KindTLS:
		return "tls"
	case KindUDP:
		return "udp"
	case KindUnix:
		return "unix"
	default:
		return "unknown"
	}
}

// Stats tracks per-stream byte counters and lifetime, used for the verbose
// connection-summary logging required by spec §7.
type Stats struct {
	BytesRead    int64
	BytesWritten int64
	Opened       time.Time
	Closed       time.Time
}

// Stream is the polymorphic byte channel all transports expose (spec §3).
type Stream interface {
	// Read follows net.Conn: it returns 0, io.EOF on orderly remote EOF.
	Read(p []byte) (n int, err error)

	// Write may perform a short write; callers loop until all bytes are
	// accepted or an error occurs.
	Write(p []byte) (n int, err error)

	// ShutdownWrite closes only the outbound half. Idempotent. A no-op for
	// the UDP variant (spec §4.1).
	ShutdownWrite() error

	// Close releases all resources. Safe to call more than once; only the
	// first call has effect.
	Close() error

	// PollHandle exposes the underlying net.Conn for callers that need a
	// raw handle (e.g. a readiness multiplexer implementation, or tests).
	PollHandle() net.Conn

	// PeerAddress identifies the remote end: IP/port for tcp/tls/udp,
	// filesystem path for unix.
	PeerAddress() net.Addr

	// Kind reports which transport this Stream wraps.
	Kind() Kind

	// Stats returns a snapshot of byte counters and open/close times.
	Stats() Stats
}

// Role identifies which side of a Pump an Endpoint plays (spec §3).
type Role uint8

const (
	RoleLocal Role = iota
	RoleRemote
)

// Endpoint pairs a Stream with the role it plays in a Pump. The local
// endpoint may be backed by stdio, a child-process pipe triple (exec mode),
// or another network Stream (broker/exec modes).
type Endpoint struct {
	Stream Stream
	Role   Role
}

// TLSDialConfig bundles the certificates.TLSConfig plus the server name used
// for SNI/verification, so dialer/listener can build a *tls.Config without
// reaching into the certificates package directly.
type TLSDialConfig struct {
	Config     tlscfg.TLSConfig
	ServerName string
}
