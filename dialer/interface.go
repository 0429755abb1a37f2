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

// Package dialer implements spec §4.2's Dialer: given a family hint, host,
// port, and timeout, it resolves addresses (or hands the literal hostname to
// a proxy) and produces exactly one connected Stream. Proxy dialing
// (SOCKS4/4a, SOCKS5, HTTP CONNECT) is a thin front-end per spec §1 — only
// the SOCKS5 and HTTP CONNECT handshakes are implemented in full here;
// SOCKS4/4a is contract-only (ErrorProxyUnsupported), matching spec §1's
// explicit "thin front-end" framing for proxy dialers.
package dialer

import (
	"context"
	"time"

	libstm "github.com/nabbar/goncat/stream"
)

// ProxyType selects the proxy handshake used before the final connect.
type ProxyType uint8

const (
	ProxyNone ProxyType = iota
	ProxySocks4
	ProxySocks4a
	ProxySocks5
	ProxyHTTPConnect
)

// ProxyConfig describes the optional proxy hop (spec §6 "Proxy" flags).
type ProxyConfig struct {
	Type     ProxyType
	Address  string
	Username string
	Password string

	// ProxyDNS, when true, sends the destination hostname to the proxy
	// (SOCKS5 ATYP=0x03) instead of resolving it locally.
	ProxyDNS bool
}

// Config is the Dialer's input (spec §4.2).
type Config struct {
	// Network is "tcp", "tcp4", "tcp6", "udp", or "unix".
	Network string `validate:"required,oneof=tcp tcp4 tcp6 udp unix"`

	// Address is host:port for tcp/udp, or a filesystem path for unix.
	Address string `validate:"required"`

	// ConnectTimeout bounds the connect attempt; zero means no timeout.
	ConnectTimeout time.Duration

	// TLS, if non-nil, wraps the connection in a client TLS handshake
	// immediately after connect.
	TLS *libstm.TLSDialConfig

	// Proxy, if Type != ProxyNone, routes the connection through a proxy.
	Proxy *ProxyConfig
}

// Dial resolves and connects per cfg, returning exactly one connected
// Stream. On timeout the partial socket is closed and ErrorTimeoutConnect
// is returned (spec §4.2).
func Dial(ctx context.Context, cfg Config) (libstm.Stream, error) {
	return dial(ctx, cfg)
}

// DialZeroIO implements spec §4.2's `-z` zero-I/O mode: connect, then
// immediately close and report success — used for port scanning.
func DialZeroIO(ctx context.Context, cfg Config) error {
	s, e := dial(ctx, cfg)
	if e != nil {
		return e
	}
	return s.Close()
}
