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

package dialer

import (
	"context"
	"net"

	libstm "github.com/nabbar/goncat/stream"
)

func dial(ctx context.Context, cfg Config) (libstm.Stream, error) {
	if cfg.Address == "" || cfg.Network == "" {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if cfg.TLS != nil && (cfg.Proxy == nil || cfg.Proxy.Type == ProxyNone) {
		s, e := libstm.DialTLS(ctx, cfg.Network, cfg.Address, *cfg.TLS)
		if e != nil {
			return nil, mapDialError(e)
		}
		return s, nil
	}

	raw, e := rawConnect(ctx, cfg)
	if e != nil {
		return nil, mapDialError(e)
	}

	if cfg.TLS != nil {
		return libstm.ClientTLS(ctx, raw, *cfg.TLS)
	}

	switch cfg.Network {
	case "unix", "unixgram":
		return libstm.NewUnix(raw), nil
	case "udp", "udp4", "udp6":
		return libstm.NewUDP(raw), nil
	default:
		return libstm.NewTCP(raw), nil
	}
}

// rawConnect performs the plain connect (or, when a proxy is configured,
// the proxy handshake) and returns the resulting net.Conn before any TLS
// wrapping. Kept separate from dial so DialTLS can reuse the same network
// dial path via stream.DialTLS (which redials itself for the TLS case);
// for the non-TLS case this is the final connection.
func rawConnect(ctx context.Context, cfg Config) (net.Conn, error) {
	if cfg.Proxy != nil && cfg.Proxy.Type != ProxyNone {
		return dialProxy(ctx, cfg)
	}

	d := &net.Dialer{}
	return d.DialContext(ctx, cfg.Network, cfg.Address)
}

func mapDialError(e error) error {
	if e == nil {
		return nil
	}

	if ctxErr := e; ctxErr == context.DeadlineExceeded {
		return ErrorTimeoutConnect.Error(e)
	}

	var nerr net.Error
	if as, ok := e.(net.Error); ok {
		nerr = as
		if nerr.Timeout() {
			return ErrorTimeoutConnect.Error(e)
		}
	}

	if opErr, ok := e.(*net.OpError); ok {
		if opErr.Timeout() {
			return ErrorTimeoutConnect.Error(e)
		}
		if sysErr, ok := opErr.Err.(*net.DNSError); ok && sysErr != nil {
			return ErrorNameResolution.Error(e)
		}
	}

	return e
}
