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
	"context"
	"crypto/tls"
	"net"
)

type tlsStream struct {
	base
}

func newTLS(conn *tls.Conn) Stream {
	return &tlsStream{base: newBase(conn, KindTLS)}
}

// DialTLS dials addr over network (tcp/tcp4/tcp6), then performs the TLS
// client handshake synchronously before returning, per spec §4.1 ("the
// handshake is synchronous on the connecting ... thread and completes
// before the stream is handed to the pump").
func DialTLS(ctx context.Context, network, addr string, cfg TLSDialConfig) (Stream, error) {
	d := &net.Dialer{}

	raw, e := d.DialContext(ctx, network, addr)
	if e != nil {
		return nil, e
	}

	return ClientTLS(ctx, raw, cfg)
}

// ClientTLS performs the TLS client handshake on an already-connected raw
// conn (e.g. one that came back from a proxy hop) before returning the
// Stream, synchronously per spec §4.1.
func ClientTLS(ctx context.Context, raw net.Conn, cfg TLSDialConfig) (Stream, error) {
	if cfg.Config == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	tc := cfg.Config.TLS(cfg.ServerName)
	if tc == nil {
		_ = raw.Close()
		return nil, ErrorTlsVerify.Error(nil)
	}

	c := tls.Client(raw, tc)

	if e := c.HandshakeContext(ctx); e != nil {
		_ = raw.Close()
		return nil, ErrorTlsHandshake.Error(e)
	}

	return newTLS(c), nil
}

// ServerTLS performs the TLS server-side handshake on an accepted raw
// connection, synchronously, before returning the Stream.
func ServerTLS(ctx context.Context, raw net.Conn, cfg TLSDialConfig) (Stream, error) {
	if cfg.Config == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	tc := cfg.Config.TLS(cfg.ServerName)
	if tc == nil {
		_ = raw.Close()
		return nil, ErrorTlsVerify.Error(nil)
	}

	c := tls.Server(raw, tc)

	if e := c.HandshakeContext(ctx); e != nil {
		_ = raw.Close()
		return nil, ErrorTlsHandshake.Error(e)
	}

	return newTLS(c), nil
}

func (s *tlsStream) Read(p []byte) (int, error) {
	return s.readTracked(p)
}

func (s *tlsStream) Write(p []byte) (int, error) {
	return s.writeTracked(p)
}

func (s *tlsStream) ShutdownWrite() error {
	if !s.wShut.CompareAndSwap(false, true) {
		return nil
	}

	if c, k := s.conn.(*tls.Conn); k {
		return c.CloseWrite()
	}

	return nil
}

func (s *tlsStream) Close() error {
	if !s.markClosed() {
		return nil
	}
	return s.conn.Close()
}
