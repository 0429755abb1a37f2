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

import "net"

type unixStream struct {
	base
}

// NewUnix wraps an already-connected *net.UnixConn as a Stream.
func NewUnix(conn net.Conn) Stream {
	return &unixStream{base: newBase(conn, KindUnix)}
}

func (s *unixStream) Read(p []byte) (int, error) {
	return s.readTracked(p)
}

func (s *unixStream) Write(p []byte) (int, error) {
	return s.writeTracked(p)
}

func (s *unixStream) ShutdownWrite() error {
	if !s.wShut.CompareAndSwap(false, true) {
		return nil
	}

	if c, k := s.conn.(*net.UnixConn); k {
		return c.CloseWrite()
	}

	return nil
}

func (s *unixStream) Close() error {
	if !s.markClosed() {
		return nil
	}
	return s.conn.Close()
}
