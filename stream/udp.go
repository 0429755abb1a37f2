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

// udpStream wraps a connected UDP socket (net.DialUDP or equivalent) so it
// presents byte-stream Read/Write semantics to callers, per spec §4.1.
// ShutdownWrite is a no-op: UDP has no half-close notion.
type udpStream struct {
	base
}

// NewUDP wraps an already-connected *net.UDPConn as a Stream.
func NewUDP(conn net.Conn) Stream {
	return &udpStream{base: newBase(conn, KindUDP)}
}

func (s *udpStream) Read(p []byte) (int, error) {
	return s.readTracked(p)
}

func (s *udpStream) Write(p []byte) (int, error) {
	return s.writeTracked(p)
}

func (s *udpStream) ShutdownWrite() error {
	return nil
}

func (s *udpStream) Close() error {
	if !s.markClosed() {
		return nil
	}
	return s.conn.Close()
}
