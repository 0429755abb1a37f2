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
	"io"
	"net"
	"time"
)

// stdioAddr satisfies net.Addr for the local console, which has neither a
// network nor an address in the usual sense.
type stdioAddr struct{}

func (stdioAddr) Network() string { return "stdio" }
func (stdioAddr) String() string  { return "-" }

// stdioConn adapts a pair of io.Reader/io.Writer (normally os.Stdin and
// os.Stdout) to net.Conn, so the stdio Endpoint can be built with the same
// newBase plumbing every other Stream variant uses.
type stdioConn struct {
	r io.Reader
	w io.Writer
	c io.Closer
}

func (c *stdioConn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c *stdioConn) Write(p []byte) (int, error) { return c.w.Write(p) }

func (c *stdioConn) Close() error {
	if c.c != nil {
		return c.c.Close()
	}
	return nil
}

func (c *stdioConn) LocalAddr() net.Addr  { return stdioAddr{} }
func (c *stdioConn) RemoteAddr() net.Addr { return stdioAddr{} }

// Deadlines aren't meaningful on a console; satisfied as no-ops so stdioConn
// is a usable net.Conn.
func (c *stdioConn) SetDeadline(time.Time) error      { return nil }
func (c *stdioConn) SetReadDeadline(time.Time) error  { return nil }
func (c *stdioConn) SetWriteDeadline(time.Time) error { return nil }

type stdioStream struct {
	base
}

// NewStdio wraps r/w (normally os.Stdin/os.Stdout) as the local Endpoint's
// Stream for the connect role (spec §2's "local side" of a Pump). ShutdownWrite
// has nothing TCP-like to half-close, so it just stops further Writes from
// being accepted, matching the broken-pipe invariant the pump relies on.
// closer, if non-nil, is invoked once from Close (wire os.Stdout here if the
// caller wants the descriptor released; os.Stdin is left alone since closing
// it can wedge a foreground terminal).
func NewStdio(r io.Reader, w io.Writer, closer io.Closer) Stream {
	return &stdioStream{base: newBase(&stdioConn{r: r, w: w, c: closer}, KindTCP)}
}

func (s *stdioStream) Read(p []byte) (int, error) {
	return s.readTracked(p)
}

func (s *stdioStream) Write(p []byte) (int, error) {
	return s.writeTracked(p)
}

func (s *stdioStream) ShutdownWrite() error {
	s.wShut.Store(true)
	return nil
}

func (s *stdioStream) Close() error {
	if !s.markClosed() {
		return nil
	}
	return s.conn.Close()
}
