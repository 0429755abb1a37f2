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

package telnet

import (
	"net"
	"sync"

	libstm "github.com/nabbar/goncat/stream"
)

// telnetStream wraps a raw Stream, filtering IAC sequences on the way in
// and escaping 0xFF on the way out. The parser state (spec §3's
// TelnetState) persists across Read calls since a single IAC sequence can
// straddle two underlying reads.
type telnetStream struct {
	raw libstm.Stream
	cfg Config

	// parser state, touched only from Read's goroutine.
	state      parseState
	sbOption   byte
	sbHaveOpt  bool
	sbBuf      []byte
	sbOverflow bool
	pending    []byte // decoded application bytes not yet returned to caller

	optMu sync.Mutex
	opt   map[byte]*optionState

	writeMu sync.Mutex // serializes negotiation replies against app Writes

	fatalMu sync.Mutex
	fatal   error
}

func (t *telnetStream) setFatal(e error) {
	t.fatalMu.Lock()
	if t.fatal == nil {
		t.fatal = e
	}
	t.fatalMu.Unlock()
}

func (t *telnetStream) getFatal() error {
	t.fatalMu.Lock()
	defer t.fatalMu.Unlock()
	return t.fatal
}

func (t *telnetStream) Read(p []byte) (int, error) {
	if e := t.getFatal(); e != nil {
		return 0, e
	}

	if len(t.pending) > 0 {
		n := copy(p, t.pending)
		t.pending = t.pending[n:]
		return n, nil
	}

	buf := make([]byte, len(p))
	if len(buf) < 4096 {
		buf = make([]byte, 4096)
	}

	for {
		n, e := t.raw.Read(buf)
		if n > 0 {
			t.pending = append(t.pending, t.process(buf[:n])...)
		}

		if e := t.getFatal(); e != nil {
			return 0, e
		}

		if len(t.pending) > 0 {
			k := copy(p, t.pending)
			t.pending = t.pending[k:]
			return k, nil
		}

		if e != nil {
			return 0, e
		}
		if n == 0 {
			return 0, nil
		}
		// entire read was consumed by telnet commands; read again.
	}
}

// process runs in bytes through the IAC parser, returning de-escaped
// application data and issuing negotiation replies synchronously.
func (t *telnetStream) process(in []byte) []byte {
	out := make([]byte, 0, len(in))

	for _, b := range in {
		switch t.state {
		case stData:
			if b == cmdIAC {
				t.state = stIAC
			} else {
				out = append(out, b)
			}

		case stIAC:
			switch b {
			case cmdIAC:
				out = append(out, 0xFF)
				t.state = stData
			case cmdWILL:
				t.state = stWill
			case cmdWONT:
				t.state = stWont
			case cmdDO:
				t.state = stDo
			case cmdDONT:
				t.state = stDont
			case cmdSB:
				t.sbBuf = t.sbBuf[:0]
				t.sbHaveOpt = false
				t.sbOverflow = false
				t.state = stSB
			default:
				// IAC NOP, IAC DM, and any other 2-byte command: consumed,
				// nothing passed to the pump (spec §4.6).
				t.state = stData
			}

		case stWill:
			t.handleWill(b)
			t.state = stData

		case stWont:
			t.handleWont(b)
			t.state = stData

		case stDo:
			t.handleDo(b)
			t.state = stData

		case stDont:
			t.handleDont(b)
			t.state = stData

		case stSB:
			if b == cmdIAC {
				t.state = stSBIac
				continue
			}
			if !t.sbHaveOpt {
				t.sbOption = b
				t.sbHaveOpt = true
				continue
			}
			if len(t.sbBuf) >= subnegMaxLen {
				t.sbOverflow = true
				continue
			}
			t.sbBuf = append(t.sbBuf, b)

		case stSBIac:
			switch b {
			case cmdSE:
				if t.sbOverflow {
					t.setFatal(ErrorSubnegTooLarge.Error(nil))
				} else {
					t.handleSubneg(t.sbOption, t.sbBuf)
				}
				t.state = stData
			case cmdIAC:
				// escaped 0xFF inside the subnegotiation body.
				if len(t.sbBuf) < subnegMaxLen {
					t.sbBuf = append(t.sbBuf, 0xFF)
				}
				t.state = stSB
			default:
				t.state = stData
			}
		}
	}

	return out
}

func (t *telnetStream) Write(p []byte) (int, error) {
	if e := t.getFatal(); e != nil {
		return 0, e
	}

	escaped := make([]byte, 0, len(p))
	for _, b := range p {
		escaped = append(escaped, b)
		if b == cmdIAC {
			escaped = append(escaped, cmdIAC)
		}
	}

	if e := t.writeAll(escaped); e != nil {
		return 0, e
	}
	return len(p), nil
}

func (t *telnetStream) writeRaw(p []byte) {
	_ = t.writeAll(p)
}

func (t *telnetStream) writeAll(p []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	for len(p) > 0 {
		n, e := t.raw.Write(p)
		if e != nil {
			return e
		}
		p = p[n:]
	}
	return nil
}

func (t *telnetStream) ShutdownWrite() error {
	return t.raw.ShutdownWrite()
}

func (t *telnetStream) Close() error {
	return t.raw.Close()
}

func (t *telnetStream) PollHandle() net.Conn {
	return t.raw.PollHandle()
}

func (t *telnetStream) PeerAddress() net.Addr {
	return t.raw.PeerAddress()
}

func (t *telnetStream) Kind() libstm.Kind {
	return t.raw.Kind()
}

func (t *telnetStream) Stats() libstm.Stats {
	return t.raw.Stats()
}

func (t *telnetStream) ResendNAWS() {
	t.optMu.Lock()
	os, ok := t.opt[optNAWS]
	active := ok && os.localWill
	t.optMu.Unlock()

	if !active {
		return
	}
	t.sendNAWS()
}
