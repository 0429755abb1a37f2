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

// SLC function codes this layer answers (RFC 1184); functions it has no
// opinion on are reported SLC_NOSUPPORT.
const (
	slcEOF   byte = 8
	slcEC    byte = 10
	slcEL    byte = 11
	slcIP    byte = 3
	slcSusp  byte = 9
	slcEW    byte = 12
	slcRP    byte = 13
	slcLNext byte = 14
	slcXon   byte = 15
	slcXoff  byte = 16
)

// SLC levels (low 5 bits of the level byte).
const (
	slcNoSupport byte = 0
	slcValue     byte = 2
	slcAck       byte = 0x80
)

// slcDefaults is the conventional control-character set reported to a peer
// that asks for our SLC values (spec §4.6's "reporting the local tty's
// control-character set"). These match the defaults most termios
// implementations ship with; goncat has no controlling pty of its own to
// introspect (it filters a network stream, not a local terminal session),
// so a fixed table stands in for a live termios read.
var slcDefaults = map[byte]byte{
	slcEOF:   4,   // ^D
	slcEC:    127, // DEL
	slcEL:    21,  // ^U
	slcIP:    3,   // ^C
	slcSusp:  26,  // ^Z
	slcEW:    23,  // ^W
	slcRP:    18,  // ^R
	slcLNext: 22,  // ^V
	slcXon:   17,  // ^Q
	slcXoff:  19,  // ^S
}

// replySLC answers each requested (function, level, value) triplet in body
// with this side's own control-character set, per spec §4.6.
func (t *telnetStream) replySLC(body []byte) {
	out := make([]byte, 0, len(body))
	for i := 0; i+3 <= len(body); i += 3 {
		fn := body[i]
		val, ok := slcDefaults[fn]
		if !ok {
			out = append(out, fn, slcNoSupport, 0)
			continue
		}
		out = append(out, fn, slcValue|slcAck, val)
	}

	if len(out) > 0 {
		t.sendSubneg(optLineMode, append([]byte{lmSLC}, out...))
	}
}
