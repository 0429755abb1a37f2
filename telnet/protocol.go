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

// Telnet command bytes (RFC 854).
const (
	cmdSE   byte = 240 // end of subnegotiation
	cmdNOP  byte = 241
	cmdDM   byte = 242 // data mark
	cmdBRK  byte = 243
	cmdIP   byte = 244
	cmdAO   byte = 245
	cmdAYT  byte = 246
	cmdEC   byte = 247
	cmdEL   byte = 248
	cmdGA   byte = 249
	cmdSB   byte = 250 // begin subnegotiation
	cmdWILL byte = 251
	cmdWONT byte = 252
	cmdDO   byte = 253
	cmdDONT byte = 254
	cmdIAC  byte = 255
)

// Option numbers this layer knows about (spec §4.6). Anything else receives
// the complementary refusal (WONT for a DO, DONT for a WILL).
const (
	optEcho       byte = 1  // RFC 857
	optSGA        byte = 3  // RFC 858 (suppress go-ahead, accepted silently)
	optTermType   byte = 24 // RFC 1091
	optNAWS       byte = 31 // RFC 1073
	optLineMode   byte = 34 // RFC 1184
	optNewEnviron byte = 39 // RFC 1572
)

// TERMINAL-TYPE subnegotiation commands (RFC 1091).
const (
	ttSend byte = 1
	ttIs   byte = 0
)

// NEW-ENVIRON subnegotiation commands (RFC 1572).
const (
	neIs      byte = 0
	neSend    byte = 1
	neVar     byte = 0
	neValue   byte = 1
	neEsc     byte = 2
	neUserVar byte = 3
)

// LINEMODE subnegotiation commands (RFC 1184).
const (
	lmMode byte = 1
	lmSLC  byte = 3
)

// LINEMODE MODE bits.
const (
	lmModeEdit    byte = 1
	lmModeTrapSig byte = 2
)

// subnegMaxLen bounds a buffered subnegotiation body; anything larger is a
// malformed or hostile peer, not a real option negotiation.
const subnegMaxLen = 4096

func isKnownOption(opt byte) bool {
	switch opt {
	case optEcho, optSGA, optTermType, optNAWS, optLineMode, optNewEnviron:
		return true
	}
	return false
}
