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

// parseState enumerates the IAC parser states named in spec §3's TelnetState
// (`data, iac, will, wont, do, dont, sb, sb_iac`).
type parseState uint8

const (
	stData parseState = iota
	stIAC
	stWill
	stWont
	stDo
	stDont
	stSB
	stSBIac
)

// optionState tracks negotiation state for one option, per spec §3's
// per-option record `{remote_will, local_will, pending}`.
type optionState struct {
	remoteWill bool // peer has told us WILL (peer will do it)
	localWill  bool // we have told peer WILL (we will do it)
	pending    bool // we've sent an offer/response and are awaiting no further bounce
}
