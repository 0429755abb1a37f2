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

// weSupport reports whether this side will actively perform opt when the
// peer asks DO opt.
func weSupport(opt byte) bool {
	switch opt {
	case optTermType, optNAWS, optLineMode, optSGA:
		return true
	}
	return false
}

// weAccept reports whether this side accepts the peer performing opt when
// it announces WILL opt.
func weAccept(opt byte) bool {
	switch opt {
	case optEcho, optSGA:
		return true
	}
	return false
}

func (t *telnetStream) optionFor(opt byte) *optionState {
	t.optMu.Lock()
	defer t.optMu.Unlock()

	os, ok := t.opt[opt]
	if !ok {
		os = &optionState{}
		t.opt[opt] = os
	}
	return os
}

// handleWill processes an inbound WILL opt: the peer is telling us it will
// perform opt. Never re-answers an offer already recorded (spec §4.6 "never
// loop").
func (t *telnetStream) handleWill(opt byte) {
	os := t.optionFor(opt)
	if os.remoteWill {
		return
	}
	os.remoteWill = true

	if isKnownOption(opt) && weAccept(opt) {
		t.sendDo(opt)
		if opt == optEcho && t.cfg.OnRemoteEcho != nil {
			t.cfg.OnRemoteEcho(true)
		}
	} else {
		t.sendDont(opt)
	}
}

func (t *telnetStream) handleWont(opt byte) {
	os := t.optionFor(opt)
	if !os.remoteWill {
		return
	}
	os.remoteWill = false
	t.sendDont(opt)

	if opt == optEcho && t.cfg.OnRemoteEcho != nil {
		t.cfg.OnRemoteEcho(false)
	}
}

// handleDo processes an inbound DO opt: the peer wants us to perform opt.
func (t *telnetStream) handleDo(opt byte) {
	os := t.optionFor(opt)
	if os.localWill {
		return
	}
	os.localWill = true

	if isKnownOption(opt) && weSupport(opt) {
		t.sendWill(opt)

		switch opt {
		case optNAWS:
			t.sendNAWS()
		case optLineMode:
			t.sendLinemodeMode()
		}
	} else {
		t.sendWont(opt)
	}
}

func (t *telnetStream) handleDont(opt byte) {
	os := t.optionFor(opt)
	if !os.localWill {
		return
	}
	os.localWill = false
	t.sendWont(opt)
}

// handleSubneg dispatches a completed SB opt ... SE body.
func (t *telnetStream) handleSubneg(opt byte, body []byte) {
	switch opt {
	case optTermType:
		t.handleTermTypeSubneg(body)
	case optNewEnviron:
		t.handleNewEnvironSubneg(body)
	case optLineMode:
		t.handleLinemodeSubneg(body)
	}
}

func (t *telnetStream) handleTermTypeSubneg(body []byte) {
	if len(body) == 0 || body[0] != ttSend {
		return
	}
	term := t.cfg.TermType
	if term == "" {
		term = "VT100"
	}
	reply := append([]byte{ttIs}, []byte(term)...)
	t.sendSubneg(optTermType, reply)
}

func (t *telnetStream) handleNewEnvironSubneg(body []byte) {
	if len(body) == 0 || body[0] != neSend {
		return
	}

	names := parseRequestedEnvNames(body[1:])
	if len(names) == 0 {
		for n := range t.cfg.Env {
			names = append(names, n)
		}
	}
	reply := []byte{neIs}
	for _, n := range names {
		v, ok := t.cfg.Env[n]
		if !ok {
			continue
		}
		reply = append(reply, neVar)
		reply = append(reply, []byte(n)...)
		reply = append(reply, neValue)
		reply = append(reply, []byte(v)...)
	}
	t.sendSubneg(optNewEnviron, reply)
}

// parseRequestedEnvNames splits a NEW-ENVIRON SEND body (following the
// leading SEND byte) into the requested variable names. An empty request
// list means "send everything you have", per RFC 1572.
func parseRequestedEnvNames(body []byte) []string {
	var names []string
	var cur []byte
	inName := false

	flush := func() {
		if inName {
			names = append(names, string(cur))
			cur = nil
			inName = false
		}
	}

	for i := 0; i < len(body); i++ {
		b := body[i]
		if b == neVar || b == neUserVar {
			flush()
			inName = true
			continue
		}
		if b == neEsc && i+1 < len(body) {
			i++
			cur = append(cur, body[i])
			continue
		}
		if inName {
			cur = append(cur, b)
		}
	}
	flush()

	return names
}

func (t *telnetStream) handleLinemodeSubneg(body []byte) {
	if len(body) == 0 {
		return
	}
	if body[0] == lmSLC {
		t.replySLC(body[1:])
	}
}

func (t *telnetStream) sendWill(opt byte) {
	t.writeRaw([]byte{cmdIAC, cmdWILL, opt})
}

func (t *telnetStream) sendWont(opt byte) {
	t.writeRaw([]byte{cmdIAC, cmdWONT, opt})
}

func (t *telnetStream) sendDo(opt byte) {
	t.writeRaw([]byte{cmdIAC, cmdDO, opt})
}

func (t *telnetStream) sendDont(opt byte) {
	t.writeRaw([]byte{cmdIAC, cmdDONT, opt})
}

// sendSubneg emits IAC SB opt <body, with embedded 0xFF doubled> IAC SE.
func (t *telnetStream) sendSubneg(opt byte, body []byte) {
	out := make([]byte, 0, len(body)+6)
	out = append(out, cmdIAC, cmdSB, opt)
	for _, b := range body {
		out = append(out, b)
		if b == cmdIAC {
			out = append(out, cmdIAC)
		}
	}
	out = append(out, cmdIAC, cmdSE)
	t.writeRaw(out)
}

func (t *telnetStream) sendNAWS() {
	if t.cfg.GetWindowSize == nil {
		return
	}
	ws, ok := t.cfg.GetWindowSize()
	if !ok {
		return
	}
	body := []byte{
		byte(ws.Cols >> 8), byte(ws.Cols),
		byte(ws.Rows >> 8), byte(ws.Rows),
	}
	t.sendSubneg(optNAWS, body)
}

func (t *telnetStream) sendLinemodeMode() {
	t.sendSubneg(optLineMode, []byte{lmMode, lmModeEdit | lmModeTrapSig})
}
