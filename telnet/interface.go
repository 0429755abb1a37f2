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

// Package telnet implements spec §4.6: an optional byte-level filter,
// interposed between the pump and the remote Stream, that speaks just
// enough of RFC 854 and its companion option RFCs (855, 857, 858, 1091,
// 1073, 1184, 1572) to be a well-behaved telnet peer. It is never the
// pump's only transport — callers that don't opt in never construct one.
package telnet

import (
	libstm "github.com/nabbar/goncat/stream"
)

// WindowSize is the current terminal geometry, as reported by the caller
// (normally backed by golang.org/x/term.GetSize on the local tty).
type WindowSize struct {
	Cols uint16
	Rows uint16
}

// Config drives one telnet filter instance.
type Config struct {
	// TermType answers TERMINAL-TYPE SEND requests. Empty means "VT100".
	TermType string

	// Env answers NEW-ENVIRON SEND requests: the subset of requested
	// variable names found here is reported back, per spec §4.6.
	Env map[string]string

	// GetWindowSize is polled once at DO NAWS time and again whenever the
	// caller calls Stream.ResendNAWS (wired to SIGWINCH by the caller,
	// spec §4.7). A nil func (or one returning ok=false) still accepts the
	// NAWS option but skips sending a dimensions subnegotiation.
	GetWindowSize func() (WindowSize, bool)

	// OnRemoteEcho is invoked with true when the peer announces WILL ECHO
	// (so the caller should suppress local echo, clearing the tty's ECHO
	// flag) and with false on WONT ECHO. Optional.
	OnRemoteEcho func(suppressed bool)
}

// Stream extends libstm.Stream with the one operation a caller needs to
// drive from outside the read loop: re-announcing window size on SIGWINCH.
type Stream interface {
	libstm.Stream

	// ResendNAWS re-polls Config.GetWindowSize and, if NAWS was
	// negotiated, sends a fresh subnegotiation (spec §4.6, §4.7).
	ResendNAWS()
}

// Wrap interposes the telnet filter between the pump and raw. Reads from
// the returned Stream yield only de-escaped application data; negotiation
// replies and subnegotiation responses are written to raw as they're
// produced, transparently to the caller.
func Wrap(raw libstm.Stream, cfg Config) Stream {
	return &telnetStream{
		raw: raw,
		cfg: cfg,
		opt: make(map[byte]*optionState),
	}
}
