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

package broker

import (
	"strings"
	"unicode"
)

// validateNickname applies the Glossary's "Nickname" rule: non-empty, no
// leading/trailing whitespace, no control characters, none of "[]*\/",
// length <= MaxNicknameLen, and not a "***"-prefixed system-notice pattern.
func validateNickname(nick string) error {
	if nick == "" {
		return ErrorNicknameInvalid.Error(nil)
	}
	if len(nick) > MaxNicknameLen {
		return ErrorNicknameInvalid.Error(nil)
	}
	if strings.TrimSpace(nick) != nick {
		return ErrorNicknameInvalid.Error(nil)
	}
	if strings.HasPrefix(nick, "***") {
		return ErrorNicknameInvalid.Error(nil)
	}
	for _, r := range nick {
		if unicode.IsControl(r) {
			return ErrorNicknameInvalid.Error(nil)
		}
		switch r {
		case '[', ']', '*', '/':
			return ErrorNicknameInvalid.Error(nil)
		}
	}
	return nil
}

// parseNickCommand recognizes "/nick <name>" and "/name <name>" (spec
// §4.4); any other leading '/' is left as ordinary chat data.
func parseNickCommand(line string) (cmd, arg string, ok bool) {
	const nickPfx = "/nick "
	const namePfx = "/name "

	switch {
	case strings.HasPrefix(line, nickPfx):
		return "nick", strings.TrimSpace(line[len(nickPfx):]), true
	case strings.HasPrefix(line, namePfx):
		return "name", strings.TrimSpace(line[len(namePfx):]), true
	default:
		return "", "", false
	}
}
