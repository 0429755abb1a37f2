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

// Package runner gathers the small lifecycle helpers shared by the
// background-goroutine managers in this module (ioutils/aggregator and
// logger/hookfile): panic recovery with caller attribution, and the
// StartStop contract in the startStop subpackage.
package runner

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
)

// RecoveryCaller logs a panic recovered from rec, attributing it to name and
// appending any extra context strings. It is a no-op when rec is nil, so it
// is safe to call unconditionally from a deferred recover().
func RecoveryCaller(name string, rec interface{}, extra ...string) {
	if rec == nil {
		return
	}

	msg := fmt.Sprintf("recovered panic in %s: %v", name, rec)

	if len(extra) > 0 {
		msg += " (" + strings.Join(extra, ", ") + ")"
	}

	_, _ = fmt.Fprintln(os.Stderr, msg)
	_, _ = os.Stderr.Write(debug.Stack())
}
