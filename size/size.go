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
 *
 */

// Package size defines a byte-count type used to size buffers in the
// logger configuration without scattering untyped int literals.
package size

import "strconv"

// Size is a byte count. Negative values are meaningless but not rejected by
// the type itself; callers treat <= 0 as "use default".
type Size int64

const (
	SizeUnit Size = 1
	SizeKilo      = 1024 * SizeUnit
	SizeMega      = 1024 * SizeKilo
	SizeGiga      = 1024 * SizeMega

	// KiB/MiB are the conventional binary-prefix aliases.
	KiB = SizeKilo
	MiB = SizeMega
	GiB = SizeGiga
)

func (s Size) Int() int {
	return int(s)
}

func (s Size) Int64() int64 {
	return int64(s)
}

func (s Size) String() string {
	return strconv.FormatInt(int64(s), 10)
}
