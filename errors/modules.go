/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

// Numeric code ranges, one per package, so CodeError values never collide
// across packages. Each package reserves a 100-wide band starting at its
// MinPkgXxx constant and defines its own codes as MinPkgXxx+N.
const (
	MinPkgCertificate = 300
	MinPkgIOUtils     = 1400
	MinPkgLogger      = 1600
	MinPkgProtocol    = 2200
	MinPkgAcl         = 2300
	MinPkgStream      = 2400
	MinPkgDialer      = 2500
	MinPkgListener    = 2600
	MinPkgPump        = 2700
	MinPkgBroker      = 2800
	MinPkgExec        = 2900
	MinPkgTelnet      = 3000
	MinPkgCmd         = 3100

	MinAvailable = 4000
)
