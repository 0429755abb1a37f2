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

// Package acl evaluates a peer address against allow/deny CIDR and host
// lists, per spec §4.7: deny is checked first and wins; if allow is
// non-empty, a non-match against allow is also a rejection.
package acl

import "net"

// Entry is a single allow/deny rule: either a CIDR/IP or a bare hostname,
// which is looked up each time a peer address is evaluated.
type Entry struct {
	// Raw is the original configuration string (IP, CIDR, or hostname).
	Raw string `validate:"required"`
}

// Config is the Acl data model from spec §3: allow/deny sets of
// CidrOrHost entries.
type Config struct {
	Allow []Entry
	Deny  []Entry
}

// Acl evaluates peer addresses against a compiled allow/deny list.
type Acl interface {
	// Allowed reports whether addr passes the acl: false if addr matches
	// any deny entry, or if Allow is non-empty and addr matches none of
	// its entries.
	Allowed(addr net.Addr) bool
}

// New compiles cfg into an Acl. CIDR and IP entries are parsed here;
// hostname entries are kept as names and resolved with net.LookupHost on
// every Allowed call.
func New(cfg Config) (Acl, error) {
	return newAcl(cfg)
}
