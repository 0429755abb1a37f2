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

package main

import "time"

// cliConfig collects every flag from spec §6's "External interfaces" table.
// Parsing itself is contract-only (spec §6 Non-goals); this struct is the
// contract cobra binds flags into and build.go turns into the core's typed
// configs.
type cliConfig struct {
	// Role
	Listen     bool
	KeepOpen   bool
	Broker     bool
	Chat       bool
	Exec       string
	ShellExec  string
	ZeroIO     bool

	// Family / protocol
	IPv4 bool
	IPv6 bool
	UDP  bool
	TLS  bool
	Unix bool

	// Timeouts
	ConnectTimeout time.Duration
	IdleTimeout    time.Duration
	QuitAfterEOF   time.Duration
	DelayMs        time.Duration

	// I/O mode
	SendOnly   bool
	RecvOnly   bool
	CRLF       bool
	NoShutdown bool

	// Taps (contract-only per spec §6 Non-goals; recorded, not rendered)
	OutputFile  string
	OutputAppend bool
	HexDumpFile string

	// TLS
	CertFile   string
	KeyFile    string
	TrustFile  string
	ServerName string
	Ciphers    []string
	ALPN       []string
	Verify     bool

	// Proxy
	ProxyAddress  string
	ProxyType     string
	ProxyUser     string
	ProxyPassword string
	ProxyDNS      bool

	// ACL
	Allow []string
	Deny  []string

	// Limits
	MaxConns   int
	MaxClients int

	// Telnet opt-in (goncat-specific, spec §4.6: never constructed unless
	// asked for)
	Telnet bool

	// Verbosity: repeatable -v, spec §7.
	Verbose int

	// Positional arguments: host/port, or a single Unix-socket path with -U.
	Host       string
	Port       string
	UnixPath   string
}
