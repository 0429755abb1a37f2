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

// Command goncat is a modern netcat/ncat-style byte pump: bidirectional
// TCP/UDP/Unix/TLS relay, listening server with ACL, broker/chat relay, and
// an exec subsystem, all built on the packages under this module's root.
// Flag parsing, help text, and the version banner are contract-only per
// spec §6 — only the connected-Stream boundary they produce is implemented
// in full.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	liberr "github.com/nabbar/goncat/errors"
	liblog "github.com/nabbar/goncat/logger"
	"github.com/spf13/cobra"
)

// exitCode maps a returned error onto spec §6's exit codes: 0 is handled by
// the caller (err == nil), 2 is any configuration error raised by this
// package's own CodeError band, 1 is everything else (transport errors).
func exitCode(e error) int {
	if e == nil {
		return 0
	}
	if ce, ok := e.(liberr.Error); ok && ce.GetCode().Uint16() >= liberr.MinPkgCmd {
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	c := &cliConfig{}

	cmd := &cobra.Command{
		Use:   "goncat [flags] host port",
		Short: "read and write data across network connections",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				c.Host = args[0]
			}
			if len(args) > 1 {
				c.Port = args[1]
			}
			c.Unix = c.UnixPath != ""

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log := liblog.New(ctx)
			return execute(ctx, log, c)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()

	f.BoolVarP(&c.Listen, "listen", "l", false, "listen for incoming connections")
	f.BoolVarP(&c.KeepOpen, "keep-open", "k", false, "accept multiple connections in succession")
	f.BoolVar(&c.Broker, "broker", false, "relay bytes among all connected clients")
	f.BoolVar(&c.Chat, "chat", false, "like --broker, with nicknames and join/part messages")
	f.StringVarP(&c.Exec, "exec", "e", "", "execute a command for each connection")
	f.StringVar(&c.ShellExec, "sh-exec", "", "like --exec, via the platform shell")
	f.BoolVarP(&c.ZeroIO, "zero-io", "z", false, "report connection success/failure without transferring data")

	f.BoolVarP(&c.IPv4, "4", "4", false, "use IPv4 only")
	f.BoolVarP(&c.IPv6, "6", "6", false, "use IPv6 only")
	f.BoolVarP(&c.UDP, "udp", "u", false, "use UDP instead of TCP")
	f.BoolVar(&c.TLS, "ssl", false, "connect or listen with TLS")
	f.StringVarP(&c.UnixPath, "unixsock", "U", "", "connect or listen on a Unix domain socket path")

	f.DurationVarP(&c.ConnectTimeout, "wait", "w", 0, "connect timeout")
	f.DurationVar(&c.IdleTimeout, "idle-timeout", 0, "abort if no bytes move for this long")
	f.DurationVar(&c.QuitAfterEOF, "quit-after-eof", 0, "exit this long after local input reaches EOF")
	f.DurationVar(&c.DelayMs, "delay", 0, "delay between successive reads/writes")

	f.BoolVar(&c.SendOnly, "send-only", false, "only send data, never receive")
	f.BoolVar(&c.RecvOnly, "recv-only", false, "only receive data, never send")
	f.BoolVarP(&c.CRLF, "crlf", "C", false, "translate bare LF to CRLF on input")
	f.BoolVar(&c.NoShutdown, "no-shutdown", false, "don't half-close the connection on local EOF")

	f.StringVarP(&c.OutputFile, "output", "o", "", "dump session bytes to a file (contract-only)")
	f.BoolVar(&c.OutputAppend, "append-output", false, "append rather than truncate --output")
	f.StringVar(&c.HexDumpFile, "hex-dump", "", "dump session bytes as hex to a file (contract-only)")

	f.StringVar(&c.CertFile, "cert", "", "TLS certificate file")
	f.StringVar(&c.KeyFile, "key", "", "TLS private key file")
	f.StringVar(&c.TrustFile, "trust-file", "", "TLS trust store (CA) file")
	f.StringVar(&c.ServerName, "servername", "", "TLS SNI/verification server name")
	f.StringSliceVar(&c.Ciphers, "ciphers", nil, "TLS cipher suite names")
	f.StringSliceVar(&c.ALPN, "alpn", nil, "TLS ALPN protocol names (contract-only, see DESIGN.md)")
	f.BoolVar(&c.Verify, "ssl-verify", false, "require and verify a peer certificate")

	f.StringVar(&c.ProxyAddress, "proxy", "", "proxy host:port")
	f.StringVar(&c.ProxyType, "proxy-type", "socks5", "proxy type: http, socks4, socks5")
	f.StringVar(&c.ProxyUser, "proxy-username", "", "proxy auth username")
	f.StringVar(&c.ProxyPassword, "proxy-password", "", "proxy auth password")
	f.BoolVar(&c.ProxyDNS, "proxy-dns", false, "resolve the destination host through the proxy")

	f.StringArrayVar(&c.Allow, "allow", nil, "allow only these hosts/CIDRs to connect")
	f.StringArrayVar(&c.Deny, "deny", nil, "deny these hosts/CIDRs from connecting")

	f.IntVarP(&c.MaxConns, "max-conns", "m", 0, "maximum concurrent broker/chat clients")
	f.IntVar(&c.MaxClients, "max-clients", 0, "accepted but has no effect (only --max-conns is read)")

	f.BoolVar(&c.Telnet, "telnet", false, "speak telnet IAC negotiation on the remote stream")

	f.CountVarP(&c.Verbose, "verbose", "v", "increase verbosity (repeatable)")

	return cmd
}

func main() {
	cmd := newRootCmd()

	e := cmd.ExecuteContext(context.Background())
	os.Exit(exitCode(e))
}
