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

import (
	"context"
	"os"
	"strings"

	libbrk "github.com/nabbar/goncat/broker"
	libdlr "github.com/nabbar/goncat/dialer"
	libexe "github.com/nabbar/goncat/exec"
	loglvl "github.com/nabbar/goncat/logger/level"
	liblst "github.com/nabbar/goncat/listener"
	liblog "github.com/nabbar/goncat/logger"
	libpmp "github.com/nabbar/goncat/pump"
	libstm "github.com/nabbar/goncat/stream"
	libtnt "github.com/nabbar/goncat/telnet"
)

// verbosity maps spec §7's repeatable -v into the teacher's log levels: 0
// reps -> Warn, 1 -> Info, 2+ -> Debug.
func (c *cliConfig) verbosity() loglvl.Level {
	switch {
	case c.Verbose >= 2:
		return loglvl.DebugLevel
	case c.Verbose == 1:
		return loglvl.InfoLevel
	default:
		return loglvl.WarnLevel
	}
}

// maybeTelnet wraps s in the telnet filter when --telnet was given; every
// other invocation hands the raw Stream straight to the pump, per
// telnet/doc.go.
func maybeTelnet(s libstm.Stream, c *cliConfig) libstm.Stream {
	if !c.Telnet {
		return s
	}
	return libtnt.Wrap(s, libtnt.Config{
		TermType: os.Getenv("TERM"),
	})
}

// execConfig turns the -e/--sh-exec flags into an exec.Config. Allowed
// requires an explicit ACL (--allow/--deny) per spec §4.5's security
// policy; goncat's zero-config convenience is that any ACL flag at all
// satisfies it, rather than demanding a separate opt-out flag.
func (c *cliConfig) execConfig() libexe.Config {
	cfg := libexe.Config{
		Allowed: len(c.Allow) > 0 || len(c.Deny) > 0,
	}

	if c.Exec != "" {
		cfg.Mode = libexe.ModeDirect
		cfg.Command = c.Exec
	} else {
		cfg.Mode = libexe.ModeShell
		cfg.Command = c.ShellExec
	}

	return cfg
}

func (c *cliConfig) pumpConfig(local, remote libstm.Stream) libpmp.Config {
	return libpmp.Config{
		Local:         local,
		Remote:        remote,
		IdleTimeout:   c.IdleTimeout,
		QuitAfterEOF:  c.QuitAfterEOF,
		SendOnly:      c.SendOnly,
		RecvOnly:      c.RecvOnly,
		NoShutdown:    c.NoShutdown,
		CRLFTranslate: c.CRLF,
		DelayMs:       c.DelayMs,
	}
}

// runConnect implements the `cmd [flags] host port` invocation: dial out,
// then pump between stdio and the remote Stream (or run -z zero-I/O).
func runConnect(ctx context.Context, log liblog.Logger, c *cliConfig) error {
	dcfg, e := c.buildDialer()
	if e != nil {
		return e
	}

	if c.ZeroIO {
		e = libdlr.DialZeroIO(ctx, dcfg)
		if e != nil {
			log.Error("zero-I/O probe failed", e)
		}
		return e
	}

	remote, e := libdlr.Dial(ctx, dcfg)
	if e != nil {
		log.Error("connect failed", e)
		return e
	}
	defer func() { _ = remote.Close() }()

	remote = maybeTelnet(remote, c)
	local := libstm.NewStdio(os.Stdin, os.Stdout, nil)

	log.Info("connected to %s", nil, remote.PeerAddress().String())
	stats, e := libpmp.Run(ctx, c.pumpConfig(local, remote))
	if e != nil {
		log.Error("pump aborted", e)
		return e
	}

	log.Info("pump finished: %d bytes out, %d bytes in", nil, stats.LocalToRemote, stats.RemoteToLocal)
	return nil
}

// runListen implements every `-l` invocation shape: plain relay (single or
// keep-open), broker, chat, and exec, all sharing the same listener.
func runListen(ctx context.Context, log liblog.Logger, c *cliConfig) error {
	lcfg, e := c.buildListener()
	if e != nil {
		return e
	}

	lst, e := liblst.Listen(lcfg)
	if e != nil {
		log.Error("listen failed", e)
		return e
	}
	defer func() { _ = lst.Close() }()

	log.Info("listening on %s", nil, lst.Addr())

	switch {
	case c.Broker || c.Chat:
		mode := libbrk.ModeBroker
		if c.Chat {
			mode = libbrk.ModeChat
		}
		brk := libbrk.New(libbrk.Config{
			MaxConns: maxOr(c.MaxConns, 32),
			Mode:     mode,
		})
		return lst.Accept(ctx, c.listenerMode(), func(ctx context.Context, s libstm.Stream) {
			if e := brk.Join(ctx, maybeTelnet(s, c)); e != nil {
				log.Warning("client dropped", e)
			}
		})

	case c.Exec != "" || c.ShellExec != "":
		ecfg := c.execConfig()
		return lst.Accept(ctx, c.listenerMode(), func(ctx context.Context, s libstm.Stream) {
			if _, e := libexe.Run(ctx, maybeTelnet(s, c), ecfg); e != nil {
				log.Warning("exec session failed", e)
			}
		})

	default:
		return lst.Accept(ctx, c.listenerMode(), func(ctx context.Context, s libstm.Stream) {
			remote := maybeTelnet(s, c)
			local := libstm.NewStdio(os.Stdin, os.Stdout, nil)
			if _, e := libpmp.Run(ctx, c.pumpConfig(local, remote)); e != nil {
				log.Warning("pump aborted", e)
			}
		})
	}
}

func maxOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// execute is the cobra RunE body: validate the role/address combination,
// then dispatch to the connect or listen path. Returned errors are mapped
// to exit codes by main.go per spec §6.
func execute(ctx context.Context, log liblog.Logger, c *cliConfig) error {
	if c.Exec != "" && c.ShellExec != "" {
		return ErrorRoleConflict.Error(nil)
	}
	if (c.Broker || c.Chat) && (c.Exec != "" || c.ShellExec != "") {
		return ErrorRoleConflict.Error(nil)
	}
	if c.Unix && (c.UDP || c.IPv4 || c.IPv6) {
		return ErrorInvalidConfig.Error(nil)
	}
	if c.IPv4 && c.IPv6 {
		return ErrorInvalidConfig.Error(nil)
	}
	if c.SendOnly && c.RecvOnly {
		return ErrorInvalidConfig.Error(nil)
	}

	if c.Unix {
		if strings.TrimSpace(c.UnixPath) == "" {
			return ErrorMissingHostPort.Error(nil)
		}
	} else if strings.TrimSpace(c.Host) == "" && !c.Listen {
		return ErrorMissingHostPort.Error(nil)
	} else if strings.TrimSpace(c.Port) == "" {
		return ErrorMissingHostPort.Error(nil)
	}

	log.SetLevel(c.verbosity())

	if c.Listen {
		return runListen(ctx, log, c)
	}
	return runConnect(ctx, log, c)
}
