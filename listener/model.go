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

package listener

import (
	"context"
	"net"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	libstm "github.com/nabbar/goncat/stream"
)

type listener struct {
	cfg  Config
	ln   net.Listener
	pc   net.PacketConn
	once sync.Once
}

func newListener(cfg Config) (Listener, error) {
	if cfg.Network == "" || cfg.Address == "" {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	switch cfg.Network {
	case "udp", "udp4", "udp6":
		return newUDPListener(cfg)
	case "unix", "unixpacket":
		return newUnixListener(cfg)
	default:
		return newTCPListener(cfg)
	}
}

// reusePortControl sets SO_REUSEADDR and (on platforms that support it)
// SO_REUSEPORT before bind, so a restarted process can rebind a socket
// still draining in TIME_WAIT (spec §4.2).
func reusePortControl(_, _ string, conn syscall.RawConn) error {
	var ctrlErr error
	err := conn.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	if err != nil {
		ctrlErr = err
	}
	return ctrlErr
}

func mapListenError(network, address string, e error) error {
	if e == nil {
		return nil
	}

	if os.IsExist(e) {
		return ErrorAddressInUse.Error(e)
	}
	if os.IsPermission(e) {
		return ErrorPermissionDenied.Error(e)
	}

	var sysErr syscall.Errno
	if errAs(e, &sysErr) {
		switch sysErr {
		case syscall.EADDRINUSE:
			return ErrorAddressInUse.Error(e)
		case syscall.EADDRNOTAVAIL:
			return ErrorAddressNotAvailable.Error(e)
		case syscall.EACCES, syscall.EPERM:
			return ErrorPermissionDenied.Error(e)
		case syscall.ENAMETOOLONG:
			return ErrorPathTooLong.Error(e)
		}
	}

	return e
}

// errAs is a narrow errors.As for syscall.Errno to avoid importing the
// standard "errors" package alongside this module's errors package.
func errAs(err error, target *syscall.Errno) bool {
	type unwrapper interface{ Unwrap() error }

	for err != nil {
		if se, ok := err.(syscall.Errno); ok {
			*target = se
			return true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func newTCPListener(cfg Config) (Listener, error) {
	lc := net.ListenConfig{Control: reusePortControl}

	ln, e := lc.Listen(context.Background(), cfg.Network, cfg.Address)
	if e != nil {
		return nil, mapListenError(cfg.Network, cfg.Address, e)
	}

	return &listener{cfg: cfg, ln: ln}, nil
}

func newUDPListener(cfg Config) (Listener, error) {
	lc := net.ListenConfig{Control: reusePortControl}

	pc, e := lc.ListenPacket(context.Background(), cfg.Network, cfg.Address)
	if e != nil {
		return nil, mapListenError(cfg.Network, cfg.Address, e)
	}

	return &listener{cfg: cfg, pc: pc}, nil
}

func newUnixListener(cfg Config) (Listener, error) {
	if e := probeStaleSocket(cfg.Address); e != nil {
		return nil, e
	}

	restore := unix.Umask(0o077)
	ln, e := net.Listen(cfg.Network, cfg.Address)
	unix.Umask(restore)

	if e != nil {
		return nil, mapListenError(cfg.Network, cfg.Address, e)
	}

	if e = checkUnixSocketPerm(cfg); e != nil {
		_ = ln.Close()
		_ = os.Remove(cfg.Address)
		return nil, e
	}

	return &listener{cfg: cfg, ln: ln}, nil
}

// probeStaleSocket dials the existing path (if any) to distinguish a
// live listener (AddressInUse) from an abandoned socket file left behind
// by a crashed process (safe to unlink), per spec §4.2.
func probeStaleSocket(path string) error {
	fi, statErr := os.Stat(path)
	if statErr != nil {
		return nil
	}

	if fi.Mode()&os.ModeSocket == 0 {
		return ErrorAddressInUse.Error(nil)
	}

	c, dialErr := net.Dial("unix", path)
	if dialErr == nil {
		_ = c.Close()
		return ErrorAddressInUse.Error(nil)
	}

	return os.Remove(path)
}

// checkUnixSocketPerm hard-refuses a socket file left with any group or
// other permission bit set after bind, per spec §9 decision 2 (no silent
// warn-only fallback).
func checkUnixSocketPerm(cfg Config) error {
	if cfg.UnixSocketPermOverride {
		return nil
	}

	fi, e := os.Stat(cfg.Address)
	if e != nil {
		return nil
	}

	if fi.Mode().Perm()&0o077 != 0 {
		return ErrorPermissionDenied.Error(nil)
	}

	return nil
}

func (l *listener) Addr() string {
	if l.ln != nil {
		return l.ln.Addr().String()
	}
	if l.pc != nil {
		return l.pc.LocalAddr().String()
	}
	return ""
}

func (l *listener) Close() error {
	var e error
	l.once.Do(func() {
		if l.ln != nil {
			e = l.ln.Close()
		}
		if l.pc != nil {
			e = l.pc.Close()
		}
		if l.cfg.Network == "unix" || l.cfg.Network == "unixpacket" {
			_ = os.Remove(l.cfg.Address)
		}
	})
	return e
}

func (l *listener) wrap(ctx context.Context, conn net.Conn) (libstm.Stream, bool) {
	if l.cfg.Acl != nil && !l.cfg.Acl.Allowed(conn.RemoteAddr()) {
		_ = conn.Close()
		return nil, false
	}

	if l.cfg.TLS != nil {
		s, e := libstm.ServerTLS(ctx, conn, *l.cfg.TLS)
		if e != nil {
			_ = conn.Close()
			return nil, false
		}
		return s, true
	}

	if l.cfg.Network == "unix" || l.cfg.Network == "unixpacket" {
		return libstm.NewUnix(conn), true
	}
	return libstm.NewTCP(conn), true
}

func (l *listener) Accept(ctx context.Context, mode Mode, h Handler) error {
	if l.pc != nil {
		return l.acceptUDP(ctx, h)
	}
	return l.acceptStream(ctx, mode, h)
}

func (l *listener) acceptStream(ctx context.Context, mode Mode, h Handler) error {
	go func() {
		<-ctx.Done()
		_ = l.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, e := l.ln.Accept()
		if e != nil {
			if ctx.Err() != nil {
				return nil
			}
			return mapListenError(l.cfg.Network, l.cfg.Address, e)
		}

		s, ok := l.wrap(ctx, conn)
		if !ok {
			continue
		}

		switch mode {
		case ModeSingle:
			h(ctx, s)
			return nil
		case ModeConcurrent:
			wg.Add(1)
			go func() {
				defer wg.Done()
				h(ctx, s)
			}()
		default:
			h(ctx, s)
		}
	}
}

// acceptUDP presents the peer of the first datagram received as a connected
// Stream by dialing back to it, since net.PacketConn has no notion of
// per-peer sockets. It serves that one peer and then returns, whatever the
// mode; later peers are not accepted. This mirrors the connected-UDP
// handling spec §4.1 requires.
func (l *listener) acceptUDP(ctx context.Context, h Handler) error {
	buf := make([]byte, 65507)

	n, addr, e := l.pc.ReadFrom(buf)
	if e != nil {
		if ctx.Err() != nil {
			return nil
		}
		return mapListenError(l.cfg.Network, l.cfg.Address, e)
	}

	conn, e := net.Dial(l.cfg.Network, addr.String())
	if e != nil {
		return mapListenError(l.cfg.Network, l.cfg.Address, e)
	}

	pre := &preloadConn{Conn: conn}
	if n > 0 {
		pre.pending = append(pre.pending, buf[:n]...)
	}

	s, ok := l.wrap(ctx, pre)
	if !ok {
		return nil
	}

	h(ctx, s)
	return nil
}

// preloadConn replays the datagram already consumed off the shared
// net.PacketConn before falling through to the dialed conn's own Read, so
// the first packet a UDP peer sent isn't lost during the connect-back.
type preloadConn struct {
	net.Conn
	pending []byte
}

func (p *preloadConn) Read(b []byte) (int, error) {
	if len(p.pending) > 0 {
		n := copy(b, p.pending)
		p.pending = p.pending[n:]
		return n, nil
	}
	return p.Conn.Read(b)
}
