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

package exec

import (
	"context"
	"os"
	osexec "os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	libstm "github.com/nabbar/goncat/stream"
)

func run(ctx context.Context, remote libstm.Stream, cfg Config) (Stats, error) {
	if remote == nil || cfg.Command == "" {
		return Stats{}, ErrorParamsEmpty.Error(nil)
	}
	if !cfg.Allowed {
		return Stats{}, ErrorAclDenied.Error(nil)
	}

	stdinBuf := nonZero(cfg.StdinBuffer, DefaultPipeBuffer)
	stdoutBuf := nonZero(cfg.StdoutBuffer, DefaultPipeBuffer)
	stderrBuf := 0
	if cfg.IncludeStderr {
		stderrBuf = nonZero(cfg.StderrBuffer, DefaultPipeBuffer)
	}
	maxTotal := nonZero(cfg.MaxTotalBuffer, DefaultMaxTotalBuffer)
	if stdinBuf+stdoutBuf+stderrBuf > maxTotal {
		return Stats{}, ErrorInvalidConfiguration.Error(nil)
	}

	cmd := buildCmd(cfg)

	stdinR, stdinW, e := os.Pipe()
	if e != nil {
		return Stats{}, e
	}
	stdoutR, stdoutW, e := os.Pipe()
	if e != nil {
		_ = stdinR.Close()
		_ = stdinW.Close()
		return Stats{}, e
	}

	var stderrR, stderrW *os.File
	if cfg.IncludeStderr {
		stderrR, stderrW, e = os.Pipe()
		if e != nil {
			_ = stdinR.Close()
			_ = stdinW.Close()
			_ = stdoutR.Close()
			_ = stdoutW.Close()
			return Stats{}, e
		}
	}

	cmd.Stdin = stdinR
	cmd.Stdout = stdoutW
	if cfg.IncludeStderr {
		cmd.Stderr = stderrW
	}

	started := time.Now()
	if e = cmd.Start(); e != nil {
		_ = stdinR.Close()
		_ = stdinW.Close()
		_ = stdoutR.Close()
		_ = stdoutW.Close()
		if stderrW != nil {
			_ = stderrR.Close()
			_ = stderrW.Close()
		}
		return Stats{}, e
	}

	// Parent closes the child-side descriptors immediately after spawn
	// (spec §4.5 "Pipe wiring").
	_ = stdinR.Close()
	_ = stdoutW.Close()
	if stderrW != nil {
		_ = stderrW.Close()
	}

	s := &session{
		cmd: cmd, remote: remote,
		stdinW: stdinW, stdoutR: stdoutR, stderrR: stderrR,
	}
	s.lastActivity.Store(started.UnixNano())

	killGrace := cfg.KillGrace
	if killGrace <= 0 {
		killGrace = DefaultKillGrace
	}

	s.wg.Add(2)
	go s.netToStdin()
	go s.stdoutToNet()
	if stderrR != nil {
		s.wg.Add(1)
		go s.stderrToNet()
	}

	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()

	var termErr error
	var connTimer, idleTimer, execTimer *time.Timer

	if cfg.ConnectionTimeout > 0 {
		connTimer = time.NewTimer(cfg.ConnectionTimeout)
		defer connTimer.Stop()
	}
	if cfg.ExecutionTimeout > 0 {
		execTimer = time.NewTimer(cfg.ExecutionTimeout)
		defer execTimer.Stop()
	}

	idlePoll := time.NewTicker(200 * time.Millisecond)
	defer idlePoll.Stop()

	var waitErr error
	exited := false

wait:
	for {
		var connCh, execCh <-chan time.Time
		if connTimer != nil {
			connCh = connTimer.C
		}
		if execTimer != nil {
			execCh = execTimer.C
		}

		select {
		case waitErr = <-waitDone:
			exited = true
			break wait

		case <-ctx.Done():
			termErr = ErrorCancelled.Error(nil)
			break wait

		case <-connCh:
			if s.lastActivity.Load() == started.UnixNano() {
				termErr = ErrorTimeoutConnection.Error(nil)
				break wait
			}

		case <-execCh:
			termErr = ErrorTimeoutExecution.Error(nil)
			break wait

		case <-idlePoll.C:
			if cfg.IdleTimeout > 0 {
				last := time.Unix(0, s.lastActivity.Load())
				if time.Since(last) >= cfg.IdleTimeout {
					termErr = ErrorTimeoutIdle.Error(nil)
					break wait
				}
			}
		}
	}

	// Step 2-3: close parent-owned pipe ends, then join splicers.
	s.closeParentEnds()
	s.wg.Wait()

	// Step 4: reap the child, escalating SIGTERM then SIGKILL.
	if !exited {
		waitErr = s.reap(waitDone, killGrace)
	}

	// Step 5: close the remote stream.
	_ = remote.Close()

	if termErr == nil && waitErr != nil {
		if _, ok := waitErr.(*osexec.ExitError); !ok {
			termErr = waitErr
		}
	}

	stats := Stats{
		NetToStdin:  s.netToStdinBytes.Load(),
		StdoutToNet: s.stdoutToNetBytes.Load(),
		StderrToNet: s.stderrToNetBytes.Load(),
		ExitCode:    cmd.ProcessState.ExitCode(),
		Duration:    time.Since(started),
	}

	return stats, termErr
}

func buildCmd(cfg Config) *osexec.Cmd {
	if cfg.Mode == ModeShell {
		return osexec.Command(shellPath(), "-c", cfg.Command)
	}
	return osexec.Command(cfg.Command, cfg.Args...)
}

func shellPath() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

func nonZero(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// session holds everything shutdown needs in the exact order spec §4.5
// demands. Field names mirror which pipe end the parent, as opposed to the
// child, owns.
type session struct {
	cmd    *osexec.Cmd
	remote libstm.Stream

	stdinW  *os.File
	stdoutR *os.File
	stderrR *os.File

	wg sync.WaitGroup

	lastActivity     atomic.Int64
	netToStdinBytes  atomic.Int64
	stdoutToNetBytes atomic.Int64
	stderrToNetBytes atomic.Int64

	stdinOnce sync.Once
	closeOnce sync.Once
}

// closeStdin closes the child's stdin exactly once. netToStdin calls this
// on remote EOF so a stdin-driven child sees EOF and exits (spec §4.5
// "net->child_stdin ... on remote EOF, closes child stdin"); closeParentEnds
// calls it again during ordinary shutdown, where it is then a no-op.
func (s *session) closeStdin() {
	s.stdinOnce.Do(func() {
		_ = s.stdinW.Close()
	})
}

func (s *session) touch() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// closeParentEnds closes every parent-owned pipe descriptor exactly once.
// This is what unblocks a splicer parked in Read or Write (spec §4.5 step 2).
func (s *session) closeParentEnds() {
	s.closeOnce.Do(func() {
		s.closeStdin()
		_ = s.stdoutR.Close()
		if s.stderrR != nil {
			_ = s.stderrR.Close()
		}
	})
}

func (s *session) netToStdin() {
	defer s.wg.Done()
	// Remote EOF (or any read/write error) ends this splicer for good, so
	// the child's stdin is closed right here rather than waiting on
	// closeParentEnds, which only runs after the wait: loop terminates.
	defer s.closeStdin()

	buf := make([]byte, 4096)
	for {
		n, e := s.remote.Read(buf)
		if n > 0 {
			if _, we := s.stdinW.Write(buf[:n]); we != nil {
				return
			}
			s.netToStdinBytes.Add(int64(n))
			s.touch()
		}
		if e != nil {
			return
		}
	}
}

func (s *session) stdoutToNet() {
	defer s.wg.Done()

	buf := make([]byte, 4096)
	for {
		n, e := s.stdoutR.Read(buf)
		if n > 0 {
			if _, we := s.remote.Write(buf[:n]); we != nil {
				return
			}
			s.stdoutToNetBytes.Add(int64(n))
			s.touch()
		}
		if e != nil {
			return
		}
	}
}

func (s *session) stderrToNet() {
	defer s.wg.Done()

	buf := make([]byte, 4096)
	for {
		n, e := s.stderrR.Read(buf)
		if n > 0 {
			if _, we := s.remote.Write(buf[:n]); we != nil {
				return
			}
			s.stderrToNetBytes.Add(int64(n))
			s.touch()
		}
		if e != nil {
			return
		}
	}
}

// reap sends SIGTERM, waits killGrace, then escalates to SIGKILL, per
// spec §4.5 step 4. Only called after the splicers have already been
// joined (closeParentEnds + wg.Wait happened first in run()).
func (s *session) reap(waitDone <-chan error, killGrace time.Duration) error {
	if s.cmd.Process == nil {
		return nil
	}

	_ = s.cmd.Process.Signal(syscall.SIGTERM)

	select {
	case e := <-waitDone:
		return e
	case <-time.After(killGrace):
	}

	_ = s.cmd.Process.Signal(syscall.SIGKILL)
	return <-waitDone
}
