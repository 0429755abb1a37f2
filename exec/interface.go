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

// Package exec implements spec §4.5: on each accepted connection, spawn a
// child process and splice its stdin/stdout/stderr into the remote stream.
// The one invariant that matters more than any other here is the shutdown
// order — close the parent-owned pipe ends, THEN join the splicer tasks,
// THEN reap the child, THEN close the remote stream. Reordering this (wait
// for the child before joining the splicers) is the exact deadlock/use-
// after-free this package exists to avoid; see the numbered shutdown steps
// at the end of run in model.go.
package exec

import (
	"context"
	"time"

	libstm "github.com/nabbar/goncat/stream"
)

// Mode selects how Command is interpreted.
type Mode uint8

const (
	// ModeDirect treats Command as an executable path with explicit Args.
	ModeDirect Mode = iota
	// ModeShell passes Command as a single string to the platform shell
	// (`$SHELL -c`, or `/bin/sh -c` when SHELL is unset) with no separate
	// Args.
	ModeShell
)

// DefaultPipeBuffer is the per-pipe splice buffer size.
const DefaultPipeBuffer = 32 * 1024

// DefaultMaxTotalBuffer is the global cap spec §4.5 validates configured
// per-pipe capacities against.
const DefaultMaxTotalBuffer = 3 * DefaultPipeBuffer

// DefaultKillGrace is how long Session waits after SIGTERM before SIGKILL.
const DefaultKillGrace = 3 * time.Second

// Config drives one exec.Session.
type Config struct {
	Mode    Mode
	Command string
	Args    []string

	// IncludeStderr, when true, also splices child stderr into the remote
	// stream, interleaved with stdout.
	IncludeStderr bool

	StdinBuffer  int
	StdoutBuffer int
	StderrBuffer int

	// MaxTotalBuffer bounds the sum of the three buffers above; zero uses
	// DefaultMaxTotalBuffer.
	MaxTotalBuffer int

	ConnectionTimeout time.Duration
	IdleTimeout       time.Duration
	ExecutionTimeout  time.Duration

	// KillGrace is how long SIGTERM is given before SIGKILL; zero uses
	// DefaultKillGrace.
	KillGrace time.Duration

	// Allowed gates whether exec may run at all (spec §4.5's security
	// policy: an --allow ACL or an explicit opt-out is required).
	Allowed bool
}

// Stats summarizes one finished session.
type Stats struct {
	NetToStdin  int64
	StdoutToNet int64
	StderrToNet int64
	ExitCode    int
	Duration    time.Duration
}

// Run spawns Config's child process, splices it into remote, and blocks
// until the session ends (remote EOF, child exit, a timeout, or ctx
// cancellation), returning once every resource has been released.
func Run(ctx context.Context, remote libstm.Stream, cfg Config) (Stats, error) {
	return run(ctx, remote, cfg)
}
