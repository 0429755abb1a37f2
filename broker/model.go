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

package broker

import (
	"bufio"
	"context"
	"fmt"
	"runtime"
	"sync"

	libstm "github.com/nabbar/goncat/stream"
)

type broker struct {
	cfg  Config
	pool *pool
}

func newBroker(cfg Config) *broker {
	if cfg.MaxLinesPerTick <= 0 {
		cfg.MaxLinesPerTick = DefaultMaxLinesPerTick
	}
	if cfg.OutboundBuffer <= 0 {
		cfg.OutboundBuffer = DefaultOutboundBuffer
	}
	if cfg.SlowDisconnect <= 0 {
		cfg.SlowDisconnect = DefaultSlowDisconnect
	}
	return &broker{cfg: cfg, pool: newPool()}
}

func (b *broker) Count() int {
	return b.pool.count()
}

func (b *broker) Join(ctx context.Context, s libstm.Stream) error {
	if s == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	r := bufio.NewReader(s)

	var nick string
	if b.cfg.Mode == ModeChat {
		var ok bool
		nick, ok = b.nicknameHandshake(ctx, s, r)
		if !ok {
			_ = s.Close()
			return nil
		}
	}

	sl, e := b.pool.add(s, nick, b.cfg.MaxConns, b.cfg.OutboundBuffer)
	if e != nil {
		_ = s.Close()
		return e
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		b.writerLoop(sl)
	}()

	if b.cfg.Mode == ModeChat {
		b.pool.broadcast(sl.id, []byte(fmt.Sprintf("*** %s has joined\n", nick)), b.cfg.SlowDisconnect)
	}

	b.readLoop(ctx, sl, r)

	b.pool.remove(sl.id)
	close(sl.out)
	_ = s.Close()
	wg.Wait()

	if b.cfg.Mode == ModeChat {
		b.pool.broadcast(sl.id, []byte(fmt.Sprintf("*** %s has left\n", nick)), b.cfg.SlowDisconnect)
	}

	return nil
}

func (b *broker) writerLoop(sl *slot) {
	for data := range sl.out {
		if _, e := sl.stream.Write(data); e != nil {
			return
		}
	}
}

// nicknameHandshake prompts over s directly (the slot does not exist in
// the pool yet, so there is no outbound-buffer path to race against) for a
// nickname until one passes validation and isn't already taken, or the
// stream closes first.
func (b *broker) nicknameHandshake(ctx context.Context, s libstm.Stream, r *bufio.Reader) (string, bool) {
	_, _ = s.Write([]byte("nickname: "))

	for {
		if ctx.Err() != nil {
			return "", false
		}

		line, e := r.ReadString('\n')
		if line == "" && e != nil {
			return "", false
		}

		nick := trimLine(line)
		if nick == "" {
			_, _ = s.Write([]byte("nickname cannot be empty, try again: "))
			if e != nil {
				return "", false
			}
			continue
		}

		if verr := validateNickname(nick); verr != nil {
			_, _ = s.Write([]byte("invalid nickname, try again: "))
		} else if b.pool.nicknameTaken(nick) {
			_, _ = s.Write([]byte("nickname taken, try again: "))
		} else {
			return nick, true
		}

		if e != nil {
			return "", false
		}
	}
}

// readLoop processes inbound lines from sl, capping how many it consumes
// per round at MaxLinesPerTick and yielding the scheduler between rounds so
// a flooding client cannot starve other slots (spec §4.4 DoS protection).
func (b *broker) readLoop(ctx context.Context, sl *slot, r *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		processed := 0
		for processed < b.cfg.MaxLinesPerTick {
			line, e := r.ReadString('\n')
			if line != "" {
				b.handleLine(sl, line)
				processed++
			}
			if e != nil {
				return
			}
		}

		runtime.Gosched()
	}
}

func (b *broker) handleLine(sl *slot, line string) {
	text := trimLine(line)

	if b.cfg.Mode == ModeChat {
		if cmd, arg, ok := parseNickCommand(text); ok {
			b.handleNickCommand(sl, cmd, arg)
			return
		}

		out := fmt.Sprintf("<%s> %s\n", sl.nickname(), text)
		b.pool.broadcast(sl.id, []byte(out), b.cfg.SlowDisconnect)
		return
	}

	b.pool.broadcast(sl.id, []byte(line), b.cfg.SlowDisconnect)
}

func (b *broker) handleNickCommand(sl *slot, _ string, arg string) {
	if verr := validateNickname(arg); verr != nil {
		_, _ = sl.stream.Write([]byte("invalid nickname\n"))
		return
	}
	if b.pool.nicknameTaken(arg) {
		_, _ = sl.stream.Write([]byte("nickname taken\n"))
		return
	}

	old := sl.nickname()
	sl.setNickname(arg)
	b.pool.broadcast(sl.id, []byte(fmt.Sprintf("*** %s is now known as %s\n", old, arg)), b.cfg.SlowDisconnect)
}

func trimLine(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
