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

package dialer

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/textproto"

	"golang.org/x/net/proxy"
)

func basicAuthToken(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}

// dialProxy performs the proxy hop described by cfg.Proxy and returns the
// resulting net.Conn, connected all the way through to cfg.Address. SOCKS5
// is delegated to golang.org/x/net/proxy; HTTP CONNECT is hand-rolled since
// that package does not provide it. SOCKS4/4a is contract-only per spec §1.
func dialProxy(ctx context.Context, cfg Config) (net.Conn, error) {
	switch cfg.Proxy.Type {
	case ProxySocks5:
		return dialSocks5(ctx, cfg)
	case ProxyHTTPConnect:
		return dialHTTPConnect(ctx, cfg)
	case ProxySocks4, ProxySocks4a:
		return nil, ErrorProxyUnsupported.Error(nil)
	default:
		return nil, ErrorProxyUnsupported.Error(nil)
	}
}

func dialSocks5(ctx context.Context, cfg Config) (net.Conn, error) {
	var auth *proxy.Auth
	if cfg.Proxy.Username != "" {
		auth = &proxy.Auth{User: cfg.Proxy.Username, Password: cfg.Proxy.Password}
	}

	target := cfg.Address
	if !cfg.Proxy.ProxyDNS {
		if h, p, se := net.SplitHostPort(target); se == nil && net.ParseIP(h) == nil {
			ips, le := net.DefaultResolver.LookupHost(ctx, h)
			if le != nil || len(ips) == 0 {
				return nil, ErrorNameResolution.Error(le)
			}
			target = net.JoinHostPort(ips[0], p)
		}
	}

	fwd := &net.Dialer{}
	d, e := proxy.SOCKS5("tcp", cfg.Proxy.Address, auth, fwd)
	if e != nil {
		return nil, e
	}

	type ctxDialer interface {
		DialContext(ctx context.Context, network, address string) (net.Conn, error)
	}

	if cd, ok := d.(ctxDialer); ok {
		c, e := cd.DialContext(ctx, cfg.Network, target)
		if e != nil {
			return nil, ErrorProxyRejected.Error(e)
		}
		return c, nil
	}

	c, e := d.Dial(cfg.Network, target)
	if e != nil {
		return nil, ErrorProxyRejected.Error(e)
	}
	return c, nil
}

// dialHTTPConnect opens a plain TCP connection to the proxy, issues an
// HTTP CONNECT for cfg.Address, and hands back the raw tunnel once the
// proxy answers 200.
func dialHTTPConnect(ctx context.Context, cfg Config) (net.Conn, error) {
	fwd := &net.Dialer{}

	conn, e := fwd.DialContext(ctx, "tcp", cfg.Proxy.Address)
	if e != nil {
		return nil, e
	}

	line := fmt.Sprintf("CONNECT %s HTTP/1.1\r\nHost: %s\r\n", cfg.Address, cfg.Address)
	if cfg.Proxy.Username != "" {
		token := basicAuthToken(cfg.Proxy.Username, cfg.Proxy.Password)
		line += fmt.Sprintf("Proxy-Authorization: Basic %s\r\n", token)
	}
	line += "\r\n"

	if _, e = conn.Write([]byte(line)); e != nil {
		_ = conn.Close()
		return nil, e
	}

	br := bufio.NewReader(conn)
	tp := textproto.NewReader(br)

	statusLine, e := tp.ReadLine()
	if e != nil {
		_ = conn.Close()
		return nil, e
	}

	if _, e = tp.ReadMIMEHeader(); e != nil {
		_ = conn.Close()
		return nil, e
	}

	if len(statusLine) < 12 || statusLine[9:12] != "200" {
		_ = conn.Close()
		return nil, ErrorProxyRejected.Error(nil)
	}

	return conn, nil
}
