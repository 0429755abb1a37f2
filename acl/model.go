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

package acl

import (
	"net"
	"strings"
)

type rule struct {
	raw  string
	cidr *net.IPNet
	ip   net.IP
	host string
}

type acl struct {
	allow []rule
	deny  []rule
}

func compileRule(e Entry) (rule, error) {
	raw := strings.TrimSpace(e.Raw)

	if raw == "" {
		return rule{}, ErrorParamsEmpty.Error(nil)
	}

	if strings.Contains(raw, "/") {
		_, n, e := net.ParseCIDR(raw)
		if e != nil {
			return rule{}, ErrorInvalidCIDR.Error(e)
		}
		return rule{raw: raw, cidr: n}, nil
	}

	if ip := net.ParseIP(raw); ip != nil {
		return rule{raw: raw, ip: ip}, nil
	}

	return rule{raw: raw, host: raw}, nil
}

func newAcl(cfg Config) (Acl, error) {
	a := &acl{}

	for _, e := range cfg.Allow {
		r, err := compileRule(e)
		if err != nil {
			return nil, err
		}
		a.allow = append(a.allow, r)
	}

	for _, e := range cfg.Deny {
		r, err := compileRule(e)
		if err != nil {
			return nil, err
		}
		a.deny = append(a.deny, r)
	}

	return a, nil
}

func hostOf(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.TCPAddr:
		return v.IP
	case *net.UDPAddr:
		return v.IP
	default:
		h, _, e := net.SplitHostPort(addr.String())
		if e != nil {
			return nil
		}
		return net.ParseIP(h)
	}
}

func (r rule) matches(ip net.IP, rawAddr string) bool {
	if r.cidr != nil {
		return ip != nil && r.cidr.Contains(ip)
	}

	if r.ip != nil {
		return ip != nil && r.ip.Equal(ip)
	}

	if r.host != "" {
		if ips, e := net.LookupHost(r.host); e == nil {
			for _, h := range ips {
				if ip != nil && net.ParseIP(h).Equal(ip) {
					return true
				}
			}
		}
		return strings.EqualFold(r.host, rawAddr)
	}

	return false
}

func (a *acl) Allowed(addr net.Addr) bool {
	if addr == nil {
		return len(a.allow) == 0
	}

	ip := hostOf(addr)
	raw := addr.String()

	for _, r := range a.deny {
		if r.matches(ip, raw) {
			return false
		}
	}

	if len(a.allow) == 0 {
		return true
	}

	for _, r := range a.allow {
		if r.matches(ip, raw) {
			return true
		}
	}

	return false
}
