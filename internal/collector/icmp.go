/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
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
 */

package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const (
	protocolICMP = 1 // IANA protocol number for ICMP over IPv4
	echoPayload  = "infrascan-probe"
)

// ICMPEcho probes a host with a native ICMPv4 echo request.
// It prefers a raw socket and falls back to an unprivileged datagram socket
// where the platform allows one (macOS, Linux with ping_group_range).
type ICMPEcho struct {
	resolver *net.Resolver
	seq      func() int
}

// NewICMPEcho creates a native echo prober.
func NewICMPEcho() *ICMPEcho {
	return &ICMPEcho{
		resolver: net.DefaultResolver,
		seq:      func() int { return int(time.Now().UnixNano() & 0xffff) },
	}
}

// Echo implements Echoer.
func (e *ICMPEcho) Echo(ctx context.Context, host string) (float64, error) {
	ip, err := e.resolve(ctx, host)
	if err != nil {
		return 0, err
	}

	conn, network, err := listenICMP()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errSocketUnavailable, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return 0, fmt.Errorf("setting probe deadline: %w", err)
		}
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	var dst net.Addr = &net.IPAddr{IP: ip}
	if network == "udp4" {
		dst = &net.UDPAddr{IP: ip}
	}

	id := os.Getpid() & 0xffff
	seq := e.seq()
	req := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: id, Seq: seq, Data: []byte(echoPayload)},
	}
	wb, err := req.Marshal(nil)
	if err != nil {
		return 0, fmt.Errorf("encoding echo request: %w", err)
	}

	start := time.Now()
	if _, err := conn.WriteTo(wb, dst); err != nil {
		if isUnreachable(err) {
			return 0, fmt.Errorf("%w: %v", errProbeFailed, err)
		}
		return 0, fmt.Errorf("sending echo request: %w", err)
	}

	rb := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(rb)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, fmt.Errorf("waiting for echo reply from %s: %w", ip, ctxErr)
			}
			return 0, fmt.Errorf("reading echo reply: %w", err)
		}
		rtt := time.Since(start)

		msg, err := icmp.ParseMessage(protocolICMP, rb[:n])
		if err != nil {
			continue
		}

		switch body := msg.Body.(type) {
		case *icmp.Echo:
			if msg.Type != ipv4.ICMPTypeEchoReply || !peerIs(peer, ip) || body.Seq != seq {
				continue
			}
			// Datagram sockets have their identifier rewritten by the kernel.
			if network != "udp4" && body.ID != id {
				continue
			}
			return milliseconds(rtt), nil
		case *icmp.DstUnreach:
			if quotesDestination(body.Data, ip) {
				return 0, fmt.Errorf("%w: destination unreachable (code %d)", errProbeFailed, msg.Code)
			}
		case *icmp.TimeExceeded:
			if quotesDestination(body.Data, ip) {
				return 0, fmt.Errorf("%w: time exceeded in transit", errProbeFailed)
			}
		}
	}
}

// resolve returns the first IPv4 address of host. A name that cannot be
// resolved is a failed probe, like ping reporting an unknown host.
func (e *ICMPEcho) resolve(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
		return nil, fmt.Errorf("%w: %s is not an IPv4 address", errSocketUnavailable, host)
	}

	ips, err := e.resolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("resolving %s: %w", host, ctxErr)
		}
		return nil, fmt.Errorf("%w: resolving %s: %v", errProbeFailed, host, err)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: no IPv4 address for %s", errProbeFailed, host)
	}
	return ips[0], nil
}

// listenICMP opens a raw ICMP socket, or an unprivileged datagram one.
func listenICMP() (*icmp.PacketConn, string, error) {
	conn, rawErr := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if rawErr == nil {
		return conn, "ip4:icmp", nil
	}
	if runtime.GOOS == "windows" {
		return nil, "", rawErr
	}

	conn, dgramErr := icmp.ListenPacket("udp4", "0.0.0.0")
	if dgramErr == nil {
		return conn, "udp4", nil
	}
	return nil, "", errors.Join(rawErr, dgramErr)
}

func isUnreachable(err error) bool {
	return errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH)
}

func peerIs(peer net.Addr, ip net.IP) bool {
	switch a := peer.(type) {
	case *net.IPAddr:
		return a.IP.Equal(ip)
	case *net.UDPAddr:
		return a.IP.Equal(ip)
	}
	return false
}

// quotesDestination reports whether an ICMP error quotes a datagram sent to ip.
// The quoted IPv4 header carries the original destination at offset 16.
func quotesDestination(data []byte, ip net.IP) bool {
	if len(data) < ipv4.HeaderLen {
		return false
	}
	hdrLen := int(data[0]&0x0f) << 2
	if hdrLen < ipv4.HeaderLen || len(data) < hdrLen {
		return false
	}
	return net.IP(data[16:20]).Equal(ip)
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
