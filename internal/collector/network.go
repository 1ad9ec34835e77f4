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
	"log/slog"
	"net"
	"runtime"
	"strings"
	"time"

	"github.com/phuonguno98/infrascan/internal/config"
	"github.com/phuonguno98/infrascan/pkg/metrics"
)

var (
	// errProbeFailed marks a probe that completed without a usable reply.
	errProbeFailed = errors.New("host did not answer")
	// errSocketUnavailable marks a native probe that could not open an ICMP socket.
	errSocketUnavailable = errors.New("icmp socket unavailable")
)

// Echoer sends one echo request to host and returns the round-trip time in
// milliseconds. Errors wrapping errProbeFailed denote a completed probe with
// no answer; every other error is an execution fault.
type Echoer interface {
	Echo(ctx context.Context, host string) (float64, error)
}

// NetworkCollector measures reachability of a host with a single echo request.
type NetworkCollector struct {
	defaultHost string
	timeout     time.Duration
	mode        string
	native      Echoer
	command     Echoer
	logger      *slog.Logger
}

// NewNetworkCollector creates a network probe.
// mode selects the strategy: config.ProbeModeAuto tries a native ICMP socket
// and falls back to the ping command when no socket can be opened.
func NewNetworkCollector(defaultHost string, timeout time.Duration, mode string, logger *slog.Logger) *NetworkCollector {
	return &NetworkCollector{
		defaultHost: defaultHost,
		timeout:     timeout,
		mode:        mode,
		native:      NewICMPEcho(),
		command:     NewPingCommand(runtime.GOOS),
		logger:      logger,
	}
}

// Collect probes host (or the default host when empty).
// It never fails: every outcome is folded into the reading's status.
func (n *NetworkCollector) Collect(ctx context.Context, host string) metrics.NetworkReading {
	if host == "" {
		host = n.defaultHost
	}
	if !validHost(host) {
		n.logger.Debug("Rejected probe target", "host", host)
		return metrics.ProbeFailed()
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	latency, err := n.echo(ctx, host)
	if err != nil {
		if errors.Is(err, errProbeFailed) {
			n.logger.Debug("Probe completed without reply", "host", host, "error", err)
			return metrics.ProbeFailed()
		}
		n.logger.Debug("Probe could not run", "host", host, "error", err)
		return metrics.ProbeErrored()
	}

	return metrics.ProbeSucceeded(latency)
}

func (n *NetworkCollector) echo(ctx context.Context, host string) (float64, error) {
	switch n.mode {
	case config.ProbeModeExec:
		return n.command.Echo(ctx, host)
	case config.ProbeModeICMP:
		return n.native.Echo(ctx, host)
	}

	latency, err := n.native.Echo(ctx, host)
	if errors.Is(err, errSocketUnavailable) {
		n.logger.Debug("Native ICMP unavailable, falling back to ping command", "error", err)
		return n.command.Echo(ctx, host)
	}
	return latency, err
}

// validHost reports whether host is an IP address or a DNS name. Anything
// else, such as an argument-like "-f", never reaches an echo backend.
func validHost(host string) bool {
	if net.ParseIP(host) != nil {
		return true
	}
	if host == "" || len(host) > 253 {
		return false
	}
	for _, label := range strings.Split(strings.TrimSuffix(host, "."), ".") {
		if label == "" || len(label) > 63 || label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			default:
				return false
			}
		}
	}
	return true
}
