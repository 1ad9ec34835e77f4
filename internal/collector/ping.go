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
	"os/exec"
	"strconv"
	"strings"
)

// commandRunner executes a command and returns its standard output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PingCommand probes a host by invoking the system ping utility.
type PingCommand struct {
	goos string
	run  commandRunner
}

// NewPingCommand creates a ping invoker using the argument syntax of goos.
func NewPingCommand(goos string) *PingCommand {
	return &PingCommand{
		goos: goos,
		run:  runCommand,
	}
}

// pingArgs returns single-packet arguments for the given platform.
func pingArgs(goos, host string) []string {
	if goos == "windows" {
		return []string{"-n", "1", host}
	}
	return []string{"-c", "1", host}
}

// Echo implements Echoer.
func (p *PingCommand) Echo(ctx context.Context, host string) (float64, error) {
	out, err := p.run(ctx, "ping", pingArgs(p.goos, host)...)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, fmt.Errorf("ping %s: %w", host, ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if permissionDenied(exitErr.Stderr) {
				return 0, fmt.Errorf("ping not permitted: %s", strings.TrimSpace(string(exitErr.Stderr)))
			}
			return 0, fmt.Errorf("%w: ping exited with status %d", errProbeFailed, exitErr.ExitCode())
		}
		return 0, fmt.Errorf("running ping: %w", err)
	}

	return ParsePingOutput(string(out))
}

// ParsePingOutput extracts the round-trip time from ping output such as
// "64 bytes from 8.8.8.8: icmp_seq=1 ttl=117 time=23.4 ms".
// Windows reports sub-millisecond replies as "time<1ms".
// Output without a time marker is a failed probe; a marker followed by an
// unparsable value is an execution fault.
func ParsePingOutput(out string) (float64, error) {
	idx := strings.Index(out, "time=")
	if idx < 0 {
		idx = strings.Index(out, "time<")
	}
	if idx < 0 {
		return 0, fmt.Errorf("%w: no round-trip time in ping output", errProbeFailed)
	}

	rest := out[idx+len("time="):]
	end := strings.Index(rest, "ms")
	if end < 0 {
		return 0, fmt.Errorf("malformed round-trip time %q", strings.TrimSpace(rest))
	}

	latency, err := strconv.ParseFloat(strings.TrimSpace(rest[:end]), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed round-trip time: %w", err)
	}

	return latency, nil
}

// permissionDenied reports whether ping's stderr names a privilege failure,
// e.g. iputils "ping: socket: Operation not permitted".
func permissionDenied(stderr []byte) bool {
	msg := strings.ToLower(string(stderr))
	return strings.Contains(msg, "not permitted") || strings.Contains(msg, "permission denied")
}
