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
	"time"

	"github.com/phuonguno98/infrascan/pkg/metrics"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// HostStats is the narrow view of operating-system state the samplers read.
// Tests substitute a fixture; production uses SystemHost.
type HostStats interface {
	// CPUPercent blocks for interval and returns aggregate utilization over it.
	CPUPercent(ctx context.Context, interval time.Duration) (float64, error)
	// CPUCount returns the number of logical processors.
	CPUCount(ctx context.Context) (int, error)
	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	DiskUsage(ctx context.Context, path string) (*disk.UsageStat, error)
	// Processes lists readable processes in enumeration order, with CPU
	// measured over window. Processes that exit or deny access while being
	// read are left out.
	Processes(ctx context.Context, window time.Duration) ([]metrics.ProcessSample, error)
}

// SystemHost reads live host state through gopsutil.
type SystemHost struct{}

// NewSystemHost creates a host provider backed by the running machine.
func NewSystemHost() *SystemHost {
	return &SystemHost{}
}

// CPUPercent implements HostStats.
func (SystemHost) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, errors.New("no CPU utilization reported")
	}
	return percents[0], nil
}

// CPUCount implements HostStats.
func (SystemHost) CPUCount(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, true)
}

// VirtualMemory implements HostStats.
func (SystemHost) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

// DiskUsage implements HostStats.
func (SystemHost) DiskUsage(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}

// Processes implements HostStats. CPU is the share of one core each process
// used during window, read from its cumulative CPU times at both ends.
func (SystemHost) Processes(ctx context.Context, window time.Duration) ([]metrics.ProcessSample, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	type tracked struct {
		proc    *process.Process
		name    string
		cpuTime float64
		timed   bool
	}

	live := make([]tracked, 0, len(procs))
	for _, p := range procs {
		// A process that cannot even be named has exited or is off-limits.
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		t := tracked{proc: p, name: name}
		if times, err := p.TimesWithContext(ctx); err == nil {
			t.cpuTime, t.timed = times.User+times.System, true
		}
		live = append(live, t)
	}

	start := time.Now()
	timer := time.NewTimer(window)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("sampling process CPU: %w", ctx.Err())
	case <-timer.C:
	}
	elapsed := time.Since(start)

	samples := make([]metrics.ProcessSample, 0, len(live))
	for _, t := range live {
		// Unmeasurable readings stay zero.
		cpuPct := 0.0
		if t.timed {
			times, err := t.proc.TimesWithContext(ctx)
			if err != nil {
				// Exited during the window.
				continue
			}
			cpuPct = windowPercent(t.cpuTime, times.User+times.System, elapsed)
		}
		memPct, _ := t.proc.MemoryPercentWithContext(ctx)

		samples = append(samples, metrics.ProcessSample{
			PID:           t.proc.Pid,
			Name:          t.name,
			CPUPercent:    cpuPct,
			MemoryPercent: float64(memPct),
		})
	}

	return samples, nil
}

// windowPercent converts CPU seconds consumed between two readings into a
// percentage of one core over elapsed. A counter that went backwards is 0.
func windowPercent(before, after float64, elapsed time.Duration) float64 {
	used := after - before
	if used <= 0 || elapsed <= 0 {
		return 0
	}
	return used / elapsed.Seconds() * 100
}
