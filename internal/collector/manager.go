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
	"log/slog"
	"time"

	"github.com/phuonguno98/infrascan/internal/config"
	"github.com/phuonguno98/infrascan/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// now is the snapshot clock; tests pin it.
var now = time.Now

// Collector exposes every sampler individually and as one aggregate snapshot.
// It holds no state between calls, so one instance can serve concurrent callers.
type Collector struct {
	cpu       *CPUCollector
	memory    *MemoryCollector
	disk      *DiskCollector
	network   *NetworkCollector
	processes *ProcessCollector
	logger    *slog.Logger
}

// NewCollector creates a collector reading host state from host.
func NewCollector(cfg *config.Config, host HostStats, logger *slog.Logger) *Collector {
	return &Collector{
		cpu:       NewCPUCollector(host, cfg.CPUInterval),
		memory:    NewMemoryCollector(host),
		disk:      NewDiskCollector(host, cfg.DiskPath),
		network:   NewNetworkCollector(cfg.PingHost, cfg.PingTimeout, cfg.ProbeMode, logger),
		processes: NewProcessCollector(host, cfg.CPUInterval),
		logger:    logger,
	}
}

// CPU returns current CPU utilization. It blocks for the configured interval.
func (c *Collector) CPU(ctx context.Context) (*metrics.CPUReading, error) {
	return c.cpu.Collect(ctx)
}

// Memory returns current virtual memory capacity.
func (c *Collector) Memory(ctx context.Context) (*metrics.MemoryReading, error) {
	return c.memory.Collect(ctx)
}

// Disk returns capacity of the configured volume.
func (c *Collector) Disk(ctx context.Context) (*metrics.DiskReading, error) {
	return c.disk.Collect(ctx)
}

// Network probes host, or the configured default host when host is empty.
func (c *Collector) Network(ctx context.Context, host string) *metrics.NetworkReading {
	reading := c.network.Collect(ctx, host)
	return &reading
}

// Processes returns the ranked process inventory.
func (c *Collector) Processes(ctx context.Context) (*metrics.ProcessInventory, error) {
	return c.processes.Collect(ctx)
}

// Snapshot collects every metric into one timestamped snapshot.
// The samplers share nothing and run concurrently. Any sampler error fails
// the whole snapshot; the network probe never fails.
func (c *Collector) Snapshot(ctx context.Context) (*metrics.Snapshot, error) {
	snapshot := &metrics.Snapshot{
		Timestamp: now(),
	}
	start := time.Now()

	// Each goroutine writes a distinct field, so no lock is needed.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reading, err := c.cpu.Collect(gctx)
		if err != nil {
			return c.failed(c.cpu.Name(), err)
		}
		snapshot.CPU = *reading
		return nil
	})

	g.Go(func() error {
		reading, err := c.memory.Collect(gctx)
		if err != nil {
			return c.failed(c.memory.Name(), err)
		}
		snapshot.Memory = *reading
		return nil
	})

	g.Go(func() error {
		reading, err := c.disk.Collect(gctx)
		if err != nil {
			return c.failed(c.disk.Name(), err)
		}
		snapshot.Disk = *reading
		return nil
	})

	g.Go(func() error {
		snapshot.Network = c.network.Collect(gctx, "")
		return nil
	})

	g.Go(func() error {
		inv, err := c.processes.Collect(gctx)
		if err != nil {
			return c.failed(c.processes.Name(), err)
		}
		snapshot.Processes = *inv
		return nil
	})

	if err := g.Wait(); err != nil {
		c.logger.Warn("Snapshot collection failed", "error", err)
		return nil, err
	}

	c.logger.Debug("Snapshot collected",
		"duration", time.Since(start),
		"cpu", snapshot.CPU.Percent,
		"memory", snapshot.Memory.Percent,
		"disk", snapshot.Disk.Percent,
		"network", snapshot.Network.Status,
		"processes", snapshot.Processes.Total,
	)

	return snapshot, nil
}

// failed records which sampler broke a snapshot and passes its error through.
func (c *Collector) failed(sampler string, err error) error {
	c.logger.Debug("Sampler failed", "sampler", sampler, "error", err)
	return err
}
