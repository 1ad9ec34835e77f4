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
	"fmt"
	"time"

	"github.com/phuonguno98/infrascan/pkg/metrics"
)

// CPUCollector samples CPU utilization over a fixed blocking window.
type CPUCollector struct {
	host     HostStats
	interval time.Duration
}

// NewCPUCollector creates a new CPU collector instance.
// interval must be non-zero: a zero window yields a meaningless instant value.
func NewCPUCollector(host HostStats, interval time.Duration) *CPUCollector {
	return &CPUCollector{
		host:     host,
		interval: interval,
	}
}

// Collect blocks for the sampling window and returns utilization and core count.
func (c *CPUCollector) Collect(ctx context.Context) (*metrics.CPUReading, error) {
	percent, err := c.host.CPUPercent(ctx, c.interval)
	if err != nil {
		return nil, fmt.Errorf("failed to get CPU utilization: %w", err)
	}

	count, err := c.host.CPUCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get CPU count: %w", err)
	}

	return &metrics.CPUReading{
		Percent: percent,
		Count:   count,
	}, nil
}

// Name returns the collector name for logging purposes.
func (c *CPUCollector) Name() string {
	return "CPU"
}
