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

	"github.com/phuonguno98/infrascan/pkg/metrics"
)

// MemoryCollector collects virtual memory capacity.
type MemoryCollector struct {
	host HostStats
}

// NewMemoryCollector creates a new memory collector instance.
func NewMemoryCollector(host HostStats) *MemoryCollector {
	return &MemoryCollector{host: host}
}

// Collect gathers current memory metrics.
// The percentage is taken as reported, rounded to 2 decimals: the OS counts
// reclaimable cache as available, so total - used does not generally equal
// available.
func (m *MemoryCollector) Collect(ctx context.Context) (*metrics.MemoryReading, error) {
	vmStat, err := m.host.VirtualMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get memory stats: %w", err)
	}

	return &metrics.MemoryReading{
		TotalGB:     metrics.BytesToGB(vmStat.Total),
		AvailableGB: metrics.BytesToGB(vmStat.Available),
		UsedGB:      metrics.BytesToGB(vmStat.Used),
		Percent:     metrics.Round2(vmStat.UsedPercent),
	}, nil
}

// Name returns the collector name for logging purposes.
func (m *MemoryCollector) Name() string {
	return "Memory"
}
