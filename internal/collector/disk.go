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

// DiskCollector collects filesystem capacity for a single volume.
type DiskCollector struct {
	host HostStats
	path string
}

// NewDiskCollector creates a new disk collector for the volume mounted at path.
func NewDiskCollector(host HostStats, path string) *DiskCollector {
	return &DiskCollector{
		host: host,
		path: path,
	}
}

// Collect gathers current capacity of the volume.
// Percent is recomputed from used/total since not every platform reports it.
func (d *DiskCollector) Collect(ctx context.Context) (*metrics.DiskReading, error) {
	usage, err := d.host.DiskUsage(ctx, d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk usage for %s: %w", d.path, err)
	}

	return &metrics.DiskReading{
		TotalGB: metrics.BytesToGB(usage.Total),
		UsedGB:  metrics.BytesToGB(usage.Used),
		FreeGB:  metrics.BytesToGB(usage.Free),
		Percent: metrics.CalculateDiskPercent(usage.Used, usage.Total),
	}, nil
}

// Name returns the collector name for logging purposes.
func (d *DiskCollector) Name() string {
	return "Disk"
}
