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

// ProcessCollector builds the ranked process inventory.
type ProcessCollector struct {
	host   HostStats
	window time.Duration
}

// NewProcessCollector creates a new process collector instance.
// window is how long per-process CPU usage is observed.
func NewProcessCollector(host HostStats, window time.Duration) *ProcessCollector {
	return &ProcessCollector{host: host, window: window}
}

// Collect enumerates processes and ranks the top CPU and memory consumers.
func (p *ProcessCollector) Collect(ctx context.Context) (*metrics.ProcessInventory, error) {
	samples, err := p.host.Processes(ctx, p.window)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate processes: %w", err)
	}

	inv := metrics.BuildProcessInventory(samples)
	return &inv, nil
}

// Name returns the collector name for logging purposes.
func (p *ProcessCollector) Name() string {
	return "Processes"
}
