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

package metrics

import (
	"math"
	"sort"
)

// bytesPerGB is the binary gigabyte (1024^3).
const bytesPerGB = 1024 * 1024 * 1024

// TopN is the length of the ranked process views.
const TopN = 3

// Round2 rounds a value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BytesToGB converts a byte count to binary gigabytes rounded to two decimals.
func BytesToGB(b uint64) float64 {
	return Round2(float64(b) / bytesPerGB)
}

// CalculateDiskPercent calculates the used share of a volume.
// Formula: round(used / total × 100, 2). Returns 0 for a zero-sized volume.
func CalculateDiskPercent(used, total uint64) float64 {
	if total == 0 {
		return 0.0
	}
	return Round2(float64(used) / float64(total) * 100.0)
}

// ProcessSample is one raw row of the process table as read from the host.
// CPU and memory are zero when the OS could not measure them.
type ProcessSample struct {
	PID           int32
	Name          string
	CPUPercent    float64
	MemoryPercent float64
}

// BuildProcessInventory ranks raw samples into the inventory view.
// Rankings use unrounded values and a stable sort, so ties keep the
// order in which samples were enumerated. Only the output is rounded.
func BuildProcessInventory(samples []ProcessSample) ProcessInventory {
	active := make([]ProcessSample, 0, len(samples))
	for _, s := range samples {
		if s.CPUPercent > 0 {
			active = append(active, s)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CPUPercent > active[j].CPUPercent
	})

	byMemory := make([]ProcessSample, len(samples))
	copy(byMemory, samples)
	sort.SliceStable(byMemory, func(i, j int) bool {
		return byMemory[i].MemoryPercent > byMemory[j].MemoryPercent
	})

	inv := ProcessInventory{
		Total:     len(samples),
		Active:    len(active),
		TopCPU:    make([]CPUProcess, 0, TopN),
		TopMemory: make([]MemoryProcess, 0, TopN),
	}

	for _, s := range active[:min(TopN, len(active))] {
		inv.TopCPU = append(inv.TopCPU, CPUProcess{
			Name:       s.Name,
			PID:        s.PID,
			CPUPercent: Round2(s.CPUPercent),
		})
	}
	for _, s := range byMemory[:min(TopN, len(byMemory))] {
		inv.TopMemory = append(inv.TopMemory, MemoryProcess{
			Name:          s.Name,
			PID:           s.PID,
			MemoryPercent: Round2(s.MemoryPercent),
		})
	}

	return inv
}
