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

import "time"

// Snapshot represents one complete, self-contained set of host readings.
// Timestamp marks the start of collection, not its completion.
type Snapshot struct {
	Timestamp time.Time        `json:"timestamp"`
	CPU       CPUReading       `json:"cpu"`
	Memory    MemoryReading    `json:"memory"`
	Disk      DiskReading      `json:"disk"`
	Network   NetworkReading   `json:"network"`
	Processes ProcessInventory `json:"processes"`
}

// CPUReading holds CPU utilization sampled over a fixed blocking interval.
type CPUReading struct {
	Percent float64 `json:"cpu_percent"` // Utilization over the sampling window (0-100)
	Count   int     `json:"cpu_count"`   // Logical (hyperthreaded) processors
}

// MemoryReading holds virtual memory capacity in GB (1024-based, 2 decimals).
// Percent is reported by the OS and is not recomputed from the GB values.
type MemoryReading struct {
	TotalGB     float64 `json:"total_gb"`
	AvailableGB float64 `json:"available_gb"`
	UsedGB      float64 `json:"used_gb"`
	Percent     float64 `json:"percent"`
}

// DiskReading holds filesystem capacity for the root volume.
type DiskReading struct {
	TotalGB float64 `json:"total_gb"`
	UsedGB  float64 `json:"used_gb"`
	FreeGB  float64 `json:"free_gb"`
	Percent float64 `json:"percent"` // round(used/total*100, 2), 0 when total is 0
}

// CPUProcess is one entry of the top CPU consumers view.
type CPUProcess struct {
	Name       string  `json:"name"`
	PID        int32   `json:"pid"`
	CPUPercent float64 `json:"cpu_percent"`
}

// MemoryProcess is one entry of the top memory consumers view.
type MemoryProcess struct {
	Name          string  `json:"name"`
	PID           int32   `json:"pid"`
	MemoryPercent float64 `json:"memory_percent"`
}

// ProcessInventory summarizes the process table at sample time.
type ProcessInventory struct {
	Total     int             `json:"total_processes"`
	Active    int             `json:"active_processes"` // Processes with CPU > 0
	TopCPU    []CPUProcess    `json:"top_cpu"`
	TopMemory []MemoryProcess `json:"top_memory"`
}
