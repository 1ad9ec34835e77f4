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

package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/phuonguno98/infrascan/pkg/metrics"
)

// Columns shared by every export, in order.
var baseColumns = []string{
	"timestamp",
	"cpu_percent",
	"cpu_count",
	"memory_total_gb",
	"memory_used_gb",
	"memory_available_gb",
	"memory_percent",
	"disk_total_gb",
	"disk_used_gb",
	"disk_free_gb",
	"disk_percent",
	"network_latency_ms",
	"network_status",
}

// Process summary columns appended by full exports.
var processColumns = []string{
	"total_processes",
	"active_processes",
	"top_cpu_process",
	"top_cpu_percent",
	"top_memory_process",
	"top_memory_percent",
}

// CSVExporter flattens a snapshot into a header row and one data row.
type CSVExporter struct {
	location      *time.Location // Timezone location for timestamps
	withProcesses bool           // Append process summary columns
	logger        *slog.Logger
}

// NewCSVExporter creates a new CSV exporter instance.
// withProcesses selects the full column set used by file exports; the HTTP
// export omits process columns.
func NewCSVExporter(loc *time.Location, withProcesses bool, logger *slog.Logger) *CSVExporter {
	if loc == nil {
		loc = time.Local
	}
	return &CSVExporter{
		location:      loc,
		withProcesses: withProcesses,
		logger:        logger,
	}
}

// Header returns the column names in export order.
func (e *CSVExporter) Header() []string {
	header := make([]string, 0, len(baseColumns)+len(processColumns))
	header = append(header, baseColumns...)
	if e.withProcesses {
		header = append(header, processColumns...)
	}
	return header
}

// Write writes the header and the snapshot row to w.
func (e *CSVExporter) Write(w io.Writer, snapshot *metrics.Snapshot) error {
	bufWriter := bufio.NewWriterSize(w, 8192) // 8KB buffer
	csvWriter := csv.NewWriter(bufWriter)

	if err := csvWriter.Write(e.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := csvWriter.Write(e.buildRow(snapshot)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	if err := bufWriter.Flush(); err != nil {
		return fmt.Errorf("buffer writer error: %w", err)
	}
	return nil
}

// WriteFile writes the snapshot to path, replacing any existing file.
func (e *CSVExporter) WriteFile(path string, snapshot *metrics.Snapshot) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	if err := e.Write(file, snapshot); err != nil {
		return err
	}

	e.logger.Info("Metrics exported", "path", path)
	return nil
}

// buildRow builds a CSV row from a snapshot.
func (e *CSVExporter) buildRow(snapshot *metrics.Snapshot) []string {
	row := []string{
		snapshot.Timestamp.In(e.location).Format(time.RFC3339),
		formatFloat(snapshot.CPU.Percent),
		strconv.Itoa(snapshot.CPU.Count),
		formatFloat(snapshot.Memory.TotalGB),
		formatFloat(snapshot.Memory.UsedGB),
		formatFloat(snapshot.Memory.AvailableGB),
		formatFloat(snapshot.Memory.Percent),
		formatFloat(snapshot.Disk.TotalGB),
		formatFloat(snapshot.Disk.UsedGB),
		formatFloat(snapshot.Disk.FreeGB),
		formatFloat(snapshot.Disk.Percent),
		formatLatency(snapshot.Network),
		string(snapshot.Network.Status),
	}

	if !e.withProcesses {
		return row
	}

	procs := snapshot.Processes
	topCPUName, topCPUPercent := "", 0.0
	if len(procs.TopCPU) > 0 {
		topCPUName, topCPUPercent = procs.TopCPU[0].Name, procs.TopCPU[0].CPUPercent
	}
	topMemName, topMemPercent := "", 0.0
	if len(procs.TopMemory) > 0 {
		topMemName, topMemPercent = procs.TopMemory[0].Name, procs.TopMemory[0].MemoryPercent
	}

	return append(row,
		strconv.Itoa(procs.Total),
		strconv.Itoa(procs.Active),
		topCPUName,
		formatFloat(topCPUPercent),
		topMemName,
		formatFloat(topMemPercent),
	)
}

// SuggestedFilename returns the download name for an export taken at t.
func SuggestedFilename(t time.Time) string {
	return fmt.Sprintf("system_metrics_%s.csv", t.Format("20060102_150405"))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatLatency leaves the cell empty when the probe produced no latency.
func formatLatency(r metrics.NetworkReading) string {
	ms, ok := r.Latency()
	if !ok {
		return ""
	}
	return formatFloat(ms)
}
