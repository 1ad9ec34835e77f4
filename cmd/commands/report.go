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

package commands

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/phuonguno98/infrascan/internal/collector"
	"github.com/phuonguno98/infrascan/internal/config"
	"github.com/phuonguno98/infrascan/internal/exporter"
	"github.com/phuonguno98/infrascan/internal/report"
	"github.com/phuonguno98/infrascan/pkg/metrics"
	"github.com/phuonguno98/infrascan/pkg/version"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"
)

// sections selects the samplers a report runs.
type sections struct {
	cpu       bool
	memory    bool
	disk      bool
	network   bool
	processes bool
	all       bool
}

// showAll reports whether the full snapshot was requested, either with
// --all or by naming no section at all.
func (s sections) showAll() bool {
	return s.all || !(s.cpu || s.memory || s.disk || s.network || s.processes)
}

var (
	// Report command specific flags
	selected  sections
	exportCSV string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a one-shot system health report",
	Long: `Sample the host once and print a health report. Without section flags
every metric is collected as one snapshot.

Examples:
  # Full report
  infrascan report

  # CPU and memory only, probing a custom host
  infrascan report --cpu --memory --network --ping-host 1.1.1.1

  # Full report exported to CSV
  infrascan report --export-csv metrics.csv`,
	SilenceUsage: true,
	RunE:         runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&selected.cpu, "cpu", false, "Show CPU usage")
	reportCmd.Flags().BoolVar(&selected.memory, "memory", false, "Show memory usage")
	reportCmd.Flags().BoolVar(&selected.disk, "disk", false, "Show disk usage")
	reportCmd.Flags().BoolVar(&selected.network, "network", false, "Show network status")
	reportCmd.Flags().BoolVar(&selected.processes, "processes", false, "Show process information")
	reportCmd.Flags().BoolVar(&selected.all, "all", false, "Show all metrics (default)")
	reportCmd.Flags().StringVar(&exportCSV, "export-csv", "",
		"Export a full snapshot to this CSV file")

	addSamplingFlags(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := InitLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	logger.Debug("Starting InfraScan report",
		"version", version.Info(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
	)
	logger.Debug("Configuration loaded", "config", cfg.String())

	coll := collector.NewCollector(cfg, collector.NewSystemHost(), logger)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	snapshot, err := printReport(ctx, cmd.OutOrStdout(), coll, cfg, selected)
	if err != nil {
		return fmt.Errorf("error collecting metrics: %w", err)
	}

	if exportCSV == "" {
		return nil
	}

	// File exports always carry every column, so a partial report needs a
	// fresh full snapshot.
	if snapshot == nil {
		if snapshot, err = coll.Snapshot(ctx); err != nil {
			return fmt.Errorf("error collecting metrics for export: %w", err)
		}
	}

	csvExporter := exporter.NewCSVExporter(cfg.Location(), true, logger)
	if err := csvExporter.WriteFile(exportCSV, snapshot); err != nil {
		return fmt.Errorf("error exporting CSV: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Metrics exported to: %s\n", exportCSV)

	return nil
}

// printReport writes the requested sections to w. It returns the snapshot
// when the full report was requested, nil otherwise.
func printReport(ctx context.Context, w io.Writer, coll *collector.Collector, cfg *config.Config, s sections) (*metrics.Snapshot, error) {
	loc := cfg.Location()
	hostname := hostName(ctx)

	if s.showAll() {
		snapshot, err := coll.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		view := *snapshot
		view.Timestamp = snapshot.Timestamp.In(loc)
		fmt.Fprintln(w, report.Snapshot(hostname, cfg.DiskPath, cfg.PingHost, &view))
		return snapshot, nil
	}

	fmt.Fprintln(w, report.Header(hostname, time.Now().In(loc)))

	if s.cpu {
		r, err := coll.CPU(ctx)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(w, report.CPU(r))
	}
	if s.memory {
		r, err := coll.Memory(ctx)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(w, report.Memory(r))
	}
	if s.disk {
		r, err := coll.Disk(ctx)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(w, report.Disk(cfg.DiskPath, r))
	}
	if s.network {
		fmt.Fprintln(w, report.Network(cfg.PingHost, coll.Network(ctx, "")))
	}
	if s.processes {
		inv, err := coll.Processes(ctx)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(w, report.Processes(inv))
	}

	return nil, nil
}

func hostName(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil || info.Hostname == "" {
		return "unknown host"
	}
	return info.Hostname
}
