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

// Package report renders collected metrics as a styled terminal report.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/phuonguno98/infrascan/pkg/metrics"
)

// Latency rating thresholds in milliseconds.
const (
	goodLatencyMS = 50
	fairLatencyMS = 100
)

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	fairStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	poorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

// Header renders the report title with host name and timestamp.
func Header(hostname string, t time.Time) string {
	return titleStyle.Render("InfraScan - System Health Check") + "\n" +
		subtleStyle.Render(fmt.Sprintf("%s  %s", hostname, t.Format("2006-01-02 15:04:05 MST")))
}

// CPU renders a CPU reading.
func CPU(r *metrics.CPUReading) string {
	return card("CPU Usage",
		fmt.Sprintf("Usage: %s\nCores: %d", gauge(r.Percent, 20), r.Count))
}

// Memory renders a memory reading.
func Memory(r *metrics.MemoryReading) string {
	return card("Memory Usage",
		fmt.Sprintf("Used: %gGB / %gGB (%g%%)\nAvailable: %gGB",
			r.UsedGB, r.TotalGB, r.Percent, r.AvailableGB))
}

// Disk renders a disk reading for path.
func Disk(path string, r *metrics.DiskReading) string {
	return card("Disk Usage ("+path+")",
		fmt.Sprintf("Used: %gGB / %gGB (%g%%)\nFree: %gGB",
			r.UsedGB, r.TotalGB, r.Percent, r.FreeGB))
}

// Network renders a probe result against host.
func Network(host string, r *metrics.NetworkReading) string {
	latency := poorStyle.Render("Failed")
	if ms, ok := r.Latency(); ok {
		latency = fmt.Sprintf("%gms %s", ms, RateLatency(ms))
	}
	return card("Network ("+host+")",
		fmt.Sprintf("Latency: %s\nStatus: %s", latency, r.Status))
}

// Processes renders the process inventory with its top consumers.
func Processes(inv *metrics.ProcessInventory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d\nActive: %d", inv.Total, inv.Active)

	if len(inv.TopMemory) > 0 {
		b.WriteString("\n" + labelStyle.Render("Top Memory Consumers"))
		for i, p := range inv.TopMemory {
			fmt.Fprintf(&b, "\n  %d. %-24s %6d %6.2f%%", i+1, truncate(p.Name, 24), p.PID, p.MemoryPercent)
		}
	}
	if len(inv.TopCPU) > 0 {
		b.WriteString("\n" + labelStyle.Render("Top CPU Consumers"))
		for i, p := range inv.TopCPU {
			fmt.Fprintf(&b, "\n  %d. %-24s %6d %6.2f%%", i+1, truncate(p.Name, 24), p.PID, p.CPUPercent)
		}
	}

	return card("Processes", b.String())
}

// Snapshot renders every section of a snapshot in report order.
func Snapshot(hostname, diskPath, pingHost string, s *metrics.Snapshot) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		Header(hostname, s.Timestamp),
		CPU(&s.CPU),
		Memory(&s.Memory),
		Disk(diskPath, &s.Disk),
		Network(pingHost, &s.Network),
		Processes(&s.Processes),
	)
}

// RateLatency grades a round trip: good below 50ms, fair below 100ms.
func RateLatency(ms float64) string {
	switch {
	case ms < goodLatencyMS:
		return goodStyle.Render("good")
	case ms < fairLatencyMS:
		return fairStyle.Render("fair")
	default:
		return poorStyle.Render("poor")
	}
}

func card(title, body string) string {
	return cardStyle.Render(labelStyle.Render(title) + "\n" + body)
}

func gauge(pct float64, width int) string {
	clamped := pct
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}
	filled := int((clamped / 100) * float64(width))
	return fmt.Sprintf("[%s%s] %g%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		pct)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
