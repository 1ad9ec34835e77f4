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

// Package devices enumerates the mount points and network interfaces a host
// exposes, to help choose the disk path and probe target.
package devices

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/phuonguno98/infrascan/pkg/metrics"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/net"
)

// Dependency injection points for testing
var (
	diskPartitions = disk.PartitionsWithContext
	diskUsage      = disk.UsageWithContext
	netInterfaces  = net.InterfacesWithContext
)

// MountInfo describes a mounted filesystem usable as a disk path.
type MountInfo struct {
	Device      string
	Mountpoint  string
	Filesystem  string
	TotalGB     float64
	UsedPercent float64
	Readable    bool
}

// NetworkInfo represents network interface information.
type NetworkInfo struct {
	Name       string
	MacAddress string
	Up         bool
	Addresses  []string
}

// ListMounts returns the physical mount points, one per mountpoint.
// Mounts whose usage cannot be read are still listed, marked unreadable.
func ListMounts(ctx context.Context) ([]MountInfo, error) {
	partitions, err := diskPartitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk partitions: %w", err)
	}

	mounts := make([]MountInfo, 0, len(partitions))
	seen := make(map[string]bool)

	for _, partition := range partitions {
		// Bind mounts repeat the same mountpoint
		if seen[partition.Mountpoint] {
			continue
		}
		seen[partition.Mountpoint] = true

		info := MountInfo{
			Device:     partition.Device,
			Mountpoint: partition.Mountpoint,
			Filesystem: partition.Fstype,
		}
		if usage, err := diskUsage(ctx, partition.Mountpoint); err == nil {
			info.TotalGB = metrics.BytesToGB(usage.Total)
			info.UsedPercent = metrics.CalculateDiskPercent(usage.Used, usage.Total)
			info.Readable = true
		}

		mounts = append(mounts, info)
	}

	sort.Slice(mounts, func(i, j int) bool {
		return mounts[i].Mountpoint < mounts[j].Mountpoint
	})

	return mounts, nil
}

// ListNetworkInterfaces returns interfaces that carry at least one address.
func ListNetworkInterfaces(ctx context.Context) ([]NetworkInfo, error) {
	interfaces, err := netInterfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	networks := make([]NetworkInfo, 0)

	for _, iface := range interfaces {
		if len(iface.Addrs) == 0 {
			continue
		}

		addresses := make([]string, 0, len(iface.Addrs))
		for _, addr := range iface.Addrs {
			addresses = append(addresses, addr.Addr)
		}

		networks = append(networks, NetworkInfo{
			Name:       iface.Name,
			MacAddress: iface.HardwareAddr,
			Up:         hasFlag(iface.Flags, "up"),
			Addresses:  addresses,
		})
	}

	sort.Slice(networks, func(i, j int) bool {
		return networks[i].Name < networks[j].Name
	})

	return networks, nil
}

// FormatMountsTable formats mount information as a table.
func FormatMountsTable(mounts []MountInfo) string {
	var sb strings.Builder

	sb.WriteString("\nMount Points (use with --disk-path):\n")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-24s %-24s %-10s %10s %8s\n", "MOUNTPOINT", "DEVICE", "FILESYSTEM", "SIZE", "USED"))
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, m := range mounts {
		size, used := "N/A", "N/A"
		if m.Readable {
			size = fmt.Sprintf("%.2f GB", m.TotalGB)
			used = fmt.Sprintf("%.1f%%", m.UsedPercent)
		}
		sb.WriteString(fmt.Sprintf("%-24s %-24s %-10s %10s %8s\n",
			truncate(m.Mountpoint, 24),
			truncate(m.Device, 24),
			truncate(m.Filesystem, 10),
			size,
			used,
		))
	}

	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")

	return sb.String()
}

// FormatNetworksTable formats network interface information as a table.
func FormatNetworksTable(networks []NetworkInfo) string {
	var sb strings.Builder

	sb.WriteString("\nNetwork Interfaces:\n")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-32s %-6s %-17s %s\n", "INTERFACE", "STATE", "MAC ADDRESS", "IP ADDRESSES"))
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, n := range networks {
		mac := n.MacAddress
		if mac == "" {
			mac = "N/A"
		}
		state := "down"
		if n.Up {
			state = "up"
		}

		// Show first IP address on same line
		firstIP := "N/A"
		if len(n.Addresses) > 0 {
			firstIP = n.Addresses[0]
		}

		sb.WriteString(fmt.Sprintf("%-32s %-6s %-17s %s\n",
			truncate(n.Name, 32),
			state,
			mac,
			firstIP,
		))

		// Show additional IPs on separate lines
		for i := 1; i < len(n.Addresses); i++ {
			sb.WriteString(fmt.Sprintf("%-32s %-6s %-17s %s\n", "", "", "", n.Addresses[i]))
		}
	}

	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")

	return sb.String()
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
