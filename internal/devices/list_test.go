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

package devices

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/net"
)

const gib = 1024 * 1024 * 1024

func TestListMounts(t *testing.T) {
	// Backup original functions
	origPartitions := diskPartitions
	origUsage := diskUsage
	defer func() {
		diskPartitions = origPartitions
		diskUsage = origUsage
	}()

	tests := []struct {
		name           string
		mockPartitions func(context.Context, bool) ([]disk.PartitionStat, error)
		mockUsage      func(context.Context, string) (*disk.UsageStat, error)
		wantMounts     []string
		wantErr        bool
	}{
		{
			name: "Sorted by mountpoint",
			mockPartitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
				return []disk.PartitionStat{
					{Device: "/dev/sdb1", Mountpoint: "/data", Fstype: "xfs"},
					{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
				}, nil
			},
			mockUsage: func(context.Context, string) (*disk.UsageStat, error) {
				return &disk.UsageStat{Total: 500 * gib, Used: 250 * gib}, nil
			},
			wantMounts: []string{"/", "/data"},
		},
		{
			name: "Partitions error",
			mockPartitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
				return nil, errors.New("start failed")
			},
			wantErr: true,
		},
		{
			name: "Usage error keeps the mount",
			mockPartitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
				return []disk.PartitionStat{
					{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
				}, nil
			},
			mockUsage: func(context.Context, string) (*disk.UsageStat, error) {
				return nil, errors.New("usage failed")
			},
			wantMounts: []string{"/"},
		},
		{
			name: "Duplicate mountpoints",
			mockPartitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
				return []disk.PartitionStat{
					{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
					{Device: "overlay", Mountpoint: "/", Fstype: "overlay"},
					{Device: "/dev/sda1", Mountpoint: "/mnt", Fstype: "ext4"},
				}, nil
			},
			mockUsage: func(context.Context, string) (*disk.UsageStat, error) {
				return &disk.UsageStat{Total: gib}, nil
			},
			wantMounts: []string{"/", "/mnt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diskPartitions = tt.mockPartitions
			diskUsage = tt.mockUsage

			got, err := ListMounts(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("ListMounts() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.wantMounts) {
				t.Fatalf("ListMounts() count = %d, want %d", len(got), len(tt.wantMounts))
			}
			for i, m := range got {
				if m.Mountpoint != tt.wantMounts[i] {
					t.Errorf("mount[%d] = %q, want %q", i, m.Mountpoint, tt.wantMounts[i])
				}
			}
		})
	}
}

func TestListMounts_Capacity(t *testing.T) {
	origPartitions := diskPartitions
	origUsage := diskUsage
	defer func() {
		diskPartitions = origPartitions
		diskUsage = origUsage
	}()

	diskPartitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"}}, nil
	}

	diskUsage = func(context.Context, string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Total: 500 * gib, Used: 250 * gib}, nil
	}
	got, err := ListMounts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !got[0].Readable || got[0].TotalGB != 500 || got[0].UsedPercent != 50 {
		t.Errorf("mount = %+v, want 500 GB at 50%%", got[0])
	}

	diskUsage = func(context.Context, string) (*disk.UsageStat, error) {
		return nil, errors.New("permission denied")
	}
	got, err = ListMounts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Readable || got[0].TotalGB != 0 {
		t.Errorf("unreadable mount = %+v", got[0])
	}
}

func TestListNetworkInterfaces(t *testing.T) {
	origInterfaces := netInterfaces
	defer func() { netInterfaces = origInterfaces }()

	tests := []struct {
		name           string
		mockInterfaces func(context.Context) (net.InterfaceStatList, error)
		wantCount      int
		wantErr        bool
	}{
		{
			name: "Success",
			mockInterfaces: func(context.Context) (net.InterfaceStatList, error) {
				return net.InterfaceStatList{
					{Name: "eth0", Flags: []string{"up", "broadcast"}, Addrs: []net.InterfaceAddr{{Addr: "192.168.1.1"}}},
					{Name: "eth1", Addrs: []net.InterfaceAddr{{Addr: "10.0.0.1"}}},
				}, nil
			},
			wantCount: 2,
		},
		{
			name: "Error",
			mockInterfaces: func(context.Context) (net.InterfaceStatList, error) {
				return nil, errors.New("net failed")
			},
			wantErr: true,
		},
		{
			name: "Skip no addresses",
			mockInterfaces: func(context.Context) (net.InterfaceStatList, error) {
				return net.InterfaceStatList{
					{Name: "eth0", Addrs: nil},
					{Name: "eth1", Addrs: []net.InterfaceAddr{{Addr: "10.0.0.1"}}},
				}, nil
			},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			netInterfaces = tt.mockInterfaces
			got, err := ListNetworkInterfaces(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("ListNetworkInterfaces() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.wantCount {
				t.Errorf("ListNetworkInterfaces() count = %d, want %d", len(got), tt.wantCount)
			}
			if tt.name == "Success" && (!got[0].Up || got[1].Up) {
				t.Errorf("Up flags = %v/%v, want true/false", got[0].Up, got[1].Up)
			}
		})
	}
}

func TestFormatMountsTable(t *testing.T) {
	mounts := []MountInfo{
		{
			Device:      "/dev/sda1",
			Mountpoint:  "/",
			Filesystem:  "ext4",
			TotalGB:     100,
			UsedPercent: 42.5,
			Readable:    true,
		},
		{
			Device:     "nfs-server:/exports/a/very/long/share/name",
			Mountpoint: "/mnt/nfs",
			Filesystem: "nfs4",
		},
	}

	out := FormatMountsTable(mounts)
	for _, want := range []string{"/dev/sda1", "100.00 GB", "42.5%", "N/A", "..."} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatMountsTable() missing %q", want)
		}
	}
}

func TestFormatNetworksTable(t *testing.T) {
	networks := []NetworkInfo{
		{
			Name:       "eth0",
			MacAddress: "AA:BB:CC:DD:EE:FF",
			Up:         true,
			Addresses:  []string{"192.168.1.1", "fe80::1"},
		},
		{
			Name:       "lo",
			MacAddress: "",
			Addresses:  []string{},
		},
	}

	out := FormatNetworksTable(networks)
	for _, want := range []string{"eth0", "AA:BB:CC:DD:EE:FF", "192.168.1.1", "fe80::1", "N/A", "up", "down"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatNetworksTable() missing %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"Short", 10, "Short"},
		{"ExactLength", 11, "ExactLength"},
		{"TooLongString", 10, "TooLong..."},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}
