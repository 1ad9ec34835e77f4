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

	"github.com/phuonguno98/infrascan/internal/devices"
	"github.com/spf13/cobra"
)

var listDevicesCmd = &cobra.Command{
	Use:   "list-devices",
	Short: "List mount points and network interfaces",
	Long: `List the mount points and network interfaces on this host.
This helps to choose the disk path and the probe target.

Examples:
  # List all available devices
  infrascan list-devices

  # Use the output to pick the measured volume
  infrascan report --disk --disk-path /data`,
	RunE: runListDevices,
}

func init() {
	rootCmd.AddCommand(listDevicesCmd)
}

func runListDevices(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	fmt.Fprintln(out, "\n========================================")
	fmt.Fprintln(out, "   InfraScan - Available Devices")
	fmt.Fprintln(out, "========================================")

	mounts, err := devices.ListMounts(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(errOut, "Error listing mount points: %v\n", err)
	case len(mounts) == 0:
		fmt.Fprintln(out, "\nNo mount points found.")
	default:
		fmt.Fprint(out, devices.FormatMountsTable(mounts))
		fmt.Fprintln(out, "\nExample usage:")
		fmt.Fprintf(out, "  infrascan report --disk --disk-path=%q\n", mounts[0].Mountpoint)
	}

	networks, err := devices.ListNetworkInterfaces(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(errOut, "Error listing network interfaces: %v\n", err)
	case len(networks) == 0:
		fmt.Fprintln(out, "\nNo network interfaces found.")
	default:
		fmt.Fprint(out, devices.FormatNetworksTable(networks))
	}

	fmt.Fprintln(out)
	return nil
}
