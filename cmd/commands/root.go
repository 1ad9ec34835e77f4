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
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/phuonguno98/infrascan/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global persistent flags (shared by subcommands)
	configPath string
	logLevel   string
	logFile    string
	timezone   string

	// Sampling flags (shared by report and serve)
	pingHost    string
	pingTimeout time.Duration
	probeMode   string
	diskPath    string
	cpuInterval time.Duration
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "infrascan",
	Short: "InfraScan - Host health metrics on demand",
	Long: `InfraScan samples host health on demand: CPU utilization, memory and
disk capacity, network reachability and the busiest processes.

Use 'infrascan report' for a one-shot terminal report, or 'infrascan serve'
to answer the same questions over HTTP.`,
	// No Version field here to direct user to version command
	// No RunE field, so it prints help by default
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"YAML configuration file (flags override its values)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel,
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Log file path (empty = stderr)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", config.DefaultTimezone,
		"Timezone for timestamps (e.g., 'Asia/Ho_Chi_Minh', 'Local')")
}

// addSamplingFlags registers the flags that tune the samplers.
func addSamplingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pingHost, "ping-host", config.DefaultPingHost,
		"Host probed by the network check")
	cmd.Flags().DurationVar(&pingTimeout, "ping-timeout", config.DefaultPingTimeout,
		"Hard timeout for one network probe")
	cmd.Flags().StringVar(&probeMode, "probe-mode", config.DefaultProbeMode,
		"Network probe strategy (auto, icmp, exec)")
	cmd.Flags().StringVar(&diskPath, "disk-path", config.DefaultDiskPath(),
		"Volume measured by the disk check (see 'infrascan list-devices')")
	cmd.Flags().DurationVar(&cpuInterval, "cpu-interval", config.DefaultCPUInterval,
		"CPU sampling window")
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then any flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("timezone") {
		cfg.Timezone = timezone
	}
	if flags.Changed("ping-host") {
		cfg.PingHost = pingHost
	}
	if flags.Changed("ping-timeout") {
		cfg.PingTimeout = pingTimeout
	}
	if flags.Changed("probe-mode") {
		cfg.ProbeMode = probeMode
	}
	if flags.Changed("disk-path") {
		cfg.DiskPath = diskPath
	}
	if flags.Changed("cpu-interval") {
		cfg.CPUInterval = cpuInterval
	}
	if flags.Changed("host") {
		cfg.ListenHost = listenHost
	}
	if flags.Changed("port") {
		cfg.ListenPort = listenPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// InitLogger initializes and returns a slog.Logger based on the provided settings.
// It is shared by all commands to ensure consistent logging format. Console
// logs go to stderr so command output on stdout stays clean.
func InitLogger(levelStr, fileStr string) (*slog.Logger, error) {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if fileStr != "" {
		f, err := os.OpenFile(fileStr, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handler = slog.NewJSONHandler(f, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler), nil
}
