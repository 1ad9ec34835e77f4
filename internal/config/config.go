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

package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents application configuration.
type Config struct {
	// Sampling
	CPUInterval time.Duration `yaml:"cpu_interval"` // Blocking window for the CPU sample
	DiskPath    string        `yaml:"disk_path"`    // Volume measured by the disk sampler

	// Network probe
	PingHost    string        `yaml:"ping_host"`    // Echo target
	PingTimeout time.Duration `yaml:"ping_timeout"` // Hard bound for one probe
	ProbeMode   string        `yaml:"probe_mode"`   // auto, icmp or exec

	// HTTP service
	ListenHost string `yaml:"listen_host"`
	ListenPort int    `yaml:"listen_port"`

	// Logging
	LogLevel string `yaml:"log_level"` // Log level: debug, info, warn, error
	LogFile  string `yaml:"log_file"`  // Log file path (empty = stderr)

	// Timezone
	Timezone string `yaml:"timezone"` // Timezone location (e.g., "Asia/Ho_Chi_Minh", "Local")
}

// Default configuration values.
const (
	DefaultCPUInterval = 1 * time.Second
	DefaultPingHost    = "8.8.8.8"
	DefaultPingTimeout = 5 * time.Second
	DefaultProbeMode   = ProbeModeAuto
	DefaultListenHost  = "0.0.0.0"
	DefaultListenPort  = 8000
	DefaultLogLevel    = "info"
	DefaultTimezone    = "Local"
)

// Probe modes.
const (
	ProbeModeAuto = "auto" // Native ICMP, falling back to the ping command
	ProbeModeICMP = "icmp" // Native ICMP only
	ProbeModeExec = "exec" // Ping command only
)

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		CPUInterval: DefaultCPUInterval,
		DiskPath:    DefaultDiskPath(),
		PingHost:    DefaultPingHost,
		PingTimeout: DefaultPingTimeout,
		ProbeMode:   DefaultProbeMode,
		ListenHost:  DefaultListenHost,
		ListenPort:  DefaultListenPort,
		LogLevel:    DefaultLogLevel,
		Timezone:    DefaultTimezone,
	}
}

// DefaultDiskPath returns the root volume of the running platform.
func DefaultDiskPath() string {
	if runtime.GOOS == "windows" {
		if drive := os.Getenv("SystemDrive"); drive != "" {
			return drive + `\`
		}
		return `C:\`
	}
	return "/"
}

// Load builds a configuration from defaults, overlaid with the YAML file at
// path. An empty path skips the file; a named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.CPUInterval <= 0 {
		return errors.New("cpu interval must be greater than zero")
	}

	if c.CPUInterval > 1*time.Minute {
		return errors.New("cpu interval must not exceed 1 minute")
	}

	if c.DiskPath == "" {
		return errors.New("disk path cannot be empty")
	}

	if strings.TrimSpace(c.PingHost) == "" {
		return errors.New("ping host cannot be empty")
	}

	if c.PingTimeout <= 0 {
		return errors.New("ping timeout must be greater than zero")
	}

	switch c.ProbeMode {
	case ProbeModeAuto, ProbeModeICMP, ProbeModeExec:
	default:
		return fmt.Errorf("invalid probe mode: %s (must be auto, icmp, or exec)", c.ProbeMode)
	}

	if c.ListenPort < 0 || c.ListenPort > 65535 {
		return fmt.Errorf("invalid listen port: %d", c.ListenPort)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	// Validate Timezone
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone: %s (%w)", c.Timezone, err)
		}
	}

	return nil
}

// Location resolves the configured timezone, defaulting to local time.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// String returns a human-readable representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{CPUInterval=%v, Disk=%s, PingHost=%s, PingTimeout=%v, ProbeMode=%s, Timezone=%s}",
		c.CPUInterval, c.DiskPath, c.PingHost, c.PingTimeout, c.ProbeMode, c.Timezone)
}
