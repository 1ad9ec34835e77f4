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
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		CPUInterval: time.Second,
		DiskPath:    "/",
		PingHost:    "8.8.8.8",
		PingTimeout: 5 * time.Second,
		ProbeMode:   ProbeModeAuto,
		ListenPort:  8000,
		LogLevel:    "info",
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.CPUInterval != time.Second {
		t.Errorf("CPUInterval = %v, want 1s", cfg.CPUInterval)
	}
	if cfg.PingTimeout != 5*time.Second {
		t.Errorf("PingTimeout = %v, want 5s", cfg.PingTimeout)
	}
	if cfg.PingHost != "8.8.8.8" {
		t.Errorf("PingHost = %v, want 8.8.8.8", cfg.PingHost)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Valid Config", mutate: func(*Config) {}, wantErr: false},
		{name: "Zero CPU interval", mutate: func(c *Config) { c.CPUInterval = 0 }, wantErr: true},
		{name: "CPU interval too large", mutate: func(c *Config) { c.CPUInterval = 2 * time.Minute }, wantErr: true},
		{name: "Empty disk path", mutate: func(c *Config) { c.DiskPath = "" }, wantErr: true},
		{name: "Blank ping host", mutate: func(c *Config) { c.PingHost = "  " }, wantErr: true},
		{name: "Zero ping timeout", mutate: func(c *Config) { c.PingTimeout = 0 }, wantErr: true},
		{name: "Exec probe mode", mutate: func(c *Config) { c.ProbeMode = ProbeModeExec }, wantErr: false},
		{name: "Invalid probe mode", mutate: func(c *Config) { c.ProbeMode = "tcp" }, wantErr: true},
		{name: "Invalid port", mutate: func(c *Config) { c.ListenPort = 70000 }, wantErr: true},
		{name: "Invalid Log Level", mutate: func(c *Config) { c.LogLevel = "invalid" }, wantErr: true},
		{name: "Valid Timezone", mutate: func(c *Config) { c.Timezone = "UTC" }, wantErr: false},
		{name: "Invalid Timezone", mutate: func(c *Config) { c.Timezone = "Invalid/Timezone" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("Empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.PingHost != DefaultPingHost {
			t.Errorf("PingHost = %v, want %v", cfg.PingHost, DefaultPingHost)
		}
	})

	t.Run("Missing named file is an error", func(t *testing.T) {
		cfg, err := Load(filepath.Join(tempDir, "absent.yaml"))
		if err == nil {
			t.Fatalf("Load() = %+v, want error for missing file", cfg)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Load() error = %v, want wrapped fs.ErrNotExist", err)
		}
	})

	t.Run("File overrides defaults", func(t *testing.T) {
		path := filepath.Join(tempDir, "infrascan.yaml")
		content := "ping_host: 1.1.1.1\nping_timeout: 2s\nprobe_mode: exec\nlisten_port: 9100\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.PingHost != "1.1.1.1" {
			t.Errorf("PingHost = %v, want 1.1.1.1", cfg.PingHost)
		}
		if cfg.PingTimeout != 2*time.Second {
			t.Errorf("PingTimeout = %v, want 2s", cfg.PingTimeout)
		}
		if cfg.ProbeMode != ProbeModeExec {
			t.Errorf("ProbeMode = %v, want exec", cfg.ProbeMode)
		}
		if cfg.ListenPort != 9100 {
			t.Errorf("ListenPort = %v, want 9100", cfg.ListenPort)
		}
		// Untouched keys keep their defaults
		if cfg.CPUInterval != DefaultCPUInterval {
			t.Errorf("CPUInterval = %v, want %v", cfg.CPUInterval, DefaultCPUInterval)
		}
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := filepath.Join(tempDir, "broken.yaml")
		if err := os.WriteFile(path, []byte("ping_host: [unterminated"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load() expected error for malformed YAML")
		}
	})
}

func TestConfig_Location(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "UTC"
	if cfg.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", cfg.Location())
	}

	cfg.Timezone = ""
	if cfg.Location() != time.Local {
		t.Errorf("Location() = %v, want Local", cfg.Location())
	}
}
