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

package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phuonguno98/infrascan/pkg/metrics"
)

// fakeSource returns fixed readings and counts snapshot passes.
type fakeSource struct {
	mu        sync.Mutex
	snapshots int
	hosts     []string
	err       error
}

func (f *fakeSource) CPU(context.Context) (*metrics.CPUReading, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &metrics.CPUReading{Percent: 42.5, Count: 8}, nil
}

func (f *fakeSource) Memory(context.Context) (*metrics.MemoryReading, error) {
	return &metrics.MemoryReading{TotalGB: 16, AvailableGB: 8, UsedGB: 8, Percent: 50}, nil
}

func (f *fakeSource) Disk(context.Context) (*metrics.DiskReading, error) {
	return &metrics.DiskReading{TotalGB: 500, UsedGB: 250, FreeGB: 250, Percent: 50}, nil
}

func (f *fakeSource) Network(_ context.Context, host string) *metrics.NetworkReading {
	f.mu.Lock()
	f.hosts = append(f.hosts, host)
	f.mu.Unlock()
	r := metrics.ProbeSucceeded(23.4)
	return &r
}

func (f *fakeSource) Processes(context.Context) (*metrics.ProcessInventory, error) {
	return &metrics.ProcessInventory{
		Total:     2,
		Active:    1,
		TopCPU:    []metrics.CPUProcess{{Name: "postgres", PID: 42, CPUPercent: 12.5}},
		TopMemory: []metrics.MemoryProcess{{Name: "postgres", PID: 42, MemoryPercent: 9.1}},
	}, nil
}

func (f *fakeSource) Snapshot(ctx context.Context) (*metrics.Snapshot, error) {
	f.mu.Lock()
	f.snapshots++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cpu, _ := f.CPU(ctx)
	mem, _ := f.Memory(ctx)
	disk, _ := f.Disk(ctx)
	procs, _ := f.Processes(ctx)
	return &metrics.Snapshot{
		Timestamp: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		CPU:       *cpu,
		Memory:    *mem,
		Disk:      *disk,
		Network:   metrics.ProbeFailed(),
		Processes: *procs,
	}, nil
}

func newTestServer(src MetricsSource) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(src, time.UTC, logger)
}

func get(t *testing.T, srv *Server, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, http.NoBody)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w.Result()
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestServer_SamplerRoutes(t *testing.T) {
	srv := newTestServer(&fakeSource{})

	tests := []struct {
		path     string
		wantKeys []string
	}{
		{path: "/metrics/cpu", wantKeys: []string{"cpu_percent", "cpu_count"}},
		{path: "/metrics/memory", wantKeys: []string{"total_gb", "available_gb", "used_gb", "percent"}},
		{path: "/metrics/disk", wantKeys: []string{"total_gb", "used_gb", "free_gb", "percent"}},
		{path: "/metrics/network", wantKeys: []string{"latency_ms", "status"}},
		{path: "/metrics/processes", wantKeys: []string{"total_processes", "active_processes", "top_cpu", "top_memory"}},
		{path: "/metrics", wantKeys: []string{"timestamp", "cpu", "memory", "disk", "network", "processes"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv, tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("GET %s status = %v, want %v", tt.path, resp.StatusCode, http.StatusOK)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			body := decode(t, resp)
			if len(body) != len(tt.wantKeys) {
				t.Errorf("keys = %v, want %v", body, tt.wantKeys)
			}
			for _, k := range tt.wantKeys {
				if _, ok := body[k]; !ok {
					t.Errorf("missing key %q in %v", k, body)
				}
			}
		})
	}
}

func TestServer_NetworkHostQuery(t *testing.T) {
	src := &fakeSource{}
	srv := newTestServer(src)

	get(t, srv, "/metrics/network?host=1.1.1.1")
	get(t, srv, "/metrics/network")

	if len(src.hosts) != 2 || src.hosts[0] != "1.1.1.1" || src.hosts[1] != "" {
		t.Errorf("probed hosts = %q, want [1.1.1.1 \"\"]", src.hosts)
	}
}

func TestServer_ExportCSV(t *testing.T) {
	srv := newTestServer(&fakeSource{})

	resp := get(t, srv, "/export/csv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v, want 200", resp.StatusCode)
	}

	var body struct {
		CSVData  string `json:"csv_data"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if !regexp.MustCompile(`^system_metrics_\d{8}_\d{6}\.csv$`).MatchString(body.Filename) {
		t.Errorf("filename = %q", body.Filename)
	}

	records, err := csv.NewReader(strings.NewReader(body.CSVData)).ReadAll()
	if err != nil {
		t.Fatalf("csv_data is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if len(records[0]) != 13 {
		t.Errorf("HTTP export has %d columns, want 13 (no process columns)", len(records[0]))
	}
	if records[1][12] != "failed" || records[1][11] != "" {
		t.Errorf("network cells = %q/%q, want \"\"/failed", records[1][11], records[1][12])
	}
}

func TestServer_CollectionError(t *testing.T) {
	srv := newTestServer(&fakeSource{err: errors.New("cpu stats unavailable")})

	for _, path := range []string{"/metrics", "/metrics/cpu", "/export/csv"} {
		resp := get(t, srv, path)
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("GET %s status = %v, want 500", path, resp.StatusCode)
			continue
		}
		if body := decode(t, resp); body["error"] != "cpu stats unavailable" {
			t.Errorf("GET %s error body = %v", path, body)
		}
	}
}

func TestServer_EachRequestSamples(t *testing.T) {
	src := &fakeSource{}
	srv := newTestServer(src)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest("GET", "/metrics", http.NoBody)
			srv.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	if src.snapshots != 5 {
		t.Errorf("snapshot passes = %d, want 5 (no caching)", src.snapshots)
	}
}

func TestServer_RequestID(t *testing.T) {
	srv := newTestServer(&fakeSource{})

	resp := get(t, srv, "/healthz")
	if id := resp.Header.Get(requestIDHeader); len(id) != 36 {
		t.Errorf("generated request id = %q, want a UUID", id)
	}

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if id := w.Result().Header.Get(requestIDHeader); id != "abc-123" {
		t.Errorf("propagated request id = %q, want abc-123", id)
	}
}

func TestServer_Version(t *testing.T) {
	body := decode(t, get(t, newTestServer(&fakeSource{}), "/api/version"))
	for _, k := range []string{"version", "commit", "date"} {
		if _, ok := body[k]; !ok {
			t.Errorf("missing %q in %v", k, body)
		}
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeSource{})

	req := httptest.NewRequest("POST", "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /metrics status = %v, want 405", w.Result().StatusCode)
	}
}
