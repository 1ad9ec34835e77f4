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
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/phuonguno98/infrascan/internal/exporter"
	"github.com/phuonguno98/infrascan/pkg/metrics"
	"github.com/phuonguno98/infrascan/pkg/version"
)

// MetricsSource samples the host on demand. Every call is a fresh pass.
type MetricsSource interface {
	CPU(ctx context.Context) (*metrics.CPUReading, error)
	Memory(ctx context.Context) (*metrics.MemoryReading, error)
	Disk(ctx context.Context) (*metrics.DiskReading, error)
	Network(ctx context.Context, host string) *metrics.NetworkReading
	Processes(ctx context.Context) (*metrics.ProcessInventory, error)
	Snapshot(ctx context.Context) (*metrics.Snapshot, error)
}

// requestIDHeader carries the per-request correlation id.
const requestIDHeader = "X-Request-ID"

// Server represents the HTTP query service.
type Server struct {
	source   MetricsSource
	csv      *exporter.CSVExporter
	location *time.Location
	logger   *slog.Logger
	router   *mux.Router
}

// NewServer creates a new HTTP server over source.
// loc is the timezone used for CSV timestamps and export filenames.
func NewServer(source MetricsSource, loc *time.Location, logger *slog.Logger) *Server {
	if loc == nil {
		loc = time.Local
	}

	s := &Server{
		source:   source,
		csv:      exporter.NewCSVExporter(loc, false, logger),
		location: loc,
		logger:   logger,
		router:   mux.NewRouter(),
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Add CORS middleware
	s.router.Use(corsMiddleware)
	// Add request id and logging middleware
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api/version", s.handleGetVersion).Methods("GET")

	s.router.HandleFunc("/metrics", s.handleSnapshot).Methods("GET")
	s.router.HandleFunc("/metrics/cpu", s.handleCPU).Methods("GET")
	s.router.HandleFunc("/metrics/memory", s.handleMemory).Methods("GET")
	s.router.HandleFunc("/metrics/disk", s.handleDisk).Methods("GET")
	s.router.HandleFunc("/metrics/network", s.handleNetwork).Methods("GET")
	s.router.HandleFunc("/metrics/processes", s.handleProcesses).Methods("GET")

	s.router.HandleFunc("/export/csv", s.handleExportCSV).Methods("GET")
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware tags each request with an id and logs it.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r)
		s.logger.Debug("HTTP request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// handleGetVersion returns version information from the version package.
func (s *Server) handleGetVersion(w http.ResponseWriter, _ *http.Request) {
	versionInfo := map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
	}
	s.writeJSON(w, versionInfo)
}

// handleSnapshot returns every metric in one snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.source.Snapshot(r.Context())
	s.respond(w, snapshot, err)
}

func (s *Server) handleCPU(w http.ResponseWriter, r *http.Request) {
	reading, err := s.source.CPU(r.Context())
	s.respond(w, reading, err)
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	reading, err := s.source.Memory(r.Context())
	s.respond(w, reading, err)
}

func (s *Server) handleDisk(w http.ResponseWriter, r *http.Request) {
	reading, err := s.source.Disk(r.Context())
	s.respond(w, reading, err)
}

// handleNetwork probes the default host, or the one named by ?host=.
func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("host")
	s.writeJSON(w, s.source.Network(r.Context(), host))
}

func (s *Server) handleProcesses(w http.ResponseWriter, r *http.Request) {
	inv, err := s.source.Processes(r.Context())
	s.respond(w, inv, err)
}

// handleExportCSV returns the current snapshot as inline CSV text with a
// suggested download filename. Process columns are not included.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.source.Snapshot(r.Context())
	if err != nil {
		s.respond(w, nil, err)
		return
	}

	var buf bytes.Buffer
	if err := s.csv.Write(&buf, snapshot); err != nil {
		s.logger.Error("Failed to render CSV", "error", err)
		s.writeError(w, "Failed to render CSV", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, map[string]string{
		"csv_data": buf.String(),
		"filename": exporter.SuggestedFilename(time.Now().In(s.location)),
	})
}

// respond writes data, or a 500 when collection failed.
func (s *Server) respond(w http.ResponseWriter, data interface{}, err error) {
	if err != nil {
		s.logger.Error("Metric collection failed", "error", err)
		s.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, data)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to write JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); err != nil {
		s.logger.Error("Failed to write error response", "error", err)
	}
}
