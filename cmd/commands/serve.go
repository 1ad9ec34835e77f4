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
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/phuonguno98/infrascan/internal/collector"
	"github.com/phuonguno98/infrascan/internal/config"
	"github.com/phuonguno98/infrascan/internal/server"
	"github.com/phuonguno98/infrascan/pkg/version"
	"github.com/spf13/cobra"
)

var (
	// Serve command specific flags
	listenHost string
	listenPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve metrics over HTTP",
	Long: `Start the HTTP query service. Every request samples the host afresh.

Routes:
  GET /metrics              Full snapshot
  GET /metrics/cpu          CPU utilization
  GET /metrics/memory       Memory capacity
  GET /metrics/disk         Disk capacity
  GET /metrics/network      Reachability (?host= overrides the target)
  GET /metrics/processes    Process inventory
  GET /export/csv           Snapshot as CSV text
  GET /api/version          Build information
  GET /healthz              Liveness

Examples:
  # Start server on default port 8000
  infrascan serve

  # Start on localhost only
  infrascan serve --host 127.0.0.1 --port 3000`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenHost, "host", config.DefaultListenHost, "HTTP server listen address")
	serveCmd.Flags().IntVarP(&listenPort, "port", "p", config.DefaultListenPort, "HTTP server port")

	addSamplingFlags(serveCmd)
}

// writeTimeout bounds a response. A snapshot blocks for the CPU window and
// up to one probe timeout, so the limit grows with both.
func writeTimeout(cfg *config.Config) time.Duration {
	return max(15*time.Second, cfg.CPUInterval+cfg.PingTimeout+5*time.Second)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := InitLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}

	logger.Info("Starting InfraScan server",
		"version", version.Info(),
		"host", cfg.ListenHost,
		"port", cfg.ListenPort,
	)
	logger.Info("Configuration loaded", "config", cfg.String())

	coll := collector.NewCollector(cfg, collector.NewSystemHost(), logger)
	handler := server.NewServer(coll, cfg.Location(), logger)

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.ListenHost, strconv.Itoa(cfg.ListenPort)),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, initiating shutdown", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "\nInfraScan is serving metrics on http://%s\n\n", httpServer.Addr)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-ctx.Done()
	logger.Info("Server stopped")
	return nil
}
