// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/literature-helper/internal/server"
	"github.com/pdiddy/literature-helper/pkg/types"
)

const (
	defaultTimeout = 30 * time.Second
	defaultDelay   = 1 * time.Second
	defaultPort    = "8080"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the triage API over the merged paper set",
	Long: `Serve exposes the review API:

  GET    /diff       papers not yet accepted or rejected
  GET    /progress   the progress file contents
  POST   /papers     accept the paper whose id is in the body
  DELETE /papers     reject the paper whose id is in the body
  GET    /health     liveness
  GET    /metrics    Prometheus metrics

The papers file and progress file are re-read on every request. When
--addr is not set, the PORT environment variable selects the port.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", "", "listen address (default 0.0.0.0:$PORT or 0.0.0.0:8080)")
	f.StringSlice("allowed-origins", []string{"*"}, "CORS allowed origins")
	f.Duration("shutdown-timeout", 5*time.Second, "graceful shutdown timeout")

	bindFlag("server.addr", f.Lookup("addr"))
	bindFlag("server.allowed_origins", f.Lookup("allowed-origins"))
	bindFlag("server.shutdown_timeout", f.Lookup("shutdown-timeout"))

	rootCmd.AddCommand(serveCmd)
}

func serverConfig() types.ServerConfig {
	return types.ServerConfig{
		ReviewConfig:    reviewConfig(),
		Addr:            listenAddr(viper.GetString("server.addr"), os.Getenv("PORT")),
		AllowedOrigins:  viper.GetStringSlice("server.allowed_origins"),
		ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
	}
}

// listenAddr prefers an explicit address, then PORT, then 8080.
func listenAddr(addr, port string) string {
	if addr != "" {
		return addr
	}
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort("0.0.0.0", port)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := serverConfig()
	srv := server.New(reviewService(cfg.ReviewConfig), cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
