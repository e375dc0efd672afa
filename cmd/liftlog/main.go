package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/logstore"
	"github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/metrics"
	liftserver "github.com/meltforce/liftlog/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mcpStdio := flag.Bool("mcp-stdio", false, "serve MCP over stdin/stdout instead of HTTP")
	remote := flag.String("remote", "", "with -mcp-stdio, read from a liftlog server at this URL instead of the local log")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *mcpStdio {
		runStdio(cfg, *remote)
		return
	}

	log, closer := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		File:   cfg.Logging.File,
		Stdout: cfg.Logging.Stdout,
	})
	defer closer.Close()
	log.Info("liftlog starting", "version", Version, "log", cfg.Log.Path)

	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	store := logstore.New(cfg.Log.Path)
	if res := store.Load(); res.Status == logstore.StatusMalformed {
		log.Warn("set log unreadable; history will be empty and saving is refused until it is fixed",
			"path", cfg.Log.Path, "error", res.Err)
	} else {
		log.Info("set log loaded", "status", res.Status, "rows", len(res.Rows))
	}

	var m *metrics.Manager
	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.NewManager("liftlog", "", reg)
	}

	srv := liftserver.New(store, cat, m, log)
	if reg != nil {
		srv.SetMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	mcpServer := mcp.New(mcp.NewLocalSource(store, cat), Version, log)
	srv.SetMCP(server.NewStreamableHTTPServer(mcpServer))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "local (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// runStdio serves MCP on stdin/stdout. Logs go to stderr so they never mix
// with protocol frames.
func runStdio(cfg *config.Config, remote string) {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.Logging.Level)}))

	var ds mcp.DataSource
	if remote != "" {
		ds = mcp.NewHTTPClient(remote)
		log.Info("mcp stdio using remote server", "url", remote)
	} else {
		cat, err := loadCatalog(cfg)
		if err != nil {
			log.Error("failed to load catalog", "error", err)
			os.Exit(1)
		}
		ds = mcp.NewLocalSource(logstore.New(cfg.Log.Path), cat)
	}

	if err := server.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp stdio error", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.Catalog.Path)
}
