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

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/fitlog/internal/auth"
	"github.com/claude/fitlog/internal/config"
	"github.com/claude/fitlog/internal/localcache"
	"github.com/claude/fitlog/internal/mcp"
	"github.com/claude/fitlog/internal/notify"
	"github.com/claude/fitlog/internal/remote"
	"github.com/claude/fitlog/internal/server"
	"github.com/claude/fitlog/internal/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// Optional .env for local development; env vars override YAML.
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("FitLog starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Remote store is optional; without it everything stays local.
	var rem remote.Store
	if cfg.Remote.Enabled {
		dsn := cfg.Remote.DSN()
		if err := remote.RunMigrations(dsn, cfg.Remote.MigrationsDir); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		pg, err := remote.NewPostgres(ctx, dsn)
		if err != nil {
			log.Error("failed to connect remote store", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		rem = pg
		log.Info("remote store connected")
	} else if *migrateOnly {
		log.Error("migrate-only requires remote.enabled")
		os.Exit(1)
	}

	// Local cache
	var cache *localcache.Cache
	if cfg.Cache.Dir != "" {
		cache, err = localcache.Open(cfg.Cache.Dir)
		if err != nil {
			log.Error("failed to open local cache", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		log.Info("local cache open", "dir", cfg.Cache.Dir)
	} else {
		log.Warn("no cache dir configured, running in-memory only")
	}

	center := notify.NewCenter()

	st, err := store.New(store.Options{
		Cache:    cache,
		Remote:   rem,
		Auth:     auth.Static{UserID: cfg.Auth.UserID},
		Notifier: center,
		Logger:   log,
	})
	if err != nil {
		log.Error("failed to build store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	log.Info("store loaded", "sessions", len(st.Sessions()), "pending", st.PendingCount())

	// Initial reconcile runs in the background so startup stays fast
	// even when the remote is slow or down.
	if rem != nil {
		go st.Reconcile(ctx)
	}

	// Create server
	srv := server.New(st, center, cfg.Auth.APIKey, log)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcp.New(st, Version, log)))

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

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
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

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
	st.Flush()
	log.Info("server stopped")
}
