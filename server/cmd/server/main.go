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

	"google.golang.org/grpc"

	"github.com/brewstack/brewstack/pkg/brewrpc"
	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/server/internal/api"
	"github.com/brewstack/brewstack/server/internal/auth"
	"github.com/brewstack/brewstack/server/internal/config"
	"github.com/brewstack/brewstack/server/internal/metrics"
	"github.com/brewstack/brewstack/server/internal/receiver"
	"github.com/brewstack/brewstack/server/internal/store"
	"github.com/brewstack/brewstack/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file; built-in defaults are used when empty")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("brewstack-server starting", "config", *configPath)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
	}
	if lv, err := config.ParseLevel(cfg.Server.LogLevel); err == nil {
		level.Set(lv)
	}

	slog.Info("config loaded",
		"grpc_port", cfg.Server.GRPCPort,
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"locale", cfg.Server.Locale,
		"session_ttl", cfg.Server.Session.TTL,
		"cache_size", cfg.Server.Cache.Size,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	locale := &flavor.LocaleVar{}
	locale.Set(flavor.ParseLocale(cfg.Server.Locale))

	// Session store with background TTL eviction.
	st := store.New(cfg.Server.Session.TTL, cfg.Server.Defaults)
	go st.Run(ctx)

	eng := flavor.NewEngine(cfg.Server.Cache.Size)

	// hub is assigned below; the gauge is only read at scrape time.
	var hub *ws.Hub
	mc := metrics.New(metrics.Sources{
		Sessions:  st.Count,
		WSClients: func() int { return hub.Count() },
		Cache:     eng.Stats,
	})
	hub = ws.New(st, eng, mc, locale)
	go hub.Run(ctx)

	// Hot reload: log level, default locale and default parameters.
	// Ports, auth and cache size need a restart.
	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, func(next *config.Config) {
				if lv, err := config.ParseLevel(next.Server.LogLevel); err == nil {
					level.Set(lv)
				}
				locale.Set(flavor.ParseLocale(next.Server.Locale))
				if err := st.SetDefaults(next.Server.Defaults); err != nil {
					slog.Warn("config: defaults rejected", "err", err)
				}
				slog.Info("config reloaded",
					"log_level", next.Server.LogLevel,
					"locale", next.Server.Locale,
				)
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	// gRPC server with optional API key authentication interceptor.
	interceptor := auth.APIKeyInterceptor(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	brewrpc.RegisterSimulatorServer(grpcSrv, receiver.New(st, eng, mc, locale))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		slog.Error("failed to listen on gRPC port",
			"port", cfg.Server.GRPCPort, "err", err)
		os.Exit(1)
	}

	go func() {
		slog.Info("gRPC simulator listening", "port", cfg.Server.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "err", err)
		}
	}()

	// Combined HTTP server: REST API, WebSocket hub and metrics on HTTPPort.
	// /metrics is left open for scrapers.
	requireKey := auth.HTTPMiddleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", requireKey(api.New(st, eng, mc, locale)))
	httpMux.Handle("/ws/simulate", requireKey(hub))
	httpMux.Handle("/metrics", mc)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("brewstack-server shutting down")
	grpcSrv.GracefulStop()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
