package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market_go/internal/app"
	"market_go/internal/feed"
	"market_go/internal/httpapi"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := bootstrap.Hydrate(); err != nil {
		slog.Error("❌ State hydration failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Event dispatcher with the live market feed attached
	hub := feed.NewHub()
	bootstrap.Dispatcher.Subscribe(hub.Broadcast)
	go bootstrap.Dispatcher.Run(ctx)
	slog.InfoContext(ctx, "✅ Event dispatcher started")

	// 5. HTTP API + websocket feed
	api := httpapi.NewApp(bootstrap.Engine, bootstrap.Storage)
	mux := http.NewServeMux()
	mux.Handle("/", httpapi.NewRouter(api))
	mux.Handle("/ws", hub)

	server := &http.Server{
		Addr:              bootstrap.Config.Server.APIAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("✅ API server started", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("API server failed", slog.Any("error", err))
			stop()
		}
	}()

	slog.InfoContext(ctx, "✨ Marketplace fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("API server shutdown", slog.Any("error", err))
	}
	hub.Close()
}
