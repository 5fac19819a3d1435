package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"edgegate/internal/config"
	"edgegate/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		slog.Info("Shutting down gracefully")
	case err := <-errCh:
		if err != nil {
			slog.Error("Server error", "error", err)
			exitCode = 1
		}
	}

	// The signal context is already cancelled here; shutdown gets its own deadline.
	if err := srv.Stop(context.Background()); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		exitCode = 1
	}

	slog.Info("Server stopped")
	if exitCode != 0 {
		stop()
		os.Exit(exitCode)
	}
}
