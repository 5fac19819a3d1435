package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"edgegate/internal/auth/manager"
	"edgegate/internal/config"
	"edgegate/internal/observability"
	"edgegate/internal/observability/logging"
	"edgegate/internal/origin"
	tlsconfig "edgegate/internal/tls"
	"edgegate/internal/todos"
)

// NewFromConfig creates a new server from configuration
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	obs, err := observability.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return build(ctx, cfg, obs)
}

func build(ctx context.Context, cfg *config.Config, obs *observability.Provider) (*Server, error) {
	logger := obs.Logger

	var tlsCfg *tls.Config
	if cfg.TLS.Enabled {
		tlsSetup := &tlsconfig.Config{
			Logger:   logger,
			CertPath: cfg.TLS.CertPath,
			KeyPath:  cfg.TLS.KeyPath,
		}
		var err error
		tlsCfg, err = tlsSetup.GetTLSConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS configuration: %w", err)
		}
	}

	authManager, err := manager.NewManagerFromConfig(cfg, logger, obs.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authentication manager: %w", err)
	}

	var closers []io.Closer
	var api origin.API
	if cfg.Todos.Enabled {
		store, err := createTodoStore(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create todo store: %w", err)
		}
		closers = append(closers, store)
		api = todos.NewHandler(store, logger, obs.Metrics)
	}

	originRouter := origin.New(origin.Config{
		UpstreamURL:     cfg.Upstream.URL,
		UpstreamTimeout: cfg.Upstream.Timeout,
		StaticDir:       cfg.Static.Dir,
		SPAFallback:     cfg.Static.SPAFallback,
	}, api, logger, obs.Metrics)

	serverConfig := Config{
		Address:         cfg.Server.Address,
		MetricsAddress:  cfg.Metrics.Address,
		TLSConfig:       tlsCfg,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	// Complete middleware chain: observability -> gate -> origin
	handler := obs.Middleware(authManager.Middleware(originRouter))

	return New(serverConfig, handler, obs.MetricsHandler(), logger, closers...), nil
}

// createTodoStore opens the configured todo store
func createTodoStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (todos.Store, error) {
	switch cfg.Todos.Store {
	case config.StoreSQLite:
		logger.Info("Using SQLite todo store", "path", cfg.Todos.SQLitePath)
		return todos.OpenSQLiteStore(ctx, cfg.Todos.SQLitePath)
	case config.StoreMemory, "":
		logger.Info("Using in-memory todo store")
		return todos.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown todo store %q", cfg.Todos.Store)
	}
}
