package manager

import (
	"fmt"
	"net/http"

	"edgegate/internal/auth"
	"edgegate/internal/config"
	"edgegate/internal/gate"
	"edgegate/internal/observability/logging"
	"edgegate/internal/observability/metrics"
)

// Manager chains the enabled authenticators in front of a handler
type Manager struct {
	logger         *logging.Logger
	authenticators []auth.Authenticator
}

// NewManager creates a new authentication manager
func NewManager(authenticators []auth.Authenticator, logger *logging.Logger) *Manager {
	return &Manager{
		authenticators: authenticators,
		logger:         logger.WithModule("auth.manager"),
	}
}

// Middleware wraps next so that the first authenticator in the list runs first
func (m *Manager) Middleware(next http.Handler) http.Handler {
	handler := next
	for i := len(m.authenticators) - 1; i >= 0; i-- {
		authenticator := m.authenticators[i]
		handler = authenticator.GetMiddleware(handler)
		m.logger.Debug("Added authenticator to middleware chain", "authenticator", authenticator.Name())
	}
	return handler
}

// GetAuthenticators returns the list of enabled authenticators
func (m *Manager) GetAuthenticators() []auth.Authenticator {
	return m.authenticators
}

// NewManagerFromConfig creates a Manager with authenticators configured from application config
func NewManagerFromConfig(cfg *config.Config, logger *logging.Logger, metrics *metrics.Collector) (*Manager, error) {
	logger = logger.WithModule("auth.factory")
	var authenticators []auth.Authenticator

	if cfg.Auth.Basic.Enabled {
		basicAuth, err := gate.New(gate.Config{
			Enabled:  true,
			Username: cfg.Auth.Basic.Username,
			Password: cfg.Auth.Basic.Password,
			Realm:    cfg.Auth.Basic.Realm,
		}, logger, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize basic authenticator: %w", err)
		}
		authenticators = append(authenticators, basicAuth)
		logger.Info("Basic authentication enabled", "realm", basicAuth.Policy().Realm())
	}

	if len(authenticators) == 0 {
		logger.Warn("No authentication methods enabled; every request reaches the origin")
	}

	return NewManager(authenticators, logger), nil
}
