package config

import (
	"net/url"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	// Server holds HTTP server configuration
	Server struct {
		// Address is the address to listen on
		Address string
		// ShutdownTimeout is the maximum time to wait for a graceful shutdown
		ShutdownTimeout time.Duration
	}

	// Metrics holds metrics server configuration
	Metrics struct {
		// Address is the address to listen on for the metrics server
		Address string
	}

	// TLS holds TLS configuration
	TLS struct {
		Enabled  bool
		CertPath string
		KeyPath  string
	}

	// Upstream holds configuration for the proxied application.
	// URL is nil when the static directory is served instead.
	Upstream struct {
		URL     *url.URL
		Timeout time.Duration
	}

	// Static holds configuration for serving the built SPA bundle
	Static struct {
		Dir         string
		SPAFallback bool
	}

	// Auth holds authentication configuration
	Auth struct {
		// Basic holds the edge gate credential policy
		Basic struct {
			Enabled  bool
			Username string
			Password string
			Realm    string
		}
	}

	// Todos holds todos API configuration
	Todos struct {
		Enabled bool
		// Store is "memory" or "sqlite"
		Store      string
		SQLitePath string
	}

	// Observability holds observability configuration
	Observability struct {
		LogLevel  string
		LogFormat string
	}
}

// Todo store kinds
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)
