package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// EnvPrefix is prepended to every setting name to form its environment variable
const EnvPrefix = "EDGEGATE"

// Load loads the configuration from all sources and returns the merged result
func Load(configPath string) (*Config, error) {
	v := viper.New()

	Settings.PopulateViperDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := &Config{}
	var err error

	config.Server.Address = v.GetString("SERVER_ADDR")
	if config.Server.ShutdownTimeout, err = parseDuration(v, "SHUTDOWN_TIMEOUT"); err != nil {
		return nil, err
	}

	config.Metrics.Address = v.GetString("METRICS_ADDR")

	config.TLS.Enabled = v.GetBool("TLS_ENABLED")
	config.TLS.CertPath = v.GetString("TLS_CERT_PATH")
	config.TLS.KeyPath = v.GetString("TLS_KEY_PATH")

	if raw := strings.TrimSpace(v.GetString("UPSTREAM_URL")); raw != "" {
		upstreamURL, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream URL: %w", err)
		}
		config.Upstream.URL = upstreamURL
	}
	if config.Upstream.Timeout, err = parseDuration(v, "UPSTREAM_TIMEOUT"); err != nil {
		return nil, err
	}

	config.Static.Dir = v.GetString("STATIC_DIR")
	config.Static.SPAFallback = v.GetBool("STATIC_SPA_FALLBACK")

	config.Auth.Basic.Enabled = v.GetBool("AUTH_BASIC_ENABLED")
	config.Auth.Basic.Username = v.GetString("AUTH_BASIC_USERNAME")
	config.Auth.Basic.Password = v.GetString("AUTH_BASIC_PASSWORD")
	config.Auth.Basic.Realm = v.GetString("AUTH_BASIC_REALM")

	config.Todos.Enabled = v.GetBool("TODOS_ENABLED")
	config.Todos.Store = strings.ToLower(v.GetString("TODOS_STORE"))
	config.Todos.SQLitePath = v.GetString("TODOS_SQLITE_PATH")

	config.Observability.LogLevel = v.GetString("LOG_LEVEL")
	config.Observability.LogFormat = v.GetString("LOG_FORMAT")

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", strings.ToLower(key), err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", strings.ToLower(key))
	}
	return d, nil
}

// validateConfig performs validation on the loaded configuration
func validateConfig(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return fmt.Errorf("TLS certificate path is required when TLS is enabled")
		}
		if cfg.TLS.KeyPath == "" {
			return fmt.Errorf("TLS key path is required when TLS is enabled")
		}
		if _, err := os.Stat(cfg.TLS.CertPath); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file not found: %s", cfg.TLS.CertPath)
		}
		if _, err := os.Stat(cfg.TLS.KeyPath); os.IsNotExist(err) {
			return fmt.Errorf("TLS key file not found: %s", cfg.TLS.KeyPath)
		}
	}

	if err := validateOriginConfig(cfg); err != nil {
		return err
	}

	if err := validateAuthConfig(cfg); err != nil {
		return err
	}

	if err := validateTodosConfig(cfg); err != nil {
		return err
	}

	if !slices.Contains([]string{"console", "json"}, strings.ToLower(cfg.Observability.LogFormat)) {
		return fmt.Errorf("invalid log format: %q", cfg.Observability.LogFormat)
	}

	return nil
}

func validateOriginConfig(cfg *Config) error {
	if cfg.Upstream.URL != nil {
		if cfg.Upstream.URL.Scheme != "http" && cfg.Upstream.URL.Scheme != "https" {
			return fmt.Errorf("upstream URL must use http or https: %s", cfg.Upstream.URL.Redacted())
		}
		if cfg.Upstream.URL.Host == "" {
			return fmt.Errorf("upstream URL has no host: %s", cfg.Upstream.URL.Redacted())
		}
		return nil
	}

	if cfg.Static.Dir == "" {
		return fmt.Errorf("either an upstream URL or a static directory is required")
	}
	info, err := os.Stat(cfg.Static.Dir)
	if err != nil {
		return fmt.Errorf("static directory not usable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("static directory is not a directory: %s", cfg.Static.Dir)
	}
	return nil
}

// validateAuthConfig validates authentication configuration
func validateAuthConfig(cfg *Config) error {
	if !cfg.Auth.Basic.Enabled {
		return nil
	}
	if cfg.Auth.Basic.Username == "" {
		return fmt.Errorf("basic auth username is required when basic auth is enabled")
	}
	if cfg.Auth.Basic.Password == "" {
		return fmt.Errorf("basic auth password is required when basic auth is enabled")
	}
	return nil
}

func validateTodosConfig(cfg *Config) error {
	if !cfg.Todos.Enabled {
		return nil
	}
	switch cfg.Todos.Store {
	case StoreMemory:
	case StoreSQLite:
		if cfg.Todos.SQLitePath == "" {
			return fmt.Errorf("todos sqlite path is required when the sqlite store is used")
		}
	default:
		return fmt.Errorf("unknown todos store: %q", cfg.Todos.Store)
	}
	return nil
}
