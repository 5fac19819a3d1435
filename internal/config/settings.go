package config

import "github.com/spf13/viper"

// SettingType represents the type of a setting
type SettingType string

const (
	// String type for string settings
	String SettingType = "string"
	// Bool type for boolean settings
	Bool SettingType = "bool"
	// Duration type for duration settings, parsed with time.ParseDuration
	Duration SettingType = "duration"
)

// Setting defines a configuration setting
type Setting struct {
	// Name is the name of the setting
	Name string
	// Short is a short description of the setting
	Short string
	// Type is the type of the setting
	Type SettingType
	// Default is the default value of the setting
	Default interface{}
	// Required indicates whether the setting must be set when its feature is on
	Required bool
	// Sensitive settings are never printed
	Sensitive bool
}

// SettingList is a list of settings
type SettingList []Setting

// PopulateViperDefaults sets default values for all settings in Viper
func (sl SettingList) PopulateViperDefaults(v *viper.Viper) {
	for _, s := range sl {
		v.SetDefault(s.Name, s.Default)
	}
}

// Settings defines all application settings. Each is read from the config
// file key of the same name or from the EDGEGATE_<NAME> environment variable.
var Settings = SettingList{
	// Server settings
	{
		Name:    "SERVER_ADDR",
		Short:   "Address on which the gated server listens",
		Type:    String,
		Default: ":8080",
	},
	{
		Name:    "METRICS_ADDR",
		Short:   "Address on which the metrics and health server listens",
		Type:    String,
		Default: ":9090",
	},
	{
		Name:    "SHUTDOWN_TIMEOUT",
		Short:   "Maximum time to wait for graceful shutdown",
		Type:    Duration,
		Default: "30s",
	},

	// TLS settings
	{
		Name:    "TLS_ENABLED",
		Short:   "Serve HTTPS instead of HTTP",
		Type:    Bool,
		Default: false,
	},
	{
		Name:    "TLS_CERT_PATH",
		Short:   "Path to TLS certificate file",
		Type:    String,
		Default: "",
	},
	{
		Name:    "TLS_KEY_PATH",
		Short:   "Path to TLS key file",
		Type:    String,
		Default: "",
	},

	// Origin settings
	{
		Name:    "UPSTREAM_URL",
		Short:   "URL of the application to proxy allowed requests to; empty serves STATIC_DIR",
		Type:    String,
		Default: "",
	},
	{
		Name:    "UPSTREAM_TIMEOUT",
		Short:   "Timeout waiting for upstream response headers",
		Type:    Duration,
		Default: "30s",
	},
	{
		Name:    "STATIC_DIR",
		Short:   "Directory holding the built single-page app",
		Type:    String,
		Default: "./dist",
	},
	{
		Name:    "STATIC_SPA_FALLBACK",
		Short:   "Serve index.html for routes that do not match a file",
		Type:    Bool,
		Default: true,
	},

	// Authentication: basic
	{
		Name:    "AUTH_BASIC_ENABLED",
		Short:   "Require HTTP basic authentication on every request",
		Type:    Bool,
		Default: true,
	},
	{
		Name:     "AUTH_BASIC_USERNAME",
		Short:    "Expected basic auth username",
		Type:     String,
		Default:  "",
		Required: true,
	},
	{
		Name:      "AUTH_BASIC_PASSWORD",
		Short:     "Expected basic auth password",
		Type:      String,
		Default:   "",
		Required:  true,
		Sensitive: true,
	},
	{
		Name:    "AUTH_BASIC_REALM",
		Short:   "Realm label sent in the authentication challenge",
		Type:    String,
		Default: "Restricted",
	},

	// Todos API
	{
		Name:    "TODOS_ENABLED",
		Short:   "Mount the todos API under /api/todos",
		Type:    Bool,
		Default: true,
	},
	{
		Name:    "TODOS_STORE",
		Short:   "Todo storage backend (memory, sqlite)",
		Type:    String,
		Default: "memory",
	},
	{
		Name:    "TODOS_SQLITE_PATH",
		Short:   "SQLite database file for the sqlite todo store",
		Type:    String,
		Default: "edgegate.db",
	},

	// Observability
	{
		Name:    "LOG_LEVEL",
		Short:   "Logging level (debug, info, warn, error)",
		Type:    String,
		Default: "info",
	},
	{
		Name:    "LOG_FORMAT",
		Short:   "Logging format (console, json)",
		Type:    String,
		Default: "console",
	},
}
