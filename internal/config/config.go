// Package config provides configuration management for DockTiles.
//
// Configuration is loaded in the following order (later sources override
// earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./config.yaml, ~/.docktiles/config.yaml, /etc/docktiles/config.yaml)
//  3. .env files
//  4. Environment variables (DT_ prefix)
//
// Use DT_ prefix and underscores for nested keys:
//   - DT_SERVER_PORT=8088
//   - DT_SECURITY_AUTH_SECRET=s3cret
//   - DT_UI_PORT_HINTS=8080,3000
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the root configuration structure for DockTiles.
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Docker contains container runtime connection settings
	Docker DockerConfig `mapstructure:"docker"`

	// Security contains the access gate settings
	Security SecurityConfig `mapstructure:"security"`

	// UI contains dashboard presentation settings
	UI UIConfig `mapstructure:"ui"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address (default: 0.0.0.0)
	Host string `mapstructure:"host"`

	// Port is the server listen port (default: 8088)
	Port int `mapstructure:"port" validate:"min=1,max=65535"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Debug enables debug logging
	Debug bool `mapstructure:"debug"`

	// TLSEnabled enables HTTPS
	TLSEnabled bool `mapstructure:"tls_enabled"`

	// TLSCert is the path to the TLS certificate file
	TLSCert string `mapstructure:"tls_cert"`

	// TLSKey is the path to the TLS private key file
	TLSKey string `mapstructure:"tls_key"`
}

// DockerConfig contains container runtime connection settings.
// Empty values defer to the Docker SDK's own environment conventions
// (DOCKER_HOST, DOCKER_TLS_VERIFY, DOCKER_CERT_PATH).
type DockerConfig struct {
	// Host is the runtime endpoint, e.g. unix:///var/run/docker.sock
	Host string `mapstructure:"host"`

	// TLSVerify enables TLS for the runtime connection
	TLSVerify bool `mapstructure:"tls_verify"`

	// CertPath is the directory holding ca.pem, cert.pem and key.pem
	CertPath string `mapstructure:"cert_path"`
}

// SecurityConfig contains the access gate settings.
type SecurityConfig struct {
	// AuthSecret is the shared bearer secret. Empty disables auth entirely.
	AuthSecret string `mapstructure:"auth_secret"`

	// ActionsEnabled gates the start/stop/restart endpoints (default: true)
	ActionsEnabled bool `mapstructure:"actions_enabled"`

	// AllowedOrigins are the CORS allowed origins
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// RateLimit is the maximum requests per second per client (0 disables)
	RateLimit int `mapstructure:"rate_limit" validate:"min=0"`
}

// UIConfig contains dashboard presentation settings.
type UIConfig struct {
	// PortHints is a comma-separated, ordered list of host ports that
	// likely serve a web UI. Earlier entries win.
	PortHints string `mapstructure:"port_hints"`

	// ExternalURL overrides the hostname used for "open UI" deep links.
	// When empty the request's Host header is used.
	ExternalURL string `mapstructure:"external_url"`
}

// Hints returns the ordered port hint list with whitespace and empty
// entries stripped.
func (u *UIConfig) Hints() []string {
	var hints []string
	for _, h := range strings.Split(u.PortHints, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hints = append(hints, h)
		}
	}
	return hints
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.docktiles")
		v.AddConfigPath("/etc/docktiles")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("DT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8088)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.tls_enabled", false)

	v.SetDefault("docker.host", "")
	v.SetDefault("docker.tls_verify", false)
	v.SetDefault("docker.cert_path", "")

	v.SetDefault("security.auth_secret", "")
	v.SetDefault("security.actions_enabled", true)
	v.SetDefault("security.allowed_origins", []string{"*"})
	v.SetDefault("security.rate_limit", 100)

	v.SetDefault("ui.port_hints", "8080,3000,80,5000,8000,8888,9090")
	v.SetDefault("ui.external_url", "")
}

func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: failed %q check", verrs[0].Namespace(), verrs[0].Tag())
		}
		return err
	}

	if cfg.Server.TLSEnabled && (cfg.Server.TLSCert == "" || cfg.Server.TLSKey == "") {
		return fmt.Errorf("tls_cert and tls_key are required when tls is enabled")
	}

	if len(cfg.UI.Hints()) == 0 {
		return fmt.Errorf("ui port_hints must contain at least one port")
	}

	return nil
}

func Get() *Config {
	return cfg
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
