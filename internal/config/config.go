package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// devJWTSecret is only accepted when Environment is "development".
const devJWTSecret = "phishwatch-dev-secret"

// ErrMissingJWTSecret is returned outside development when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("PHISHWATCH_JWT_SECRET must be set outside development")

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment    string
	HTTPPort       string
	DatabasePath   string
	FrontendDir    string
	JWTSecret      string
	LogDir         string
	Debug          bool
	// ConnectSources are extra CSP connect-src origins, such as the URL scoring APIs the client calls.
	ConnectSources []string
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:    getEnv("PHISHWATCH_ENV", "development"),
		HTTPPort:       getEnv("PHISHWATCH_HTTP_PORT", "8080"),
		DatabasePath:   getEnv("PHISHWATCH_DB_PATH", filepath.Join("data", "phishwatch.db")),
		FrontendDir:    getEnv("PHISHWATCH_FRONTEND_DIR", filepath.Clean(filepath.Join("..", "client", "dist"))),
		JWTSecret:      os.Getenv("PHISHWATCH_JWT_SECRET"),
		LogDir:         getEnv("PHISHWATCH_LOG_DIR", filepath.Join("data", "logs")),
		Debug:          getEnvBool("PHISHWATCH_DEBUG", false),
		ConnectSources: getEnvList("PHISHWATCH_CONNECT_SOURCES"),
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return Config{}, ErrMissingJWTSecret
		}
		cfg.JWTSecret = devJWTSecret
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs with development defaults.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}
