// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr     string
	DBPath         string
	WorkspaceDir   string
	ExportDir      string
	ContentDir     string
	Template       model.TemplateKind
	GitPath        string
	NetworkTimeout time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// Every variable is optional: BLOGPAGES_LISTEN_ADDR (127.0.0.1:8080),
// BLOGPAGES_DB_PATH (blogpages.db), BLOGPAGES_WORKSPACE_DIR (git-pages),
// BLOGPAGES_EXPORT_DIR (export), BLOGPAGES_CONTENT_DIR (working copy root),
// BLOGPAGES_TEMPLATE (hugo), BLOGPAGES_GIT_PATH (git from PATH) and
// BLOGPAGES_NETWORK_TIMEOUT (60s).
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     "127.0.0.1:8080",
		DBPath:         "blogpages.db",
		WorkspaceDir:   "git-pages",
		ExportDir:      "export",
		Template:       model.TemplateHugo,
		NetworkTimeout: 60 * time.Second,
	}

	if v, ok := os.LookupEnv("BLOGPAGES_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("BLOGPAGES_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("BLOGPAGES_WORKSPACE_DIR"); ok && v != "" {
		cfg.WorkspaceDir = v
	}
	if v, ok := os.LookupEnv("BLOGPAGES_EXPORT_DIR"); ok && v != "" {
		cfg.ExportDir = v
	}
	cfg.GitPath = os.Getenv("BLOGPAGES_GIT_PATH")

	if v, ok := os.LookupEnv("BLOGPAGES_CONTENT_DIR"); ok && v != "" {
		clean := filepath.Clean(v)
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("BLOGPAGES_CONTENT_DIR must be relative to the working copy, got %q", v)
		}
		if clean != "." {
			cfg.ContentDir = clean
		}
	}

	if v, ok := os.LookupEnv("BLOGPAGES_TEMPLATE"); ok && v != "" {
		kind, err := model.ParseTemplateKind(v)
		if err != nil {
			return nil, fmt.Errorf("BLOGPAGES_TEMPLATE: %w", err)
		}
		cfg.Template = kind
	}

	if v, ok := os.LookupEnv("BLOGPAGES_NETWORK_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("BLOGPAGES_NETWORK_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("BLOGPAGES_NETWORK_TIMEOUT must be positive, got %s", parsed)
		}
		cfg.NetworkTimeout = parsed
	}

	return cfg, nil
}
