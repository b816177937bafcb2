// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// Panel holds the configuration of a dashboard (reviewpanel) process.
type Panel struct {
	APIURL            string        `env:"REVIEWPANEL_API_URL"             envDefault:"http://127.0.0.1:5000"`
	View              model.View    `env:"REVIEWPANEL_VIEW"                envDefault:"user"`
	ListenAddr        string        `env:"REVIEWPANEL_LISTEN_ADDR"         envDefault:"127.0.0.1:8080"`
	AdminPollInterval time.Duration `env:"REVIEWPANEL_ADMIN_POLL_INTERVAL" envDefault:"3s"`
	UserPollInterval  time.Duration `env:"REVIEWPANEL_USER_POLL_INTERVAL"  envDefault:"10s"`
	LogLevel          slog.Level    `env:"REVIEWPANEL_LOG_LEVEL"           envDefault:"info"`
}

// PollInterval returns the refresh period for the configured view.
func (c *Panel) PollInterval() time.Duration {
	if c.View == model.ViewAdmin {
		return c.AdminPollInterval
	}
	return c.UserPollInterval
}

// API holds the configuration of the feedback API (feedbackapi) process.
type API struct {
	ListenAddr    string     `env:"REVIEWPANEL_API_LISTEN_ADDR" envDefault:"127.0.0.1:5000"`
	DBPath        string     `env:"REVIEWPANEL_DB_PATH"         envDefault:"reviewpanel.db"`
	GeminiAPIKey  string     `env:"GEMINI_API_KEY"`
	GeminiModel   string     `env:"REVIEWPANEL_GEMINI_MODEL"    envDefault:"gemini-2.5-flash"`
	GeminiBaseURL string     `env:"REVIEWPANEL_GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1"`
	CORSOrigins   []string   `env:"REVIEWPANEL_CORS_ORIGINS"    envDefault:"http://localhost:3000" envSeparator:","`
	LogLevel      slog.Level `env:"REVIEWPANEL_LOG_LEVEL"       envDefault:"info"`
}

// HasGeminiKey reports whether an LLM API key is configured. Without one the
// API still serves requests, using fixed fallback texts.
func (c *API) HasGeminiKey() bool {
	return c.GeminiAPIKey != ""
}

// LoadPanel reads dashboard configuration from the environment (after
// loading a .env file if present) and validates it.
func LoadPanel() (*Panel, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Panel
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("REVIEWPANEL_API_URL must be an absolute URL, got %q", cfg.APIURL)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if cfg.AdminPollInterval <= 0 {
		return nil, fmt.Errorf("REVIEWPANEL_ADMIN_POLL_INTERVAL must be positive, got %s", cfg.AdminPollInterval)
	}
	if cfg.UserPollInterval <= 0 {
		return nil, fmt.Errorf("REVIEWPANEL_USER_POLL_INTERVAL must be positive, got %s", cfg.UserPollInterval)
	}

	return &cfg, nil
}

// LoadAPI reads feedback API configuration from the environment (after
// loading a .env file if present) and validates it.
func LoadAPI() (*API, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg API
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBPath == "" {
		return nil, errors.New("REVIEWPANEL_DB_PATH must not be empty")
	}
	if _, err := url.Parse(cfg.GeminiBaseURL); err != nil {
		return nil, fmt.Errorf("REVIEWPANEL_GEMINI_BASE_URL is invalid: %w", err)
	}
	cfg.GeminiBaseURL = strings.TrimRight(cfg.GeminiBaseURL, "/")

	origins := cfg.CORSOrigins[:0]
	for _, o := range cfg.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORSOrigins = origins

	return &cfg, nil
}

// loadDotEnv loads .env from the working directory. Variables already set in
// the environment take precedence; a missing file is not an error.
func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
