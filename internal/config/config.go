// Package config loads application configuration from environment
// variables, with optional .env file support.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds settings for both the CLI and the HTTP server.
type Config struct {
	// DataDir is the directory holding the local entry collection and
	// the persisted user identity.
	DataDir string

	// DatabaseURL is the remote PostgreSQL DSN. Empty means the remote
	// store is not configured and the app runs local-only.
	DatabaseURL string

	Addr        string
	CORSOrigins []string

	AnthropicAPIKey string
	InsightModel    string

	LogFile      string
	IsProduction bool

	// Identity-creation advisory lock tuning.
	LockPollInterval time.Duration
	LockWaitTimeout  time.Duration

	// SyncTimeout bounds each background remote reconciliation call.
	SyncTimeout time.Duration
}

// Load reads configuration from the environment and a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("INNERFLOW_DATA_DIR", defaultDataDir())
	viper.SetDefault("INNERFLOW_DSN", "")
	viper.SetDefault("INNERFLOW_ADDR", ":8080")
	viper.SetDefault("INNERFLOW_CORS_ORIGINS", "*")
	viper.SetDefault("INNERFLOW_LOG_FILE", "")
	viper.SetDefault("INNERFLOW_PRODUCTION", false)
	viper.SetDefault("INNERFLOW_LOCK_POLL", "100ms")
	viper.SetDefault("INNERFLOW_LOCK_TIMEOUT", "3s")
	viper.SetDefault("INNERFLOW_SYNC_TIMEOUT", "15s")
	viper.SetDefault("ANTHROPIC_API_KEY", "")
	viper.SetDefault("INNERFLOW_INSIGHT_MODEL", "claude-3-5-haiku-latest")

	viper.AutomaticEnv()

	cfg := &Config{
		DataDir:          viper.GetString("INNERFLOW_DATA_DIR"),
		DatabaseURL:      viper.GetString("INNERFLOW_DSN"),
		Addr:             viper.GetString("INNERFLOW_ADDR"),
		CORSOrigins:      splitList(viper.GetString("INNERFLOW_CORS_ORIGINS")),
		AnthropicAPIKey:  viper.GetString("ANTHROPIC_API_KEY"),
		InsightModel:     viper.GetString("INNERFLOW_INSIGHT_MODEL"),
		LogFile:          viper.GetString("INNERFLOW_LOG_FILE"),
		IsProduction:     viper.GetBool("INNERFLOW_PRODUCTION"),
		LockPollInterval: durationOr(viper.GetString("INNERFLOW_LOCK_POLL"), 100*time.Millisecond),
		LockWaitTimeout:  durationOr(viper.GetString("INNERFLOW_LOCK_TIMEOUT"), 3*time.Second),
		SyncTimeout:      durationOr(viper.GetString("INNERFLOW_SYNC_TIMEOUT"), 15*time.Second),
	}
	return cfg, nil
}

// RemoteConfigured reports whether a remote store target is set.
func (c *Config) RemoteConfigured() bool { return c.DatabaseURL != "" }

func defaultDataDir() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "innerflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "innerflow")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
