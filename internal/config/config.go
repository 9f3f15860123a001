// Package config loads cinemap settings from an optional TOML file overlaid
// with CINEMAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Graph   GraphConfig   `toml:"graph"`
	Events  EventsConfig  `toml:"events"`
	Sync    SyncConfig    `toml:"sync"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	HTTPAddr  string `toml:"http_addr"`  // CINEMAP_HTTP_ADDR (default ":8080")
	AuthToken string `toml:"auth_token"` // CINEMAP_AUTH_TOKEN (optional, empty = auth disabled)
	// URL is where CLI commands reach a running server.
	URL string `toml:"url"` // CINEMAP_URL (default "http://localhost:8080")
}

type StorageConfig struct {
	Backend     string `toml:"backend"`      // CINEMAP_STORAGE (default "file")
	Dir         string `toml:"dir"`          // CINEMAP_DATA_DIR (default ~/.local/state/cinemap)
	SQLitePath  string `toml:"sqlite_path"`  // CINEMAP_SQLITE_PATH (default <dir>/cinemap.db)
	DatabaseURL string `toml:"database_url"` // CINEMAP_DATABASE_URL (required for postgres)
	Key         string `toml:"key"`          // CINEMAP_STORAGE_KEY (default "cinemap.graph.v1")
}

type GraphConfig struct {
	Mode model.Mode `toml:"mode"` // CINEMAP_MODE (default "explore")
}

type EventsConfig struct {
	NATSURL string `toml:"nats_url"` // CINEMAP_NATS_URL (optional, empty = no events)
}

type SyncConfig struct {
	Interval   duration `toml:"interval"`    // CINEMAP_SYNC_INTERVAL (default 0 = disabled)
	FilePath   string   `toml:"file_path"`   // CINEMAP_SYNC_FILE (enables file backups when set)
	S3Bucket   string   `toml:"s3_bucket"`   // CINEMAP_SYNC_S3_BUCKET (enables S3 when set)
	S3Endpoint string   `toml:"s3_endpoint"` // CINEMAP_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region   string   `toml:"s3_region"`   // CINEMAP_SYNC_S3_REGION (default "us-east-1")
	S3Key      string   `toml:"s3_key"`      // CINEMAP_SYNC_S3_KEY (default "cinemap/backup.jsonl")
	GitRepo    string   `toml:"git_repo"`    // CINEMAP_SYNC_GIT_REPO (enables git when set; path to clone)
	GitFile    string   `toml:"git_file"`    // CINEMAP_SYNC_GIT_FILE (default "cinemap.jsonl")
	GitBranch  string   `toml:"git_branch"`  // CINEMAP_SYNC_GIT_BRANCH (default "main")
}

type LogConfig struct {
	Level  string `toml:"level"`  // CINEMAP_LOG_LEVEL (default "info")
	Format string `toml:"format"` // CINEMAP_LOG_FORMAT ("text" or "json", default "text")
}

// duration decodes TOML strings such as "5m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// SyncInterval returns the configured backup interval.
func (c *Config) SyncInterval() time.Duration {
	return c.Sync.Interval.Duration
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr: ":8080",
			URL:      "http://localhost:8080",
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     defaultDataDir(),
			Key:     "cinemap.graph.v1",
		},
		Graph: GraphConfig{Mode: model.ModeExplore},
		Sync: SyncConfig{
			S3Region:  "us-east-1",
			S3Key:     "cinemap/backup.jsonl",
			GitFile:   "cinemap.jsonl",
			GitBranch: "main",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cinemap", "config.toml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cinemap"
	}
	return filepath.Join(home, ".local", "state", "cinemap")
}

// Load builds the configuration from defaults, then the TOML file at path,
// then the environment. An empty path reads DefaultPath if it exists; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		_, err := toml.DecodeFile(path, c)
		if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join(c.Storage.Dir, "cinemap.db")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	c.Server.HTTPAddr = envOrDefault("CINEMAP_HTTP_ADDR", c.Server.HTTPAddr)
	c.Server.AuthToken = envOrDefault("CINEMAP_AUTH_TOKEN", c.Server.AuthToken)
	c.Server.URL = envOrDefault("CINEMAP_URL", c.Server.URL)

	c.Storage.Backend = envOrDefault("CINEMAP_STORAGE", c.Storage.Backend)
	c.Storage.Dir = envOrDefault("CINEMAP_DATA_DIR", c.Storage.Dir)
	c.Storage.SQLitePath = envOrDefault("CINEMAP_SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.DatabaseURL = envOrDefault("CINEMAP_DATABASE_URL", c.Storage.DatabaseURL)
	c.Storage.Key = envOrDefault("CINEMAP_STORAGE_KEY", c.Storage.Key)

	c.Graph.Mode = model.Mode(envOrDefault("CINEMAP_MODE", string(c.Graph.Mode)))
	c.Events.NATSURL = envOrDefault("CINEMAP_NATS_URL", c.Events.NATSURL)

	if v := os.Getenv("CINEMAP_SYNC_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CINEMAP_SYNC_INTERVAL: %w", err)
		}
		c.Sync.Interval.Duration = d
	}
	c.Sync.FilePath = envOrDefault("CINEMAP_SYNC_FILE", c.Sync.FilePath)
	c.Sync.S3Bucket = envOrDefault("CINEMAP_SYNC_S3_BUCKET", c.Sync.S3Bucket)
	c.Sync.S3Endpoint = envOrDefault("CINEMAP_SYNC_S3_ENDPOINT", c.Sync.S3Endpoint)
	c.Sync.S3Region = envOrDefault("CINEMAP_SYNC_S3_REGION", c.Sync.S3Region)
	c.Sync.S3Key = envOrDefault("CINEMAP_SYNC_S3_KEY", c.Sync.S3Key)
	c.Sync.GitRepo = envOrDefault("CINEMAP_SYNC_GIT_REPO", c.Sync.GitRepo)
	c.Sync.GitFile = envOrDefault("CINEMAP_SYNC_GIT_FILE", c.Sync.GitFile)
	c.Sync.GitBranch = envOrDefault("CINEMAP_SYNC_GIT_BRANCH", c.Sync.GitBranch)

	c.Log.Level = envOrDefault("CINEMAP_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOrDefault("CINEMAP_LOG_FORMAT", c.Log.Format)
	return nil
}

// Validate rejects settings no component can act on.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage backend postgres requires CINEMAP_DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	if !c.Graph.Mode.IsValid() {
		return fmt.Errorf("unknown mode %q", c.Graph.Mode)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Sync.Interval.Duration < 0 {
		return fmt.Errorf("sync interval must not be negative")
	}
	return nil
}

// NewLogger builds the process logger described by the log settings.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
