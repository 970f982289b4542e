package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxjournal/journal"
)

// Config is the complete fxjournal configuration
type Config struct {
	Store   StoreConfig   `json:"store" yaml:"store"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// StoreConfig selects where the trade list blob lives
type StoreConfig struct {
	Type string `json:"type" yaml:"type"` // "file", "sqlite" or "memory"
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	Key  string `json:"key" yaml:"key"`
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"` // gin mode
}

type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// JournalConfig points at the relational mirror used for reporting
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

var (
	storeTypes = []string{"file", "sqlite", "memory"}
	logLevels  = []string{"debug", "info", "warn", "error"}
	ginModes   = []string{"", "debug", "release", "test"}
)

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and JSON otherwise
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !slices.Contains(storeTypes, c.Store.Type) {
		return fmt.Errorf("store.type must be one of %s", strings.Join(storeTypes, ", "))
	}
	if c.Store.Type != "memory" && c.Store.Path == "" {
		return fmt.Errorf("store.path required for %s store", c.Store.Type)
	}
	if c.Store.Key == "" {
		return fmt.Errorf("store.key is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if !slices.Contains(ginModes, c.Server.Mode) {
		return fmt.Errorf("server.mode must be debug, release or test")
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("logging.level must be one of %s", strings.Join(logLevels, ", "))
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Type: "file",
			Path: "./data",
			Key:  journal.DefaultKey,
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Journal: JournalConfig{
			DBPath: "./journal.db",
		},
	}
}

// Environment overrides, applied after the config file.
const (
	EnvStoreType = "FXJOURNAL_STORE_TYPE"
	EnvStorePath = "FXJOURNAL_STORE_PATH"
	EnvLogLevel  = "FXJOURNAL_LOG_LEVEL"
	EnvAddr      = "FXJOURNAL_ADDR"
)

// ApplyEnv loads envFiles (default ".env") into the environment when they
// exist, without overriding variables already set, then copies any
// FXJOURNAL_* variables over c. A missing file is skipped; one that fails
// to parse is an error and leaves c unchanged.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	c.Store.Type = envStr(EnvStoreType, c.Store.Type)
	c.Store.Path = envStr(EnvStorePath, c.Store.Path)
	c.Logging.Level = envStr(EnvLogLevel, c.Logging.Level)
	c.Server.Addr = envStr(EnvAddr, c.Server.Addr)
	return nil
}

func envStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Open builds the blob backend the store section names. The caller owns
// the returned Blob and must Close it.
func Open(c *Config, log *slog.Logger) (journal.Blob, error) {
	switch c.Store.Type {
	case "memory":
		log.Warn("using in-memory store; trades are lost on exit")
		return journal.NewMemoryBlob(), nil
	case "file":
		if err := os.MkdirAll(c.Store.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		return journal.NewFileBlob(c.Store.Path), nil
	case "sqlite":
		blob, err := journal.NewGormBlob(c.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return blob, nil
	}
	return nil, fmt.Errorf("unknown store type %q", c.Store.Type)
}
