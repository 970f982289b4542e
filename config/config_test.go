package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxjournal/journal"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "file", cfg.Store.Type)
	assert.Equal(t, journal.DefaultKey, cfg.Store.Key)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			modify:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "memory store needs no path",
			modify:  func(c *Config) { c.Store.Type = "memory"; c.Store.Path = "" },
			wantErr: false,
		},
		{
			name:    "unknown store type",
			modify:  func(c *Config) { c.Store.Type = "csv" },
			wantErr: true,
			errMsg:  "store.type must be one of",
		},
		{
			name:    "sqlite without path",
			modify:  func(c *Config) { c.Store.Type = "sqlite"; c.Store.Path = "" },
			wantErr: true,
			errMsg:  "store.path required for sqlite store",
		},
		{
			name:    "missing key",
			modify:  func(c *Config) { c.Store.Key = "" },
			wantErr: true,
			errMsg:  "store.key is required",
		},
		{
			name:    "missing addr",
			modify:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server.addr is required",
		},
		{
			name:    "bad gin mode",
			modify:  func(c *Config) { c.Server.Mode = "prod" },
			wantErr: true,
			errMsg:  "server.mode",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: true,
			errMsg:  "logging.level",
		},
		{
			name:    "missing db path",
			modify:  func(c *Config) { c.Journal.DBPath = "" },
			wantErr: true,
			errMsg:  "journal.db_path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Store.Type = "sqlite"
			cfg.Store.Path = "trades.db"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "file", cfg.Store.Type)
	assert.Equal(t, journal.DefaultKey, cfg.Store.Key)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  type: floppy\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		EnvStoreType+"=sqlite\n"+EnvStorePath+"=from-dotenv.db\n"), 0644))

	// already-set variables win over the .env file
	t.Setenv(EnvStorePath, "from-env.db")
	t.Setenv(EnvAddr, "127.0.0.1:9999")
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvStoreType)
	t.Cleanup(func() { os.Unsetenv(EnvStoreType) })

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envFile))

	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "from-env.db", cfg.Store.Path)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestApplyEnvMissingFile(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), "nope.env")))
	assert.Equal(t, Default().Store, cfg.Store)
}

func TestApplyEnvMalformedFile(t *testing.T) {
	t.Setenv(EnvAddr, "")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvAddr+"=\"127.0.0.1:9999\n"), 0644))

	cfg := Default()
	err := cfg.ApplyEnv(envFile)
	assert.ErrorContains(t, err, envFile)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestOpen(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	tests := []struct {
		name  string
		store StoreConfig
		want  any
	}{
		{"memory", StoreConfig{Type: "memory", Key: "k"}, &journal.MemoryBlob{}},
		{"file", StoreConfig{Type: "file", Path: filepath.Join(dir, "blobs"), Key: "k"}, &journal.FileBlob{}},
		{"sqlite", StoreConfig{Type: "sqlite", Path: filepath.Join(dir, "blobs.db"), Key: "k"}, &journal.GormBlob{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Store = tt.store

			blob, err := Open(cfg, log)
			require.NoError(t, err)
			defer blob.Close()
			assert.IsType(t, tt.want, blob)

			require.NoError(t, blob.Put("k", []byte(`[]`)))
			data, err := blob.Get("k")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(data))
		})
	}

	cfg := Default()
	cfg.Store.Type = "tape"
	_, err := Open(cfg, log)
	assert.Error(t, err)
}
