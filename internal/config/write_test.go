package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nmm", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read written file")

	assert.Contains(t, string(content), "[server]")
	assert.Contains(t, string(content), "[game]")
	assert.Contains(t, string(content), "${NEXUS_API_KEY}")
}

func TestWriteDefault_CreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "config.toml")

	require.NoError(t, WriteDefault(path), "WriteDefault failed")
	assert.FileExists(t, path)
}

func TestWriteDefault_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("# mine"), 0644))

	err := WriteDefault(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	content, _ := os.ReadFile(path)
	assert.Equal(t, "# mine", string(content))
}

func TestConfig_Write(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 9000},
		Game:   GameConfig{Mode: "fallout4", ModsDir: "/games/fo4/mods"},
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.Write(path), "Write failed")

	content, _ := os.ReadFile(path)
	assert.Contains(t, string(content), "127.0.0.1")
	assert.Contains(t, string(content), "9000")
	assert.Contains(t, string(content), "fallout4")
}

func TestConfig_WriteRoundTrip(t *testing.T) {
	cfg := &Config{
		Server:      ServerConfig{Host: "0.0.0.0", Port: 9000, LogLevel: "debug"},
		Database:    DatabaseConfig{Path: "/var/lib/nmm/nmm.db"},
		Game:        GameConfig{Mode: "fallout4", ModsDir: "/games/fo4/mods"},
		Acquisition: AcquisitionConfig{AutoFillMissingInfo: true, MaxConcurrent: 5, ActivityRetention: time.Hour},
		Repository:  RepositoryConfig{URL: "https://api.example.com", APIKey: "k", Timeout: 5 * time.Second},
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
