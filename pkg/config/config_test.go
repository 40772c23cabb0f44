package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int    `env:"TEST_CFG_PORT" envDefault:"8080"`
	Host     string `env:"TEST_CFG_HOST" envDefault:"localhost"`
	LogLevel string `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"TEST_CFG_DEBUG" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_HOST", "0.0.0.0")
	t.Setenv("TEST_CFG_LOG_LEVEL", "debug")
	t.Setenv("TEST_CFG_DEBUG", "true")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

type dotEnvConfig struct {
	Title string `env:"TEST_DOTENV_TITLE" envDefault:"unset"`
	Shop  string `env:"TEST_DOTENV_SHOP" envDefault:"unset"`
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swagshop.env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_DOTENV_TITLE=from-file\nTEST_DOTENV_SHOP=from-file\n"), 0o600))

	t.Setenv(FileEnvVar, path)
	// Process environment wins over the file.
	t.Setenv("TEST_DOTENV_SHOP", "from-env")
	t.Cleanup(func() { os.Unsetenv("TEST_DOTENV_TITLE") })

	var cfg dotEnvConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "from-file", cfg.Title)
	assert.Equal(t, "from-env", cfg.Shop)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv(FileEnvVar, filepath.Join(t.TempDir(), "missing.env"))

	var cfg dotEnvConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config file")
}
