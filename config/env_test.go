package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type envTestConfig struct {
	Port int `env:"MRZ_TEST_PORT" envDefault:"123"`
}

type fileTestConfig struct {
	Port  int    `json:"port" env:"MRZ_TEST_PORT"`
	Level string `json:"level" env:"MRZ_TEST_LEVEL"`
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	require.NoError(t, ParseEnv(&cfg))
	require.Equal(t, 123, cfg.Port)
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("MRZ_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse env:")
}

func TestLoad(t *testing.T) {
	t.Run("file values are kept without env overrides", func(t *testing.T) {
		path := writeConfig(t, `{"port": 8080, "level": "debug"}`)

		var cfg fileTestConfig
		require.NoError(t, Load(path, &cfg))
		require.Equal(t, 8080, cfg.Port)
		require.Equal(t, "debug", cfg.Level)
	})

	t.Run("env overrides file values", func(t *testing.T) {
		path := writeConfig(t, `{"port": 8080, "level": "debug"}`)
		t.Setenv("MRZ_TEST_LEVEL", "warn")

		var cfg fileTestConfig
		require.NoError(t, Load(path, &cfg))
		require.Equal(t, 8080, cfg.Port)
		require.Equal(t, "warn", cfg.Level)
	})

	t.Run("empty path only reads env", func(t *testing.T) {
		t.Setenv("MRZ_TEST_PORT", "9000")

		var cfg fileTestConfig
		require.NoError(t, Load("", &cfg))
		require.Equal(t, 9000, cfg.Port)
	})

	t.Run("missing file fails", func(t *testing.T) {
		var cfg fileTestConfig
		err := Load(filepath.Join(t.TempDir(), "nope.json"), &cfg)
		require.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("invalid json fails", func(t *testing.T) {
		path := writeConfig(t, `{"port":`)

		var cfg fileTestConfig
		err := Load(path, &cfg)
		require.ErrorContains(t, err, "failed to parse config file")
	})
}
