package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Server)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server: https://chat.example.com\nhistory_limit: 100\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, dir)

	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com", cfg.Server)
	assert.Equal(t, 100, cfg.HistoryLimit)
	// Unset fields keep defaults.
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoad_InvalidYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0o644))

	_, err := Load(path, dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.DataDir = "/tmp/parlor"
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("bad scheme", func(t *testing.T) {
		cfg := valid()
		cfg.Server = "ftp://example.com"

		err := cfg.Validate()

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Equal(t, "server", fieldErrs[0].Field)
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := valid()
		cfg.Server = "http://"
		assert.Error(t, cfg.Validate())
	})

	t.Run("collects multiple errors", func(t *testing.T) {
		cfg := valid()
		cfg.Server = "not a url at all ://"
		cfg.HistoryLimit = -1
		cfg.Timeout = time.Millisecond

		err := cfg.Validate()

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.GreaterOrEqual(t, len(fieldErrs), 2)
	})
}
