package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func isolatedLoader(t *testing.T, env map[string]string, opts ...LoaderOption) *Loader {
	t.Helper()
	dir := t.TempDir()
	base := []LoaderOption{
		WithConfigFile(filepath.Join(dir, "missing.yaml")),
		WithEnvFiles(filepath.Join(dir, "missing.env")),
		WithLookup(envMap(env)),
	}
	return NewLoader(append(base, opts...)...)
}

func TestLoader_DefaultsWhenNothingPresent(t *testing.T) {
	cfg, err := isolatedLoader(t, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, NewConfig().API, cfg.API)
}

func TestLoader_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
api:
  base_url: https://board.example.com
application:
  timeout: 15s
timeline:
  layout_mode: cluster
  work_start: "08:00"
import:
  concurrency: 2
`)

	cfg, err := isolatedLoader(t, nil, WithConfigFile(path)).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://board.example.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Application.Timeout)
	assert.Equal(t, "cluster", cfg.Timeline.LayoutMode)
	assert.Equal(t, "08:00", cfg.Timeline.WorkStart)
	assert.Equal(t, "18:00", cfg.Timeline.WorkEnd, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Import.Concurrency)
}

func TestLoader_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "api: [unclosed")

	_, err := isolatedLoader(t, nil, WithConfigFile(path)).Load()
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoader_Precedence(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "config.yaml", "api:\n  base_url: https://from-yaml.example.com\nimport:\n  concurrency: 2\n")
	envPath := writeFile(t, dir, ".env", "KB_API_URL=https://from-dotenv.example.com\nKB_IMPORT_CONCURRENCY=4\nKB_APP_TIMEOUT=9s\n")

	loader := isolatedLoader(t,
		map[string]string{"KB_API_URL": "https://from-env.example.com"},
		WithConfigFile(yamlPath),
		WithEnvFiles(envPath),
	)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.com", cfg.API.BaseURL, "process env beats .env")
	assert.Equal(t, 4, cfg.Import.Concurrency, ".env beats yaml")
	assert.Equal(t, 9*time.Second, cfg.Application.Timeout)
}

func TestLoader_EarlierEnvFileWins(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.env", "KB_DB_FILENAME=first.db\n")
	second := writeFile(t, dir, "second.env", "KB_DB_FILENAME=second.db\nKB_DB_DIR=/tmp/second\n")

	cfg, err := isolatedLoader(t, nil, WithEnvFiles(first, second)).Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/second/first.db", cfg.GetDatabasePath())
}

func TestLoader_InvalidEnvValueFailsValidation(t *testing.T) {
	_, err := isolatedLoader(t, map[string]string{"KB_TIMELINE_LAYOUT": "diagonal"}).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeline.layout_mode")
}

func TestLoadWithOverrides(t *testing.T) {
	url := "https://flag.example.com"
	timeout := 3 * time.Second
	verbose := true
	mode := "cluster"
	concurrency := 16
	dir := "/tmp/flag"

	cfg, err := isolatedLoader(t, nil).LoadWithOverrides(&ConfigOverrides{
		APIURL:            &url,
		DBDir:             &dir,
		Timeout:           &timeout,
		Verbose:           &verbose,
		LayoutMode:        &mode,
		ImportConcurrency: &concurrency,
	})
	require.NoError(t, err)

	assert.Equal(t, url, cfg.API.BaseURL)
	assert.Equal(t, dir, cfg.Database.Dir)
	assert.Equal(t, timeout, cfg.Application.Timeout)
	assert.True(t, cfg.Application.Verbose)
	assert.Equal(t, "cluster", cfg.Timeline.LayoutMode)
	assert.Equal(t, 16, cfg.Import.Concurrency)
}

func TestLoadWithOverrides_Revalidates(t *testing.T) {
	zero := 0
	_, err := isolatedLoader(t, nil).LoadWithOverrides(&ConfigOverrides{ImportConcurrency: &zero})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import.concurrency")
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDurationWithFallback("2s", time.Minute))
	assert.Equal(t, time.Minute, ParseDurationWithFallback("x", time.Minute))
	assert.Equal(t, 7, ParseIntWithFallback("7", 1))
	assert.Equal(t, 1, ParseIntWithFallback("seven", 1))
	assert.True(t, ParseBoolWithFallback("1", false))
	assert.False(t, ParseBoolWithFallback("nah", false))
	assert.Equal(t, uint32(0700), ParseUint32WithFallback("700", 8, 0755))
	assert.Equal(t, uint32(0755), ParseUint32WithFallback("9", 8, 0755))
}
