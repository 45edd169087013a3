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
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Checkout.PaymentDelay)
	assert.Equal(t, "USD", cfg.Checkout.Currency)
	assert.Equal(t, 12, cfg.Catalog.PageSize)
	assert.Equal(t, filepath.Join(dataDir, "state.json"), cfg.StateFile())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API, cfg.API)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
api:
  base_url: https://shop.example.com/api/v1
  timeout: 30s
checkout:
  payment_delay: 0s
  currency: EUR
catalog:
  page_size: 24
hooks:
  post_checkout:
    - echo {{ .ConfirmationCode }}
`)

	cfg, err := Load(path, dir)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Checkout.PaymentDelay)
	assert.Equal(t, "EUR", cfg.Checkout.Currency)
	assert.Equal(t, 24, cfg.Catalog.PageSize)
	assert.Equal(t, []string{"echo {{ .ConfirmationCode }}"}, cfg.Hooks.PostCheckout)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "api:\n  base_url: https://file.example.com\n")

	t.Setenv("SKILLSHOP_API_BASE_URL", "https://env.example.com/api/v1")
	t.Setenv("SKILLSHOP_CHECKOUT_PAYMENT_DELAY", "250ms")
	t.Setenv("SKILLSHOP_CATALOG_PAGE_SIZE", "6")

	cfg, err := Load(path, dir)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Checkout.PaymentDelay)
	assert.Equal(t, 6, cfg.Catalog.PageSize)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("SKILLSHOP_API_TIMEOUT", "soon")

	_, err := Load("", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SKILLSHOP_API_TIMEOUT")
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "api: [")

	_, err := Load(path, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "api:\n  base_url: ftp://nowhere\n")

	_, err := Load(path, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "SKILLSHOP_TEST_ONLY=from-dotenv\n")
	t.Cleanup(func() { _ = os.Unsetenv("SKILLSHOP_TEST_ONLY") })

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-dotenv", os.Getenv("SKILLSHOP_TEST_ONLY"))
}

func TestLoadEnvFiles_ExistingEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "SKILLSHOP_API_BASE_URL=https://dotenv.example.com\n")
	t.Setenv("SKILLSHOP_API_BASE_URL", "https://shell.example.com")

	require.NoError(t, LoadEnvFiles(path))
	assert.Equal(t, "https://shell.example.com", os.Getenv("SKILLSHOP_API_BASE_URL"))
}
