package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig(t).Validate())
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := &Config{
		API:      APIConfig{BaseURL: "localhost:5000", Timeout: 0},
		Checkout: CheckoutConfig{PaymentDelay: -time.Second, Currency: "usd"},
		Catalog:  CatalogConfig{PageSize: 500},
	}

	assert.ElementsMatch(t, []string{
		"data_dir",
		"api.base_url",
		"api.timeout",
		"checkout.payment_delay",
		"checkout.currency",
		"catalog.page_size",
	}, fieldsOf(t, cfg.Validate()))
}

func TestValidate_BaseURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"http://localhost:5000/api/v1", true},
		{"https://shop.example.com", true},
		{"ftp://shop.example.com", false},
		{"https://", false},
		{"", false},
	}

	for _, tt := range tests {
		cfg := validConfig(t)
		cfg.API.BaseURL = tt.url
		if tt.valid {
			assert.NoError(t, cfg.Validate(), tt.url)
		} else {
			assert.Error(t, cfg.Validate(), tt.url)
		}
	}
}

func TestValidateDeep_ValidHooks(t *testing.T) {
	cfg := validConfig(t)
	cfg.Hooks.PostCheckout = []string{
		"echo {{ .OrderID }} {{ .Total }}",
		`notify-send "order {{ .ConfirmationCode | shq }}"`,
		`{{ range .Courses }}echo {{ shq . }};{{ end }}`,
	}

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_InvalidHookTemplate(t *testing.T) {
	cfg := validConfig(t)
	cfg.Hooks.PostCheckout = []string{"echo {{ .OrderID }", "echo {{ .Missing }}", "  "}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 3)
	assert.Equal(t, "hooks.post_checkout[0]", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "template error")
	assert.Equal(t, "hooks.post_checkout[1]", fieldErrs[1].Field)
	assert.Contains(t, fieldErrs[2].Err.Error(), "empty")
}

func TestValidateDeep_IncludesBasicChecks(t *testing.T) {
	cfg := validConfig(t)
	cfg.Catalog.PageSize = 0

	assert.Equal(t, []string{"catalog.page_size"}, fieldsOf(t, cfg.ValidateDeep("")))
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "data_dir", fieldErrs[0].Field)
	assert.True(t, strings.Contains(fieldErrs[0].Err.Error(), "not a directory"))
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	assert.Equal(t, []string{"config"}, fieldsOf(t, err))
}
