package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/skillshop/pkg/tmpl"
)

// Validate checks the values every command depends on.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", errors.New("data directory cannot be empty"))
	}

	if err := validateBaseURL(c.API.BaseURL); err != nil {
		errs = errs.Append("api.base_url", err)
	}
	if c.API.Timeout <= 0 {
		errs = errs.Append("api.timeout", errors.New("must be greater than zero"))
	}
	if c.Checkout.PaymentDelay < 0 {
		errs = errs.Append("checkout.payment_delay", errors.New("cannot be negative"))
	}
	if !isCurrencyCode(c.Checkout.Currency) {
		errs = errs.Append("checkout.currency", fmt.Errorf("%q is not a three letter currency code", c.Checkout.Currency))
	}
	if c.Catalog.PageSize < 1 || c.Catalog.PageSize > 100 {
		errs = errs.Append("catalog.page_size", errors.New("must be between 1 and 100"))
	}

	return errs.ToError()
}

// ValidateDeep performs Validate plus checks of the config file, the data
// directory and hook template syntax.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrorsBuilder

	if err := c.Validate(); err != nil {
		var fieldErrs criterio.FieldErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = errs.Append(fe.Field, fe.Err)
		}
	}

	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil && info.IsDir() {
			errs = errs.Append("config", fmt.Errorf("%s is a directory, not a file", configPath))
		} else if err != nil && !os.IsNotExist(err) {
			errs = errs.Append("config", fmt.Errorf("cannot access %s: %w", configPath, err))
		}
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
			errs = errs.Append("data_dir", fmt.Errorf("%s exists but is not a directory", c.DataDir))
		}
	}

	sample := HookTemplateData{Courses: []string{}}
	for i, cmd := range c.Hooks.PostCheckout {
		field := fmt.Sprintf("hooks.post_checkout[%d]", i)
		if strings.TrimSpace(cmd) == "" {
			errs = errs.Append(field, errors.New("command is empty"))
			continue
		}
		if _, err := tmpl.Render(cmd, sample); err != nil {
			errs = errs.Append(field, fmt.Errorf("template error: %w", err))
		}
	}

	return errs.ToError()
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
