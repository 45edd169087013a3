package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/skillshop/internal/core/config"
)

// ConfigCheck validates the configuration file.
type ConfigCheck struct {
	config     *config.Config
	configPath string
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{
		config:     cfg,
		configPath: configPath,
	}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.add("Config loaded", StatusFail, "configuration not loaded")
		return result
	}

	err := c.config.ValidateDeep(c.configPath)
	if err == nil {
		result.add("Config valid", StatusPass, c.config.API.BaseURL)
		if len(c.config.Hooks.PostCheckout) > 0 {
			result.add("Hooks", StatusPass, pluralize(len(c.config.Hooks.PostCheckout), "post_checkout command"))
		}
		return result
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		result.add("validation", StatusFail, err.Error())
		return result
	}

	for _, fe := range fieldErrs {
		label := fe.Field
		if label == "" {
			label = "validation"
		}
		result.add(label, StatusFail, fe.Err.Error())
	}
	return result
}
