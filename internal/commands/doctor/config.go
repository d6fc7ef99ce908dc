package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/parlor/internal/core/config"
)

// ConfigCheck validates the configuration file and data directory.
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
		result.Items = append(result.Items, CheckItem{
			Label:  "Config loaded",
			Status: StatusFail,
			Detail: "configuration not loaded",
		})
		return result
	}

	if err := c.config.Validate(); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				label := fe.Field
				if label == "" {
					label = "validation"
				}
				result.Items = append(result.Items, CheckItem{
					Label:  label,
					Status: StatusFail,
					Detail: fe.Err.Error(),
				})
			}
		} else {
			result.Items = append(result.Items, CheckItem{
				Label:  "validation",
				Status: StatusFail,
				Detail: err.Error(),
			})
		}
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "Config valid",
			Status: StatusPass,
			Detail: c.config.Server,
		})
	}

	result.Items = append(result.Items, c.checkDataDir())
	return result
}

// checkDataDir verifies the data directory exists and is writable.
func (c *ConfigCheck) checkDataDir() CheckItem {
	info, err := os.Stat(c.config.DataDir)
	switch {
	case os.IsNotExist(err):
		return CheckItem{
			Label:  "Data directory",
			Status: StatusWarn,
			Detail: c.config.DataDir + " does not exist yet; it is created on first login",
		}
	case err != nil:
		return CheckItem{
			Label:  "Data directory",
			Status: StatusFail,
			Detail: err.Error(),
		}
	case !info.IsDir():
		return CheckItem{
			Label:  "Data directory",
			Status: StatusFail,
			Detail: c.config.DataDir + " is not a directory",
		}
	}
	return CheckItem{
		Label:  "Data directory",
		Status: StatusPass,
		Detail: c.config.DataDir,
	}
}
