package errors

import (
	"fmt"
	"strings"
)

// ConfigurationError is raised when configuration is invalid or missing
type ConfigurationError struct {
	*AppError
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string) *ConfigurationError {
	return &ConfigurationError{
		AppError: &AppError{
			Message:  message,
			ExitCode: ExitConfigError,
		},
	}
}

// MissingEnvVarError is raised when a required setting is absent from every source
type MissingEnvVarError struct {
	*AppError
}

// NewMissingEnvVarError creates a new missing environment variable error.
// configKey is the dotted YAML key that can be used instead of the variable.
func NewMissingEnvVarError(varName, configKey, description string) *MissingEnvVarError {
	return &MissingEnvVarError{
		AppError: &AppError{
			Message: fmt.Sprintf("Required setting '%s' is not set", varName),
			Context: &ErrorContext{
				Operation: "Loading configuration",
				Component: "Environment",
				Details: map[string]interface{}{
					"variable":    varName,
					"config_key":  configKey,
					"description": description,
				},
				Suggestions: []string{
					fmt.Sprintf("Export the variable: export %s='your-value'", varName),
					fmt.Sprintf("Add %s to shopchat.yaml", yamlPath(configKey)),
					"Check .env.example for required variables",
				},
			},
			ExitCode: ExitConfigError,
		},
	}
}

// yamlPath renders llm.api_key as "llm: api_key"
func yamlPath(key string) string {
	return strings.ReplaceAll(key, ".", ": ")
}

// InvalidEnvVarError is raised when a setting has an invalid value
type InvalidEnvVarError struct {
	*AppError
}

// NewInvalidEnvVarError creates a new invalid setting error
func NewInvalidEnvVarError(varName, value, reason string) *InvalidEnvVarError {
	return &InvalidEnvVarError{
		AppError: &AppError{
			Message: fmt.Sprintf("Setting '%s' has an invalid value", varName),
			Context: &ErrorContext{
				Operation: "Validating configuration",
				Component: "Environment",
				Details: map[string]interface{}{
					"variable": varName,
					"value":    value,
					"reason":   reason,
				},
				Suggestions: []string{
					fmt.Sprintf("Check the value of %s in your .env file or shopchat.yaml", varName),
				},
			},
			ExitCode: ExitConfigError,
		},
	}
}

// ConfigFileError is raised when a configuration file cannot be read or parsed
type ConfigFileError struct {
	*AppError
}

// NewConfigFileError creates a new config file error
func NewConfigFileError(filePath string, cause error) *ConfigFileError {
	return &ConfigFileError{
		AppError: &AppError{
			Message: fmt.Sprintf("Failed to load configuration file: %s", filePath),
			Cause:   cause,
			Context: &ErrorContext{
				Operation: "Loading configuration",
				Component: "Config File",
				Details: map[string]interface{}{
					"file_path": filePath,
				},
				Suggestions: []string{
					"Check that the file exists and is readable",
					"Validate YAML syntax",
				},
			},
			ExitCode: ExitConfigError,
		},
	}
}
