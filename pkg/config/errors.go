// Package config parses ini style configuration files, such as mission
// files, with option access tracking and validation.
package config

import (
	"fmt"

	"autonav-go/pkg/errors"
)

// ErrMissingSection returns an error for a missing section.
func ErrMissingSection(section string) *errors.CoreError {
	return errors.ConfigSectionError(section)
}

// ErrMissingOption returns an error for a required but missing option.
func ErrMissingOption(section, option string) *errors.CoreError {
	return errors.ConfigOptionError(section, option)
}

// ErrInvalidValue returns an error for a value that cannot be parsed as the
// expected type.
func ErrInvalidValue(section, option, value, expected string) *errors.CoreError {
	return errors.ConfigTypeError(section, option, value, expected, nil)
}

// ErrOutOfRange returns an error for a value outside the allowed range.
func ErrOutOfRange(section, option string, value float64, constraint string) *errors.CoreError {
	return errors.ConfigValidationError(section, option, fmt.Sprintf("value %v %s", value, constraint))
}

// ErrInvalidChoice returns an error for a value outside the valid choices.
func ErrInvalidChoice(section, option, value string, choices []string) *errors.CoreError {
	return errors.ConfigValidationError(section, option,
		fmt.Sprintf("'%s' is not a valid choice (valid: %v)", value, choices))
}
