// Unified error handling for the autonav host software
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	"fmt"
	"runtime"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Configuration errors
	ErrConfigSection    ErrorCode = "CONFIG_SECTION"
	ErrConfigOption     ErrorCode = "CONFIG_OPTION"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"
	ErrConfigType       ErrorCode = "CONFIG_TYPE"

	// Trajectory errors
	ErrSolverArgs ErrorCode = "SOLVER_ARGS"
	ErrPathLimits ErrorCode = "PATH_LIMITS"

	// Mission errors
	ErrMissionWaypoint ErrorCode = "MISSION_WAYPOINT"
	ErrMissionEmpty    ErrorCode = "MISSION_EMPTY"

	// Runtime errors
	ErrRuntime          ErrorCode = "RUNTIME"
	ErrRuntimeInit      ErrorCode = "RUNTIME_INIT"
	ErrRuntimeTelemetry ErrorCode = "RUNTIME_TELEMETRY"
)

// CoreError is the unified error type for the host system
type CoreError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Section is the config section or component context
	Section string

	// Option is the config option name (if applicable)
	Option string

	// Err wraps the underlying error
	Err error

	// Context provides additional context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *CoreError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Option, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Code, e.Section, e.Message)
}

// Unwrap returns the underlying error
func (e *CoreError) Unwrap() error {
	return e.Err
}

// SetSection sets the context section
func (e *CoreError) SetSection(section string) *CoreError {
	e.Section = section
	return e
}

// SetOption sets the config option
func (e *CoreError) SetOption(option string) *CoreError {
	e.Option = option
	return e
}

// SetContext adds additional context
func (e *CoreError) SetContext(key string, value interface{}) *CoreError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *CoreError {
	return &CoreError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// New creates a new CoreError
func New(code ErrorCode, message string) *CoreError {
	return &CoreError{
		Code:    code,
		Message: message,
	}
}

// Config errors

// ConfigSectionError creates an error for missing config section
func ConfigSectionError(section string) *CoreError {
	return New(ErrConfigSection, fmt.Sprintf("section '%s' not found", section)).
		SetSection(section)
}

// ConfigOptionError creates an error for missing or invalid config option
func ConfigOptionError(section, option string) *CoreError {
	return New(ErrConfigOption, fmt.Sprintf("option '%s' not found in section '%s'", option, section)).
		SetSection(section).
		SetOption(option)
}

// ConfigValidationError creates an error for config validation failure
func ConfigValidationError(section, option string, reason string) *CoreError {
	return New(ErrConfigValidation, fmt.Sprintf("option '%s' in section '%s': %s", option, section, reason)).
		SetSection(section).
		SetOption(option)
}

// ConfigTypeError creates an error for config type conversion failure
func ConfigTypeError(section, option, value string, targetType string, err error) *CoreError {
	return Wrap(err, ErrConfigType, fmt.Sprintf("option '%s' in section '%s': failed to parse '%s' as %s", option, section, value, targetType)).
		SetSection(section).
		SetOption(option)
}

// Trajectory errors

// SolverArgsError creates an internal-consistency error for a duration
// solver call with a non-positive argument. This always indicates a caller
// defect, never a runtime condition.
func SolverArgsError(param string, value float64) *CoreError {
	return New(ErrSolverArgs, fmt.Sprintf("duration solver requires positive %s, got %g", param, value)).
		SetSection("scurve").
		SetContext(param, value)
}

// PathLimitsError creates an error for degenerate kinematic limits
func PathLimitsError(message string) *CoreError {
	return New(ErrPathLimits, message).SetSection("scurve")
}

// Mission errors

// MissionWaypointError creates an error for an invalid waypoint definition
func MissionWaypointError(name string, reason string) *CoreError {
	return New(ErrMissionWaypoint, fmt.Sprintf("waypoint '%s': %s", name, reason)).
		SetSection("mission")
}

// MissionEmptyError creates an error for a mission without enough waypoints
func MissionEmptyError() *CoreError {
	return New(ErrMissionEmpty, "mission needs at least two waypoints").
		SetSection("mission")
}

// Runtime errors

// RuntimeError creates a general runtime error
func RuntimeError(message string) *CoreError {
	return New(ErrRuntime, message)
}

// RuntimeErrorInit creates an error for initialization failure
func RuntimeErrorInit(component string, reason string) *CoreError {
	return New(ErrRuntimeInit, fmt.Sprintf("failed to initialize %s: %s", component, reason))
}

// TelemetryError creates an error for a telemetry server failure
func TelemetryError(operation string, reason string) *CoreError {
	return New(ErrRuntimeTelemetry, fmt.Sprintf("telemetry %s failed: %s", operation, reason))
}

// RecoverPanic safely recovers from panic and converts to error
func RecoverPanic() *CoreError {
	if r := recover(); r != nil {
		var err error
		switch x := r.(type) {
		case string:
			err = RuntimeError(fmt.Sprintf("panic: %s", x))
		case runtime.Error:
			err = RuntimeError(x.Error())
		case error:
			err = RuntimeError(x.Error())
		default:
			err = RuntimeError(fmt.Sprintf("panic: %v", x))
		}
		return err.(*CoreError)
	}
	return nil
}

// Is checks if error matches given error code
func Is(err error, code ErrorCode) bool {
	if coreErr, ok := err.(*CoreError); ok {
		return coreErr.Code == code
	}
	return false
}

// IsConfig checks if error is a config error
func IsConfig(err error) bool {
	return Is(err, ErrConfigSection) ||
		Is(err, ErrConfigOption) ||
		Is(err, ErrConfigValidation) ||
		Is(err, ErrConfigType)
}

// IsMission checks if error is a mission error
func IsMission(err error) bool {
	return Is(err, ErrMissionWaypoint) || Is(err, ErrMissionEmpty)
}
