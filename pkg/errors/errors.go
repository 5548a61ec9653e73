// Unified error handling for the LibLaserCut Go migration
//
// Copyright (C) 2026  Go Migration Team
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

	// Job script errors
	ErrJobParse        ErrorCode = "JOB_PARSE"
	ErrJobUnknownCmd   ErrorCode = "JOB_UNKNOWN_CMD"
	ErrJobMissingParam ErrorCode = "JOB_MISSING_PARAM"
	ErrJobInvalidParam ErrorCode = "JOB_INVALID_PARAM"
	ErrJobValidation   ErrorCode = "JOB_VALIDATION"

	// Driver errors
	ErrDriverResolution ErrorCode = "DRIVER_RESOLUTION"
	ErrDriverCoordinate ErrorCode = "DRIVER_COORDINATE"
	ErrDriverProfile    ErrorCode = "DRIVER_PROFILE"

	// Transport errors
	ErrTransportWrite  ErrorCode = "TRANSPORT_WRITE"
	ErrTransportClosed ErrorCode = "TRANSPORT_CLOSED"

	// Runtime errors
	ErrRuntime     ErrorCode = "RUNTIME"
	ErrRuntimeInit ErrorCode = "RUNTIME_INIT"

	// History store errors
	ErrHistory ErrorCode = "HISTORY"
)

// DriverError is the unified error type for the driver host
type DriverError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// File is the source file (if available)
	File string

	// Line is the line number in the source or script file (if available)
	Line int

	// Section is the config section or context
	Section string

	// Option is the config option name (if applicable)
	Option string

	// Err wraps the underlying error
	Err error

	// Context provides additional context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *DriverError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Option, e.Message)
	}
	if e.Section != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Section, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DriverError) Unwrap() error {
	return e.Err
}

// SetFile sets the source file
func (e *DriverError) SetFile(file string) *DriverError {
	e.File = file
	return e
}

// SetLine sets the line number
func (e *DriverError) SetLine(line int) *DriverError {
	e.Line = line
	return e
}

// SetSection sets the context section
func (e *DriverError) SetSection(section string) *DriverError {
	e.Section = section
	return e
}

// SetOption sets the config option
func (e *DriverError) SetOption(option string) *DriverError {
	e.Option = option
	return e
}

// SetContext adds additional context
func (e *DriverError) SetContext(key string, value interface{}) *DriverError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *DriverError {
	return &DriverError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// New creates a new DriverError
func New(code ErrorCode, message string) *DriverError {
	return &DriverError{
		Code:    code,
		Message: message,
	}
}

// Config errors

// ConfigSectionError creates an error for missing config section
func ConfigSectionError(section string) *DriverError {
	return New(ErrConfigSection, fmt.Sprintf("section '%s' not found", section)).
		SetSection(section)
}

// ConfigOptionError creates an error for missing or invalid config option
func ConfigOptionError(section, option string) *DriverError {
	return New(ErrConfigOption, fmt.Sprintf("option '%s' not found in section '%s'", option, section)).
		SetSection(section).
		SetOption(option)
}

// ConfigValidationError creates an error for config validation failure
func ConfigValidationError(section, option string, reason string) *DriverError {
	return New(ErrConfigValidation, fmt.Sprintf("option '%s' in section '%s': %s", option, section, reason)).
		SetSection(section).
		SetOption(option)
}

// ConfigTypeError creates an error for config type conversion failure
func ConfigTypeError(section, option, value string, targetType string, err error) *DriverError {
	return Wrap(err, ErrConfigType, fmt.Sprintf("option '%s' in section '%s': failed to parse '%s' as %s", option, section, value, targetType)).
		SetSection(section).
		SetOption(option)
}

// Job script errors

// JobParseError creates an error for job script parsing failure
func JobParseError(line string, reason string) *DriverError {
	return New(ErrJobParse, fmt.Sprintf("failed to parse job line: %s (reason: %s)", line, reason))
}

// JobUnknownCommandError creates an error for an unknown job directive
func JobUnknownCommandError(command string) *DriverError {
	return New(ErrJobUnknownCmd, fmt.Sprintf("unknown job directive: %s", command))
}

// JobMissingParameterError creates an error for a missing directive parameter
func JobMissingParameterError(command, param string) *DriverError {
	return New(ErrJobMissingParam, fmt.Sprintf("job directive '%s' missing required parameter: %s", command, param))
}

// JobInvalidParameterError creates an error for an invalid directive parameter
func JobInvalidParameterError(command, param, value string, reason string) *DriverError {
	return New(ErrJobInvalidParam, fmt.Sprintf("job directive '%s': invalid parameter '%s=%s' (%s)", command, param, value, reason))
}

// JobValidationError creates an error for a job that fails validation
func JobValidationError(message string) *DriverError {
	return New(ErrJobValidation, message)
}

// Driver errors

// InvalidResolutionError creates an error for a non-positive resolution
func InvalidResolutionError(dpi float64) *DriverError {
	return New(ErrDriverResolution, fmt.Sprintf("resolution %v dpi is not positive", dpi))
}

// UnsupportedResolutionError creates an error for a resolution outside the device whitelist
func UnsupportedResolutionError(dpi float64, supported []float64) *DriverError {
	return New(ErrDriverResolution, fmt.Sprintf("resolution %v dpi not supported (supported: %v)", dpi, supported))
}

// InvalidCoordinateError creates an error for a non-finite numeric input
func InvalidCoordinateError(name string, value float64) *DriverError {
	return New(ErrDriverCoordinate, fmt.Sprintf("%s value %v is not finite", name, value))
}

// UnknownProfileError creates an error for an unknown device profile
func UnknownProfileError(name string, known []string) *DriverError {
	return New(ErrDriverProfile, fmt.Sprintf("unknown device profile '%s' (known: %v)", name, known))
}

// Transport errors

// TransportWriteError creates an error for a failed line write
func TransportWriteError(err error) *DriverError {
	return Wrap(err, ErrTransportWrite, "line write failed")
}

// TransportClosedError creates an error for use after close
func TransportClosedError() *DriverError {
	return New(ErrTransportClosed, "transport is closed")
}

// Runtime errors

// RuntimeError creates a general runtime error
func RuntimeError(message string) *DriverError {
	return New(ErrRuntime, message)
}

// RuntimeErrorInit creates an error for initialization failure
func RuntimeErrorInit(component string, reason string) *DriverError {
	return New(ErrRuntimeInit, fmt.Sprintf("failed to initialize %s: %s", component, reason))
}

// History errors

// HistoryError creates a job history store error
func HistoryError(operation string, err error) *DriverError {
	return Wrap(err, ErrHistory, fmt.Sprintf("history %s failed", operation))
}

// Helper functions for adding context

// WithScriptPath adds the job script path to error context
func WithScriptPath(err *DriverError, path string) *DriverError {
	if err == nil {
		return nil
	}
	err.SetContext("script_path", path)
	return err
}

// WithLineNumber adds line number to error context
func WithLineNumber(err *DriverError, line int) *DriverError {
	if err == nil {
		return nil
	}
	err.SetLine(line)
	return err
}

// RecoverPanic safely recovers from panic and converts to error
func RecoverPanic() *DriverError {
	if r := recover(); r != nil {
		// Convert panic to DriverError
		var err error
		switch x := r.(type) {
		case string:
			err = RuntimeError(fmt.Sprintf("panic: %s", x))
		case error:
			err = RuntimeError(x.Error())
		case runtime.Error:
			err = RuntimeError(x.Error())
		default:
			err = RuntimeError(fmt.Sprintf("panic: %v", x))
		}
		return err.(*DriverError)
	}
	return nil
}

// Is checks if error matches given error code
func Is(err error, code ErrorCode) bool {
	if driverErr, ok := err.(*DriverError); ok {
		return driverErr.Code == code
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

// IsJob checks if error is a job script error
func IsJob(err error) bool {
	return Is(err, ErrJobParse) ||
		Is(err, ErrJobUnknownCmd) ||
		Is(err, ErrJobMissingParam) ||
		Is(err, ErrJobInvalidParam) ||
		Is(err, ErrJobValidation)
}

// IsDriver checks if error is a driver error
func IsDriver(err error) bool {
	return Is(err, ErrDriverResolution) ||
		Is(err, ErrDriverCoordinate) ||
		Is(err, ErrDriverProfile)
}

// IsTransport checks if error is a transport error
func IsTransport(err error) bool {
	return Is(err, ErrTransportWrite) ||
		Is(err, ErrTransportClosed)
}
