// Unified error handling for the AI8X synthesis tools
//
// Copyright (C) 2026  AI8X Go Tools
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

	// Register script errors
	ErrScriptParse        ErrorCode = "SCRIPT_PARSE"
	ErrScriptUnknownOp    ErrorCode = "SCRIPT_UNKNOWN_OP"
	ErrScriptMissingParam ErrorCode = "SCRIPT_MISSING_PARAM"
	ErrScriptInvalidParam ErrorCode = "SCRIPT_INVALID_PARAM"

	// Device profile errors
	ErrDevice ErrorCode = "DEVICE"

	// Write scheduling errors
	ErrOverwrite ErrorCode = "OVERWRITE"
	ErrEmit      ErrorCode = "EMIT"

	// Runtime errors
	ErrRuntime     ErrorCode = "RUNTIME"
	ErrRuntimeInit ErrorCode = "RUNTIME_INIT"
)

// SynthError is the unified error type for the synthesis tools
type SynthError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// File is the input file (if available)
	File string

	// Line is the line number in the input file (if available)
	Line int

	// Section is the config section or context
	Section string

	// Option is the config option name (if applicable)
	Option string

	// Addr is the peripheral address involved (if applicable)
	Addr uint32

	// Err wraps the underlying error
	Err error

	// Context provides additional context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *SynthError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Option, e.Message)
	}
	if e.Section != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Section, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *SynthError) Unwrap() error {
	return e.Err
}

// SetFile sets the input file
func (e *SynthError) SetFile(file string) *SynthError {
	e.File = file
	return e
}

// SetLine sets the line number
func (e *SynthError) SetLine(line int) *SynthError {
	e.Line = line
	return e
}

// SetSection sets the context section
func (e *SynthError) SetSection(section string) *SynthError {
	e.Section = section
	return e
}

// SetOption sets the config option
func (e *SynthError) SetOption(option string) *SynthError {
	e.Option = option
	return e
}

// SetContext adds additional context
func (e *SynthError) SetContext(key string, value interface{}) *SynthError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *SynthError {
	return &SynthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// New creates a new SynthError
func New(code ErrorCode, message string) *SynthError {
	return &SynthError{
		Code:    code,
		Message: message,
	}
}

// Config errors

// ConfigSectionError creates an error for missing config section
func ConfigSectionError(section string) *SynthError {
	return New(ErrConfigSection, fmt.Sprintf("section '%s' not found", section)).
		SetSection(section)
}

// ConfigOptionError creates an error for missing or invalid config option
func ConfigOptionError(section, option string) *SynthError {
	return New(ErrConfigOption, fmt.Sprintf("option '%s' not found in section '%s'", option, section)).
		SetSection(section).
		SetOption(option)
}

// ConfigValidationError creates an error for config validation failure
func ConfigValidationError(section, option string, reason string) *SynthError {
	return New(ErrConfigValidation, fmt.Sprintf("option '%s' in section '%s': %s", option, section, reason)).
		SetSection(section).
		SetOption(option)
}

// ConfigTypeError creates an error for config type conversion failure
func ConfigTypeError(section, option, value string, targetType string, err error) *SynthError {
	return Wrap(err, ErrConfigType, fmt.Sprintf("option '%s' in section '%s': failed to parse '%s' as %s", option, section, value, targetType)).
		SetSection(section).
		SetOption(option)
}

// Register script errors

// ScriptParseError creates an error for a malformed script line
func ScriptParseError(line string, reason string) *SynthError {
	return New(ErrScriptParse, fmt.Sprintf("failed to parse script line: %s (reason: %s)", line, reason))
}

// ScriptUnknownOpError creates an error for an unknown script operation
func ScriptUnknownOpError(op string) *SynthError {
	return New(ErrScriptUnknownOp, fmt.Sprintf("unknown script operation: %s", op))
}

// ScriptMissingParameterError creates an error for a missing script parameter
func ScriptMissingParameterError(op, param string) *SynthError {
	return New(ErrScriptMissingParam, fmt.Sprintf("script operation '%s' missing required parameter: %s", op, param))
}

// ScriptInvalidParameterError creates an error for an invalid script parameter
func ScriptInvalidParameterError(op, param, value string, reason string) *SynthError {
	return New(ErrScriptInvalidParam, fmt.Sprintf("script operation '%s': invalid parameter '%s=%s' (%s)", op, param, value, reason))
}

// Device errors

// DeviceError creates a device profile error
func DeviceError(message string) *SynthError {
	return New(ErrDevice, message)
}

// Write scheduling errors

// OverwriteError creates an error for a duplicate word write. The offending
// address is carried in the Addr field for diagnostics.
func OverwriteError(addr uint32) *SynthError {
	e := New(ErrOverwrite, fmt.Sprintf("overwriting location %08x", addr))
	e.Addr = addr
	return e
}

// EmitError wraps an output sink failure
func EmitError(err error) *SynthError {
	return Wrap(err, ErrEmit, "unable to write output")
}

// Runtime errors

// RuntimeError creates a general runtime error
func RuntimeError(message string) *SynthError {
	return New(ErrRuntime, message)
}

// RuntimeErrorInit creates an error for initialization failure
func RuntimeErrorInit(component string, reason string) *SynthError {
	return New(ErrRuntimeInit, fmt.Sprintf("failed to initialize %s: %s", component, reason))
}

// Helper functions for adding context

// WithInputPath adds the input file path to error context
func WithInputPath(err *SynthError, path string) *SynthError {
	if err == nil {
		return nil
	}
	err.SetFile(path)
	return err
}

// WithLineNumber adds line number to error context
func WithLineNumber(err *SynthError, line int) *SynthError {
	if err == nil {
		return nil
	}
	err.SetLine(line)
	return err
}

// RecoverPanic converts a panic into a coded runtime error. It must be
// deferred directly, with a pointer to the caller's named error return:
//
//	func run() (err error) {
//		defer errors.RecoverPanic(&err)
//		...
//	}
//
// When no panic is in flight the error is left untouched.
func RecoverPanic(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	switch x := r.(type) {
	case string:
		*errp = RuntimeError(fmt.Sprintf("panic: %s", x))
	case runtime.Error:
		*errp = RuntimeError(x.Error())
	case error:
		*errp = RuntimeError(x.Error())
	default:
		*errp = RuntimeError(fmt.Sprintf("panic: %v", x))
	}
}

// Is checks if error matches given error code
func Is(err error, code ErrorCode) bool {
	if synthErr, ok := err.(*SynthError); ok {
		return synthErr.Code == code
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

// IsScript checks if error is a register script error
func IsScript(err error) bool {
	return Is(err, ErrScriptParse) ||
		Is(err, ErrScriptUnknownOp) ||
		Is(err, ErrScriptMissingParam) ||
		Is(err, ErrScriptInvalidParam)
}

// IsOverwrite checks if error is an overwrite error
func IsOverwrite(err error) bool {
	return Is(err, ErrOverwrite)
}
