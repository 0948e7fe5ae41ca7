package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeOutput     ErrorType = "output"
)

// BenchError is a structured error type with context.
//
// Failures returned by a measured unit of work are never wrapped in a
// BenchError; they reach the caller exactly as the workload produced them.
type BenchError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	Workload string
}

// Error implements the error interface.
func (e *BenchError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Workload != "" {
		parts = append(parts, "workload:"+e.Workload)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *BenchError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *BenchError) Is(target error) bool {
	var t *BenchError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *BenchError) WithContext(key string, value interface{}) *BenchError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithWorkload records which workload the error concerns.
func (e *BenchError) WithWorkload(name string) *BenchError {
	e.Workload = name

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *BenchError {
	return &BenchError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string, cause error) *BenchError {
	return &BenchError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *BenchError {
	return &BenchError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewOutputError creates a report rendering error.
func NewOutputError(code, message string, cause error) *BenchError {
	return &BenchError{
		Type:    ErrorTypeOutput,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsValidationError checks if an error is validation-related.
func IsValidationError(err error) bool {
	var be *BenchError
	if errors.As(err, &be) {
		return be.Type == ErrorTypeValidation
	}

	return false
}

// IsConfigError checks if an error is configuration-related.
func IsConfigError(err error) bool {
	var be *BenchError
	if errors.As(err, &be) {
		return be.Type == ErrorTypeConfig
	}

	return false
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs an error at a level matching its category.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var be *BenchError
	if !errors.As(err, &be) {
		h.logger.Error(ctx, err, "Workload failed")
		return
	}

	fields := []interface{}{"type", be.Type, "code", be.Code}
	if be.Workload != "" {
		fields = append(fields, "workload", be.Workload)
	}

	switch be.Type {
	case ErrorTypeValidation, ErrorTypeConfig:
		h.logger.Warn(ctx, err, "Invalid benchmark settings", fields...)
	default:
		h.logger.Error(ctx, err, "Error occurred", fields...)
	}
}

// Common error codes.
const (
	ErrCodeInvalidCount      = "ERR_INVALID_COUNT"
	ErrCodeWorkloadNotFound  = "ERR_WORKLOAD_NOT_FOUND"
	ErrCodeConfigLoad        = "ERR_CONFIG_LOAD"
	ErrCodeUnsupportedFormat = "ERR_UNSUPPORTED_FORMAT"
	ErrCodeRenderFailed      = "ERR_RENDER_FAILED"
	ErrCodeWatchFailed       = "ERR_WATCH_FAILED"
	ErrCodeValidationFailed  = "ERR_VALIDATION_FAILED"
)

// ValidationError interface for field-specific validation errors.
type ValidationError interface {
	error
	Field() string
	Value() interface{}
	Suggestions() []string
}

// FieldValidationError implements ValidationError for specific field errors.
type FieldValidationError struct {
	FieldName    string
	FieldValue   interface{}
	ErrorMessage string
	HelpText     []string
}

// Error implements the error interface.
func (fve *FieldValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", fve.FieldName, fve.ErrorMessage)
}

// Field returns the field name that failed validation.
func (fve *FieldValidationError) Field() string {
	return fve.FieldName
}

// Value returns the invalid value.
func (fve *FieldValidationError) Value() interface{} {
	return fve.FieldValue
}

// Suggestions returns helpful suggestions for fixing the error.
func (fve *FieldValidationError) Suggestions() []string {
	return fve.HelpText
}

// NewFieldValidationError creates a new field validation error.
func NewFieldValidationError(
	field string,
	value interface{},
	message string,
	suggestions ...string,
) *FieldValidationError {
	return &FieldValidationError{
		FieldName:    field,
		FieldValue:   value,
		ErrorMessage: message,
		HelpText:     suggestions,
	}
}

// ValidationErrorCollection represents a collection of validation errors.
type ValidationErrorCollection struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (vec *ValidationErrorCollection) Error() string {
	if len(vec.Errors) == 0 {
		return "no validation errors"
	}
	if len(vec.Errors) == 1 {
		return vec.Errors[0].Error()
	}

	return fmt.Sprintf("validation failed with %d errors", len(vec.Errors))
}

// AddField adds a field validation error to the collection.
func (vec *ValidationErrorCollection) AddField(
	field string,
	value interface{},
	message string,
	suggestions ...string,
) {
	vec.Errors = append(vec.Errors, NewFieldValidationError(field, value, message, suggestions...))
}

// HasErrors returns true if there are any validation errors.
func (vec *ValidationErrorCollection) HasErrors() bool {
	return len(vec.Errors) > 0
}

// ToBenchError converts the validation collection to a BenchError.
func (vec *ValidationErrorCollection) ToBenchError() *BenchError {
	if !vec.HasErrors() {
		return nil
	}

	var messages []string
	context := make(map[string]interface{})

	for _, err := range vec.Errors {
		messages = append(messages, err.Error())
		context[err.Field()] = map[string]interface{}{
			"value":       err.Value(),
			"suggestions": err.Suggestions(),
		}
	}

	return &BenchError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeValidationFailed,
		Message: strings.Join(messages, "; "),
		Context: context,
	}
}

// ErrInvalidCount creates an iteration count validation error.
func ErrInvalidCount(count int) *BenchError {
	return NewValidationError(
		ErrCodeInvalidCount,
		fmt.Sprintf("iteration count must be positive, got %d", count),
	).WithContext("count", count)
}

// ErrWorkloadNotFound creates an unknown workload error.
func ErrWorkloadNotFound(name string) *BenchError {
	return NewValidationError(
		ErrCodeWorkloadNotFound,
		"workload not found: "+name,
	).WithWorkload(name)
}
