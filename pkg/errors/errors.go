package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors
type ErrorCode string

const (
	ErrCodeDecode           ErrorCode = "DECODE_ERROR"
	ErrCodeUnsupported      ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"
	ErrCodeConfiguration    ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeProcessing       ErrorCode = "PROCESSING_ERROR"
	ErrCodeIO               ErrorCode = "IO_ERROR"
)

// SpeechLabError is the base structured error
type SpeechLabError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *SpeechLabError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SpeechLabError) Unwrap() error {
	return e.Cause
}

// DecodeError represents unreadable or corrupt audio input.
// The pipeline aborts before any analysis when it occurs.
type DecodeError struct {
	SpeechLabError
	Source string
}

func NewDecodeError(source, message string, cause error) *DecodeError {
	return &DecodeError{
		SpeechLabError: SpeechLabError{
			Code:    ErrCodeDecode,
			Message: message,
			Cause:   cause,
		},
		Source: source,
	}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s (source=%s)", e.SpeechLabError.Error(), e.Source)
}

// UnsupportedFormatError represents an unrecognized container or codec.
type UnsupportedFormatError struct {
	SpeechLabError
	Source string
	Format string
}

func NewUnsupportedFormatError(source, format, message string) *UnsupportedFormatError {
	return &UnsupportedFormatError{
		SpeechLabError: SpeechLabError{
			Code:    ErrCodeUnsupported,
			Message: message,
		},
		Source: source,
		Format: format,
	}
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s (source=%s, format=%s)", e.SpeechLabError.Error(), e.Source, e.Format)
}

// InsufficientDataError represents input that makes the whole pipeline
// meaningless, such as a zero-length signal. Per-statistic inability states
// (no voiced frames, too few periods) are NOT errors; they degrade to
// undefined statistics instead.
type InsufficientDataError struct {
	SpeechLabError
	Reason string
}

func NewInsufficientDataError(reason string) *InsufficientDataError {
	return &InsufficientDataError{
		SpeechLabError: SpeechLabError{
			Code:    ErrCodeInsufficientData,
			Message: "insufficient data for analysis",
		},
		Reason: reason,
	}
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %s", e.SpeechLabError.Error(), e.Reason)
}

// ConfigurationError represents an invalid parameter value, raised before
// any signal processing begins.
type ConfigurationError struct {
	SpeechLabError
	Field string
	Value interface{}
}

func NewConfigurationError(field string, value interface{}, message string) *ConfigurationError {
	return &ConfigurationError{
		SpeechLabError: SpeechLabError{
			Code:    ErrCodeConfiguration,
			Message: message,
		},
		Field: field,
		Value: value,
	}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("[%s] field=%s value=%v: %s", e.Code, e.Field, e.Value, e.Message)
}

// ProcessingError represents a pipeline stage failure
type ProcessingError struct {
	SpeechLabError
	Stage string
}

func NewProcessingError(stage, message string, cause error) *ProcessingError {
	return &ProcessingError{
		SpeechLabError: SpeechLabError{
			Code:    ErrCodeProcessing,
			Message: message,
			Cause:   cause,
		},
		Stage: stage,
	}
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s (stage=%s)", e.SpeechLabError.Error(), e.Stage)
}

// Is enables errors.Is checks
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As enables errors.As checks
func As[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}
