package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeSecurity   ErrorType = "security"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeContent    ErrorType = "content"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// BlogError is a structured error type with document context.
type BlogError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	RelPath     string
	Line        int
	Recoverable bool
}

// Error implements the error interface.
func (e *BlogError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.RelPath != "" {
		location := e.RelPath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *BlogError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *BlogError) Is(target error) bool {
	var t *BlogError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *BlogError) WithContext(key string, value interface{}) *BlogError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds document location information.
func (e *BlogError) WithLocation(relPath string, line int) *BlogError {
	e.RelPath = relPath
	e.Line = line

	return e
}

// Error creation functions

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *BlogError {
	return &BlogError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewSecurityError creates a security error.
func NewSecurityError(code, message string) *BlogError {
	return &BlogError{
		Type:        ErrorTypeSecurity,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewContentError creates an error for a malformed or unparseable document.
func NewContentError(code, message string, cause error) *BlogError {
	return &BlogError{
		Type:        ErrorTypeContent,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *BlogError {
	return &BlogError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *BlogError {
	return &BlogError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *BlogError {
	return &BlogError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Common error codes.
const (
	ErrCodeInvalidPath      = "ERR_INVALID_PATH"
	ErrCodePathTraversal    = "ERR_PATH_TRAVERSAL"
	ErrCodeDocumentNotFound = "ERR_DOCUMENT_NOT_FOUND"
	ErrCodeDuplicateSlug    = "ERR_DUPLICATE_SLUG"
	ErrCodeFrontMatter      = "ERR_FRONT_MATTER"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodeIndexFailed      = "ERR_INDEX_FAILED"
	ErrCodeExportFailed     = "ERR_EXPORT_FAILED"
	ErrCodeInternalError    = "ERR_INTERNAL"
)

// Error recovery and handling utilities

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var be *BlogError
	if errors.As(err, &be) {
		return be.Recoverable
	}

	return false
}

// IsSecurityError checks if an error is security-related.
func IsSecurityError(err error) bool {
	var be *BlogError
	if errors.As(err, &be) {
		return be.Type == ErrorTypeSecurity
	}

	return false
}

// IsContentError checks if an error is about document content.
func IsContentError(err error) bool {
	var be *BlogError
	if errors.As(err, &be) {
		return be.Type == ErrorTypeContent
	}

	return false
}

// Helper functions for common errors

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *BlogError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path: "+path)
}

// ErrPathTraversal creates a path traversal security error.
func ErrPathTraversal(path string) *BlogError {
	return NewSecurityError(ErrCodePathTraversal, "path traversal attempt: "+path)
}

// ErrDocumentNotFound creates a document lookup error.
func ErrDocumentNotFound(slug string) *BlogError {
	return NewValidationError(ErrCodeDocumentNotFound, "document not found: "+slug)
}

// ErrFrontMatter creates a front matter parse error.
func ErrFrontMatter(relPath string, cause error) *BlogError {
	return NewContentError(ErrCodeFrontMatter, "invalid front matter", cause).
		WithLocation(relPath, 1)
}
