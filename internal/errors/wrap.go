package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context, creating a BlogError if the
// input is not already one.
func Wrap(err error, errType ErrorType, code, message string) *BlogError {
	if err == nil {
		return nil
	}

	// If it's already a BlogError, preserve its location and context.
	var be *BlogError
	if errors.As(err, &be) {
		return &BlogError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       be,
			Context:     be.Context,
			RelPath:     be.RelPath,
			Line:        be.Line,
			Recoverable: be.Recoverable,
		}
	}

	return &BlogError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeContent,
	}
}

// WrapContent wraps an error as a content error with location context.
func WrapContent(err error, code, message, relPath string) *BlogError {
	blogErr := Wrap(err, ErrorTypeContent, code, message)
	if blogErr != nil {
		blogErr.RelPath = relPath
	}
	return blogErr
}

// WrapValidation wraps an error as a validation error.
func WrapValidation(err error, code, message string) *BlogError {
	return Wrap(err, ErrorTypeValidation, code, message)
}

// WrapIO wraps an error as an I/O error.
func WrapIO(err error, code, message string) *BlogError {
	blogErr := Wrap(err, ErrorTypeIO, code, message)
	if blogErr != nil {
		blogErr.Recoverable = false
	}
	return blogErr
}

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, code, message string) *BlogError {
	blogErr := Wrap(err, ErrorTypeConfig, code, message)
	if blogErr != nil {
		blogErr.Recoverable = false
	}
	return blogErr
}

// WrapInternal wraps an error as an internal error.
func WrapInternal(err error, code, message string) *BlogError {
	blogErr := Wrap(err, ErrorTypeInternal, code, message)
	if blogErr != nil {
		blogErr.Recoverable = false
	}
	return blogErr
}

// FormatError formats an error for user display.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var be *BlogError
	if errors.As(err, &be) {
		return be.Error()
	}

	return err.Error()
}

// ExtractCause extracts the root cause from a wrapped error.
func ExtractCause(err error) error {
	for err != nil {
		var be *BlogError
		if errors.As(err, &be) {
			if be.Cause == nil {
				return be
			}
			err = be.Cause
		} else {
			return err
		}
	}
	return nil
}

// FirstError returns the first non-nil error from a list.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// CombineErrors combines multiple errors into a single error with context.
func CombineErrors(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	if len(nonNil) == 0 {
		return nil
	}
	if len(nonNil) == 1 {
		return nonNil[0]
	}

	var messages []string
	for _, err := range nonNil {
		messages = append(messages, err.Error())
	}

	return &BlogError{
		Type:    ErrorTypeInternal,
		Code:    "ERR_MULTIPLE_ERRORS",
		Message: fmt.Sprintf("multiple errors occurred: %d errors", len(nonNil)),
		Context: map[string]interface{}{
			"error_count": len(nonNil),
			"errors":      messages,
		},
		Recoverable: false,
	}
}
