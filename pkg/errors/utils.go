package errors

import (
	"fmt"
	"strings"
)

// IsSiftError reports whether err is our internal Error type
func IsSiftError(err error) bool {
	_, ok := err.(*Error)
	return ok
}

// GetCode returns the error code string, or "" for foreign errors
func GetCode(err error) string {
	if siftErr, ok := err.(*Error); ok {
		return siftErr.Code.String()
	}
	return ""
}

// IsCode reports whether err carries the given code
func IsCode(err error, code Code) bool {
	if siftErr, ok := err.(*Error); ok {
		return siftErr.Code.Equals(code)
	}
	return false
}

// GetContext extracts the context map from our errors
func GetContext(err error) map[string]string {
	if siftErr, ok := err.(*Error); ok {
		return siftErr.Context
	}
	return nil
}

// FormatError renders an error for logging, one field per line
func FormatError(err error) string {
	if siftErr, ok := err.(*Error); ok {
		var parts []string
		parts = append(parts, fmt.Sprintf("Code: %s", siftErr.Code))
		parts = append(parts, fmt.Sprintf("Message: %s", siftErr.Message))

		if len(siftErr.Context) > 0 {
			parts = append(parts, "Context:")
			for k, v := range siftErr.Context {
				parts = append(parts, fmt.Sprintf("  %s: %v", k, v))
			}
		}

		if siftErr.Cause != nil {
			parts = append(parts, fmt.Sprintf("Cause: %v", siftErr.Cause))
		}

		return strings.Join(parts, "\n")
	}
	return err.Error()
}

// AsError converts any error to the internal Error format. Existing *Error
// values are returned as-is; standard errors are wrapped as common.internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if internalErr, ok := err.(*Error); ok {
		return internalErr
	}
	return New(CommonInternal, err.Error(), err)
}
