package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrPathsNotConfigured     ErrorCode = "PATHS_NOT_CONFIGURED"
	ErrRepositoryNotFound     ErrorCode = "REPOSITORY_NOT_FOUND"
	ErrRepositoryNotDirectory ErrorCode = "REPOSITORY_NOT_DIRECTORY"
	ErrActiveRootNotDirectory ErrorCode = "ACTIVE_ROOT_NOT_DIRECTORY"
	ErrConfigLoad             ErrorCode = "CONFIG_LOAD"
	ErrConfigSave             ErrorCode = "CONFIG_SAVE"

	// Mod errors
	ErrModNotFound     ErrorCode = "MOD_NOT_FOUND"
	ErrEmptySelection  ErrorCode = "EMPTY_SELECTION"
	ErrPartialFailure  ErrorCode = "PARTIAL_FAILURE"
	ErrActivationFails ErrorCode = "ACTIVATION_FAILED"

	// Link errors
	ErrSourceNotFound     ErrorCode = "SOURCE_NOT_FOUND"
	ErrSourceNotDirectory ErrorCode = "SOURCE_NOT_DIRECTORY"
	ErrPermissionDenied   ErrorCode = "PERMISSION_DENIED"
	ErrLinkCreate         ErrorCode = "LINK_CREATE"
	ErrNotASymlink        ErrorCode = "NOT_A_SYMLINK"

	// FileSystem errors
	ErrFilesystem ErrorCode = "FILESYSTEM"
	ErrDirCreate  ErrorCode = "DIR_CREATE"

	// Notifier errors
	ErrNotify ErrorCode = "NOTIFY"
)

// Category groups error codes by how callers should react to them.
type Category string

const (
	CategoryConfiguration  Category = "configuration"
	CategoryNotFound       Category = "not_found"
	CategoryPermission     Category = "permission"
	CategoryFilesystem     Category = "filesystem"
	CategoryPartialFailure Category = "partial_failure"
	CategoryInvalidInput   Category = "invalid_input"
	CategoryInternal       Category = "internal"
)

var categories = map[ErrorCode]Category{
	ErrPathsNotConfigured:     CategoryConfiguration,
	ErrRepositoryNotDirectory: CategoryConfiguration,
	ErrActiveRootNotDirectory: CategoryConfiguration,
	ErrConfigLoad:             CategoryConfiguration,
	ErrConfigSave:             CategoryConfiguration,
	ErrRepositoryNotFound:     CategoryNotFound,
	ErrModNotFound:            CategoryNotFound,
	ErrSourceNotFound:         CategoryNotFound,
	ErrNotFound:               CategoryNotFound,
	ErrPermissionDenied:       CategoryPermission,
	ErrSourceNotDirectory:     CategoryFilesystem,
	ErrLinkCreate:             CategoryFilesystem,
	ErrNotASymlink:            CategoryFilesystem,
	ErrFilesystem:             CategoryFilesystem,
	ErrDirCreate:              CategoryFilesystem,
	ErrActivationFails:        CategoryFilesystem,
	ErrNotify:                 CategoryFilesystem,
	ErrPartialFailure:         CategoryPartialFailure,
	ErrEmptySelection:         CategoryInvalidInput,
	ErrInvalidInput:           CategoryInvalidInput,
}

// CategoryOf returns the category for a code. Unknown codes are internal.
func CategoryOf(code ErrorCode) Category {
	if c, ok := categories[code]; ok {
		return c
	}
	return CategoryInternal
}

// Error represents a structured error with code and details
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// Category returns the category of the error code
func (e *Error) Category() Category {
	return CategoryOf(e.Code)
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an Error
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var modErr *Error
	if errors.As(err, &modErr) {
		return modErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an Error
func GetErrorCode(err error) ErrorCode {
	var modErr *Error
	if errors.As(err, &modErr) {
		return modErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an Error
func GetErrorDetails(err error) map[string]interface{} {
	var modErr *Error
	if errors.As(err, &modErr) {
		return modErr.Details
	}
	return nil
}

// Message returns the human message of an Error without the code prefix,
// falling back to err.Error() for foreign errors.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var modErr *Error
	if errors.As(err, &modErr) {
		if modErr.Wrapped != nil {
			return fmt.Sprintf("%s: %v", modErr.Message, modErr.Wrapped)
		}
		return modErr.Message
	}
	return err.Error()
}
