package types

import "github.com/arthur-debert/modlink/pkg/errors"

// ActivationStatus summarizes the outcome of an activation call
type ActivationStatus string

const (
	StatusSuccess ActivationStatus = "success"
	StatusPartial ActivationStatus = "partial"
	StatusFailure ActivationStatus = "failure"
)

// ModFailure records why a single mod could not be linked
type ModFailure struct {
	ID     string           `json:"id" yaml:"id"`
	Code   errors.ErrorCode `json:"code" yaml:"code"`
	Reason string           `json:"reason" yaml:"reason"`
}

// ActivationResult is returned by every activating engine call.
// OK is true for StatusSuccess and StatusPartial.
type ActivationResult struct {
	OK        bool             `json:"success" yaml:"success"`
	Status    ActivationStatus `json:"status" yaml:"status"`
	Message   string           `json:"message" yaml:"message"`
	Activated []string         `json:"activated,omitempty" yaml:"activated,omitempty"`
	Failed    []ModFailure     `json:"failed,omitempty" yaml:"failed,omitempty"`
	// IsActive is the post-call state of a single mod, read back from disk
	IsActive bool `json:"is_active" yaml:"is_active"`
	// Code is set when the whole call failed
	Code errors.ErrorCode `json:"code,omitempty" yaml:"code,omitempty"`
}

// Succeeded builds a full success result
func Succeeded(message string, activated ...string) ActivationResult {
	return ActivationResult{
		OK:        true,
		Status:    StatusSuccess,
		Message:   message,
		Activated: activated,
	}
}

// Failed builds a failure result from err
func Failed(err error) ActivationResult {
	return ActivationResult{
		OK:      false,
		Status:  StatusFailure,
		Message: errors.Message(err),
		Code:    errors.GetErrorCode(err),
	}
}
