package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrOffline         = errors.New("remote store unreachable")
	ErrVersionConflict = errors.New("stale region map version")
)

// ValidationResult is the structured outcome of region validation. Errors
// block persistence, warnings are reported but non-blocking.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidationError wraps a failed ValidationResult so a rejected save travels
// through normal error returns while callers keep access to the full result.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	return "region validation failed: " + strings.Join(e.Result.Errors, "; ")
}

// AsValidationError unwraps err into a *ValidationError if one is present.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
