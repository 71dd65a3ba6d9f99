package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared with the frontend. The reason-coded copy shown to the
// user keys off Code (and Reason for eligibility denials), so these strings
// are part of the API contract.
const (
	CodeValidation        = "validation_error"
	CodeAuthorization     = "authorization_error"
	CodeInvalidTransition = "invalid_transition"
	CodeEligibilityDenied = "eligibility_denied"
	CodeNotFound          = "not_found"
	CodeUpstream          = "upstream_error"
)

type Error struct {
	Status int
	Code   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Err: err}
}

func Validationf(format string, args ...interface{}) *Error {
	return Validation(fmt.Errorf(format, args...))
}

func Authorization(err error) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeAuthorization, Err: err}
}

func InvalidTransition(err error) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeInvalidTransition, Err: err}
}

// EligibilityDenied carries the machine-readable reason (wrong_role,
// session_finished, already_registered, session_full) so the frontend can
// render reason-specific copy instead of a generic failure.
func EligibilityDenied(reason string, err error) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeEligibilityDenied, Reason: reason, Err: err}
}

func NotFound(err error) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Err: err}
}

func Upstream(err error) *Error {
	return &Error{Status: http.StatusBadGateway, Code: CodeUpstream, Err: err}
}

// From extracts the typed error from a wrapped chain, or nil.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
