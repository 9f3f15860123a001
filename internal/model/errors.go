package model

import "errors"

// Code identifies a failure returned by the graph store. Codes are stable and
// appear in API responses.
type Code string

const (
	CodeMissingTitle       Code = "MissingTitle"
	CodeMissingLayer       Code = "MissingLayer"
	CodeInvalidLayer       Code = "InvalidLayer"
	CodeMissingDomain      Code = "MissingDomain"
	CodeInvalidDomain      Code = "InvalidDomain"
	CodeNodeNotFound       Code = "NodeNotFound"
	CodeConnectionNotFound Code = "ConnectionNotFound"
	CodeMissingEndpoint    Code = "MissingEndpoint"
	CodeMissingExplanation Code = "MissingExplanation"
	CodeInvalidMode        Code = "InvalidMode"
	CodeInvalidFilter      Code = "InvalidFilter"
	CodeStorageFailure     Code = "StorageFailure"
	CodeInternal           Code = "Internal"
)

// Error is a coded failure on a named field. Two *Error values match under
// errors.Is when their codes are equal, so callers compare against the
// sentinel values below.
type Error struct {
	Code    Code
	Field   string
	Message string
}

// Error formats the failure as "field: message".
func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrMissingTitle       = &Error{Code: CodeMissingTitle, Field: "title", Message: "is required"}
	ErrMissingLayer       = &Error{Code: CodeMissingLayer, Field: "layer", Message: "is required"}
	ErrInvalidLayer       = &Error{Code: CodeInvalidLayer, Field: "layer", Message: "is not a known layer"}
	ErrMissingDomain      = &Error{Code: CodeMissingDomain, Field: "domain", Message: "is required for domain-layer nodes"}
	ErrInvalidDomain      = &Error{Code: CodeInvalidDomain, Field: "domain", Message: "is not a known domain"}
	ErrNodeNotFound       = &Error{Code: CodeNodeNotFound, Field: "id", Message: "node not found"}
	ErrConnectionNotFound = &Error{Code: CodeConnectionNotFound, Field: "id", Message: "connection not found"}
	ErrMissingEndpoint    = &Error{Code: CodeMissingEndpoint, Field: "from/to", Message: "both endpoints are required"}
	ErrMissingExplanation = &Error{Code: CodeMissingExplanation, Field: "explanation", Message: "is required in build mode"}
	ErrInvalidMode        = &Error{Code: CodeInvalidMode, Field: "mode", Message: "must be explore or build"}
	ErrInvalidFilter      = &Error{Code: CodeInvalidFilter, Field: "filter", Message: "must be layer, domain or intent"}
	ErrStorageFailure     = &Error{Code: CodeStorageFailure, Message: "durable storage unavailable"}
)

// ErrorCode returns the code carried by err, or CodeInternal for errors that
// did not originate in this package.
func ErrorCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
