package model

import "errors"

// Result is the uniform outcome shape returned to UI callers, letting them
// render inline validation errors without special-casing transport errors.
type Result struct {
	Success    bool        `json:"success"`
	Node       *Node       `json:"node,omitempty"`
	Connection *Connection `json:"connection,omitempty"`
	Error      Code        `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// NodeResult wraps the outcome of a node mutation.
func NodeResult(n Node, err error) Result {
	if err != nil {
		return Failure(err)
	}
	return Result{Success: true, Node: &n}
}

// ConnectionResult wraps the outcome of a connection mutation.
func ConnectionResult(c Connection, err error) Result {
	if err != nil {
		return Failure(err)
	}
	return Result{Success: true, Connection: &c}
}

// Failure converts err into a failed Result.
func Failure(err error) Result {
	msg := err.Error()
	var e *Error
	if errors.As(err, &e) {
		msg = e.Error()
	}
	return Result{Success: false, Error: ErrorCode(err), Message: msg}
}

// OK is a successful Result with no payload.
func OK() Result {
	return Result{Success: true}
}
