package rbslot

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired matches any failed call that received HTTP 401.
var ErrSessionExpired = errors.New("rbslot: session expired")

// AuthError is a rejected login.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// RequestError is a non-2xx response other than a rejected login.
type RequestError struct {
	Op      string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrSessionExpired && e.Status == http.StatusUnauthorized
}

// TransportError means no response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// Message returns the text an operator should see for err.
func Message(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.Message
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "Could not reach the RBSlot API."
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
