// Package services defines the business logic for authentication and the chat
// log. This file centralizes common service-level error values so that they
// can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

var (
	// ErrInvalidCredentials is returned for every failed login attempt,
	// whether the username is unknown or the password is wrong. The two
	// cases are deliberately indistinguishable to prevent username
	// enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidMessage is returned when a chat message is missing a
	// required field or carries inconsistent machine-generated annotations.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrStoreUnavailable wraps backing-store failures (connectivity,
	// timeouts, missing schema). It is never conflated with
	// ErrInvalidCredentials or ErrInvalidMessage.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNoSuggestion is returned when no intent clears the confidence
	// threshold for an inbound message.
	ErrNoSuggestion = errors.New("no suggestion")
)
