// Package handlers defines HTTP-layer error codes used across all API
// endpoints. The constants form a stable, machine-readable taxonomy that
// supplements human-readable messages; clients branch on the code, not the
// message.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeStoreUnavailable = "store_unavailable"
	ErrCodeListFailed       = "list_failed"
)
