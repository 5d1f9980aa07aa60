// Package handlers defines HTTP-layer error codes used across the versioned
// API. Codes are stable, lowercase snake_case strings that clients branch on;
// the message is for humans.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "already_reacted",
//	  "message": "you already reacted to this story"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"
	ErrCodeUnavailable  = "unavailable"

	// Domain-specific:
	ErrCodeCreateFailed      = "create_failed"
	ErrCodeListFailed        = "list_failed"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
	ErrCodeAlreadyReacted    = "already_reacted"
	ErrCodeTooLarge          = "file_too_large"
	ErrCodeUnsupportedMedia  = "unsupported_media_type"
	ErrCodeWeakPassword      = "weak_password"
	ErrCodeInvalidCredential = "invalid_credentials"
)
