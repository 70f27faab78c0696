// Package handlers defines HTTP-layer error codes used by the content and
// chat API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses via the `fail()` helper. These codes give clients a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly
//     noted.
//   - Generic codes (e.g., bad_request, not_found, conflict) mirror common
//     HTTP status semantics.
//   - Domain-specific codes (e.g., generate_failed) are reserved for
//     business logic errors that cannot be conveyed by status alone.
//
// The relay endpoints do not use these codes; they keep the legacy
// `{error, details?}` shape (see relay_handler.go).
package handlers

const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeInternal   = "internal_error"

	// Domain-specific:
	ErrCodeGenerateFailed   = "generate_failed"
	ErrCodeBadModelOutput   = "bad_model_output"
	ErrCodeSaveFailed       = "save_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeChatFailed       = "chat_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
