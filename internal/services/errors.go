// Package services defines the business logic for metadata generation and
// conversational chat. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"
	"strings"
)

// Generation-related errors.
var (
	// ErrMalformedOutput is returned when the model's reply carries no
	// decodable JSON object.
	ErrMalformedOutput = errors.New("model output is not valid JSON")
)

// Chat-related errors.
var (
	// ErrSessionNotFound indicates that the requested chat session does not
	// exist (never created, already ended, or lost to a restart).
	ErrSessionNotFound = errors.New("chat session not found")

	// ErrBusy is returned when a Send is issued while a previous Send on the
	// same session is still waiting for the upstream reply.
	ErrBusy = errors.New("session has a message in flight")

	// ErrEmptyMessage is returned when a chat message contains no text.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrUnknownSubject is returned when a session is requested for a subject
	// kind other than "video" or "blog".
	ErrUnknownSubject = errors.New(`subject kind must be "video" or "blog"`)
)

// IncompleteOutputError is returned when the model's JSON decoded but one or
// more mandatory fields were absent or empty. The whole bundle is discarded;
// nothing is persisted.
type IncompleteOutputError struct {
	Missing []string
}

func (e *IncompleteOutputError) Error() string {
	return fmt.Sprintf("model output missing mandatory fields: %s", strings.Join(e.Missing, ", "))
}
