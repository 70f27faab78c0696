// Package relay forwards client requests to the external LLM provider and,
// for the read-only secondary provider, proxies GET queries with a
// server-held credential. It deliberately works at the raw HTTP level: the
// caller's JSON body and the upstream byte stream pass through verbatim,
// which an SDK client would re-encode and re-frame.
//
// This file centralizes the relay error taxonomy. None of these trigger an
// automatic retry anywhere in the core; retry is always an explicit caller
// action.
package relay

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned when the upstream API key is not
// configured. The relay fails fast before any outbound call is attempted;
// it never proceeds unauthenticated.
var ErrMissingCredential = errors.New("upstream API key is not configured")

// TransportError wraps a network-level failure reaching the provider
// (DNS, connect, TLS, timeout). The upstream was never heard from.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
