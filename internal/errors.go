package internal

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage is returned by Send when the input is empty or
// whitespace-only. Callers may ignore it; nothing was changed.
var ErrEmptyMessage = errors.New("empty message")

// ErrBusy is returned by Send while another send is still in flight.
// Callers may ignore it; the new message was not accepted.
var ErrBusy = errors.New("a send is already in progress")

// ErrSessionNotFound is returned when a session ID does not exist in the
// namespace's session list.
var ErrSessionNotFound = errors.New("session not found")

// StorageError represents errors reading or writing the persisted
// session store
type StorageError struct {
	Key string
	Op  string // "open", "get", "put", "delete"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TransportError represents a failed call to the completion backend:
// either a non-2xx status or a network-level failure
type TransportError struct {
	Status int    // 0 when the request never completed
	Detail string // server-provided detail, if any
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport error: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message returns the human-readable string shown to the user when the
// failure is synthesized into an assistant message.
func (e *TransportError) Message() string {
	if e.Detail != "" {
		return "Error: " + e.Detail
	}
	if e.Status != 0 {
		return fmt.Sprintf("Error: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("Error: %v", e.Err)
}

// DecodeError represents an error payload the backend multiplexed into
// the text stream
type DecodeError struct {
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("stream error: %s", e.Detail)
}
