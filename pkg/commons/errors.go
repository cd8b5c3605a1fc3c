// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package commons

import (
	"errors"
	"fmt"
)

// ErrorCategory partitions every failure the capture and reconciliation
// engine can surface. Categories are what the UI keys its messaging on;
// the wrapped cause is for logs.
type ErrorCategory string

const (
	// CategoryPermission covers device access denied or unavailable. Fatal
	// for the attempt, never auto-retried.
	CategoryPermission ErrorCategory = "permission"
	// CategoryTransport covers any remote call failing with a network or
	// HTTP-status error. The caller decides whether to retry.
	CategoryTransport ErrorCategory = "transport"
	// CategoryTimeout covers a bounded fetch aborting before the backend
	// answered. Reported separately from an HTTP error status.
	CategoryTimeout ErrorCategory = "timeout"
	// CategoryTranscription means both live recognition and the remote
	// fallback produced empty text.
	CategoryTranscription ErrorCategory = "transcription"
	// CategoryState covers calls rejected by the capture state machine,
	// e.g. stopping a session that never started.
	CategoryState ErrorCategory = "state"
)

// CategorizedError carries a user-readable message plus the wrapped cause.
type CategorizedError struct {
	Category ErrorCategory
	Message  string
	Err      error
}

func (e *CategorizedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *CategorizedError) Unwrap() error {
	return e.Err
}

func NewPermissionError(message string, cause error) *CategorizedError {
	return &CategorizedError{Category: CategoryPermission, Message: message, Err: cause}
}

func NewTransportError(message string, cause error) *CategorizedError {
	return &CategorizedError{Category: CategoryTransport, Message: message, Err: cause}
}

func NewTimeoutError(message string, cause error) *CategorizedError {
	return &CategorizedError{Category: CategoryTimeout, Message: message, Err: cause}
}

func NewTranscriptionError(message string) *CategorizedError {
	return &CategorizedError{Category: CategoryTranscription, Message: message}
}

func NewStateError(message string) *CategorizedError {
	return &CategorizedError{Category: CategoryState, Message: message}
}

// CategoryOf reports the category of err, or CategoryTransport when err is
// not a CategorizedError (an uncategorized failure is treated as transport).
func CategoryOf(err error) ErrorCategory {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryTransport
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, category ErrorCategory) bool {
	return err != nil && CategoryOf(err) == category
}
