// Package common defines shared constants and sentinel errors used across the
// engine. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Local persistence failures. These must reach the caller of the write
	// that triggered them; a clinical record that did not persist has to be
	// visible to the user.
	ErrorStorage = errors.New("local storage failure")

	// Domain preconditions.
	ErrorProfileClosed     = errors.New("profile is closed")
	ErrorInvalidStatus     = errors.New("invalid profile status")
	ErrorInvalidTransition = errors.New("invalid status transition")
	ErrorUnknownStep       = errors.New("unknown checklist step")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
)
