package remote

import "errors"

var (
	// ErrUnavailable covers network failures and 5xx responses. Jobs that
	// hit it stay queued and retry later.
	ErrUnavailable = errors.New("remote server unavailable")

	// ErrRejected covers 4xx responses other than auth. Retrying the same
	// payload cannot succeed, so the job is dead-lettered.
	ErrRejected = errors.New("remote server rejected request")

	ErrUnauthorized = errors.New("remote server rejected credentials")
)
