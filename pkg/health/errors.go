package health

import "errors"

var (
	// ErrCheckFailed is joined with the first failing check's error.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout replaces ErrCheckFailed when the failure happened after
	// the readiness timeout expired.
	ErrCheckTimeout = errors.New("health: check timeout")
)
