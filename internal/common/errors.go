// Package common defines shared sentinel errors and small helpers used across
// the filekeeper client packages. Callers should use errors.Is to match these
// values; producers wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Lookup errors. A missing record is an expected outcome, not a failure.
	ErrorNotFound = errors.New("not found")

	// Input errors.
	ErrInvalidInput = errors.New("invalid input")
	ErrInputTooLong = errors.New("input too long")

	// File and size errors.
	ErrIO                = errors.New("i/o error")
	ErrSizeLimitExceeded = errors.New("size limit exceeded")

	// Local record store errors.
	ErrStore = errors.New("store error")

	// Remote hash store errors. ErrConnection is fatal at startup,
	// ErrReply is logged by callers and never aborts local work.
	ErrConnection = errors.New("connection error")
	ErrReply      = errors.New("reply error")

	// Session errors.
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already exists")
)
