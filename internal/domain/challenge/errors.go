package challenge

import "errors"

// Sentinel kinds for challenge errors. Callers match with errors.Is.
var (
	// ErrNotFound reports a missing challenge or submission.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSubmission reports a second submission for the same
	// player name and date. Submissions are write-once.
	ErrDuplicateSubmission = errors.New("duplicate submission")
	// ErrPoolUnavailable reports that the full player pool could not be
	// read or was empty.
	ErrPoolUnavailable = errors.New("player pool unavailable")
	// ErrInvalidDate reports a date outside the YYYY-MM-DD layout.
	ErrInvalidDate = errors.New("invalid challenge date")
)
