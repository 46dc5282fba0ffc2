package jobs

import "errors"

// ErrNotFound is returned when no posting exists at the given id.
var ErrNotFound = errors.New("job posting not found")

// ErrNoAvailablePositions is returned by AcceptApplicant when a posting
// has no open slots left. This is a terminal, user-visible condition —
// the caller should pick a different posting, not retry.
var ErrNoAvailablePositions = errors.New("no available positions on this posting")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
