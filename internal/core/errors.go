package core

import "errors"

// ErrNoAuditFound is returned when a roadmap is requested before the user has
// completed any audit. It is a user-facing precondition, not an internal bug.
var ErrNoAuditFound = errors.New("no audit found")

// MalformedOutputError reports model output that failed the schema contract.
// The model is a non-deterministic collaborator; its output format is only
// probabilistically constrained by the requested JSON mode, so the validator
// never assumes well-formedness.
type MalformedOutputError struct {
	Reason string
}

func (e *MalformedOutputError) Error() string {
	return "malformed model output: " + e.Reason
}
