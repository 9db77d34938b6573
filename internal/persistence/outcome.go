package persistence

import "github.com/stemsi/ailit-assessment/internal/model"

// OutcomeKind names the variant of an Outcome.
type OutcomeKind string

const (
	OutcomeSaved       OutcomeKind = "saved"
	OutcomeUnavailable OutcomeKind = "unavailable"
)

// Outcome is the result of a save: either Saved or Unavailable.
type Outcome interface {
	Kind() OutcomeKind
	outcome()
}

// Saved means the sink accepted the document and returned its location.
type Saved struct {
	Location string
}

// Unavailable means the sink could not be reached or refused the document.
// Artifact carries the exact bytes that were submitted.
type Unavailable struct {
	Reason   string
	Artifact model.Artifact
}

func (Saved) Kind() OutcomeKind       { return OutcomeSaved }
func (Unavailable) Kind() OutcomeKind { return OutcomeUnavailable }

func (Saved) outcome()       {}
func (Unavailable) outcome() {}
