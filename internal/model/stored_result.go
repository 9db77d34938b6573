package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PendingResult is a submitted document waiting on the persistence queue.
type PendingResult struct {
	ID              uuid.UUID       `json:"id"`
	ParticipantName string          `json:"participant_name"`
	SelfAssessment  *int            `json:"self_assessment"`
	AverageLevel    string          `json:"average_level"`
	Document        json.RawMessage `json:"document"`
	SubmittedAt     time.Time       `json:"submitted_at"`
}

// StoredResultSummary is a results table row without the document body.
type StoredResultSummary struct {
	ID              uuid.UUID `json:"id"`
	ParticipantName string    `json:"participant_name"`
	SelfAssessment  *int      `json:"self_assessment"`
	AverageLevel    string    `json:"average_level"`
	SubmittedAt     time.Time `json:"submitted_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// StoredResult is a persisted result document.
type StoredResult struct {
	StoredResultSummary
	Document json.RawMessage `json:"document"`
}
