package exchange

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stemsi/ailit-assessment/internal/model"
	"github.com/stemsi/ailit-assessment/internal/scoring"
)

// TimestampLayout renders UTC instants with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// BuildDocument assembles the result document for a state. Only completed
// sessions are listed under results; the average covers every session the
// aggregator counts.
func BuildDocument(engine *scoring.Engine, state model.AssessmentState, now time.Time) model.ResultDocument {
	doc := model.ResultDocument{
		User:         state.Participant,
		Timestamp:    now.UTC().Format(TimestampLayout),
		Results:      make(map[string]model.DocumentResult),
		AverageLevel: engine.Aggregate(state).Average.String(),
	}
	for id, s := range state.Sessions {
		if s == nil || s.Status != model.SessionStatusCompleted {
			continue
		}
		answers := s.Answers.Clone()
		doc.Results[id] = model.DocumentResult{
			DimensionResult: engine.Score(id, answers),
			RawAnswers:      answers,
		}
	}
	return doc
}

// Encode serializes a document with two-space indentation. Map keys are
// sorted, so equal documents encode to equal bytes.
func Encode(doc model.ResultDocument) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result document: %w", err)
	}
	return b, nil
}

// Export builds and encodes the document for a state in one step.
func Export(engine *scoring.Engine, state model.AssessmentState, now time.Time) ([]byte, error) {
	return Encode(BuildDocument(engine, state, now))
}
