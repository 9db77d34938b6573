package exchange

import (
	"math"
	"sort"

	"github.com/stemsi/ailit-assessment/internal/model"
	"github.com/stemsi/ailit-assessment/internal/scoring"
)

// DimensionCheck compares a stored dimension result with a fresh rescoring
// of the same raw answers.
type DimensionCheck struct {
	DimensionID string                 `json:"dimension_id"`
	Stored      *model.DimensionResult `json:"stored"`
	Rescored    model.DimensionResult  `json:"rescored"`
	Match       bool                   `json:"match"`
}

// Verification is the outcome of rescoring a whole artifact.
type Verification struct {
	Dimensions      []DimensionCheck `json:"dimensions"`
	StoredAverage   string           `json:"stored_average"`
	RescoredAverage string           `json:"rescored_average"`
	Report          RestoreReport    `json:"report"`
}

// AverageMatches reports whether the stored average equals the average of
// the listed dimensions. It legitimately differs when the exporting run
// still had dimensions in progress, which a document does not list.
func (v Verification) AverageMatches() bool {
	return v.StoredAverage == v.RescoredAverage
}

// Consistent reports whether every stored dimension result matches its rescoring.
func (v Verification) Consistent() bool {
	for _, d := range v.Dimensions {
		if !d.Match {
			return false
		}
	}
	return true
}

// Verify rescores every dimension of a parsed artifact against the engine's
// catalogue. Stored results are never trusted for anything else.
func Verify(engine *scoring.Engine, doc *ParsedDocument) Verification {
	state, report := FromDocument(engine.Catalog(), doc)

	ids := make([]string, 0, len(doc.Results))
	for id := range doc.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	v := Verification{
		StoredAverage:   doc.AverageLevel,
		RescoredAverage: engine.Aggregate(state).Average.String(),
		Report:          report,
	}
	for _, id := range ids {
		stored := doc.Results[id].Stored
		rescored := engine.Score(id, state.Sessions[id].Answers)
		v.Dimensions = append(v.Dimensions, DimensionCheck{
			DimensionID: id,
			Stored:      stored,
			Rescored:    rescored,
			Match:       sameResult(stored, rescored),
		})
	}
	return v
}

func sameResult(stored *model.DimensionResult, rescored model.DimensionResult) bool {
	if stored == nil {
		return false
	}
	return stored.Level == rescored.Level &&
		stored.Downgraded == rescored.Downgraded &&
		stored.GatekeeperScore == rescored.GatekeeperScore &&
		math.Abs(stored.MeanScore-rescored.MeanScore) < 1e-9
}
