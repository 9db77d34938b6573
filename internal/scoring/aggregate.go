package scoring

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/stemsi/ailit-assessment/internal/model"
)

// NoData is the display value of an average over zero dimensions.
const NoData = "-"

// Average is the mean level over the qualifying dimensions.
type Average struct {
	Sum   int
	Count int
}

// HasData reports whether at least one dimension qualified.
func (a Average) HasData() bool {
	return a.Count > 0
}

// Value returns the unrounded mean, 0 without data.
func (a Average) Value() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.Sum) / float64(a.Count)
}

// String renders the mean rounded half-up to one decimal, or NoData.
func (a Average) String() string {
	if !a.HasData() {
		return NoData
	}
	rounded := math.Floor(a.Value()*10+0.5) / 10
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}

func (a Average) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// DimensionSummary is one scored session as shown on the results view.
type DimensionSummary struct {
	DimensionID string                `json:"dimension_id"`
	Status      model.SessionStatus   `json:"status"`
	Answered    int                   `json:"answered"`
	Result      model.DimensionResult `json:"result"`
}

// Summary is the aggregate over an assessment state.
type Summary struct {
	Average    Average            `json:"average_level"`
	Dimensions []DimensionSummary `json:"dimensions"`
}

// Qualifies reports whether a session counts toward the average: it is
// completed or holds at least one answer.
func Qualifies(s *model.Session) bool {
	if s == nil {
		return false
	}
	return s.Status == model.SessionStatusCompleted || len(s.Answers) > 0
}

// Aggregate scores every qualifying session. Dimensions are listed in
// catalogue order, followed by ids the catalogue does not know, sorted.
func (e *Engine) Aggregate(state model.AssessmentState) Summary {
	var sum Summary
	for _, id := range e.orderedSessionIDs(state) {
		s := state.Sessions[id]
		if !Qualifies(s) {
			continue
		}
		res := e.Score(id, s.Answers)
		sum.Average.Sum += int(res.Level)
		sum.Average.Count++
		sum.Dimensions = append(sum.Dimensions, DimensionSummary{
			DimensionID: id,
			Status:      s.Status,
			Answered:    len(s.Answers),
			Result:      res,
		})
	}
	return sum
}

func (e *Engine) orderedSessionIDs(state model.AssessmentState) []string {
	ids := make([]string, 0, len(state.Sessions))
	for _, id := range e.cat.DimensionIDs() {
		if _, ok := state.Sessions[id]; ok {
			ids = append(ids, id)
		}
	}
	var unknown []string
	for id := range state.Sessions {
		if !e.cat.Has(id) {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	return append(ids, unknown...)
}
