package exchange

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/catalog"
	"github.com/stemsi/ailit-assessment/internal/model"
)

// PartialDimension is a restored dimension whose answer count differs from
// the catalogue's question count.
type PartialDimension struct {
	DimensionID string `json:"dimension_id"`
	Answered    int    `json:"answered"`
	Total       int    `json:"total"`
}

// RestoreReport lists what an import accepted without being able to verify.
// Restored sessions are completed regardless of its content.
type RestoreReport struct {
	Partial           []PartialDimension `json:"partial,omitempty"`
	UnknownDimensions []string           `json:"unknown_dimensions,omitempty"`
	DroppedAnswers    []string           `json:"dropped_answers,omitempty"`
	MalformedResults  []string           `json:"malformed_results,omitempty"`
}

// Clean reports whether the artifact restored without any finding.
func (r RestoreReport) Clean() bool {
	return len(r.Partial) == 0 && len(r.UnknownDimensions) == 0 &&
		len(r.DroppedAnswers) == 0 && len(r.MalformedResults) == 0
}

// Log writes the findings of a report.
func (r RestoreReport) Log(log zerolog.Logger) {
	if r.Clean() {
		return
	}
	ev := log.Warn()
	if len(r.Partial) > 0 {
		ids := make([]string, len(r.Partial))
		for i, p := range r.Partial {
			ids[i] = p.DimensionID
		}
		ev = ev.Strs("partial_dimensions", ids)
	}
	ev.Strs("unknown_dimensions", r.UnknownDimensions).
		Strs("dropped_answers", r.DroppedAnswers).
		Strs("malformed_results", r.MalformedResults).
		Msg("Restored artifact with findings")
}

// Restore rebuilds a state from an artifact. The participant is taken as
// stored and every listed dimension becomes a completed session holding the
// stored raw answers. On error no state is produced.
func Restore(cat *catalog.Catalog, data []byte) (model.AssessmentState, RestoreReport, error) {
	doc, err := Parse(data)
	if err != nil {
		return model.AssessmentState{}, RestoreReport{}, err
	}
	state, report := FromDocument(cat, doc)
	return state, report, nil
}

// FromDocument turns a parsed artifact into a state plus its report.
func FromDocument(cat *catalog.Catalog, doc *ParsedDocument) (model.AssessmentState, RestoreReport) {
	state := model.AssessmentState{
		Participant: doc.Participant,
		Sessions:    make(map[string]*model.Session, len(doc.Results)),
	}
	report := RestoreReport{
		DroppedAnswers:   doc.DroppedAnswers,
		MalformedResults: doc.MalformedResults,
	}

	ids := make([]string, 0, len(doc.Results))
	for id := range doc.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		res := doc.Results[id]
		answers := res.Answers
		if answers == nil {
			answers = model.Answers{}
		}
		state.Sessions[id] = &model.Session{
			Status:  model.SessionStatusCompleted,
			Answers: answers,
		}

		if !cat.Has(id) {
			report.UnknownDimensions = append(report.UnknownDimensions, id)
			continue
		}
		if total := cat.TotalQuestions(id); len(answers) != total {
			report.Partial = append(report.Partial, PartialDimension{
				DimensionID: id,
				Answered:    len(answers),
				Total:       total,
			})
		}
	}
	return state, report
}
