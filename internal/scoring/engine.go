package scoring

import (
	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/catalog"
	"github.com/stemsi/ailit-assessment/internal/model"
)

// Engine scores dimensions against a catalogue. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	cat *catalog.Catalog
	log zerolog.Logger
}

func NewEngine(cat *catalog.Catalog, log zerolog.Logger) *Engine {
	return &Engine{
		cat: cat,
		log: log.With().Str("component", "scoring_engine").Logger(),
	}
}

// Catalog returns the catalogue the engine scores against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Score derives the result of one dimension from its recorded answers.
// Unanswered self-rating questions are excluded from the mean; scenario
// answers carry the selected option's weight directly. Answers to question
// ids outside the dimension are ignored.
//
// An unknown dimension yields the zero result and a warning, never an error.
func (e *Engine) Score(dimensionID string, answers model.Answers) model.DimensionResult {
	dim, ok := e.cat.Dimension(dimensionID)
	if !ok {
		e.log.Warn().Str("dimension_id", dimensionID).Msg("Scoring unknown dimension, returning zero result")
		return model.DimensionResult{}
	}

	var (
		sum        int
		count      int
		gatekeeper int
	)
	for _, q := range dim.Questions {
		v, answered := answers[q.ID]
		if !answered {
			continue
		}
		switch q.Kind {
		case model.QuestionKindSelfRating:
			sum += v
			count++
		case model.QuestionKindScenario:
			gatekeeper += v
		}
	}

	var mean float64
	if count > 0 {
		mean = float64(sum) / float64(count)
	}

	c := Classify(mean, gatekeeper)
	res := model.DimensionResult{
		Level:           c.Level,
		MeanScore:       mean,
		GatekeeperScore: gatekeeper,
		Downgraded:      c.Downgraded,
	}
	if c.Downgraded {
		reason := c.Reason
		res.DowngradeReason = &reason
	}
	return res
}
