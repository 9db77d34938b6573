package model

// QuestionKind enumerates how a question is answered and scored.
type QuestionKind string

const (
	// QuestionKindSelfRating is answered on the 1–5 agreement scale and feeds the mean score.
	QuestionKindSelfRating QuestionKind = "likert"
	// QuestionKindScenario is answered by picking one option; the option weight feeds the gatekeeper score.
	QuestionKindScenario QuestionKind = "scenario"
)

// Answer scales.
const (
	SelfRatingMin     = 1
	SelfRatingMax     = 5
	SelfAssessmentMin = 0
	SelfAssessmentMax = 3
)

// Option is one selectable answer of a scenario question.
type Option struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// Question is a single catalogue item.
type Question struct {
	ID      string       `json:"id"`
	Kind    QuestionKind `json:"kind"`
	Prompt  string       `json:"prompt"`
	Options []Option     `json:"options,omitempty"`
}

// Dimension is an independently scored competency area.
type Dimension struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// ResultText is the rendering copy attached to a level outcome.
type ResultText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
}
