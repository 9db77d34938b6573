package model

// ResultDocument is the serialized assessment submitted to the results sink,
// offered as the fallback download, and consumed by import.
type ResultDocument struct {
	User         Participant               `json:"user"`
	Timestamp    string                    `json:"timestamp"`
	Results      map[string]DocumentResult `json:"results"`
	AverageLevel string                    `json:"averageLevel"`
}

// DocumentResult is a DimensionResult plus the raw answers it was computed from.
type DocumentResult struct {
	DimensionResult
	RawAnswers Answers `json:"raw_answers"`
}

// Artifact is an encoded document ready to be handed out as a file.
type Artifact struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
}
