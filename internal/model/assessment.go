package model

// SessionStatus enumerates per-dimension session states.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in-progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

// Participant is the person taking the assessment.
// SelfAssessment is nil until the participant has declared a level.
type Participant struct {
	Name           string `json:"name"`
	SelfAssessment *int   `json:"selfAssessment"`
}

// Answers maps question ID to the recorded value: a 1–5 rating for
// self-rating questions, the selected option weight for scenario questions.
type Answers map[string]int

// Clone returns an independent copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Session is the per-dimension record of a participant's answers.
type Session struct {
	Status  SessionStatus `json:"status"`
	Answers Answers       `json:"answers"`
	// Cursor is the index of the question currently shown for this dimension.
	Cursor int `json:"cursor"`
}

// AssessmentState is the unit of persistence and import/export.
type AssessmentState struct {
	Participant Participant         `json:"user"`
	Sessions    map[string]*Session `json:"sessions"`
}

// Clone returns a deep copy of the state.
func (s AssessmentState) Clone() AssessmentState {
	out := AssessmentState{
		Participant: s.Participant,
		Sessions:    make(map[string]*Session, len(s.Sessions)),
	}
	if s.Participant.SelfAssessment != nil {
		v := *s.Participant.SelfAssessment
		out.Participant.SelfAssessment = &v
	}
	for id, sess := range s.Sessions {
		if sess == nil {
			continue
		}
		out.Sessions[id] = &Session{
			Status:  sess.Status,
			Answers: sess.Answers.Clone(),
			Cursor:  sess.Cursor,
		}
	}
	return out
}
