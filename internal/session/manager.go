package session

import (
	"fmt"
	"strings"

	"github.com/stemsi/ailit-assessment/internal/catalog"
	"github.com/stemsi/ailit-assessment/internal/model"
)

// Manager owns one participant's AssessmentState. It is not safe for
// concurrent use; callers load, apply and store under their own lock.
type Manager struct {
	cat   *catalog.Catalog
	state model.AssessmentState
}

// NewManager returns a manager over an empty state.
func NewManager(cat *catalog.Catalog) *Manager {
	return &Manager{
		cat:   cat,
		state: model.AssessmentState{Sessions: make(map[string]*model.Session)},
	}
}

// Resume wraps an existing state. The state is copied.
func Resume(cat *catalog.Catalog, state model.AssessmentState) *Manager {
	s := state.Clone()
	if s.Sessions == nil {
		s.Sessions = make(map[string]*model.Session)
	}
	return &Manager{cat: cat, state: s}
}

// State returns a copy of the current state.
func (m *Manager) State() model.AssessmentState {
	return m.state.Clone()
}

// Started reports whether a participant has been registered.
func (m *Manager) Started() bool {
	return m.state.Participant.Name != "" && m.state.Participant.SelfAssessment != nil
}

// Start registers the participant. The name is trimmed and must not be
// blank; the self-assessment must be a declared level 0-3.
func (m *Manager) Start(name string, selfAssessment *int) error {
	if m.Started() {
		return ErrAlreadyStarted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if selfAssessment == nil {
		return &ValidationError{Field: "self_assessment", Reason: "is required"}
	}
	if *selfAssessment < model.SelfAssessmentMin || *selfAssessment > model.SelfAssessmentMax {
		return &ValidationError{
			Field:  "self_assessment",
			Reason: fmt.Sprintf("must be between %d and %d", model.SelfAssessmentMin, model.SelfAssessmentMax),
		}
	}

	level := *selfAssessment
	m.state.Participant = model.Participant{Name: name, SelfAssessment: &level}
	return nil
}

// OpenDimension creates an in-progress session for the dimension unless one
// exists, and moves the cursor to the first question. An existing session
// keeps its answers and status.
func (m *Manager) OpenDimension(id string) error {
	if !m.Started() {
		return ErrNotStarted
	}
	if !m.cat.Has(id) {
		return fmt.Errorf("%w: %s", ErrDimensionNotFound, id)
	}
	s, ok := m.state.Sessions[id]
	if !ok || s == nil {
		s = &model.Session{Status: model.SessionStatusInProgress, Answers: model.Answers{}}
		m.state.Sessions[id] = s
	}
	s.Cursor = 0
	return nil
}

// RecordAnswer stores or overwrites the value for a question. Range checks
// belong to the caller.
func (m *Manager) RecordAnswer(dimensionID, questionID string, value int) error {
	s, err := m.session(dimensionID)
	if err != nil {
		return err
	}
	if _, ok := m.cat.Question(dimensionID, questionID); !ok {
		return fmt.Errorf("%w: %s/%s", ErrQuestionNotFound, dimensionID, questionID)
	}
	if s.Answers == nil {
		s.Answers = model.Answers{}
	}
	s.Answers[questionID] = value
	return nil
}

// CompleteDimension marks the session completed. Without a session it is a no-op.
func (m *Manager) CompleteDimension(id string) {
	if s, ok := m.state.Sessions[id]; ok && s != nil {
		s.Status = model.SessionStatusCompleted
	}
}

// AnsweredCount returns the number of recorded answers for a dimension.
func (m *Manager) AnsweredCount(id string) int {
	s, ok := m.state.Sessions[id]
	if !ok || s == nil {
		return 0
	}
	return len(s.Answers)
}

// TotalQuestions returns the catalogue question count for a dimension.
func (m *Manager) TotalQuestions(id string) int {
	return m.cat.TotalQuestions(id)
}

// Position describes where a participant stands inside a dimension.
type Position struct {
	DimensionID string              `json:"dimension_id"`
	Cursor      int                 `json:"cursor"`
	QuestionID  string              `json:"question_id,omitempty"`
	Answered    int                 `json:"answered"`
	Total       int                 `json:"total"`
	Status      model.SessionStatus `json:"status"`
}

// Position reports the cursor state of an opened dimension.
func (m *Manager) Position(id string) (Position, error) {
	s, err := m.session(id)
	if err != nil {
		return Position{}, err
	}
	return m.position(id, s), nil
}

// Next advances the cursor. On the last question it completes the dimension
// instead and leaves the cursor in place.
func (m *Manager) Next(id string) (Position, error) {
	s, err := m.session(id)
	if err != nil {
		return Position{}, err
	}
	if s.Cursor < m.cat.TotalQuestions(id)-1 {
		s.Cursor++
	} else {
		s.Status = model.SessionStatusCompleted
	}
	return m.position(id, s), nil
}

// Prev moves the cursor back, stopping at the first question.
func (m *Manager) Prev(id string) (Position, error) {
	s, err := m.session(id)
	if err != nil {
		return Position{}, err
	}
	if s.Cursor > 0 {
		s.Cursor--
	}
	return m.position(id, s), nil
}

// Exit leaves a dimension early. It completes only when every question has
// an answer; otherwise the session stays in progress.
func (m *Manager) Exit(id string) (Position, error) {
	s, err := m.session(id)
	if err != nil {
		return Position{}, err
	}
	if len(s.Answers) == m.cat.TotalQuestions(id) {
		s.Status = model.SessionStatusCompleted
	}
	return m.position(id, s), nil
}

// Finalizable runs the completion gate over the managed state.
func (m *Manager) Finalizable() error {
	return CheckComplete(m.state)
}

func (m *Manager) session(id string) (*model.Session, error) {
	if !m.cat.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrDimensionNotFound, id)
	}
	s, ok := m.state.Sessions[id]
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotOpen, id)
	}
	return s, nil
}

func (m *Manager) position(id string, s *model.Session) Position {
	p := Position{
		DimensionID: id,
		Cursor:      s.Cursor,
		Answered:    len(s.Answers),
		Total:       m.cat.TotalQuestions(id),
		Status:      s.Status,
	}
	if d, ok := m.cat.Dimension(id); ok && s.Cursor >= 0 && s.Cursor < len(d.Questions) {
		p.QuestionID = d.Questions[s.Cursor].ID
	}
	return p
}

// DimensionProgress is one row of the home overview.
type DimensionProgress struct {
	DimensionID string              `json:"dimension_id"`
	Title       string              `json:"title"`
	Answered    int                 `json:"answered"`
	Total       int                 `json:"total"`
	Status      model.SessionStatus `json:"status,omitempty"`
	Started     bool                `json:"started"`
}

// Progress lists every catalogue dimension with its session state.
func (m *Manager) Progress() []DimensionProgress {
	dims := m.cat.Dimensions()
	out := make([]DimensionProgress, 0, len(dims))
	for _, d := range dims {
		p := DimensionProgress{
			DimensionID: d.ID,
			Title:       d.Title,
			Total:       len(d.Questions),
		}
		if s, ok := m.state.Sessions[d.ID]; ok && s != nil {
			p.Answered = len(s.Answers)
			p.Status = s.Status
			p.Started = true
		}
		out = append(out, p)
	}
	return out
}
