package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/catalog"
	"github.com/stemsi/ailit-assessment/internal/exchange"
	"github.com/stemsi/ailit-assessment/internal/model"
	"github.com/stemsi/ailit-assessment/internal/persistence"
	"github.com/stemsi/ailit-assessment/internal/repository"
	"github.com/stemsi/ailit-assessment/internal/scoring"
	"github.com/stemsi/ailit-assessment/internal/session"
)

var (
	ErrRunNotFound        = repository.ErrRunNotFound
	ErrArtifactNotFound   = repository.ErrArtifactNotFound
	ErrFinalizeInProgress = errors.New("finalization already in progress")
	ErrAnswerOutOfRange   = errors.New("answer value out of range")
)

// RunStore persists live runs.
type RunStore interface {
	Create(ctx context.Context, runID string, state model.AssessmentState) error
	Load(ctx context.Context, runID string) (model.AssessmentState, error)
	Update(ctx context.Context, runID string, fn func(*model.AssessmentState) error) (model.AssessmentState, error)
	SaveArtifact(ctx context.Context, runID string, a model.Artifact) error
	LoadArtifact(ctx context.Context, runID string) (model.Artifact, error)
	AcquireFinalizeLock(ctx context.Context, runID string, ttl time.Duration) (bool, error)
	ReleaseFinalizeLock(ctx context.Context, runID string) error
}

// Saver submits a finished assessment.
type Saver interface {
	Save(ctx context.Context, state model.AssessmentState) (persistence.Outcome, error)
}

// RunTokenIssuer signs run tokens.
type RunTokenIssuer interface {
	GenerateRunToken(runID string) (string, error)
}

// ─── Views ─────────────────────────────────────────────────────────────

// RunView is a run's state as returned to the participant.
type RunView struct {
	RunID       string                      `json:"run_id"`
	Participant model.Participant           `json:"participant"`
	Dimensions  []session.DimensionProgress `json:"dimensions"`
	Sessions    map[string]*model.Session   `json:"sessions"`
}

// RunStarted is returned when a run is created or imported.
type RunStarted struct {
	RunID  string                  `json:"run_id"`
	Token  string                  `json:"token"`
	State  RunView                 `json:"state"`
	Report *exchange.RestoreReport `json:"report,omitempty"`
}

// DimensionResultView is one scored dimension with its rendering copy.
type DimensionResultView struct {
	DimensionID string                `json:"dimension_id"`
	Title       string                `json:"title"`
	Status      model.SessionStatus   `json:"status"`
	Answered    int                   `json:"answered"`
	Total       int                   `json:"total"`
	Result      model.DimensionResult `json:"result"`
	Text        model.ResultText      `json:"text"`
}

// ResultsView is the results page of a run.
type ResultsView struct {
	Participant         model.Participant     `json:"participant"`
	SelfAssessmentTitle string                `json:"self_assessment_title"`
	AverageLevel        string                `json:"average_level"`
	Dimensions          []DimensionResultView `json:"dimensions"`
}

// FinalizeResult reports how a finalization was persisted.
type FinalizeResult struct {
	Outcome  persistence.OutcomeKind `json:"outcome"`
	Location string                  `json:"location,omitempty"`
	Reason   string                  `json:"reason,omitempty"`
	Artifact *model.Artifact         `json:"artifact,omitempty"`
	Results  ResultsView             `json:"results"`
}

// ─── Service ───────────────────────────────────────────────────────────

// RunService drives a participant's assessment run.
type RunService struct {
	store   RunStore
	engine  *scoring.Engine
	saver   Saver
	tokens  RunTokenIssuer
	lockTTL time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// NewRunService creates a new RunService. lockTTL bounds how long one
// finalization may hold a run.
func NewRunService(store RunStore, engine *scoring.Engine, saver Saver, tokens RunTokenIssuer, lockTTL time.Duration, log zerolog.Logger) *RunService {
	return &RunService{
		store:   store,
		engine:  engine,
		saver:   saver,
		tokens:  tokens,
		lockTTL: lockTTL,
		now:     time.Now,
		log:     log.With().Str("component", "run_service").Logger(),
	}
}

func (s *RunService) catalog() *catalog.Catalog {
	return s.engine.Catalog()
}

// Start registers a participant and opens a new run.
func (s *RunService) Start(ctx context.Context, name string, selfAssessment *int) (*RunStarted, error) {
	m := session.NewManager(s.catalog())
	if err := m.Start(name, selfAssessment); err != nil {
		return nil, err
	}
	return s.create(ctx, m.State(), nil)
}

// Import restores an artifact into a new run. Any earlier run is untouched.
func (s *RunService) Import(ctx context.Context, data []byte) (*RunStarted, error) {
	state, report, err := exchange.Restore(s.catalog(), data)
	if err != nil {
		return nil, err
	}
	report.Log(s.log)
	return s.create(ctx, state, &report)
}

func (s *RunService) create(ctx context.Context, state model.AssessmentState, report *exchange.RestoreReport) (*RunStarted, error) {
	runID := uuid.New().String()
	if err := s.store.Create(ctx, runID, state); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	token, err := s.tokens.GenerateRunToken(runID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("run_id", runID).
		Bool("imported", report != nil).
		Int("sessions", len(state.Sessions)).
		Msg("Run created")

	return &RunStarted{
		RunID:  runID,
		Token:  token,
		State:  s.view(runID, state),
		Report: report,
	}, nil
}

// View returns the current state and progress of a run.
func (s *RunService) View(ctx context.Context, runID string) (*RunView, error) {
	state, err := s.store.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	v := s.view(runID, state)
	return &v, nil
}

func (s *RunService) view(runID string, state model.AssessmentState) RunView {
	m := session.Resume(s.catalog(), state)
	return RunView{
		RunID:       runID,
		Participant: state.Participant,
		Dimensions:  m.Progress(),
		Sessions:    state.Sessions,
	}
}

// Open opens a dimension and returns the cursor position.
func (s *RunService) Open(ctx context.Context, runID, dimensionID string) (session.Position, error) {
	return s.navigate(ctx, runID, func(m *session.Manager) (session.Position, error) {
		if err := m.OpenDimension(dimensionID); err != nil {
			return session.Position{}, err
		}
		return m.Position(dimensionID)
	})
}

// Answer records one answer after checking it against the question's scale.
func (s *RunService) Answer(ctx context.Context, runID, dimensionID, questionID string, value int) (session.Position, error) {
	if q, ok := s.catalog().Question(dimensionID, questionID); ok && !validAnswer(q, value) {
		return session.Position{}, fmt.Errorf("%w: %s=%d", ErrAnswerOutOfRange, questionID, value)
	}
	return s.navigate(ctx, runID, func(m *session.Manager) (session.Position, error) {
		if err := m.RecordAnswer(dimensionID, questionID, value); err != nil {
			return session.Position{}, err
		}
		return m.Position(dimensionID)
	})
}

// validAnswer accepts a rating on the self-rating scale, or a scenario value
// equal to one of the question's option weights.
func validAnswer(q model.Question, value int) bool {
	switch q.Kind {
	case model.QuestionKindScenario:
		for _, o := range q.Options {
			if o.Weight == value {
				return true
			}
		}
		return false
	default:
		return value >= model.SelfRatingMin && value <= model.SelfRatingMax
	}
}

// Next advances within a dimension, completing it past the last question.
func (s *RunService) Next(ctx context.Context, runID, dimensionID string) (session.Position, error) {
	return s.navigate(ctx, runID, func(m *session.Manager) (session.Position, error) {
		return m.Next(dimensionID)
	})
}

// Prev steps back within a dimension.
func (s *RunService) Prev(ctx context.Context, runID, dimensionID string) (session.Position, error) {
	return s.navigate(ctx, runID, func(m *session.Manager) (session.Position, error) {
		return m.Prev(dimensionID)
	})
}

// Exit leaves a dimension, completing it only when fully answered.
func (s *RunService) Exit(ctx context.Context, runID, dimensionID string) (session.Position, error) {
	return s.navigate(ctx, runID, func(m *session.Manager) (session.Position, error) {
		return m.Exit(dimensionID)
	})
}

func (s *RunService) navigate(ctx context.Context, runID string, fn func(*session.Manager) (session.Position, error)) (session.Position, error) {
	var pos session.Position
	_, err := s.store.Update(ctx, runID, func(st *model.AssessmentState) error {
		m := session.Resume(s.catalog(), *st)
		p, err := fn(m)
		if err != nil {
			return err
		}
		pos = p
		*st = m.State()
		return nil
	})
	return pos, err
}

// Results scores the run without the completion gate.
func (s *RunService) Results(ctx context.Context, runID string) (*ResultsView, error) {
	state, err := s.store.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	v := s.results(state)
	return &v, nil
}

func (s *RunService) results(state model.AssessmentState) ResultsView {
	cat := s.catalog()
	summary := s.engine.Aggregate(state)

	v := ResultsView{
		Participant:  state.Participant,
		AverageLevel: summary.Average.String(),
		Dimensions:   make([]DimensionResultView, 0, len(summary.Dimensions)),
	}
	if state.Participant.SelfAssessment != nil {
		v.SelfAssessmentTitle = cat.SelfAssessmentTitle(*state.Participant.SelfAssessment)
	}

	for _, d := range summary.Dimensions {
		title := d.DimensionID
		if dim, ok := cat.Dimension(d.DimensionID); ok {
			title = dim.Title
		}
		v.Dimensions = append(v.Dimensions, DimensionResultView{
			DimensionID: d.DimensionID,
			Title:       title,
			Status:      d.Status,
			Answered:    d.Answered,
			Total:       cat.TotalQuestions(d.DimensionID),
			Result:      d.Result,
			Text:        cat.ResultText(d.Result.Level, d.Result.Downgraded),
		})
	}
	return v
}

// Finalize passes the completion gate, computes results and saves them.
// At most one finalization per run is in flight. When the sink is
// unavailable the submitted bytes are kept for download.
func (s *RunService) Finalize(ctx context.Context, runID string) (*FinalizeResult, error) {
	locked, err := s.store.AcquireFinalizeLock(ctx, runID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrFinalizeInProgress
	}
	defer func() {
		if err := s.store.ReleaseFinalizeLock(context.WithoutCancel(ctx), runID); err != nil {
			s.log.Warn().Err(err).Str("run_id", runID).Msg("Failed to release finalize lock")
		}
	}()

	state, err := s.store.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	if err := session.CheckComplete(state); err != nil {
		return nil, err
	}

	out, err := s.saver.Save(ctx, state)
	if err != nil {
		return nil, err
	}

	res := &FinalizeResult{Outcome: out.Kind(), Results: s.results(state)}
	switch o := out.(type) {
	case persistence.Saved:
		res.Location = o.Location
	case persistence.Unavailable:
		res.Reason = o.Reason
		artifact := o.Artifact
		res.Artifact = &artifact
		// The response still carries the bytes.
		if err := s.store.SaveArtifact(ctx, runID, o.Artifact); err != nil {
			s.log.Error().Err(err).Str("run_id", runID).Msg("Failed to keep fallback artifact")
		}
	}

	s.log.Info().
		Str("run_id", runID).
		Str("outcome", string(res.Outcome)).
		Str("average_level", res.Results.AverageLevel).
		Msg("Run finalized")
	return res, nil
}

// Artifact returns the bytes kept by an unavailable finalization.
func (s *RunService) Artifact(ctx context.Context, runID string) (model.Artifact, error) {
	return s.store.LoadArtifact(ctx, runID)
}

// Export encodes the current state as a fresh result document.
func (s *RunService) Export(ctx context.Context, runID string) (model.Artifact, error) {
	state, err := s.store.Load(ctx, runID)
	if err != nil {
		return model.Artifact{}, err
	}
	body, err := exchange.Export(s.engine, state, s.now())
	if err != nil {
		return model.Artifact{}, err
	}
	return model.Artifact{
		Filename:    persistence.ArtifactFilename(state.Participant.Name),
		ContentType: persistence.ArtifactContentType,
		Body:        body,
	}, nil
}
