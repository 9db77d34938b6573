package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/ailit-assessment/internal/catalog"
	"github.com/stemsi/ailit-assessment/internal/model"
)

func intPtr(v int) *int { return &v }

func startedManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(catalog.Default())
	require.NoError(t, m.Start("  Ada Lovelace ", intPtr(2)))
	return m
}

func TestStart(t *testing.T) {
	tests := []struct {
		name  string
		input string
		level *int
		field string
	}{
		{"blank name", "   ", intPtr(1), "name"},
		{"missing level", "Ada", nil, "self_assessment"},
		{"level too high", "Ada", intPtr(4), "self_assessment"},
		{"level negative", "Ada", intPtr(-1), "self_assessment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(catalog.Default())
			err := m.Start(tt.input, tt.level)

			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.False(t, m.Started())
			assert.Equal(t, model.Participant{}, m.State().Participant)
		})
	}

	t.Run("valid", func(t *testing.T) {
		m := startedManager(t)
		p := m.State().Participant
		assert.Equal(t, "Ada Lovelace", p.Name)
		require.NotNil(t, p.SelfAssessment)
		assert.Equal(t, 2, *p.SelfAssessment)

		assert.ErrorIs(t, m.Start("Other", intPtr(1)), ErrAlreadyStarted)
	})
}

func TestOpenDimension(t *testing.T) {
	t.Run("requires a participant", func(t *testing.T) {
		m := NewManager(catalog.Default())
		assert.ErrorIs(t, m.OpenDimension("dimension1"), ErrNotStarted)
	})

	t.Run("unknown dimension", func(t *testing.T) {
		m := startedManager(t)
		assert.ErrorIs(t, m.OpenDimension("dimension9"), ErrDimensionNotFound)
		assert.Empty(t, m.State().Sessions)
	})

	t.Run("creates an in-progress session", func(t *testing.T) {
		m := startedManager(t)
		require.NoError(t, m.OpenDimension("dimension1"))

		s := m.State().Sessions["dimension1"]
		require.NotNil(t, s)
		assert.Equal(t, model.SessionStatusInProgress, s.Status)
		assert.Empty(t, s.Answers)
	})

	t.Run("reopening a completed dimension keeps answers and status", func(t *testing.T) {
		m := startedManager(t)
		require.NoError(t, m.OpenDimension("dimension1"))
		require.NoError(t, m.RecordAnswer("dimension1", "d1_q1", 4))
		m.CompleteDimension("dimension1")

		require.NoError(t, m.OpenDimension("dimension1"))
		s := m.State().Sessions["dimension1"]
		assert.Equal(t, model.SessionStatusCompleted, s.Status)
		assert.Equal(t, model.Answers{"d1_q1": 4}, s.Answers)
		assert.Zero(t, s.Cursor)
	})
}

func TestRecordAnswer(t *testing.T) {
	m := startedManager(t)

	assert.ErrorIs(t, m.RecordAnswer("dimension1", "d1_q1", 3), ErrSessionNotOpen)
	assert.ErrorIs(t, m.RecordAnswer("dimension7", "d1_q1", 3), ErrDimensionNotFound)

	require.NoError(t, m.OpenDimension("dimension1"))
	assert.ErrorIs(t, m.RecordAnswer("dimension1", "d2_q1", 3), ErrQuestionNotFound)

	require.NoError(t, m.RecordAnswer("dimension1", "d1_q1", 3))
	require.NoError(t, m.RecordAnswer("dimension1", "d1_q1", 5))
	require.NoError(t, m.RecordAnswer("dimension1", "d1_gk1", 0))

	assert.Equal(t, 2, m.AnsweredCount("dimension1"))
	assert.Equal(t, model.Answers{"d1_q1": 5, "d1_gk1": 0}, m.State().Sessions["dimension1"].Answers)
	assert.Equal(t, 9, m.TotalQuestions("dimension1"))
	assert.Zero(t, m.AnsweredCount("dimension2"))
}

func TestNavigation(t *testing.T) {
	m := startedManager(t)
	require.NoError(t, m.OpenDimension("dimension2"))

	pos, err := m.Prev("dimension2")
	require.NoError(t, err)
	assert.Zero(t, pos.Cursor)
	assert.Equal(t, "d2_q1", pos.QuestionID)

	total := m.TotalQuestions("dimension2")
	for i := 1; i < total; i++ {
		pos, err = m.Next("dimension2")
		require.NoError(t, err)
		assert.Equal(t, i, pos.Cursor)
		assert.Equal(t, model.SessionStatusInProgress, pos.Status)
	}
	assert.Equal(t, "d2_gk2", pos.QuestionID)

	pos, err = m.Next("dimension2")
	require.NoError(t, err)
	assert.Equal(t, total-1, pos.Cursor)
	assert.Equal(t, model.SessionStatusCompleted, pos.Status)

	pos, err = m.Prev("dimension2")
	require.NoError(t, err)
	assert.Equal(t, total-2, pos.Cursor)

	_, err = m.Next("dimension3")
	assert.ErrorIs(t, err, ErrSessionNotOpen)
}

func TestExit(t *testing.T) {
	m := startedManager(t)
	require.NoError(t, m.OpenDimension("dimension2"))
	require.NoError(t, m.RecordAnswer("dimension2", "d2_q1", 4))

	pos, err := m.Exit("dimension2")
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusInProgress, pos.Status)

	d, _ := catalog.Default().Dimension("dimension2")
	for _, q := range d.Questions {
		require.NoError(t, m.RecordAnswer("dimension2", q.ID, 1))
	}
	pos, err = m.Exit("dimension2")
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCompleted, pos.Status)
}

func TestCompleteDimensionWithoutSession(t *testing.T) {
	m := startedManager(t)
	m.CompleteDimension("dimension1")
	assert.Empty(t, m.State().Sessions)
}

func TestCompletionGate(t *testing.T) {
	t.Run("nothing opened", func(t *testing.T) {
		m := startedManager(t)
		assert.NoError(t, m.Finalizable())
	})

	t.Run("in-progress with zero answers blocks", func(t *testing.T) {
		m := startedManager(t)
		require.NoError(t, m.OpenDimension("dimension3"))
		require.NoError(t, m.OpenDimension("dimension1"))
		require.NoError(t, m.RecordAnswer("dimension1", "d1_q1", 2))

		err := m.Finalizable()
		require.ErrorIs(t, err, ErrIncompleteDimensions)
		require.ErrorIs(t, err, ErrValidation)

		var ie *IncompleteError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, []string{"dimension1", "dimension3"}, ie.DimensionIDs)
	})

	t.Run("completed and untouched pass", func(t *testing.T) {
		m := startedManager(t)
		require.NoError(t, m.OpenDimension("dimension1"))
		m.CompleteDimension("dimension1")
		assert.NoError(t, m.Finalizable())
	})
}

func TestProgress(t *testing.T) {
	m := startedManager(t)
	require.NoError(t, m.OpenDimension("dimension2"))
	require.NoError(t, m.RecordAnswer("dimension2", "d2_q3", 5))

	rows := m.Progress()
	require.Len(t, rows, 6)
	assert.False(t, rows[0].Started)
	assert.Equal(t, 9, rows[0].Total)
	assert.True(t, rows[1].Started)
	assert.Equal(t, 1, rows[1].Answered)
	assert.Equal(t, model.SessionStatusInProgress, rows[1].Status)
}

func TestResumeCopiesState(t *testing.T) {
	src := model.AssessmentState{
		Participant: model.Participant{Name: "Ada", SelfAssessment: intPtr(1)},
		Sessions: map[string]*model.Session{
			"dimension1": {Status: model.SessionStatusInProgress, Answers: model.Answers{"d1_q1": 2}},
		},
	}
	m := Resume(catalog.Default(), src)
	require.NoError(t, m.RecordAnswer("dimension1", "d1_q2", 3))

	assert.Len(t, src.Sessions["dimension1"].Answers, 1)
	assert.Equal(t, 2, m.AnsweredCount("dimension1"))
}
