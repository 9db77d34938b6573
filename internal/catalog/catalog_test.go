package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/ailit-assessment/internal/model"
)

func TestDefaultCatalogShape(t *testing.T) {
	c := Default()

	ids := c.DimensionIDs()
	require.Equal(t, []string{"dimension1", "dimension2", "dimension3", "dimension4", "dimension5", "dimension6"}, ids)

	for _, d := range c.Dimensions() {
		var ratings, scenarios int
		for _, q := range d.Questions {
			switch q.Kind {
			case model.QuestionKindSelfRating:
				ratings++
				assert.Empty(t, q.Options, "%s/%s", d.ID, q.ID)
			case model.QuestionKindScenario:
				scenarios++
				require.Len(t, q.Options, 3, "%s/%s", d.ID, q.ID)
				var sum int
				for _, o := range q.Options {
					sum += o.Weight
				}
				assert.Equal(t, 1, sum, "%s/%s has exactly one weighted option", d.ID, q.ID)
			}
		}
		assert.Equal(t, 2, scenarios, d.ID)
		assert.GreaterOrEqual(t, ratings, 6, d.ID)
	}

	assert.Equal(t, 9, c.TotalQuestions("dimension1"))
	assert.Equal(t, 8, c.TotalQuestions("dimension2"))
	assert.Equal(t, 0, c.TotalQuestions("dimension99"))
}

func TestQuestionLookup(t *testing.T) {
	c := Default()

	q, ok := c.Question("dimension1", "d1_gk1")
	require.True(t, ok)
	assert.Equal(t, model.QuestionKindScenario, q.Kind)

	_, ok = c.Question("dimension1", "d2_q1")
	assert.False(t, ok)

	_, ok = c.Question("nope", "d1_q1")
	assert.False(t, ok)
}

func TestResultText(t *testing.T) {
	c := Default()

	tests := []struct {
		name       string
		level      model.Level
		downgraded bool
		wantTitle  string
	}{
		{"level 0", model.Level0, false, "The Explorer (Novice), Level 0"},
		{"level 1", model.Level1, false, "The Observer (Awareness), Level 1"},
		{"level 1 downgraded", model.Level1, true, "Risk Warning (Awareness), Level 1"},
		{"level 2", model.Level2, false, "The Practitioner, Level 2"},
		{"level 2 downgraded falls back to plain level", model.Level2, true, "The Practitioner, Level 2"},
		{"level 3", model.Level3, false, "The Architect (Expert), Level 3"},
		{"unknown level falls back to level 0", model.Level(7), false, "The Explorer (Novice), Level 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTitle, c.ResultText(tt.level, tt.downgraded).Title)
		})
	}
}

func TestResultTextWithoutLevelZero(t *testing.T) {
	c, err := Parse([]byte(`
dimensions:
  - id: d
    questions:
      - id: q1
result_texts:
  "3":
    title: Top
  "9_bogus":
    title: Ignored
`))
	require.NoError(t, err)

	assert.Equal(t, "Top", c.ResultText(model.Level3, false).Title)
	assert.Equal(t, FallbackText, c.ResultText(model.Level1, true))
	assert.Equal(t, "Level 2", c.SelfAssessmentTitle(2))
	assert.Equal(t, "Top", c.SelfAssessmentTitle(3))
}

func TestParse(t *testing.T) {
	t.Run("kind inferred from options", func(t *testing.T) {
		c, err := Parse([]byte(`
dimensions:
  - id: d
    questions:
      - id: rating
      - id: pick
        options:
          - {id: a, label: A, weight: 0}
          - {id: b, label: B, weight: 1}
`))
		require.NoError(t, err)

		q, ok := c.Question("d", "rating")
		require.True(t, ok)
		assert.Equal(t, model.QuestionKindSelfRating, q.Kind)

		q, ok = c.Question("d", "pick")
		require.True(t, ok)
		assert.Equal(t, model.QuestionKindScenario, q.Kind)
		assert.Equal(t, 1, q.Options[1].Weight)
	})

	t.Run("no dimensions", func(t *testing.T) {
		_, err := Parse([]byte("result_texts: {}\n"))
		require.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("not yaml", func(t *testing.T) {
		_, err := Parse([]byte("dimensions: [unterminated"))
		require.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), c)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dimensions:\n  - id: only\n    questions: []\n"), 0o600))

	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, c.DimensionIDs())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
