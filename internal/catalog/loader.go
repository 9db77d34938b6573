package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/stemsi/ailit-assessment/internal/model"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// ErrEmptyCatalog is returned when a catalogue file declares no dimensions.
var ErrEmptyCatalog = errors.New("catalog declares no dimensions")

// catalogFile mirrors the YAML layout.
type catalogFile struct {
	Dimensions  []dimensionFile           `yaml:"dimensions"`
	ResultTexts map[string]resultTextFile `yaml:"result_texts"`
}

type dimensionFile struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Questions   []questionFile `yaml:"questions"`
}

type questionFile struct {
	ID      string       `yaml:"id"`
	Kind    string       `yaml:"kind"`
	Prompt  string       `yaml:"prompt"`
	Options []optionFile `yaml:"options"`
}

type optionFile struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Weight int    `yaml:"weight"`
}

type resultTextFile struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Action      string `yaml:"action"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalogue. It panics if the embedded file is
// broken, which only a bad build can cause.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load reads a catalogue from path, or returns the embedded default when
// path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalogue from YAML. Beyond requiring at least one
// dimension the structure is taken as given.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if len(f.Dimensions) == 0 {
		return nil, ErrEmptyCatalog
	}

	dims := make([]model.Dimension, 0, len(f.Dimensions))
	for _, df := range f.Dimensions {
		d := model.Dimension{
			ID:          df.ID,
			Title:       df.Title,
			Description: df.Description,
			Questions:   make([]model.Question, 0, len(df.Questions)),
		}
		for _, qf := range df.Questions {
			q := model.Question{
				ID:     qf.ID,
				Kind:   parseKind(qf.Kind, len(qf.Options)),
				Prompt: qf.Prompt,
			}
			for _, of := range qf.Options {
				q.Options = append(q.Options, model.Option{ID: of.ID, Label: of.Label, Weight: of.Weight})
			}
			d.Questions = append(d.Questions, q)
		}
		dims = append(dims, d)
	}

	texts := make(map[TextKey]model.ResultText, len(f.ResultTexts))
	for raw, tf := range f.ResultTexts {
		key, ok := parseTextKey(raw)
		if !ok {
			continue
		}
		texts[key] = model.ResultText{Title: tf.Title, Description: tf.Description, Action: tf.Action}
	}

	return newCatalog(dims, texts), nil
}

// parseKind defaults to a scenario question when options are present and
// the kind is omitted or unrecognised, otherwise to a self-rating question.
func parseKind(kind string, options int) model.QuestionKind {
	switch model.QuestionKind(kind) {
	case model.QuestionKindSelfRating:
		return model.QuestionKindSelfRating
	case model.QuestionKindScenario:
		return model.QuestionKindScenario
	}
	if options > 0 {
		return model.QuestionKindScenario
	}
	return model.QuestionKindSelfRating
}
