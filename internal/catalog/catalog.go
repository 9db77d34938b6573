package catalog

import (
	"github.com/stemsi/ailit-assessment/internal/model"
)

// Catalog is the immutable question catalogue plus its result texts.
// It is built once at startup and shared read-only afterwards.
type Catalog struct {
	dimensions []model.Dimension
	index      map[string]int
	texts      map[TextKey]model.ResultText
}

func newCatalog(dims []model.Dimension, texts map[TextKey]model.ResultText) *Catalog {
	c := &Catalog{
		dimensions: make([]model.Dimension, 0, len(dims)),
		index:      make(map[string]int, len(dims)),
		texts:      texts,
	}
	for _, d := range dims {
		// First declaration wins on duplicate ids.
		if _, dup := c.index[d.ID]; dup {
			continue
		}
		c.index[d.ID] = len(c.dimensions)
		c.dimensions = append(c.dimensions, d)
	}
	return c
}

// Dimensions returns every dimension in catalogue order.
func (c *Catalog) Dimensions() []model.Dimension {
	out := make([]model.Dimension, len(c.dimensions))
	copy(out, c.dimensions)
	return out
}

// DimensionIDs returns the dimension ids in catalogue order.
func (c *Catalog) DimensionIDs() []string {
	ids := make([]string, len(c.dimensions))
	for i, d := range c.dimensions {
		ids[i] = d.ID
	}
	return ids
}

// Dimension looks up a dimension by id.
func (c *Catalog) Dimension(id string) (model.Dimension, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Dimension{}, false
	}
	return c.dimensions[i], true
}

// Has reports whether the catalogue declares the dimension.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Question looks up a question inside a dimension.
func (c *Catalog) Question(dimensionID, questionID string) (model.Question, bool) {
	d, ok := c.Dimension(dimensionID)
	if !ok {
		return model.Question{}, false
	}
	for _, q := range d.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return model.Question{}, false
}

// TotalQuestions returns the question count of a dimension, 0 if unknown.
func (c *Catalog) TotalQuestions(dimensionID string) int {
	d, ok := c.Dimension(dimensionID)
	if !ok {
		return 0
	}
	return len(d.Questions)
}
