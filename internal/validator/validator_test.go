package validator

import (
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/ailit-assessment/internal/model"
)

func newValidate() *govalidator.Validate {
	v := govalidator.New()
	v.SetTagName("binding")
	Register(v)
	return v
}

func TestStartRunRequestValidation(t *testing.T) {
	v := newValidate()
	two := 2
	five := 5

	require.NoError(t, v.Struct(model.StartRunRequest{Name: "Ada", SelfAssessment: &two}))

	fields := TranslateErrors(v.Struct(model.StartRunRequest{Name: "   ", SelfAssessment: &two}))
	assert.Equal(t, "name must not be blank", fields["name"])

	fields = TranslateErrors(v.Struct(model.StartRunRequest{Name: "Ada"}))
	assert.Contains(t, fields, "self_assessment")

	fields = TranslateErrors(v.Struct(model.StartRunRequest{Name: "Ada", SelfAssessment: &five}))
	assert.Contains(t, fields["self_assessment"], "3")
}

func TestTranslateNonValidationError(t *testing.T) {
	fields := TranslateErrors(assert.AnError)
	assert.Equal(t, map[string]string{"detail": assert.AnError.Error()}, fields)
}
