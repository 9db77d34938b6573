package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/exchange"
	"github.com/stemsi/ailit-assessment/internal/repository"
	"github.com/stemsi/ailit-assessment/internal/response"
	"github.com/stemsi/ailit-assessment/internal/service"
	"github.com/stemsi/ailit-assessment/internal/session"
)

// errorMapping is the HTTP rendering of a domain error.
type errorMapping struct {
	Status int
	Code   response.ErrCode
}

// mapError translates domain errors into status codes and API error codes.
// Unknown errors map to 500.
func mapError(err error) errorMapping {
	var incomplete *session.IncompleteError

	switch {
	case errors.As(err, &incomplete):
		return errorMapping{http.StatusConflict, response.ErrIncompleteDimensions}
	case errors.Is(err, session.ErrValidation):
		return errorMapping{http.StatusBadRequest, response.ErrValidation}
	case errors.Is(err, service.ErrAnswerOutOfRange):
		return errorMapping{http.StatusBadRequest, response.ErrAnswerRange}
	case errors.Is(err, exchange.ErrParse):
		return errorMapping{http.StatusUnprocessableEntity, response.ErrImportParse}

	case errors.Is(err, service.ErrRunNotFound):
		return errorMapping{http.StatusNotFound, response.ErrRunNotFound}
	case errors.Is(err, service.ErrArtifactNotFound):
		return errorMapping{http.StatusNotFound, response.ErrNoArtifact}
	case errors.Is(err, session.ErrDimensionNotFound):
		return errorMapping{http.StatusNotFound, response.ErrDimensionNotFound}
	case errors.Is(err, session.ErrQuestionNotFound):
		return errorMapping{http.StatusNotFound, response.ErrQuestionNotFound}
	case errors.Is(err, repository.ErrResultNotFound):
		return errorMapping{http.StatusNotFound, response.ErrNotFound}

	case errors.Is(err, session.ErrNotStarted):
		return errorMapping{http.StatusConflict, response.ErrNotStarted}
	case errors.Is(err, session.ErrSessionNotOpen):
		return errorMapping{http.StatusConflict, response.ErrDimensionNotOpen}
	case errors.Is(err, service.ErrFinalizeInProgress):
		return errorMapping{http.StatusConflict, response.ErrFinalizeInProgress}
	case errors.Is(err, session.ErrAlreadyStarted), errors.Is(err, repository.ErrConflict):
		return errorMapping{http.StatusConflict, response.ErrConflict}

	case errors.Is(err, service.ErrInvalidAdminKey):
		return errorMapping{http.StatusUnauthorized, response.ErrInvalidAdminKey}
	case errors.Is(err, service.ErrAdminDisabled):
		return errorMapping{http.StatusForbidden, response.ErrAdminDisabled}
	}
	return errorMapping{http.StatusInternalServerError, response.ErrInternal}
}

// failWithError writes the error response for err, attaching field details
// for validation failures and the blocking dimensions for the completion gate.
func failWithError(c *gin.Context, log zerolog.Logger, err error) {
	m := mapError(err)

	var verr *session.ValidationError
	var incomplete *session.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		response.FailWithDetails(c, m.Status, m.Code, gin.H{"dimension_ids": incomplete.DimensionIDs})
	case errors.As(err, &verr):
		response.FailWithFields(c, m.Status, m.Code, map[string]string{verr.Field: verr.Reason})
	default:
		if m.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		}
		response.Fail(c, m.Status, m.Code)
	}
}
