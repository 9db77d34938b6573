package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/response"
	"github.com/stemsi/ailit-assessment/internal/service"
)

// ResultHandler receives finalized result documents.
type ResultHandler struct {
	resultService *service.ResultService
	maxBodyBytes  int64
	log           zerolog.Logger
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService, maxBodyBytes int64, log zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		resultService: resultService,
		maxBodyBytes:  maxBodyBytes,
		log:           log.With().Str("component", "result_handler").Logger(),
	}
}

// SubmitResult godoc
// POST /api/v1/results
// Accepts a result document and returns the path it is stored under.
func (h *ResultHandler) SubmitResult(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		if isTooLarge(err) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	path, err := h.resultService.Submit(c.Request.Context(), body)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"path": path})
}
