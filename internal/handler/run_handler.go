package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/middleware"
	"github.com/stemsi/ailit-assessment/internal/model"
	"github.com/stemsi/ailit-assessment/internal/persistence"
	"github.com/stemsi/ailit-assessment/internal/response"
	"github.com/stemsi/ailit-assessment/internal/service"
	"github.com/stemsi/ailit-assessment/internal/validator"
)

// ArtifactDownloadPath is where a run fetches the bytes kept by an
// unavailable finalization.
const ArtifactDownloadPath = "/api/v1/runs/me/artifact"

// RunHandler handles the participant assessment endpoints.
type RunHandler struct {
	runService     *service.RunService
	maxImportBytes int64
	log            zerolog.Logger
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runService *service.RunService, maxImportBytes int64, log zerolog.Logger) *RunHandler {
	return &RunHandler{
		runService:     runService,
		maxImportBytes: maxImportBytes,
		log:            log.With().Str("component", "run_handler").Logger(),
	}
}

// StartRun godoc
// POST /api/v1/runs
// Registers the participant and returns a run token.
func (h *RunHandler) StartRun(c *gin.Context) {
	var req model.StartRunRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	started, err := h.runService.Start(c.Request.Context(), req.Name, req.SelfAssessment)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, started)
}

// ImportRun godoc
// POST /api/v1/runs/import
// Restores a previously exported result document into a new run.
// Accepts a multipart "file" field or the raw JSON body.
func (h *RunHandler) ImportRun(c *gin.Context) {
	data, code, status := h.readImport(c)
	if code != "" {
		response.Fail(c, status, code)
		return
	}

	started, err := h.runService.Import(c.Request.Context(), data)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, started)
}

// readImport returns the uploaded document, or an error code and status.
func (h *RunHandler) readImport(c *gin.Context) ([]byte, response.ErrCode, int) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImportBytes)

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			if isTooLarge(ferr) {
				return nil, response.ErrFileTooLarge, http.StatusRequestEntityTooLarge
			}
			return nil, response.ErrFileRequired, http.StatusBadRequest
		}
		if fh.Size > h.maxImportBytes {
			return nil, response.ErrFileTooLarge, http.StatusRequestEntityTooLarge
		}
		if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != "" && ext != ".json" {
			return nil, response.ErrUnsupportedFile, http.StatusBadRequest
		}
		f, ferr := fh.Open()
		if ferr != nil {
			return nil, response.ErrFileRequired, http.StatusBadRequest
		}
		defer f.Close()
		data, err = io.ReadAll(f)
	} else {
		data, err = io.ReadAll(c.Request.Body)
	}

	if err != nil {
		if isTooLarge(err) {
			return nil, response.ErrFileTooLarge, http.StatusRequestEntityTooLarge
		}
		return nil, response.ErrInvalidPayload, http.StatusBadRequest
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, response.ErrFileRequired, http.StatusBadRequest
	}
	return data, "", 0
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// GetRun godoc
// GET /api/v1/runs/me
// Returns the run state with per-dimension progress.
func (h *RunHandler) GetRun(c *gin.Context) {
	view, err := h.runService.View(c.Request.Context(), middleware.GetRunID(c))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// OpenDimension godoc
// POST /api/v1/runs/me/dimensions/:dimension_id/open
// Opens (or re-opens) a dimension at its first question.
func (h *RunHandler) OpenDimension(c *gin.Context) {
	pos, err := h.runService.Open(c.Request.Context(), middleware.GetRunID(c), c.Param("dimension_id"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, pos)
}

// RecordAnswer godoc
// PUT /api/v1/runs/me/dimensions/:dimension_id/answers/:question_id
// Records or overwrites the answer to one question.
func (h *RunHandler) RecordAnswer(c *gin.Context) {
	var req model.RecordAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pos, err := h.runService.Answer(c.Request.Context(), middleware.GetRunID(c),
		c.Param("dimension_id"), c.Param("question_id"), *req.Value)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, pos)
}

// NextQuestion godoc
// POST /api/v1/runs/me/dimensions/:dimension_id/next
// Advances the cursor; on the last question the dimension completes.
func (h *RunHandler) NextQuestion(c *gin.Context) {
	pos, err := h.runService.Next(c.Request.Context(), middleware.GetRunID(c), c.Param("dimension_id"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, pos)
}

// PrevQuestion godoc
// POST /api/v1/runs/me/dimensions/:dimension_id/prev
func (h *RunHandler) PrevQuestion(c *gin.Context) {
	pos, err := h.runService.Prev(c.Request.Context(), middleware.GetRunID(c), c.Param("dimension_id"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, pos)
}

// ExitDimension godoc
// POST /api/v1/runs/me/dimensions/:dimension_id/exit
// Leaves the dimension. It only counts as completed when every question is answered.
func (h *RunHandler) ExitDimension(c *gin.Context) {
	pos, err := h.runService.Exit(c.Request.Context(), middleware.GetRunID(c), c.Param("dimension_id"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, pos)
}

// GetResults godoc
// GET /api/v1/runs/me/results
// Returns per-dimension results and the average level for the current state.
func (h *RunHandler) GetResults(c *gin.Context) {
	results, err := h.runService.Results(c.Request.Context(), middleware.GetRunID(c))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, results)
}

// Finalize godoc
// POST /api/v1/runs/me/finalize
// Checks every opened dimension is completed, then submits the result
// document. When the results store cannot be reached the response points
// at a download of the same document.
func (h *RunHandler) Finalize(c *gin.Context) {
	res, err := h.runService.Finalize(c.Request.Context(), middleware.GetRunID(c))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	body := gin.H{
		"outcome": res.Outcome,
		"results": res.Results,
	}
	switch res.Outcome {
	case persistence.OutcomeSaved:
		body["location"] = res.Location
	case persistence.OutcomeUnavailable:
		body["reason"] = res.Reason
		body["download_url"] = ArtifactDownloadPath
		if res.Artifact != nil {
			body["filename"] = res.Artifact.Filename
		}
	}
	response.Success(c, http.StatusOK, body)
}

// DownloadArtifact godoc
// GET /api/v1/runs/me/artifact
// Streams the exact document bytes produced by an unavailable finalization.
func (h *RunHandler) DownloadArtifact(c *gin.Context) {
	a, err := h.runService.Artifact(c.Request.Context(), middleware.GetRunID(c))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Attachment(c, a.Filename, a.ContentType, a.Body)
}

// ExportRun godoc
// GET /api/v1/runs/me/export
// Downloads a fresh result document for the current state.
func (h *RunHandler) ExportRun(c *gin.Context) {
	a, err := h.runService.Export(c.Request.Context(), middleware.GetRunID(c))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Attachment(c, a.Filename, a.ContentType, a.Body)
}
