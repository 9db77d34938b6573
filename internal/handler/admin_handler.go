package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/response"
	"github.com/stemsi/ailit-assessment/internal/service"
)

// AdminHandler serves stored results to administrators.
type AdminHandler struct {
	resultService *service.ResultService
	log           zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(resultService *service.ResultService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		resultService: resultService,
		log:           log.With().Str("component", "admin_handler").Logger(),
	}
}

// ListResults godoc
// GET /api/v1/admin/results?page=1&per_page=20
// Returns stored results, newest first.
func (h *AdminHandler) ListResults(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	results, total, err := h.resultService.List(c.Request.Context(), page, perPage)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": results},
		response.NewPagination(page, perPage, total))
}

// GetResult godoc
// GET /api/v1/admin/results/:id
// Returns one stored result including its document.
func (h *AdminHandler) GetResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.resultService.Get(c.Request.Context(), id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}
