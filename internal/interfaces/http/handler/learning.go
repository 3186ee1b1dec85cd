package handler

import (
	"github.com/gin-gonic/gin"
	learningapp "github.com/keystone/backend/internal/application/learning"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
)

// LearningHandler serves the glossary and per-user reading progress
type LearningHandler struct {
	BaseHandler
	learningService *learningapp.LearningService
}

// NewLearningHandler creates a new LearningHandler
func NewLearningHandler(learningService *learningapp.LearningService) *LearningHandler {
	return &LearningHandler{learningService: learningService}
}

// ListTerms godoc
// @ID           listGlossaryTerms
// @Summary      List glossary terms
// @Description  Terms carry the caller's read state
// @Tags         learning
// @Produce      json
// @Param        search   query string false "Term and definition search"
// @Param        category query string false "Category slug"
// @Success      200 {object} APIResponse[[]learningapp.TermResponse]
// @Security     BearerAuth
// @Router       /api/v1/learning/glossary [get]
func (h *LearningHandler) ListTerms(c *gin.Context) {
	var filter learningapp.GlossaryFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	h.Success(c, h.learningService.ListTerms(c.Request.Context(), middleware.GetUserID(c), filter))
}

// Categories godoc
// @ID           listGlossaryCategories
// @Summary      List glossary categories
// @Tags         learning
// @Produce      json
// @Success      200 {object} APIResponse[[]learningapp.CategoryResponse]
// @Security     BearerAuth
// @Router       /api/v1/learning/glossary/categories [get]
func (h *LearningHandler) Categories(c *gin.Context) {
	h.Success(c, h.learningService.Categories())
}

// GetTerm godoc
// @ID           getGlossaryTerm
// @Summary      Get a glossary term
// @Tags         learning
// @Produce      json
// @Param        slug path string true "Term slug"
// @Success      200 {object} APIResponse[learningapp.TermResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/learning/glossary/{slug} [get]
func (h *LearningHandler) GetTerm(c *gin.Context) {
	term, err := h.learningService.GetTerm(c.Request.Context(), middleware.GetUserID(c), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, term)
}

// GetProgress godoc
// @ID           getLearningProgress
// @Summary      Reading progress
// @Tags         learning
// @Produce      json
// @Success      200 {object} APIResponse[learningapp.ProgressResponse]
// @Security     BearerAuth
// @Router       /api/v1/learning/progress [get]
func (h *LearningHandler) GetProgress(c *gin.Context) {
	progress, err := h.learningService.GetProgress(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}

// MarkRead godoc
// @ID           markGlossaryTermRead
// @Summary      Mark a term as read
// @Description  Idempotent; the first read time is kept
// @Tags         learning
// @Produce      json
// @Param        slug path string true "Term slug"
// @Success      200 {object} APIResponse[learningapp.ProgressResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/learning/progress/{slug} [put]
func (h *LearningHandler) MarkRead(c *gin.Context) {
	progress, err := h.learningService.MarkRead(c.Request.Context(), middleware.GetUserID(c), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}

// ResetProgress godoc
// @ID           resetLearningProgress
// @Summary      Reset reading progress
// @Tags         learning
// @Produce      json
// @Success      200 {object} APIResponse[learningapp.ResetResponse]
// @Security     BearerAuth
// @Router       /api/v1/learning/progress [delete]
func (h *LearningHandler) ResetProgress(c *gin.Context) {
	reset, err := h.learningService.ResetProgress(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reset)
}
