package handler

import (
	"github.com/gin-gonic/gin"
	wealthapp "github.com/keystone/backend/internal/application/wealth"
)

// WealthHandler serves the wealth journey dashboard
type WealthHandler struct {
	BaseHandler
	journeyService *wealthapp.JourneyService
}

// NewWealthHandler creates a new WealthHandler
func NewWealthHandler(journeyService *wealthapp.JourneyService) *WealthHandler {
	return &WealthHandler{journeyService: journeyService}
}

// GetJourney godoc
// @ID           getWealthJourney
// @Summary      Wealth journey
// @Description  Portfolio totals across held properties with the milestone ladder. Served from cache when warm.
// @Tags         wealth
// @Produce      json
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Success      200 {object} APIResponse[wealthapp.JourneyResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/wealth/journey [get]
func (h *WealthHandler) GetJourney(c *gin.Context) {
	journey, err := h.journeyService.GetJourney(c.Request.Context(), portfolioID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, journey)
}
