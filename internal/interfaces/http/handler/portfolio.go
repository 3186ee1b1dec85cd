package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portfolioapp "github.com/keystone/backend/internal/application/portfolio"
	"github.com/keystone/backend/internal/interfaces/http/dto"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
)

// PortfolioHandler handles portfolio and membership endpoints
type PortfolioHandler struct {
	BaseHandler
	portfolioService *portfolioapp.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *portfolioapp.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// Create godoc
// @ID           createPortfolio
// @Summary      Create a portfolio
// @Description  Creates a portfolio owned by the caller
// @Tags         portfolios
// @Accept       json
// @Produce      json
// @Param        request body portfolioapp.CreatePortfolioRequest true "Portfolio"
// @Success      201 {object} APIResponse[portfolioapp.PortfolioResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/portfolios [post]
func (h *PortfolioHandler) Create(c *gin.Context) {
	var req portfolioapp.CreatePortfolioRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session := middleware.GetSession(c)
	p, err := h.portfolioService.Create(c.Request.Context(), session.UserID, session.Email, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// List godoc
// @ID           listPortfolios
// @Summary      List my portfolios
// @Description  Lists the portfolios the caller is a member of, with the caller's role
// @Tags         portfolios
// @Produce      json
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size"   default(20)
// @Param        search    query string false "Name search"
// @Success      200 {object} APIResponse[[]portfolioapp.PortfolioResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/portfolios [get]
func (h *PortfolioHandler) List(c *gin.Context) {
	var filter portfolioapp.ListPortfoliosFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.portfolioService.ListMine(c.Request.Context(), middleware.GetUserID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getPortfolio
// @Summary      Get a portfolio
// @Tags         portfolios
// @Produce      json
// @Param        id path string true "Portfolio ID" format(uuid)
// @Success      200 {object} APIResponse[portfolioapp.PortfolioResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/portfolios/{id} [get]
func (h *PortfolioHandler) Get(c *gin.Context) {
	p, err := h.portfolioService.Get(c.Request.Context(), portfolioID(c), middleware.GetPortfolioRole(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Update godoc
// @ID           updatePortfolio
// @Summary      Update a portfolio
// @Description  Owners and managers may rename a portfolio or change its currency
// @Tags         portfolios
// @Accept       json
// @Produce      json
// @Param        id      path string                              true "Portfolio ID" format(uuid)
// @Param        request body portfolioapp.UpdatePortfolioRequest true "Changes"
// @Success      200 {object} APIResponse[portfolioapp.PortfolioResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/portfolios/{id} [put]
func (h *PortfolioHandler) Update(c *gin.Context) {
	var req portfolioapp.UpdatePortfolioRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.portfolioService.Update(c.Request.Context(), portfolioID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete godoc
// @ID           deletePortfolio
// @Summary      Delete a portfolio
// @Description  Owner only. Removes the portfolio with its members and records.
// @Tags         portfolios
// @Param        id path string true "Portfolio ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/portfolios/{id} [delete]
func (h *PortfolioHandler) Delete(c *gin.Context) {
	if err := h.portfolioService.Delete(c.Request.Context(), portfolioID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListMembers godoc
// @ID           listPortfolioMembers
// @Summary      List members
// @Tags         portfolios
// @Produce      json
// @Param        id path string true "Portfolio ID" format(uuid)
// @Success      200 {object} APIResponse[[]portfolioapp.MemberResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/portfolios/{id}/members [get]
func (h *PortfolioHandler) ListMembers(c *gin.Context) {
	members, err := h.portfolioService.ListMembers(c.Request.Context(), portfolioID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, members)
}

// ChangeMemberRole godoc
// @ID           changePortfolioMemberRole
// @Summary      Change a member's role
// @Description  Owner only. The last owner cannot be demoted.
// @Tags         portfolios
// @Accept       json
// @Produce      json
// @Param        id      path string                               true "Portfolio ID" format(uuid)
// @Param        userId  path string                               true "Member user ID"
// @Param        request body portfolioapp.ChangeMemberRoleRequest true "New role"
// @Success      200 {object} APIResponse[portfolioapp.MemberResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/portfolios/{id}/members/{userId} [patch]
func (h *PortfolioHandler) ChangeMemberRole(c *gin.Context) {
	var req portfolioapp.ChangeMemberRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	member, err := h.portfolioService.ChangeMemberRole(c.Request.Context(), portfolioID(c), c.Param("userId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// RemoveMember godoc
// @ID           removePortfolioMember
// @Summary      Remove a member
// @Description  Owners may remove anyone but the last owner; members may remove themselves.
// @Tags         portfolios
// @Param        id     path string true "Portfolio ID" format(uuid)
// @Param        userId path string true "Member user ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/portfolios/{id}/members/{userId} [delete]
func (h *PortfolioHandler) RemoveMember(c *gin.Context) {
	target := c.Param("userId")
	if target != middleware.GetUserID(c) && !middleware.GetPortfolioRole(c).CanAdminister() {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "This action requires the owner role")
		return
	}

	if err := h.portfolioService.RemoveMember(c.Request.Context(), portfolioID(c), target); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
