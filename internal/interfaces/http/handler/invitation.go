package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portfolioapp "github.com/keystone/backend/internal/application/portfolio"
	"github.com/keystone/backend/internal/interfaces/http/dto"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
)

// InvitationHandler handles portfolio invitation endpoints
type InvitationHandler struct {
	BaseHandler
	invitationService *portfolioapp.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler
func NewInvitationHandler(invitationService *portfolioapp.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// Create godoc
// @ID           createInvitation
// @Summary      Invite someone to the portfolio
// @Description  Issues a single-use invitation token. Re-inviting an email revokes its pending invitation.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                               true "Portfolio ID"
// @Param        request        body   portfolioapp.CreateInvitationRequest true "Invitation"
// @Success      201 {object} APIResponse[portfolioapp.IssuedInvitationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/invitations [post]
func (h *InvitationHandler) Create(c *gin.Context) {
	var req portfolioapp.CreateInvitationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.invitationService.Issue(c.Request.Context(), portfolioID(c), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// List godoc
// @ID           listInvitations
// @Summary      List invitations
// @Tags         invitations
// @Produce      json
// @Param        X-Portfolio-ID header string true  "Portfolio ID"
// @Param        page           query  int    false "Page number" default(1)
// @Param        page_size      query  int    false "Page size"   default(20)
// @Param        status         query  string false "Status"      Enums(pending, accepted, expired, revoked)
// @Param        search         query  string false "Email search"
// @Success      200 {object} APIResponse[[]portfolioapp.InvitationResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/invitations [get]
func (h *InvitationHandler) List(c *gin.Context) {
	var filter portfolioapp.ListInvitationsFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.invitationService.List(c.Request.Context(), portfolioID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Revoke godoc
// @ID           revokeInvitation
// @Summary      Revoke a pending invitation
// @Tags         invitations
// @Produce      json
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Invitation ID" format(uuid)
// @Success      200 {object} APIResponse[portfolioapp.InvitationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/invitations/{id} [delete]
func (h *InvitationHandler) Revoke(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	inv, err := h.invitationService.Revoke(c.Request.Context(), portfolioID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Validate godoc
// @ID           validateInvitation
// @Summary      Preview an invitation
// @Description  Public. Reports the portfolio and role an invitation token grants without consuming it.
// @Tags         invitations
// @Produce      json
// @Param        token query string true "Invitation token"
// @Success      200 {object} APIResponse[portfolioapp.InvitationPreviewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /api/v1/invitations/validate [get]
func (h *InvitationHandler) Validate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRequired, "token is required")
		return
	}

	preview, err := h.invitationService.Validate(c.Request.Context(), token)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Accept godoc
// @ID           acceptInvitation
// @Summary      Accept an invitation
// @Description  Joins the caller to the invitation's portfolio. The token is consumed.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        request body portfolioapp.AcceptInvitationRequest true "Token"
// @Success      200 {object} APIResponse[portfolioapp.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/invitations/accept [post]
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req portfolioapp.AcceptInvitationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session := middleware.GetSession(c)
	member, err := h.invitationService.Accept(c.Request.Context(), req.Token, session.UserID, session.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}
