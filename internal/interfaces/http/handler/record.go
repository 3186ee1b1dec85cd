package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	recordapp "github.com/keystone/backend/internal/application/record"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
)

// CommunicationHandler handles the communication log endpoints
type CommunicationHandler struct {
	BaseHandler
	communicationService *recordapp.CommunicationService
}

// NewCommunicationHandler creates a new CommunicationHandler
func NewCommunicationHandler(communicationService *recordapp.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{communicationService: communicationService}
}

// Create godoc
// @ID           createCommunication
// @Summary      Log a communication
// @Tags         communications
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                         true "Portfolio ID"
// @Param        request        body   recordapp.CommunicationRequest true "Communication"
// @Success      201 {object} APIResponse[recordapp.CommunicationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/communications [post]
func (h *CommunicationHandler) Create(c *gin.Context) {
	var req recordapp.CommunicationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.communicationService.Create(c.Request.Context(), portfolioID(c), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// List godoc
// @ID           listCommunications
// @Summary      List communications
// @Tags         communications
// @Produce      json
// @Param        X-Portfolio-ID header string true  "Portfolio ID"
// @Param        page           query  int    false "Page number" default(1)
// @Param        page_size      query  int    false "Page size"   default(20)
// @Param        order_by       query  string false "Sort field"  Enums(occurred_at, created_at, subject)
// @Param        order_dir      query  string false "Sort order"  Enums(asc, desc)
// @Param        search         query  string false "Subject, body and counterparty search"
// @Param        property_id    query  string false "Property ID" format(uuid)
// @Param        channel        query  string false "Channel"
// @Param        direction      query  string false "Direction"
// @Param        occurred_from  query  string false "Occurred at or after (RFC 3339)"
// @Param        occurred_to    query  string false "Occurred before (RFC 3339)"
// @Success      200 {object} APIResponse[[]recordapp.CommunicationResponse]
// @Security     BearerAuth
// @Router       /api/v1/communications [get]
func (h *CommunicationHandler) List(c *gin.Context) {
	var filter recordapp.ListCommunicationsFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.communicationService.List(c.Request.Context(), portfolioID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getCommunication
// @Summary      Get a communication
// @Tags         communications
// @Produce      json
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Communication ID" format(uuid)
// @Success      200 {object} APIResponse[recordapp.CommunicationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/communications/{id} [get]
func (h *CommunicationHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	item, err := h.communicationService.GetByID(c.Request.Context(), portfolioID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update godoc
// @ID           updateCommunication
// @Summary      Replace a communication
// @Tags         communications
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                         true "Portfolio ID"
// @Param        id             path   string                         true "Communication ID" format(uuid)
// @Param        request        body   recordapp.CommunicationRequest true "Communication"
// @Success      200 {object} APIResponse[recordapp.CommunicationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/communications/{id} [put]
func (h *CommunicationHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req recordapp.CommunicationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.communicationService.Update(c.Request.Context(), portfolioID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @ID           deleteCommunication
// @Summary      Delete a communication
// @Tags         communications
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Communication ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/communications/{id} [delete]
func (h *CommunicationHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.communicationService.Delete(c.Request.Context(), portfolioID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DecisionHandler handles the decision log endpoints
type DecisionHandler struct {
	BaseHandler
	decisionService *recordapp.DecisionService
}

// NewDecisionHandler creates a new DecisionHandler
func NewDecisionHandler(decisionService *recordapp.DecisionService) *DecisionHandler {
	return &DecisionHandler{decisionService: decisionService}
}

// Create godoc
// @ID           createDecision
// @Summary      Propose a decision
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                          true "Portfolio ID"
// @Param        request        body   recordapp.CreateDecisionRequest true "Decision"
// @Success      201 {object} APIResponse[recordapp.DecisionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/decisions [post]
func (h *DecisionHandler) Create(c *gin.Context) {
	var req recordapp.CreateDecisionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.decisionService.Create(c.Request.Context(), portfolioID(c), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// List godoc
// @ID           listDecisions
// @Summary      List decisions
// @Tags         decisions
// @Produce      json
// @Param        X-Portfolio-ID header string true  "Portfolio ID"
// @Param        page           query  int    false "Page number" default(1)
// @Param        page_size      query  int    false "Page size"   default(20)
// @Param        order_by       query  string false "Sort field"  Enums(created_at, decided_at, title)
// @Param        order_dir      query  string false "Sort order"  Enums(asc, desc)
// @Param        search         query  string false "Title and context search"
// @Param        property_id    query  string false "Property ID" format(uuid)
// @Param        status         query  string false "Status"      Enums(proposed, decided, rejected, superseded)
// @Success      200 {object} APIResponse[[]recordapp.DecisionResponse]
// @Security     BearerAuth
// @Router       /api/v1/decisions [get]
func (h *DecisionHandler) List(c *gin.Context) {
	var filter recordapp.ListDecisionsFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.decisionService.List(c.Request.Context(), portfolioID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getDecision
// @Summary      Get a decision
// @Tags         decisions
// @Produce      json
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Decision ID" format(uuid)
// @Success      200 {object} APIResponse[recordapp.DecisionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/decisions/{id} [get]
func (h *DecisionHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	item, err := h.decisionService.GetByID(c.Request.Context(), portfolioID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update godoc
// @ID           updateDecision
// @Summary      Edit a proposed decision
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                          true "Portfolio ID"
// @Param        id             path   string                          true "Decision ID" format(uuid)
// @Param        request        body   recordapp.UpdateDecisionRequest true "Changes"
// @Success      200 {object} APIResponse[recordapp.DecisionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/decisions/{id} [put]
func (h *DecisionHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req recordapp.UpdateDecisionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.decisionService.Update(c.Request.Context(), portfolioID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Decide godoc
// @ID           decideDecision
// @Summary      Mark a decision as decided
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                           true "Portfolio ID"
// @Param        id             path   string                           true "Decision ID" format(uuid)
// @Param        request        body   recordapp.ResolveDecisionRequest true "Outcome"
// @Success      200 {object} APIResponse[recordapp.DecisionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/decisions/{id}/decide [post]
func (h *DecisionHandler) Decide(c *gin.Context) {
	h.resolve(c, h.decisionService.Decide)
}

// Reject godoc
// @ID           rejectDecision
// @Summary      Reject a proposed decision
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                           true "Portfolio ID"
// @Param        id             path   string                           true "Decision ID" format(uuid)
// @Param        request        body   recordapp.ResolveDecisionRequest true "Outcome"
// @Success      200 {object} APIResponse[recordapp.DecisionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/decisions/{id}/reject [post]
func (h *DecisionHandler) Reject(c *gin.Context) {
	h.resolve(c, h.decisionService.Reject)
}

func (h *DecisionHandler) resolve(c *gin.Context,
	fn func(ctx context.Context, portfolioID, id uuid.UUID, userID string, req recordapp.ResolveDecisionRequest) (*recordapp.DecisionResponse, error)) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req recordapp.ResolveDecisionRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	item, err := fn(c.Request.Context(), portfolioID(c), id, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Supersede godoc
// @ID           supersedeDecision
// @Summary      Mark a decided decision as superseded
// @Tags         decisions
// @Produce      json
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Decision ID" format(uuid)
// @Success      200 {object} APIResponse[recordapp.DecisionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/decisions/{id}/supersede [post]
func (h *DecisionHandler) Supersede(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	item, err := h.decisionService.Supersede(c.Request.Context(), portfolioID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @ID           deleteDecision
// @Summary      Delete a decision
// @Tags         decisions
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Decision ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/decisions/{id} [delete]
func (h *DecisionHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.decisionService.Delete(c.Request.Context(), portfolioID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegistryHandler handles the household registry endpoints
type RegistryHandler struct {
	BaseHandler
	registryService *recordapp.RegistryService
}

// NewRegistryHandler creates a new RegistryHandler
func NewRegistryHandler(registryService *recordapp.RegistryService) *RegistryHandler {
	return &RegistryHandler{registryService: registryService}
}

// Create godoc
// @ID           createRegistryItem
// @Summary      Add a registry item
// @Tags         registry
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                        true "Portfolio ID"
// @Param        request        body   recordapp.RegistryItemRequest true "Registry item"
// @Success      201 {object} APIResponse[recordapp.RegistryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/registry [post]
func (h *RegistryHandler) Create(c *gin.Context) {
	var req recordapp.RegistryItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.registryService.Create(c.Request.Context(), portfolioID(c), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// List godoc
// @ID           listRegistryItems
// @Summary      List registry items
// @Description  expiring_within_days keeps items whose expiry falls within that many UTC days from today
// @Tags         registry
// @Produce      json
// @Param        X-Portfolio-ID       header string true  "Portfolio ID"
// @Param        page                 query  int    false "Page number" default(1)
// @Param        page_size            query  int    false "Page size"   default(20)
// @Param        order_by             query  string false "Sort field"  Enums(name, expires_on, created_at, category)
// @Param        order_dir            query  string false "Sort order"  Enums(asc, desc)
// @Param        search               query  string false "Name, provider and reference search"
// @Param        property_id          query  string false "Property ID" format(uuid)
// @Param        category             query  string false "Category"
// @Param        expiring_within_days query  int    false "Expiry window in days"
// @Success      200 {object} APIResponse[[]recordapp.RegistryItemResponse]
// @Security     BearerAuth
// @Router       /api/v1/registry [get]
func (h *RegistryHandler) List(c *gin.Context) {
	var filter recordapp.ListRegistryFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.registryService.List(c.Request.Context(), portfolioID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getRegistryItem
// @Summary      Get a registry item
// @Tags         registry
// @Produce      json
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Registry item ID" format(uuid)
// @Success      200 {object} APIResponse[recordapp.RegistryItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/registry/{id} [get]
func (h *RegistryHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	item, err := h.registryService.GetByID(c.Request.Context(), portfolioID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update godoc
// @ID           updateRegistryItem
// @Summary      Replace a registry item
// @Tags         registry
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                        true "Portfolio ID"
// @Param        id             path   string                        true "Registry item ID" format(uuid)
// @Param        request        body   recordapp.RegistryItemRequest true "Registry item"
// @Success      200 {object} APIResponse[recordapp.RegistryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/registry/{id} [put]
func (h *RegistryHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req recordapp.RegistryItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.registryService.Update(c.Request.Context(), portfolioID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @ID           deleteRegistryItem
// @Summary      Delete a registry item
// @Tags         registry
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Registry item ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/registry/{id} [delete]
func (h *RegistryHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.registryService.Delete(c.Request.Context(), portfolioID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
