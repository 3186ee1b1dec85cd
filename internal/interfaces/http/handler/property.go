package handler

import (
	"github.com/gin-gonic/gin"
	propertyapp "github.com/keystone/backend/internal/application/property"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
)

// PropertyHandler handles property endpoints
type PropertyHandler struct {
	BaseHandler
	propertyService *propertyapp.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *propertyapp.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// Create godoc
// @ID           createProperty
// @Summary      Create a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                            true "Portfolio ID"
// @Param        request        body   propertyapp.CreatePropertyRequest true "Property"
// @Success      201 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	var req propertyapp.CreatePropertyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.propertyService.Create(c.Request.Context(), portfolioID(c), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// List godoc
// @ID           listProperties
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Param        X-Portfolio-ID header string true  "Portfolio ID"
// @Param        page           query  int    false "Page number" default(1)
// @Param        page_size      query  int    false "Page size"   default(20)
// @Param        order_by       query  string false "Sort field"  Enums(name, city, created_at, updated_at, type, status)
// @Param        order_dir      query  string false "Sort order"  Enums(asc, desc)
// @Param        search         query  string false "Name and address search"
// @Param        type           query  string false "Property type"
// @Param        status         query  string false "Ownership status"
// @Param        city           query  string false "City"
// @Success      200 {object} APIResponse[[]propertyapp.PropertyResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	var filter propertyapp.ListPropertiesFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.propertyService.List(c.Request.Context(), portfolioID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getProperty
// @Summary      Get a property
// @Tags         properties
// @Produce      json
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/properties/{id} [get]
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.propertyService.GetByID(c.Request.Context(), portfolioID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Update godoc
// @ID           updateProperty
// @Summary      Update a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                            true "Portfolio ID"
// @Param        id             path   string                            true "Property ID" format(uuid)
// @Param        request        body   propertyapp.UpdatePropertyRequest true "Changes"
// @Success      200 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req propertyapp.UpdatePropertyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.propertyService.Update(c.Request.Context(), portfolioID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete godoc
// @ID           deleteProperty
// @Summary      Delete a property
// @Tags         properties
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Property ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), portfolioID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetFinancials godoc
// @ID           getPropertyFinancials
// @Summary      Get property financials
// @Description  Returns the stored figures with derived equity, cash flow and yields
// @Tags         properties
// @Produce      json
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.FinancialsResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/properties/{id}/financials [get]
func (h *PropertyHandler) GetFinancials(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	f, err := h.propertyService.GetFinancials(c.Request.Context(), portfolioID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, f)
}

// UpdateFinancials godoc
// @ID           updatePropertyFinancials
// @Summary      Replace property financials
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        X-Portfolio-ID header string                    true "Portfolio ID"
// @Param        id             path   string                    true "Property ID" format(uuid)
// @Param        request        body   propertyapp.FinancialsDTO true "Financials"
// @Success      200 {object} APIResponse[propertyapp.FinancialsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/properties/{id}/financials [put]
func (h *PropertyHandler) UpdateFinancials(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req propertyapp.FinancialsDTO
	if !h.BindJSON(c, &req) {
		return
	}

	f, err := h.propertyService.UpdateFinancials(c.Request.Context(), portfolioID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, f)
}
