package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	forgeapp "github.com/keystone/backend/internal/application/forge"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
)

// ForgeHandler serves the internal admin area: tickets, agent executions,
// token budgets and runner keys
type ForgeHandler struct {
	BaseHandler
	tickets    *forgeapp.TicketService
	executions *forgeapp.ExecutionService
	budgets    *forgeapp.BudgetService
	runnerKeys *forgeapp.RunnerKeyService
}

// NewForgeHandler creates a new ForgeHandler
func NewForgeHandler(tickets *forgeapp.TicketService, executions *forgeapp.ExecutionService,
	budgets *forgeapp.BudgetService, runnerKeys *forgeapp.RunnerKeyService) *ForgeHandler {
	return &ForgeHandler{
		tickets:    tickets,
		executions: executions,
		budgets:    budgets,
		runnerKeys: runnerKeys,
	}
}

// ticketID accepts either a ticket UUID or its key, e.g. FRG-42
func (h *ForgeHandler) ticketID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	if id, err := uuid.Parse(raw); err == nil {
		return id, true
	}
	t, err := h.tickets.Get(c.Request.Context(), raw)
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, false
	}
	return t.ID, true
}

// CreateTicket godoc
// @ID           createForgeTicket
// @Summary      Create a ticket
// @Tags         forge
// @Accept       json
// @Produce      json
// @Param        request body forgeapp.CreateTicketRequest true "Ticket"
// @Success      201 {object} APIResponse[forgeapp.TicketResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/tickets [post]
func (h *ForgeHandler) CreateTicket(c *gin.Context) {
	var req forgeapp.CreateTicketRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.tickets.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// ListTickets godoc
// @ID           listForgeTickets
// @Summary      List tickets
// @Tags         forge
// @Produce      json
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size"   default(20)
// @Param        order_by  query string false "Sort field"  Enums(number, created_at, updated_at, priority, title)
// @Param        order_dir query string false "Sort order"  Enums(asc, desc)
// @Param        search    query string false "Title and description search"
// @Param        status    query string false "Status"
// @Param        priority  query string false "Priority"
// @Param        assignee  query string false "Assignee"
// @Param        label     query string false "Label"
// @Success      200 {object} APIResponse[[]forgeapp.TicketResponse]
// @Security     BearerAuth
// @Router       /forge/v1/tickets [get]
func (h *ForgeHandler) ListTickets(c *gin.Context) {
	var filter forgeapp.ListTicketsFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.tickets.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Board godoc
// @ID           getForgeBoard
// @Summary      Kanban board
// @Description  Tickets grouped by status column in board order
// @Tags         forge
// @Produce      json
// @Success      200 {object} APIResponse[forgeapp.BoardResponse]
// @Security     BearerAuth
// @Router       /forge/v1/tickets/board [get]
func (h *ForgeHandler) Board(c *gin.Context) {
	board, err := h.tickets.Board(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, board)
}

// GetTicket godoc
// @ID           getForgeTicket
// @Summary      Get a ticket
// @Tags         forge
// @Produce      json
// @Param        id path string true "Ticket ID or key"
// @Success      200 {object} APIResponse[forgeapp.TicketResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/tickets/{id} [get]
func (h *ForgeHandler) GetTicket(c *gin.Context) {
	t, err := h.tickets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// UpdateTicket godoc
// @ID           updateForgeTicket
// @Summary      Update a ticket
// @Tags         forge
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Ticket ID or key"
// @Param        request body forgeapp.UpdateTicketRequest true "Changes"
// @Success      200 {object} APIResponse[forgeapp.TicketResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/tickets/{id} [put]
func (h *ForgeHandler) UpdateTicket(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}
	var req forgeapp.UpdateTicketRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.tickets.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// MoveTicket godoc
// @ID           moveForgeTicket
// @Summary      Move a ticket on the board
// @Description  Changes status and board position. Fails with 409 when expected_version is stale.
// @Tags         forge
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Ticket ID or key"
// @Param        request body forgeapp.MoveTicketRequest true "Target column and neighbours"
// @Success      200 {object} APIResponse[forgeapp.TicketResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/tickets/{id}/move [post]
func (h *ForgeHandler) MoveTicket(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}
	var req forgeapp.MoveTicketRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.tickets.Move(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// DeleteTicket godoc
// @ID           deleteForgeTicket
// @Summary      Delete a ticket
// @Tags         forge
// @Param        id path string true "Ticket ID or key"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/tickets/{id} [delete]
func (h *ForgeHandler) DeleteTicket(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	if err := h.tickets.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// StartExecution godoc
// @ID           startForgeExecution
// @Summary      Start an agent execution
// @Description  Refused with 422 when the current hard budget is exhausted
// @Tags         forge
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Ticket ID or key"
// @Param        request body forgeapp.StartExecutionRequest true "Agent and model"
// @Success      201 {object} APIResponse[forgeapp.ExecutionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/tickets/{id}/executions [post]
func (h *ForgeHandler) StartExecution(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}
	var req forgeapp.StartExecutionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.executions.Start(c.Request.Context(), id, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, e)
}

// ListExecutions godoc
// @ID           listForgeExecutions
// @Summary      List agent executions
// @Tags         forge
// @Produce      json
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size"   default(20)
// @Param        order_by   query string false "Sort field"  Enums(started_at, finished_at)
// @Param        order_dir  query string false "Sort order"  Enums(asc, desc)
// @Param        ticket_id  query string false "Ticket ID"   format(uuid)
// @Param        status     query string false "Status"
// @Param        agent_name query string false "Agent name"
// @Success      200 {object} APIResponse[[]forgeapp.ExecutionResponse]
// @Security     BearerAuth
// @Router       /forge/v1/executions [get]
func (h *ForgeHandler) ListExecutions(c *gin.Context) {
	var filter forgeapp.ListExecutionsFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.executions.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetExecution godoc
// @ID           getForgeExecution
// @Summary      Get an agent execution
// @Tags         forge
// @Produce      json
// @Param        id path string true "Execution ID" format(uuid)
// @Success      200 {object} APIResponse[forgeapp.ExecutionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/executions/{id} [get]
func (h *ForgeHandler) GetExecution(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	e, err := h.executions.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// CompleteExecution godoc
// @ID           completeForgeExecution
// @Summary      Report an execution result
// @Description  Records token usage and charges the month's budget. Also served to runners under /forge/runner/v1.
// @Tags         forge
// @Accept       json
// @Produce      json
// @Param        id      path string                             true "Execution ID" format(uuid)
// @Param        request body forgeapp.CompleteExecutionRequest true "Result and usage"
// @Success      200 {object} APIResponse[forgeapp.ExecutionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/executions/{id}/complete [post]
func (h *ForgeHandler) CompleteExecution(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req forgeapp.CompleteExecutionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.executions.Complete(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// CancelExecution godoc
// @ID           cancelForgeExecution
// @Summary      Cancel a running execution
// @Tags         forge
// @Produce      json
// @Param        id path string true "Execution ID" format(uuid)
// @Success      200 {object} APIResponse[forgeapp.ExecutionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/executions/{id}/cancel [post]
func (h *ForgeHandler) CancelExecution(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	e, err := h.executions.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// CreateBudget godoc
// @ID           createForgeBudget
// @Summary      Create a monthly token budget
// @Tags         forge
// @Accept       json
// @Produce      json
// @Param        request body forgeapp.BudgetRequest true "Budget"
// @Success      201 {object} APIResponse[forgeapp.BudgetResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/budgets [post]
func (h *ForgeHandler) CreateBudget(c *gin.Context) {
	var req forgeapp.BudgetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.budgets.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, b)
}

// ListBudgets godoc
// @ID           listForgeBudgets
// @Summary      List budgets
// @Tags         forge
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size"   default(20)
// @Success      200 {object} APIResponse[[]forgeapp.BudgetResponse]
// @Security     BearerAuth
// @Router       /forge/v1/budgets [get]
func (h *ForgeHandler) ListBudgets(c *gin.Context) {
	var filter forgeapp.ListBudgetsFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.budgets.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// CurrentBudget godoc
// @ID           getCurrentForgeBudget
// @Summary      Current month's budget
// @Description  Created from configured defaults on first use
// @Tags         forge
// @Produce      json
// @Success      200 {object} APIResponse[forgeapp.BudgetResponse]
// @Security     BearerAuth
// @Router       /forge/v1/budgets/current [get]
func (h *ForgeHandler) CurrentBudget(c *gin.Context) {
	b, err := h.budgets.GetCurrent(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// UpdateBudget godoc
// @ID           updateForgeBudget
// @Summary      Update a budget's limits
// @Tags         forge
// @Accept       json
// @Produce      json
// @Param        id      path string                 true "Budget ID" format(uuid)
// @Param        request body forgeapp.BudgetRequest true "Limits"
// @Success      200 {object} APIResponse[forgeapp.BudgetResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/budgets/{id} [put]
func (h *ForgeHandler) UpdateBudget(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req forgeapp.BudgetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.budgets.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// CreateRunnerKey godoc
// @ID           createForgeRunnerKey
// @Summary      Issue a runner key
// @Description  The token is returned once and never stored in plain text
// @Tags         forge
// @Accept       json
// @Produce      json
// @Param        request body forgeapp.CreateRunnerKeyRequest true "Key name"
// @Success      201 {object} APIResponse[forgeapp.IssuedRunnerKeyResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/runner-keys [post]
func (h *ForgeHandler) CreateRunnerKey(c *gin.Context) {
	var req forgeapp.CreateRunnerKeyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	k, err := h.runnerKeys.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, k)
}

// ListRunnerKeys godoc
// @ID           listForgeRunnerKeys
// @Summary      List runner keys
// @Tags         forge
// @Produce      json
// @Success      200 {object} APIResponse[[]forgeapp.RunnerKeyResponse]
// @Security     BearerAuth
// @Router       /forge/v1/runner-keys [get]
func (h *ForgeHandler) ListRunnerKeys(c *gin.Context) {
	keys, err := h.runnerKeys.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, keys)
}

// RevokeRunnerKey godoc
// @ID           revokeForgeRunnerKey
// @Summary      Revoke a runner key
// @Tags         forge
// @Produce      json
// @Param        id path string true "Runner key ID" format(uuid)
// @Success      200 {object} APIResponse[forgeapp.RunnerKeyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /forge/v1/runner-keys/{id} [delete]
func (h *ForgeHandler) RevokeRunnerKey(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	k, err := h.runnerKeys.Revoke(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, k)
}
