package forge

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/forge"
	"go.uber.org/zap"
)

// UsageRecorder records finished executions in metrics
type UsageRecorder interface {
	RecordAgentExecution(ctx context.Context, agent, model, status string, tokens int64, cost float64, duration time.Duration)
}

// ExecutionService starts and finishes agent executions and charges their
// usage to the monthly budget
type ExecutionService struct {
	tickets    forge.TicketRepository
	executions forge.ExecutionRepository
	budgets    *BudgetService
	metrics    UsageRecorder
	logger     *zap.Logger
	now        func() time.Time
}

// NewExecutionService creates a new ExecutionService
func NewExecutionService(tickets forge.TicketRepository, executions forge.ExecutionRepository, budgets *BudgetService, logger *zap.Logger) *ExecutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecutionService{
		tickets:    tickets,
		executions: executions,
		budgets:    budgets,
		logger:     logger,
		now:        time.Now,
	}
}

// SetMetrics attaches a metrics recorder
func (s *ExecutionService) SetMetrics(m UsageRecorder) {
	s.metrics = m
}

// Start begins a run on a ticket after checking this month's budget
func (s *ExecutionService) Start(ctx context.Context, ticketID uuid.UUID, startedBy string, req StartExecutionRequest) (*ExecutionResponse, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	budget, err := s.budgets.current(ctx)
	if err != nil {
		return nil, err
	}
	if err := budget.CheckCanStart(); err != nil {
		return nil, err
	}

	e, err := forge.StartExecution(ticket, req.AgentName, req.Model, req.PromptSummary, startedBy, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.executions.Create(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("Agent execution started",
		zap.String("execution_id", e.ID.String()),
		zap.String("ticket", ticket.Key),
		zap.String("agent", e.AgentName),
		zap.String("model", e.Model),
	)
	response := ToExecutionResponse(e)
	return &response, nil
}

// Complete finishes a queued or running execution and charges its usage to
// the budget of the month it started in
func (s *ExecutionService) Complete(ctx context.Context, id uuid.UUID, req CompleteExecutionRequest) (*ExecutionResponse, error) {
	e, err := s.executions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	usage := req.Usage.toDomain()
	if req.Success != nil && *req.Success {
		err = e.Succeed(usage, req.ResultSummary, s.now())
	} else {
		err = e.Fail(usage, req.Error, s.now())
	}
	if err != nil {
		return nil, err
	}
	if err := s.executions.Finish(ctx, e); err != nil {
		return nil, err
	}

	s.record(ctx, e)
	s.warnOnBudget(ctx, e.BudgetPeriod)

	response := ToExecutionResponse(e)
	return &response, nil
}

// Cancel stops a queued or running execution
func (s *ExecutionService) Cancel(ctx context.Context, id uuid.UUID) (*ExecutionResponse, error) {
	e, err := s.executions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.executions.Finish(ctx, e); err != nil {
		return nil, err
	}
	s.record(ctx, e)
	response := ToExecutionResponse(e)
	return &response, nil
}

// GetByID retrieves an execution
func (s *ExecutionService) GetByID(ctx context.Context, id uuid.UUID) (*ExecutionResponse, error) {
	e, err := s.executions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToExecutionResponse(e)
	return &response, nil
}

// List retrieves executions, newest first
func (s *ExecutionService) List(ctx context.Context, filter ListExecutionsFilter) ([]ExecutionResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, "started_at", "desc")
	if filter.TicketID != "" {
		domainFilter.Filters["ticket_id"] = filter.TicketID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.AgentName != "" {
		domainFilter.Filters["agent_name"] = filter.AgentName
	}

	executions, err := s.executions.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.executions.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ExecutionResponse, 0, len(executions))
	for i := range executions {
		responses = append(responses, ToExecutionResponse(&executions[i]))
	}
	return responses, total, nil
}

func (s *ExecutionService) record(ctx context.Context, e *forge.Execution) {
	if s.metrics == nil {
		return
	}
	cost, _ := e.Usage.Cost.Float64()
	s.metrics.RecordAgentExecution(ctx, e.AgentName, e.Model, string(e.Status), e.Usage.TotalTokens(), cost, e.Duration())
}

func (s *ExecutionService) warnOnBudget(ctx context.Context, period string) {
	b, err := s.budgets.budgets.FindByPeriod(ctx, period)
	if err != nil {
		return
	}
	u := b.Usage()
	if u.Alert || u.Exhausted {
		s.logger.Warn("Token budget threshold reached",
			zap.String("period", period),
			zap.Float64("percent", u.Percent),
			zap.Bool("exhausted", u.Exhausted),
			zap.Bool("hard_limit", b.HardLimit),
		)
	}
}
