package forge

import (
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/forge"
	"github.com/shopspring/decimal"
)

// CreateTicketRequest represents a request to create a ticket
type CreateTicketRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"max=20000"`
	Status      string   `json:"status" binding:"omitempty,oneof=backlog todo in_progress in_review done"`
	Priority    string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Assignee    string   `json:"assignee" binding:"max=100"`
	Labels      []string `json:"labels" binding:"max=20,dive,min=1,max=50"`
}

// UpdateTicketRequest represents a request to update a ticket.
// Omitted fields keep their value; status changes go through the move endpoint.
type UpdateTicketRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string   `json:"description" binding:"omitempty,max=20000"`
	Priority    *string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Assignee    *string   `json:"assignee" binding:"omitempty,max=100"`
	Labels      *[]string `json:"labels" binding:"omitempty,max=20,dive,min=1,max=50"`
}

// MoveTicketRequest places a ticket in a column. AfterID is the ticket that
// ends up directly above, BeforeID the one directly below. An explicit
// Position wins over neighbours; with neither the ticket goes to the bottom.
type MoveTicketRequest struct {
	Status          string     `json:"status" binding:"required,oneof=backlog todo in_progress in_review done"`
	AfterID         *uuid.UUID `json:"after_id"`
	BeforeID        *uuid.UUID `json:"before_id"`
	Position        *float64   `json:"position"`
	ExpectedVersion int        `json:"expected_version" binding:"required,min=1"`
}

// ListTicketsFilter represents list parameters for tickets
type ListTicketsFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=number created_at updated_at priority title"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=backlog todo in_progress in_review done"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Assignee string `form:"assignee" binding:"max=100"`
	Label    string `form:"label" binding:"max=50"`
}

// TicketResponse represents a ticket in API responses
type TicketResponse struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Number      int64     `json:"number"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Assignee    string    `json:"assignee,omitempty"`
	Labels      []string  `json:"labels"`
	Position    float64   `json:"position"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// BoardColumn is one status column of the board
type BoardColumn struct {
	Status  string           `json:"status"`
	Tickets []TicketResponse `json:"tickets"`
}

// BoardResponse is the whole board in column order
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
}

// StartExecutionRequest starts an agent run on a ticket
type StartExecutionRequest struct {
	AgentName     string `json:"agent_name" binding:"required,min=1,max=100"`
	Model         string `json:"model" binding:"required,min=1,max=100"`
	PromptSummary string `json:"prompt_summary" binding:"max=4000"`
}

// UsageDTO carries token and cost consumption
type UsageDTO struct {
	InputTokens         int64           `json:"input_tokens" binding:"min=0"`
	OutputTokens        int64           `json:"output_tokens" binding:"min=0"`
	CacheCreationTokens int64           `json:"cache_creation_tokens" binding:"min=0"`
	CacheReadTokens     int64           `json:"cache_read_tokens" binding:"min=0"`
	Cost                decimal.Decimal `json:"cost" binding:"decimal_gte0"`
}

// CompleteExecutionRequest reports the outcome of a run
type CompleteExecutionRequest struct {
	Success       *bool    `json:"success" binding:"required"`
	Usage         UsageDTO `json:"usage"`
	ResultSummary string   `json:"result_summary" binding:"max=4000"`
	Error         string   `json:"error" binding:"max=4000"`
}

// ListExecutionsFilter represents list parameters for executions
type ListExecutionsFilter struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=started_at finished_at"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	TicketID  string `form:"ticket_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=queued running succeeded failed cancelled"`
	AgentName string `form:"agent_name" binding:"max=100"`
}

// ExecutionResponse represents an agent execution in API responses
type ExecutionResponse struct {
	ID            uuid.UUID  `json:"id"`
	TicketID      uuid.UUID  `json:"ticket_id"`
	AgentName     string     `json:"agent_name"`
	Model         string     `json:"model"`
	Status        string     `json:"status"`
	PromptSummary string     `json:"prompt_summary"`
	Usage         UsageDTO   `json:"usage"`
	TotalTokens   int64      `json:"total_tokens"`
	ResultSummary string     `json:"result_summary,omitempty"`
	Error         string     `json:"error,omitempty"`
	BudgetPeriod  string     `json:"budget_period"`
	StartedBy     string     `json:"started_by"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	DurationMs    int64      `json:"duration_ms"`
	Version       int        `json:"version"`
}

// BudgetRequest creates a budget or replaces its limits
type BudgetRequest struct {
	Period         string           `json:"period" binding:"omitempty,yearmonth"`
	TokenLimit     int64            `json:"token_limit" binding:"required,min=1"`
	CostLimit      *decimal.Decimal `json:"cost_limit" binding:"omitempty,decimal_gte0"`
	AlertThreshold int              `json:"alert_threshold" binding:"omitempty,min=1,max=100"`
	HardLimit      bool             `json:"hard_limit"`
}

// BudgetResponse represents a token budget with its consumption
type BudgetResponse struct {
	ID              uuid.UUID        `json:"id"`
	Period          string           `json:"period"`
	TokenLimit      int64            `json:"token_limit"`
	CostLimit       *decimal.Decimal `json:"cost_limit,omitempty"`
	AlertThreshold  int              `json:"alert_threshold"`
	HardLimit       bool             `json:"hard_limit"`
	TokensUsed      int64            `json:"tokens_used"`
	CostUsed        decimal.Decimal  `json:"cost_used"`
	TokensRemaining int64            `json:"tokens_remaining"`
	Percent         float64          `json:"percent"`
	Alert           bool             `json:"alert"`
	Exhausted       bool             `json:"exhausted"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// ListBudgetsFilter represents list parameters for budgets
type ListBudgetsFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateRunnerKeyRequest names a new runner key
type CreateRunnerKeyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// RunnerKeyResponse represents a runner key without its secret
type RunnerKeyResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// IssuedRunnerKeyResponse carries the plaintext token, shown once
type IssuedRunnerKeyResponse struct {
	RunnerKeyResponse
	Token string `json:"token"`
}

func (u UsageDTO) toDomain() forge.Usage {
	return forge.Usage{
		InputTokens:         u.InputTokens,
		OutputTokens:        u.OutputTokens,
		CacheCreationTokens: u.CacheCreationTokens,
		CacheReadTokens:     u.CacheReadTokens,
		Cost:                u.Cost,
	}
}

// ToTicketResponse converts a domain ticket to a response
func ToTicketResponse(t *forge.Ticket) TicketResponse {
	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}
	return TicketResponse{
		ID:          t.ID,
		Key:         t.Key,
		Number:      t.Number,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Assignee:    t.Assignee,
		Labels:      labels,
		Position:    t.Position,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
	}
}

// ToExecutionResponse converts a domain execution to a response
func ToExecutionResponse(e *forge.Execution) ExecutionResponse {
	return ExecutionResponse{
		ID:            e.ID,
		TicketID:      e.TicketID,
		AgentName:     e.AgentName,
		Model:         e.Model,
		Status:        string(e.Status),
		PromptSummary: e.PromptSummary,
		Usage: UsageDTO{
			InputTokens:         e.Usage.InputTokens,
			OutputTokens:        e.Usage.OutputTokens,
			CacheCreationTokens: e.Usage.CacheCreationTokens,
			CacheReadTokens:     e.Usage.CacheReadTokens,
			Cost:                e.Usage.Cost,
		},
		TotalTokens:   e.Usage.TotalTokens(),
		ResultSummary: e.ResultSummary,
		Error:         e.Error,
		BudgetPeriod:  e.BudgetPeriod,
		StartedBy:     e.StartedBy,
		StartedAt:     e.StartedAt,
		FinishedAt:    e.FinishedAt,
		DurationMs:    e.Duration().Milliseconds(),
		Version:       e.Version,
	}
}

// ToBudgetResponse converts a domain budget to a response
func ToBudgetResponse(b *forge.TokenBudget) BudgetResponse {
	u := b.Usage()
	return BudgetResponse{
		ID:              b.ID,
		Period:          b.Period,
		TokenLimit:      b.TokenLimit,
		CostLimit:       b.CostLimit,
		AlertThreshold:  b.AlertThreshold,
		HardLimit:       b.HardLimit,
		TokensUsed:      b.TokensUsed,
		CostUsed:        b.CostUsed,
		TokensRemaining: u.TokensRemaining,
		Percent:         u.Percent,
		Alert:           u.Alert,
		Exhausted:       u.Exhausted,
		UpdatedAt:       b.UpdatedAt,
		Version:         b.Version,
	}
}

// ToRunnerKeyResponse converts a domain runner key to a response
func ToRunnerKeyResponse(k *forge.RunnerKey) RunnerKeyResponse {
	return RunnerKeyResponse{
		ID:         k.ID,
		Name:       k.Name,
		Prefix:     k.Prefix,
		CreatedBy:  k.CreatedBy,
		CreatedAt:  k.CreatedAt,
		LastUsedAt: k.LastUsedAt,
		RevokedAt:  k.RevokedAt,
	}
}
