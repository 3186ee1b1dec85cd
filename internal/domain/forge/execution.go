package forge

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ExecutionStatus is the lifecycle state of an agent execution
type ExecutionStatus string

const (
	ExecutionQueued    ExecutionStatus = "queued"
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionSucceeded ExecutionStatus = "succeeded"
	ExecutionFailed    ExecutionStatus = "failed"
	ExecutionCancelled ExecutionStatus = "cancelled"
)

// IsValid reports whether s is a known status
func (s ExecutionStatus) IsValid() bool {
	switch s {
	case ExecutionQueued, ExecutionRunning, ExecutionSucceeded, ExecutionFailed, ExecutionCancelled:
		return true
	}
	return false
}

// IsActive reports whether the execution has not finished yet
func (s ExecutionStatus) IsActive() bool {
	return s == ExecutionQueued || s == ExecutionRunning
}

var (
	ErrExecutionNotFound = shared.NewDomainError("EXECUTION_NOT_FOUND", "Agent execution not found")
	ErrExecutionFinished = shared.NewDomainError("EXECUTION_FINISHED", "Agent execution has already finished")
)

const maxExecutionText = 4000

// Usage is the token and cost consumption of one execution
type Usage struct {
	InputTokens         int64
	OutputTokens        int64
	CacheCreationTokens int64
	CacheReadTokens     int64
	Cost                decimal.Decimal
}

// TotalTokens is what counts against the token budget
func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens + u.CacheCreationTokens + u.CacheReadTokens
}

// Validate rejects negative figures
func (u Usage) Validate() error {
	if u.InputTokens < 0 || u.OutputTokens < 0 || u.CacheCreationTokens < 0 || u.CacheReadTokens < 0 {
		return shared.NewDomainError("INVALID_USAGE", "Token counts cannot be negative")
	}
	if u.Cost.IsNegative() {
		return shared.NewDomainError("INVALID_USAGE", "Cost cannot be negative")
	}
	return nil
}

// Execution is one run of an AI agent against a ticket
type Execution struct {
	shared.BaseAggregateRoot
	TicketID      uuid.UUID
	AgentName     string
	Model         string
	Status        ExecutionStatus
	PromptSummary string
	Usage         Usage
	ResultSummary string
	Error         string
	// BudgetPeriod is the month whose budget is charged, fixed at start
	BudgetPeriod string
	StartedBy    string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// StartExecution creates a running execution for the ticket
func StartExecution(ticket *Ticket, agentName, model, promptSummary, startedBy string, now time.Time) (*Execution, error) {
	if ticket.IsDone() {
		return nil, ErrTicketClosed
	}
	agentName = strings.TrimSpace(agentName)
	if agentName == "" {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent name cannot be empty")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, shared.NewDomainError("INVALID_MODEL", "Model cannot be empty")
	}
	now = now.UTC()
	return &Execution{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TicketID:          ticket.ID,
		AgentName:         agentName,
		Model:             model,
		Status:            ExecutionRunning,
		PromptSummary:     truncate(strings.TrimSpace(promptSummary), maxExecutionText),
		BudgetPeriod:      PeriodOf(now),
		StartedBy:         startedBy,
		StartedAt:         now,
	}, nil
}

// Succeed finishes the execution successfully and records its usage
func (e *Execution) Succeed(usage Usage, resultSummary string, now time.Time) error {
	return e.finish(ExecutionSucceeded, usage, resultSummary, "", now)
}

// Fail finishes the execution with an error and records its usage
func (e *Execution) Fail(usage Usage, errMsg string, now time.Time) error {
	if strings.TrimSpace(errMsg) == "" {
		errMsg = "execution failed"
	}
	return e.finish(ExecutionFailed, usage, "", errMsg, now)
}

// Cancel stops an unfinished execution without usage
func (e *Execution) Cancel(now time.Time) error {
	return e.finish(ExecutionCancelled, Usage{}, "", "", now)
}

func (e *Execution) finish(status ExecutionStatus, usage Usage, result, errMsg string, now time.Time) error {
	if !e.Status.IsActive() {
		return ErrExecutionFinished.WithDetail("status", string(e.Status))
	}
	if err := usage.Validate(); err != nil {
		return err
	}
	t := now.UTC()
	e.Status = status
	e.Usage = usage
	e.ResultSummary = truncate(strings.TrimSpace(result), maxExecutionText)
	e.Error = truncate(strings.TrimSpace(errMsg), maxExecutionText)
	e.FinishedAt = &t
	e.IncrementVersion()
	return nil
}

// Duration is the run time, zero while unfinished
func (e *Execution) Duration() time.Duration {
	if e.FinishedAt == nil {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
