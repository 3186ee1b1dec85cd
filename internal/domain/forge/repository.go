package forge

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TicketRepository persists tickets.
// Filter keys: status, priority, assignee, label.
type TicketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	FindByKey(ctx context.Context, key string) (*Ticket, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Ticket, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindBoard returns every ticket ordered by status column and position
	FindBoard(ctx context.Context) ([]Ticket, error)
	// LastPosition returns the largest position in a column, false when empty
	LastPosition(ctx context.Context, status TicketStatus) (float64, bool, error)
	// Create assigns the next sequence number and key, then inserts
	Create(ctx context.Context, t *Ticket, keyPrefix string) error
	// Save updates the ticket when the stored version is t.Version-1,
	// else returns shared.ErrConcurrencyConflict
	Save(ctx context.Context, t *Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExecutionRepository persists agent executions.
// Filter keys: ticket_id, status, agent_name.
type ExecutionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Execution, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Execution, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, e *Execution) error
	// Finish stores a finished execution when the row is still queued or
	// running and, in the same transaction, adds its usage to the budget of
	// e.BudgetPeriod. Returns ErrExecutionFinished if another request won.
	Finish(ctx context.Context, e *Execution) error
}

// BudgetRepository persists token budgets
type BudgetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TokenBudget, error)
	FindByPeriod(ctx context.Context, period string) (*TokenBudget, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]TokenBudget, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Create inserts the budget; a duplicate period returns ErrBudgetExists
	Create(ctx context.Context, b *TokenBudget) error
	Save(ctx context.Context, b *TokenBudget) error
	// AddUsage atomically increments the counters of a period
	AddUsage(ctx context.Context, period string, tokens int64, cost decimal.Decimal) error
}

// RunnerKeyRepository persists runner keys
type RunnerKeyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RunnerKey, error)
	FindByPrefix(ctx context.Context, prefix string) (*RunnerKey, error)
	FindAll(ctx context.Context) ([]RunnerKey, error)
	Create(ctx context.Context, k *RunnerKey) error
	Save(ctx context.Context, k *RunnerKey) error
	TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error
}
