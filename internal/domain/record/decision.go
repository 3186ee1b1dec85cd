package record

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
)

// DecisionStatus is the lifecycle state of a decision
type DecisionStatus string

const (
	DecisionProposed   DecisionStatus = "proposed"
	DecisionDecided    DecisionStatus = "decided"
	DecisionRejected   DecisionStatus = "rejected"
	DecisionSuperseded DecisionStatus = "superseded"
)

// ErrDecisionNotFound is returned when a decision does not exist in the portfolio
var ErrDecisionNotFound = shared.NewDomainError("DECISION_NOT_FOUND", "Decision not found")

// Decision records a choice made about the portfolio and its rationale
type Decision struct {
	shared.TenantAggregateRoot
	PropertyID *uuid.UUID
	Title      string
	Context    string
	Outcome    string
	Status     DecisionStatus
	DecidedAt  *time.Time
	DecidedBy  string
}

// NewDecision creates a proposed decision
func NewDecision(portfolioID uuid.UUID, createdBy string, propertyID *uuid.UUID, title, context string) (*Decision, error) {
	d := &Decision{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(portfolioID, createdBy),
		Status:              DecisionProposed,
	}
	if err := d.apply(propertyID, title, context); err != nil {
		return nil, err
	}
	return d, nil
}

// Update edits the title and context
func (d *Decision) Update(propertyID *uuid.UUID, title, context string) error {
	if err := d.apply(propertyID, title, context); err != nil {
		return err
	}
	d.IncrementVersion()
	return nil
}

func (d *Decision) apply(propertyID *uuid.UUID, title, context string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Decision title cannot be empty")
	}
	if utf8.RuneCountInString(title) > 300 {
		return shared.NewDomainError("INVALID_TITLE", "Decision title cannot exceed 300 characters")
	}
	d.PropertyID = propertyID
	d.Title = title
	d.Context = context
	return nil
}

// Decide accepts a proposed decision with its outcome
func (d *Decision) Decide(outcome, by string, now time.Time) error {
	return d.resolve(DecisionDecided, outcome, by, now)
}

// Reject turns down a proposed decision
func (d *Decision) Reject(outcome, by string, now time.Time) error {
	return d.resolve(DecisionRejected, outcome, by, now)
}

func (d *Decision) resolve(to DecisionStatus, outcome, by string, now time.Time) error {
	if d.Status != DecisionProposed {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot move a %s decision to %s", d.Status, to)
	}
	at := now.UTC()
	d.Status = to
	d.Outcome = strings.TrimSpace(outcome)
	d.DecidedAt = &at
	d.DecidedBy = by
	d.IncrementVersion()
	return nil
}

// Supersede retires a decided decision
func (d *Decision) Supersede() error {
	if d.Status != DecisionDecided {
		return shared.NewDomainErrorf("INVALID_STATE", "Only decided decisions can be superseded, current status: %s", d.Status)
	}
	d.Status = DecisionSuperseded
	d.IncrementVersion()
	return nil
}
