// Package forge is the internal engineering board: tickets, AI agent
// executions against them, monthly token budgets and runner API keys.
package forge

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/keystone/backend/internal/domain/shared"
)

// TicketStatus is a kanban column
type TicketStatus string

const (
	StatusBacklog    TicketStatus = "backlog"
	StatusTodo       TicketStatus = "todo"
	StatusInProgress TicketStatus = "in_progress"
	StatusInReview   TicketStatus = "in_review"
	StatusDone       TicketStatus = "done"
)

// BoardColumns lists the statuses in board order
func BoardColumns() []TicketStatus {
	return []TicketStatus{StatusBacklog, StatusTodo, StatusInProgress, StatusInReview, StatusDone}
}

// IsValid reports whether s is a known status
func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

// Priority of a ticket
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PositionStep is the gap left between tickets appended to a column
const PositionStep = 1024.0

const (
	maxLabels      = 20
	maxLabelLength = 50
)

var (
	ErrTicketNotFound = shared.NewDomainError("TICKET_NOT_FOUND", "Ticket not found")
	ErrTicketClosed   = shared.NewDomainError("TICKET_CLOSED", "Ticket is done")
)

// Ticket is a card on the Forge board
type Ticket struct {
	shared.BaseAggregateRoot
	// Number is the sequence behind Key, assigned on insert
	Number      int64
	Key         string
	Title       string
	Description string
	Status      TicketStatus
	Priority    Priority
	Assignee    string
	Labels      []string
	Position    float64
	CreatedBy   string
}

// TicketDetails are the editable fields of a ticket
type TicketDetails struct {
	Title       string
	Description string
	Priority    Priority
	Assignee    string
	Labels      []string
}

// NewTicket creates a ticket in the given column. Key and position are set by the caller.
func NewTicket(d TicketDetails, status TicketStatus, createdBy string) (*Ticket, error) {
	if status == "" {
		status = StatusBacklog
	}
	if !status.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_STATUS", "Invalid ticket status: %s", status)
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	t := &Ticket{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            status,
		CreatedBy:         createdBy,
	}
	if err := t.apply(d); err != nil {
		return nil, err
	}
	return t, nil
}

// AssignKey sets the sequence number and the derived key, e.g. FRG-42
func (t *Ticket) AssignKey(prefix string, number int64) {
	t.Number = number
	t.Key = FormatKey(prefix, number)
}

// FormatKey renders a ticket key
func FormatKey(prefix string, number int64) string {
	return fmt.Sprintf("%s-%d", prefix, number)
}

// Update edits the ticket fields. Status changes go through Move.
func (t *Ticket) Update(d TicketDetails) error {
	if d.Priority == "" {
		d.Priority = t.Priority
	}
	if err := t.apply(d); err != nil {
		return err
	}
	t.IncrementVersion()
	return nil
}

// Move places the ticket in a column at the given position. expectedVersion
// is the version the client last saw; a mismatch means someone else moved or
// edited the ticket in between.
func (t *Ticket) Move(to TicketStatus, position float64, expectedVersion int) error {
	if err := t.CheckVersion(expectedVersion); err != nil {
		return err
	}
	if !to.IsValid() {
		return shared.NewDomainErrorf("INVALID_STATUS", "Invalid ticket status: %s", to)
	}
	t.Status = to
	t.Position = position
	t.IncrementVersion()
	return nil
}

// IsDone reports whether the ticket is in the done column
func (t *Ticket) IsDone() bool {
	return t.Status == StatusDone
}

func (t *Ticket) apply(d TicketDetails) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Ticket title cannot be empty")
	}
	if utf8.RuneCountInString(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Ticket title cannot exceed 200 characters")
	}
	if !d.Priority.IsValid() {
		return shared.NewDomainErrorf("INVALID_PRIORITY", "Invalid ticket priority: %s", d.Priority)
	}
	labels, err := normalizeLabels(d.Labels)
	if err != nil {
		return err
	}

	t.Title = title
	t.Description = strings.TrimSpace(d.Description)
	t.Priority = d.Priority
	t.Assignee = strings.TrimSpace(d.Assignee)
	t.Labels = labels
	return nil
}

func normalizeLabels(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, l := range in {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if utf8.RuneCountInString(l) > maxLabelLength {
			return nil, shared.NewDomainErrorf("INVALID_LABELS", "Label cannot exceed %d characters", maxLabelLength)
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	if len(out) > maxLabels {
		return nil, shared.NewDomainErrorf("INVALID_LABELS", "A ticket can have at most %d labels", maxLabels)
	}
	return out, nil
}

// PositionBetween returns a position that sorts after `above` and before
// `below`. A nil neighbour means the ticket goes to that end of the column.
func PositionBetween(above, below *float64) float64 {
	switch {
	case above == nil && below == nil:
		return PositionStep
	case above == nil:
		return *below - PositionStep
	case below == nil:
		return *above + PositionStep
	default:
		return (*above + *below) / 2
	}
}
