package persistence

import (
	"strings"
)

// SortFields whitelists the columns a list endpoint may be ordered by.
// order_by comes straight from the query string, so nothing outside the
// whitelist may reach ORDER BY.
type SortFields map[string]bool

// Column returns the requested column when whitelisted, else fallback.
// Matching is exact: "NAME" or "name desc" fall back.
func (s SortFields) Column(requested, fallback string) string {
	if col := strings.TrimSpace(requested); s[col] {
		return col
	}
	return fallback
}

// sortDirection maps order_dir to SQL; anything but asc sorts newest first
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

var (
	PortfolioSortFields  = SortFields{"created_at": true, "updated_at": true, "name": true}
	InvitationSortFields = SortFields{"created_at": true, "expires_at": true, "email": true, "status": true}
	PropertySortFields   = SortFields{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"city":       true,
		"type":       true,
		"status":     true,
	}
	DocumentSortFields      = SortFields{"created_at": true, "file_name": true, "category": true, "size_bytes": true}
	CommunicationSortFields = SortFields{"occurred_at": true, "created_at": true, "subject": true}
	DecisionSortFields      = SortFields{"created_at": true, "decided_at": true, "title": true}
	RegistrySortFields      = SortFields{"created_at": true, "name": true, "expires_on": true, "category": true}
	// priority is ordered by rank, not alphabetically; see GormTicketRepository.FindAll
	TicketSortFields    = SortFields{"number": true, "created_at": true, "updated_at": true, "priority": true, "title": true}
	ExecutionSortFields = SortFields{"started_at": true, "finished_at": true}
	BudgetSortFields    = SortFields{"period": true}
)
