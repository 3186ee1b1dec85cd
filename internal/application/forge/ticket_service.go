package forge

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/forge"
	"github.com/keystone/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TicketService manages the Forge board
type TicketService struct {
	tickets   forge.TicketRepository
	keyPrefix string
	logger    *zap.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(tickets forge.TicketRepository, keyPrefix string, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keyPrefix == "" {
		keyPrefix = "FRG"
	}
	return &TicketService{tickets: tickets, keyPrefix: keyPrefix, logger: logger}
}

// Create adds a ticket at the bottom of its column
func (s *TicketService) Create(ctx context.Context, createdBy string, req CreateTicketRequest) (*TicketResponse, error) {
	t, err := forge.NewTicket(forge.TicketDetails{
		Title:       req.Title,
		Description: req.Description,
		Priority:    forge.Priority(req.Priority),
		Assignee:    req.Assignee,
		Labels:      req.Labels,
	}, forge.TicketStatus(req.Status), createdBy)
	if err != nil {
		return nil, err
	}

	position, err := s.bottomOf(ctx, t.Status)
	if err != nil {
		return nil, err
	}
	t.Position = position

	if err := s.tickets.Create(ctx, t, s.keyPrefix); err != nil {
		return nil, err
	}
	s.logger.Info("Ticket created", zap.String("key", t.Key), zap.String("created_by", createdBy))

	response := ToTicketResponse(t)
	return &response, nil
}

// Get loads a ticket by UUID or by key such as FRG-12
func (s *TicketService) Get(ctx context.Context, idOrKey string) (*TicketResponse, error) {
	t, err := s.find(ctx, idOrKey)
	if err != nil {
		return nil, err
	}
	response := ToTicketResponse(t)
	return &response, nil
}

// List retrieves tickets with filtering and pagination
func (s *TicketService) List(ctx context.Context, filter ListTicketsFilter) ([]TicketResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, "number", "desc")
	domainFilter.Search = filter.Search
	for key, value := range map[string]string{
		"status":   filter.Status,
		"priority": filter.Priority,
		"assignee": filter.Assignee,
		"label":    strings.ToLower(filter.Label),
	} {
		if value != "" {
			domainFilter.Filters[key] = value
		}
	}

	tickets, err := s.tickets.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tickets.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		responses = append(responses, ToTicketResponse(&tickets[i]))
	}
	return responses, total, nil
}

// Board returns every column in workflow order with its tickets by position
func (s *TicketService) Board(ctx context.Context) (*BoardResponse, error) {
	tickets, err := s.tickets.FindBoard(ctx)
	if err != nil {
		return nil, err
	}

	columns := forge.BoardColumns()
	index := make(map[forge.TicketStatus]int, len(columns))
	board := &BoardResponse{Columns: make([]BoardColumn, len(columns))}
	for i, status := range columns {
		index[status] = i
		board.Columns[i] = BoardColumn{Status: string(status), Tickets: []TicketResponse{}}
	}
	for i := range tickets {
		col, ok := index[tickets[i].Status]
		if !ok {
			continue
		}
		board.Columns[col].Tickets = append(board.Columns[col].Tickets, ToTicketResponse(&tickets[i]))
	}
	return board, nil
}

// Update edits the fields of a ticket
func (s *TicketService) Update(ctx context.Context, id uuid.UUID, req UpdateTicketRequest) (*TicketResponse, error) {
	t, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := forge.TicketDetails{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Assignee:    t.Assignee,
		Labels:      t.Labels,
	}
	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Priority != nil {
		d.Priority = forge.Priority(*req.Priority)
	}
	if req.Assignee != nil {
		d.Assignee = *req.Assignee
	}
	if req.Labels != nil {
		d.Labels = *req.Labels
	}

	if err := t.Update(d); err != nil {
		return nil, err
	}
	if err := s.tickets.Save(ctx, t); err != nil {
		return nil, err
	}
	response := ToTicketResponse(t)
	return &response, nil
}

// Move places a ticket in a column. The write is conditional on the version
// the client saw, so concurrent moves of one ticket serialize: the loser gets
// CONCURRENCY_CONFLICT and must reload.
func (s *TicketService) Move(ctx context.Context, id uuid.UUID, req MoveTicketRequest) (*TicketResponse, error) {
	t, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	to := forge.TicketStatus(req.Status)

	var position float64
	switch {
	case req.Position != nil:
		position = *req.Position
	case req.AfterID != nil || req.BeforeID != nil:
		above, err := s.neighbourPosition(ctx, req.AfterID, id, to)
		if err != nil {
			return nil, err
		}
		below, err := s.neighbourPosition(ctx, req.BeforeID, id, to)
		if err != nil {
			return nil, err
		}
		position = forge.PositionBetween(above, below)
	default:
		position, err = s.bottomOf(ctx, to)
		if err != nil {
			return nil, err
		}
	}

	if err := t.Move(to, position, req.ExpectedVersion); err != nil {
		return nil, err
	}
	if err := s.tickets.Save(ctx, t); err != nil {
		return nil, err
	}
	response := ToTicketResponse(t)
	return &response, nil
}

// Delete removes a ticket
func (s *TicketService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tickets.Delete(ctx, id)
}

func (s *TicketService) find(ctx context.Context, idOrKey string) (*forge.Ticket, error) {
	if id, err := uuid.Parse(idOrKey); err == nil {
		return s.tickets.FindByID(ctx, id)
	}
	return s.tickets.FindByKey(ctx, strings.ToUpper(strings.TrimSpace(idOrKey)))
}

func (s *TicketService) bottomOf(ctx context.Context, status forge.TicketStatus) (float64, error) {
	last, ok, err := s.tickets.LastPosition(ctx, status)
	if err != nil {
		return 0, err
	}
	if !ok {
		return forge.PositionBetween(nil, nil), nil
	}
	return forge.PositionBetween(&last, nil), nil
}

// neighbourPosition loads the position of a neighbour, which must sit in the
// target column and cannot be the moved ticket itself
func (s *TicketService) neighbourPosition(ctx context.Context, neighbourID *uuid.UUID, movingID uuid.UUID, column forge.TicketStatus) (*float64, error) {
	if neighbourID == nil {
		return nil, nil
	}
	if *neighbourID == movingID {
		return nil, shared.NewDomainError("INVALID_NEIGHBOUR", "A ticket cannot be its own neighbour")
	}
	n, err := s.tickets.FindByID(ctx, *neighbourID)
	if err != nil {
		if errors.Is(err, forge.ErrTicketNotFound) {
			return nil, shared.NewDomainError("INVALID_NEIGHBOUR", "Neighbour ticket not found").
				WithDetail("ticket_id", neighbourID.String())
		}
		return nil, err
	}
	if n.Status != column {
		return nil, shared.NewDomainErrorf("INVALID_NEIGHBOUR", "Neighbour ticket %s is not in column %s", n.Key, column)
	}
	pos := n.Position
	return &pos, nil
}

func listFilter(page, pageSize int, orderBy, orderDir, defaultOrder, defaultDir string) shared.Filter {
	if orderBy == "" {
		orderBy = defaultOrder
	}
	if orderDir == "" {
		orderDir = defaultDir
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
	}.Normalize()
}
