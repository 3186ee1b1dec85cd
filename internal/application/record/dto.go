package record

import (
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/record"
	"github.com/shopspring/decimal"
)

// CommunicationRequest creates or replaces a communication
type CommunicationRequest struct {
	PropertyID   *uuid.UUID `json:"property_id"`
	Channel      string     `json:"channel" binding:"required,oneof=email phone letter meeting message"`
	Direction    string     `json:"direction" binding:"required,oneof=inbound outbound"`
	Counterparty string     `json:"counterparty" binding:"max=200"`
	Subject      string     `json:"subject" binding:"required,min=1,max=300"`
	Body         string     `json:"body" binding:"max=20000"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// CommunicationResponse represents a communication in API responses
type CommunicationResponse struct {
	ID           uuid.UUID  `json:"id"`
	PortfolioID  uuid.UUID  `json:"portfolio_id"`
	PropertyID   *uuid.UUID `json:"property_id,omitempty"`
	Channel      string     `json:"channel"`
	Direction    string     `json:"direction"`
	Counterparty string     `json:"counterparty"`
	Subject      string     `json:"subject"`
	Body         string     `json:"body"`
	OccurredAt   time.Time  `json:"occurred_at"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int        `json:"version"`
}

// ListCommunicationsFilter represents list parameters for communications
type ListCommunicationsFilter struct {
	Page         int       `form:"page" binding:"omitempty,min=1"`
	PageSize     int       `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string    `form:"order_by" binding:"omitempty,oneof=occurred_at created_at subject"`
	OrderDir     string    `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search       string    `form:"search" binding:"max=100"`
	PropertyID   string    `form:"property_id" binding:"omitempty,uuid"`
	Channel      string    `form:"channel" binding:"omitempty,oneof=email phone letter meeting message"`
	Direction    string    `form:"direction" binding:"omitempty,oneof=inbound outbound"`
	OccurredFrom time.Time `form:"occurred_from" time_format:"2006-01-02T15:04:05Z07:00"`
	OccurredTo   time.Time `form:"occurred_to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// CreateDecisionRequest proposes a decision
type CreateDecisionRequest struct {
	PropertyID *uuid.UUID `json:"property_id"`
	Title      string     `json:"title" binding:"required,min=1,max=300"`
	Context    string     `json:"context" binding:"max=20000"`
}

// UpdateDecisionRequest edits a decision. Omitted fields keep their value.
type UpdateDecisionRequest struct {
	PropertyID *uuid.UUID `json:"property_id"`
	Title      *string    `json:"title" binding:"omitempty,min=1,max=300"`
	Context    *string    `json:"context" binding:"omitempty,max=20000"`
}

// ResolveDecisionRequest decides or rejects a proposed decision
type ResolveDecisionRequest struct {
	Outcome string `json:"outcome" binding:"max=20000"`
}

// DecisionResponse represents a decision in API responses
type DecisionResponse struct {
	ID          uuid.UUID  `json:"id"`
	PortfolioID uuid.UUID  `json:"portfolio_id"`
	PropertyID  *uuid.UUID `json:"property_id,omitempty"`
	Title       string     `json:"title"`
	Context     string     `json:"context"`
	Outcome     string     `json:"outcome"`
	Status      string     `json:"status"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	DecidedBy   string     `json:"decided_by,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// ListDecisionsFilter represents list parameters for decisions
type ListDecisionsFilter struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=created_at decided_at title"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search     string `form:"search" binding:"max=100"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=proposed decided rejected superseded"`
}

// RegistryItemRequest creates or replaces a registry item
type RegistryItemRequest struct {
	PropertyID      *uuid.UUID       `json:"property_id"`
	Category        string           `json:"category" binding:"omitempty,oneof=appliance warranty insurance_policy utility service_contract key other"`
	Name            string           `json:"name" binding:"required,min=1,max=200"`
	Provider        string           `json:"provider" binding:"max=200"`
	ReferenceNumber string           `json:"reference_number" binding:"max=100"`
	Amount          *decimal.Decimal `json:"amount" binding:"omitempty,decimal_gte0"`
	StartsOn        *time.Time       `json:"starts_on"`
	ExpiresOn       *time.Time       `json:"expires_on"`
	Notes           string           `json:"notes" binding:"max=5000"`
}

// RegistryItemResponse represents a registry item in API responses
type RegistryItemResponse struct {
	ID              uuid.UUID        `json:"id"`
	PortfolioID     uuid.UUID        `json:"portfolio_id"`
	PropertyID      *uuid.UUID       `json:"property_id,omitempty"`
	Category        string           `json:"category"`
	Name            string           `json:"name"`
	Provider        string           `json:"provider"`
	ReferenceNumber string           `json:"reference_number"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	StartsOn        *time.Time       `json:"starts_on,omitempty"`
	ExpiresOn       *time.Time       `json:"expires_on,omitempty"`
	Notes           string           `json:"notes"`
	CreatedBy       string           `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// ListRegistryFilter represents list parameters for registry items
type ListRegistryFilter struct {
	Page               int    `form:"page" binding:"omitempty,min=1"`
	PageSize           int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy            string `form:"order_by" binding:"omitempty,oneof=name expires_on created_at category"`
	OrderDir           string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search             string `form:"search" binding:"max=100"`
	PropertyID         string `form:"property_id" binding:"omitempty,uuid"`
	Category           string `form:"category" binding:"omitempty,oneof=appliance warranty insurance_policy utility service_contract key other"`
	ExpiringWithinDays *int   `form:"expiring_within_days" binding:"omitempty,min=0,max=3650"`
}

func (r CommunicationRequest) toInput() record.CommunicationInput {
	return record.CommunicationInput{
		PropertyID:   r.PropertyID,
		Channel:      record.Channel(r.Channel),
		Direction:    record.Direction(r.Direction),
		Counterparty: r.Counterparty,
		Subject:      r.Subject,
		Body:         r.Body,
		OccurredAt:   r.OccurredAt,
	}
}

func (r RegistryItemRequest) toInput() record.RegistryInput {
	return record.RegistryInput{
		PropertyID:      r.PropertyID,
		Category:        record.RegistryCategory(r.Category),
		Name:            r.Name,
		Provider:        r.Provider,
		ReferenceNumber: r.ReferenceNumber,
		Amount:          r.Amount,
		StartsOn:        r.StartsOn,
		ExpiresOn:       r.ExpiresOn,
		Notes:           r.Notes,
	}
}

// ToCommunicationResponse converts a domain communication to a response
func ToCommunicationResponse(c *record.Communication) CommunicationResponse {
	return CommunicationResponse{
		ID:           c.ID,
		PortfolioID:  c.PortfolioID,
		PropertyID:   c.PropertyID,
		Channel:      string(c.Channel),
		Direction:    string(c.Direction),
		Counterparty: c.Counterparty,
		Subject:      c.Subject,
		Body:         c.Body,
		OccurredAt:   c.OccurredAt,
		CreatedBy:    c.CreatedBy,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
}

// ToDecisionResponse converts a domain decision to a response
func ToDecisionResponse(d *record.Decision) DecisionResponse {
	return DecisionResponse{
		ID:          d.ID,
		PortfolioID: d.PortfolioID,
		PropertyID:  d.PropertyID,
		Title:       d.Title,
		Context:     d.Context,
		Outcome:     d.Outcome,
		Status:      string(d.Status),
		DecidedAt:   d.DecidedAt,
		DecidedBy:   d.DecidedBy,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Version:     d.Version,
	}
}

// ToRegistryItemResponse converts a domain registry item to a response
func ToRegistryItemResponse(r *record.RegistryItem) RegistryItemResponse {
	return RegistryItemResponse{
		ID:              r.ID,
		PortfolioID:     r.PortfolioID,
		PropertyID:      r.PropertyID,
		Category:        string(r.Category),
		Name:            r.Name,
		Provider:        r.Provider,
		ReferenceNumber: r.ReferenceNumber,
		Amount:          r.Amount,
		StartsOn:        r.StartsOn,
		ExpiresOn:       r.ExpiresOn,
		Notes:           r.Notes,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
}
