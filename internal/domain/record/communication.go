package record

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
)

// Channel is how a communication took place
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelPhone   Channel = "phone"
	ChannelLetter  Channel = "letter"
	ChannelMeeting Channel = "meeting"
	ChannelMessage Channel = "message"
)

// IsValid reports whether c is a known channel
func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelPhone, ChannelLetter, ChannelMeeting, ChannelMessage:
		return true
	}
	return false
}

// Direction tells whether a communication was received or sent
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// IsValid reports whether d is a known direction
func (d Direction) IsValid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// ErrCommunicationNotFound is returned when a communication does not exist in the portfolio
var ErrCommunicationNotFound = shared.NewDomainError("COMMUNICATION_NOT_FOUND", "Communication not found")

// Communication is a logged exchange with a tenant, lender, contractor or agency
type Communication struct {
	shared.TenantAggregateRoot
	PropertyID   *uuid.UUID
	Channel      Channel
	Direction    Direction
	Counterparty string
	Subject      string
	Body         string
	OccurredAt   time.Time
}

// CommunicationInput carries the editable fields of a communication
type CommunicationInput struct {
	PropertyID   *uuid.UUID
	Channel      Channel
	Direction    Direction
	Counterparty string
	Subject      string
	Body         string
	OccurredAt   time.Time
}

// NewCommunication creates a communication log entry
func NewCommunication(portfolioID uuid.UUID, createdBy string, in CommunicationInput) (*Communication, error) {
	c := &Communication{TenantAggregateRoot: shared.NewTenantAggregateRoot(portfolioID, createdBy)}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = time.Now()
	}
	if err := c.apply(in); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields
func (c *Communication) Update(in CommunicationInput) error {
	if in.OccurredAt.IsZero() {
		in.OccurredAt = c.OccurredAt
	}
	if err := c.apply(in); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *Communication) apply(in CommunicationInput) error {
	if !in.Channel.IsValid() {
		return shared.NewDomainErrorf("INVALID_CHANNEL", "Invalid channel: %s", in.Channel)
	}
	if !in.Direction.IsValid() {
		return shared.NewDomainErrorf("INVALID_DIRECTION", "Invalid direction: %s", in.Direction)
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		return shared.NewDomainError("INVALID_SUBJECT", "Subject cannot be empty")
	}
	if utf8.RuneCountInString(subject) > 300 {
		return shared.NewDomainError("INVALID_SUBJECT", "Subject cannot exceed 300 characters")
	}

	c.PropertyID = in.PropertyID
	c.Channel = in.Channel
	c.Direction = in.Direction
	c.Counterparty = strings.TrimSpace(in.Counterparty)
	c.Subject = subject
	c.Body = in.Body
	c.OccurredAt = in.OccurredAt.UTC()
	return nil
}
