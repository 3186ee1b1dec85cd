package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/forge"
	"github.com/shopspring/decimal"
)

// TicketModel is the persistence model for the Forge Ticket aggregate
type TicketModel struct {
	AggregateModel
	Number      int64              `gorm:"not null;uniqueIndex"`
	Key         string             `gorm:"column:ticket_key;type:varchar(30);not null;uniqueIndex"`
	Title       string             `gorm:"type:varchar(200);not null"`
	Description string             `gorm:"type:text;not null;default:''"`
	Status      forge.TicketStatus `gorm:"type:varchar(20);not null;index:idx_ticket_status_position,priority:1"`
	Priority    forge.Priority     `gorm:"type:varchar(10);not null"`
	Assignee    string             `gorm:"type:varchar(100);not null;default:''"`
	LabelsJSON  string             `gorm:"column:labels;type:jsonb;not null;default:'[]'"`
	Position    float64            `gorm:"not null;index:idx_ticket_status_position,priority:2"`
	CreatedBy   string             `gorm:"type:varchar(255);not null;default:''"`
}

// TableName returns the table name for GORM
func (TicketModel) TableName() string {
	return "forge_tickets"
}

// ToDomain converts the persistence model to a domain Ticket
func (m *TicketModel) ToDomain() *forge.Ticket {
	t := &forge.Ticket{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		Key:               m.Key,
		Title:             m.Title,
		Description:       m.Description,
		Status:            m.Status,
		Priority:          m.Priority,
		Assignee:          m.Assignee,
		Labels:            []string{},
		Position:          m.Position,
		CreatedBy:         m.CreatedBy,
	}
	if m.LabelsJSON != "" {
		_ = json.Unmarshal([]byte(m.LabelsJSON), &t.Labels)
	}
	return t
}

// TicketModelFromDomain creates a persistence model from a domain Ticket
func TicketModelFromDomain(t *forge.Ticket) *TicketModel {
	m := &TicketModel{
		Number:      t.Number,
		Key:         t.Key,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Assignee:    t.Assignee,
		LabelsJSON:  "[]",
		Position:    t.Position,
		CreatedBy:   t.CreatedBy,
	}
	if len(t.Labels) > 0 {
		if b, err := json.Marshal(t.Labels); err == nil {
			m.LabelsJSON = string(b)
		}
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}

// ExecutionModel is the persistence model for an agent Execution
type ExecutionModel struct {
	AggregateModel
	TicketID            uuid.UUID             `gorm:"type:uuid;not null;index"`
	AgentName           string                `gorm:"type:varchar(100);not null;index"`
	Model               string                `gorm:"type:varchar(100);not null"`
	Status              forge.ExecutionStatus `gorm:"type:varchar(20);not null;index"`
	PromptSummary       string                `gorm:"type:text;not null;default:''"`
	InputTokens         int64                 `gorm:"not null;default:0"`
	OutputTokens        int64                 `gorm:"not null;default:0"`
	CacheCreationTokens int64                 `gorm:"not null;default:0"`
	CacheReadTokens     int64                 `gorm:"not null;default:0"`
	Cost                decimal.Decimal       `gorm:"type:decimal(18,6);not null;default:0"`
	ResultSummary       string                `gorm:"type:text;not null;default:''"`
	Error               string                `gorm:"column:error_message;type:text;not null;default:''"`
	BudgetPeriod        string                `gorm:"type:varchar(7);not null;index"`
	StartedBy           string                `gorm:"type:varchar(255);not null;default:''"`
	StartedAt           time.Time             `gorm:"not null;index"`
	FinishedAt          *time.Time
}

// TableName returns the table name for GORM
func (ExecutionModel) TableName() string {
	return "forge_executions"
}

// ToDomain converts the persistence model to a domain Execution
func (m *ExecutionModel) ToDomain() *forge.Execution {
	return &forge.Execution{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		TicketID:          m.TicketID,
		AgentName:         m.AgentName,
		Model:             m.Model,
		Status:            m.Status,
		PromptSummary:     m.PromptSummary,
		Usage: forge.Usage{
			InputTokens:         m.InputTokens,
			OutputTokens:        m.OutputTokens,
			CacheCreationTokens: m.CacheCreationTokens,
			CacheReadTokens:     m.CacheReadTokens,
			Cost:                m.Cost,
		},
		ResultSummary: m.ResultSummary,
		Error:         m.Error,
		BudgetPeriod:  m.BudgetPeriod,
		StartedBy:     m.StartedBy,
		StartedAt:     m.StartedAt,
		FinishedAt:    m.FinishedAt,
	}
}

// ExecutionModelFromDomain creates a persistence model from a domain Execution
func ExecutionModelFromDomain(e *forge.Execution) *ExecutionModel {
	m := &ExecutionModel{
		TicketID:            e.TicketID,
		AgentName:           e.AgentName,
		Model:               e.Model,
		Status:              e.Status,
		PromptSummary:       e.PromptSummary,
		InputTokens:         e.Usage.InputTokens,
		OutputTokens:        e.Usage.OutputTokens,
		CacheCreationTokens: e.Usage.CacheCreationTokens,
		CacheReadTokens:     e.Usage.CacheReadTokens,
		Cost:                e.Usage.Cost,
		ResultSummary:       e.ResultSummary,
		Error:               e.Error,
		BudgetPeriod:        e.BudgetPeriod,
		StartedBy:           e.StartedBy,
		StartedAt:           e.StartedAt,
		FinishedAt:          e.FinishedAt,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}

// TokenBudgetModel is the persistence model for a monthly TokenBudget
type TokenBudgetModel struct {
	AggregateModel
	Period         string           `gorm:"type:varchar(7);not null;uniqueIndex"`
	TokenLimit     int64            `gorm:"not null"`
	CostLimit      *decimal.Decimal `gorm:"type:decimal(18,6)"`
	AlertThreshold int              `gorm:"not null;default:80"`
	TokensUsed     int64            `gorm:"not null;default:0"`
	CostUsed       decimal.Decimal  `gorm:"type:decimal(18,6);not null;default:0"`
	HardLimit      bool             `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (TokenBudgetModel) TableName() string {
	return "forge_token_budgets"
}

// ToDomain converts the persistence model to a domain TokenBudget
func (m *TokenBudgetModel) ToDomain() *forge.TokenBudget {
	return &forge.TokenBudget{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Period:            m.Period,
		TokenLimit:        m.TokenLimit,
		CostLimit:         m.CostLimit,
		AlertThreshold:    m.AlertThreshold,
		TokensUsed:        m.TokensUsed,
		CostUsed:          m.CostUsed,
		HardLimit:         m.HardLimit,
	}
}

// TokenBudgetModelFromDomain creates a persistence model from a domain TokenBudget
func TokenBudgetModelFromDomain(b *forge.TokenBudget) *TokenBudgetModel {
	m := &TokenBudgetModel{
		Period:         b.Period,
		TokenLimit:     b.TokenLimit,
		CostLimit:      b.CostLimit,
		AlertThreshold: b.AlertThreshold,
		TokensUsed:     b.TokensUsed,
		CostUsed:       b.CostUsed,
		HardLimit:      b.HardLimit,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// RunnerKeyModel is the persistence model for a Forge RunnerKey
type RunnerKeyModel struct {
	BaseModel
	Name       string `gorm:"type:varchar(100);not null"`
	Prefix     string `gorm:"type:varchar(16);not null;uniqueIndex"`
	Hash       string `gorm:"column:secret_hash;type:varchar(100);not null"`
	CreatedBy  string `gorm:"type:varchar(255);not null;default:''"`
	LastUsedAt *time.Time
	RevokedAt  *time.Time
}

// TableName returns the table name for GORM
func (RunnerKeyModel) TableName() string {
	return "forge_runner_keys"
}

// ToDomain converts the persistence model to a domain RunnerKey
func (m *RunnerKeyModel) ToDomain() *forge.RunnerKey {
	return &forge.RunnerKey{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Prefix:     m.Prefix,
		Hash:       m.Hash,
		CreatedBy:  m.CreatedBy,
		LastUsedAt: m.LastUsedAt,
		RevokedAt:  m.RevokedAt,
	}
}

// RunnerKeyModelFromDomain creates a persistence model from a domain RunnerKey
func RunnerKeyModelFromDomain(k *forge.RunnerKey) *RunnerKeyModel {
	m := &RunnerKeyModel{
		Name:       k.Name,
		Prefix:     k.Prefix,
		Hash:       k.Hash,
		CreatedBy:  k.CreatedBy,
		LastUsedAt: k.LastUsedAt,
		RevokedAt:  k.RevokedAt,
	}
	m.FromDomainBaseEntity(k.BaseEntity)
	return m
}
