package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/forge"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/keystone/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ticketNumberAttempts bounds retries when two creates race for the same number
const ticketNumberAttempts = 3

// priorityRank orders priorities by urgency rather than alphabetically
const priorityRank = "CASE priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END"

// GormTicketRepository implements forge.TicketRepository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// FindByID finds a ticket by its ID
func (r *GormTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*forge.Ticket, error) {
	var model models.TicketModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, forge.ErrTicketNotFound)
	}
	return model.ToDomain(), nil
}

// FindByKey finds a ticket by its key, e.g. FRG-42
func (r *GormTicketRepository) FindByKey(ctx context.Context, key string) (*forge.Ticket, error) {
	var model models.TicketModel
	if err := r.db.WithContext(ctx).First(&model, "ticket_key = ?", key).Error; err != nil {
		return nil, notFound(err, forge.ErrTicketNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists tickets matching the filter
func (r *GormTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]forge.Ticket, error) {
	var ticketModels []models.TicketModel
	query := r.filtered(ctx, filter)
	if TicketSortFields.Column(filter.OrderBy, "number") == "priority" {
		dir := sortDirection(filter.OrderDir)
		query = query.Order(priorityRank + " " + dir).Order("number " + dir)
	} else {
		query = query.Scopes(orderBy(filter, TicketSortFields, "number"))
	}
	if err := query.Scopes(paginate(filter)).Find(&ticketModels).Error; err != nil {
		return nil, err
	}
	return ticketsToDomain(ticketModels), nil
}

// Count counts tickets matching the filter
func (r *GormTicketRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTicketRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.TicketModel{}).
		Scopes(search(filter.Search, "title", "description", "ticket_key"))

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "assignee":
			query = query.Where("assignee = ?", value)
		case "label":
			// labels are stored lowercased as a JSON array of strings
			if label, ok := value.(string); ok {
				query = query.Where("CAST(labels AS TEXT) LIKE ?", `%"`+label+`"%`)
			}
		}
	}
	return query
}

// FindBoard returns every ticket in column order
func (r *GormTicketRepository) FindBoard(ctx context.Context) ([]forge.Ticket, error) {
	var ticketModels []models.TicketModel
	if err := r.db.WithContext(ctx).
		Order("status ASC").
		Order("position ASC").
		Order("number ASC").
		Find(&ticketModels).Error; err != nil {
		return nil, err
	}
	return ticketsToDomain(ticketModels), nil
}

// LastPosition returns the largest position in a column
func (r *GormTicketRepository) LastPosition(ctx context.Context, status forge.TicketStatus) (float64, bool, error) {
	var last sql.NullFloat64
	if err := r.db.WithContext(ctx).Model(&models.TicketModel{}).
		Where("status = ?", status).
		Select("MAX(position)").
		Row().Scan(&last); err != nil {
		return 0, false, err
	}
	return last.Float64, last.Valid, nil
}

// Create assigns the next number and key, then inserts. A concurrent create
// that took the same number makes the insert fail on the unique index; the
// number is then recomputed.
func (r *GormTicketRepository) Create(ctx context.Context, t *forge.Ticket, keyPrefix string) error {
	var err error
	for attempt := 0; attempt < ticketNumberAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var maxNumber int64
			if err := tx.Model(&models.TicketModel{}).
				Select("COALESCE(MAX(number), 0)").
				Row().Scan(&maxNumber); err != nil {
				return err
			}
			t.AssignKey(keyPrefix, maxNumber+1)
			return tx.Create(models.TicketModelFromDomain(t)).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

// Save updates a ticket with optimistic locking
func (r *GormTicketRepository) Save(ctx context.Context, t *forge.Ticket) error {
	return saveVersioned(r.db.WithContext(ctx), models.TicketModelFromDomain(t), t.Version,
		"number", "ticket_key", "created_by")
}

// Delete deletes a ticket
func (r *GormTicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TicketModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return forge.ErrTicketNotFound
	}
	return nil
}

func ticketsToDomain(in []models.TicketModel) []forge.Ticket {
	out := make([]forge.Ticket, len(in))
	for i, model := range in {
		out[i] = *model.ToDomain()
	}
	return out
}

// GormExecutionRepository implements forge.ExecutionRepository using GORM
type GormExecutionRepository struct {
	db *gorm.DB
}

// NewGormExecutionRepository creates a new GormExecutionRepository
func NewGormExecutionRepository(db *gorm.DB) *GormExecutionRepository {
	return &GormExecutionRepository{db: db}
}

// FindByID finds an execution by its ID
func (r *GormExecutionRepository) FindByID(ctx context.Context, id uuid.UUID) (*forge.Execution, error) {
	var model models.ExecutionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, forge.ErrExecutionNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists executions matching the filter
func (r *GormExecutionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]forge.Execution, error) {
	var executionModels []models.ExecutionModel
	if err := r.filtered(ctx, filter).
		Scopes(orderBy(filter, ExecutionSortFields, "started_at"), paginate(filter)).
		Find(&executionModels).Error; err != nil {
		return nil, err
	}

	out := make([]forge.Execution, len(executionModels))
	for i, model := range executionModels {
		out[i] = *model.ToDomain()
	}
	return out, nil
}

// Count counts executions matching the filter
func (r *GormExecutionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormExecutionRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ExecutionModel{})
	for key, value := range filter.Filters {
		switch key {
		case "ticket_id":
			query = query.Where("ticket_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "agent_name":
			query = query.Where("agent_name = ?", value)
		}
	}
	return query
}

// Create inserts a new execution
func (r *GormExecutionRepository) Create(ctx context.Context, e *forge.Execution) error {
	return r.db.WithContext(ctx).Create(models.ExecutionModelFromDomain(e)).Error
}

// Finish stores a finished execution and charges its usage to the budget of
// its period in one transaction. Only an execution that is still queued or
// running can be finished, so concurrent completions charge once.
func (r *GormExecutionRepository) Finish(ctx context.Context, e *forge.Execution) error {
	model := models.ExecutionModelFromDomain(e)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ExecutionModel{}).
			Where("id = ? AND status IN ?", e.ID, []forge.ExecutionStatus{forge.ExecutionQueued, forge.ExecutionRunning}).
			Updates(map[string]any{
				"status":                model.Status,
				"input_tokens":          model.InputTokens,
				"output_tokens":         model.OutputTokens,
				"cache_creation_tokens": model.CacheCreationTokens,
				"cache_read_tokens":     model.CacheReadTokens,
				"cost":                  model.Cost,
				"result_summary":        model.ResultSummary,
				"error_message":         model.Error,
				"finished_at":           model.FinishedAt,
				"version":               model.Version,
				"updated_at":            model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return forge.ErrExecutionFinished
		}
		if e.Usage.TotalTokens() == 0 && e.Usage.Cost.IsZero() {
			return nil
		}
		_, err := addBudgetUsage(tx, e.BudgetPeriod, e.Usage.TotalTokens(), e.Usage.Cost)
		return err
	})
}

// GormBudgetRepository implements forge.BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByID finds a budget by its ID
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*forge.TokenBudget, error) {
	var model models.TokenBudgetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, forge.ErrBudgetNotFound)
	}
	return model.ToDomain(), nil
}

// FindByPeriod finds the budget of a YYYY-MM period
func (r *GormBudgetRepository) FindByPeriod(ctx context.Context, period string) (*forge.TokenBudget, error) {
	var model models.TokenBudgetModel
	if err := r.db.WithContext(ctx).First(&model, "period = ?", period).Error; err != nil {
		return nil, notFound(err, forge.ErrBudgetNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists budgets
func (r *GormBudgetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]forge.TokenBudget, error) {
	var budgetModels []models.TokenBudgetModel
	if err := r.db.WithContext(ctx).
		Scopes(orderBy(filter, BudgetSortFields, "period"), paginate(filter)).
		Find(&budgetModels).Error; err != nil {
		return nil, err
	}

	out := make([]forge.TokenBudget, len(budgetModels))
	for i, model := range budgetModels {
		out[i] = *model.ToDomain()
	}
	return out, nil
}

// Count counts budgets
func (r *GormBudgetRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TokenBudgetModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a budget; the period is unique
func (r *GormBudgetRepository) Create(ctx context.Context, b *forge.TokenBudget) error {
	if err := r.db.WithContext(ctx).Create(models.TokenBudgetModelFromDomain(b)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return forge.ErrBudgetExists.WithDetail("period", b.Period)
		}
		return err
	}
	return nil
}

// Save updates the limits of a budget. Usage counters are only changed by AddUsage.
func (r *GormBudgetRepository) Save(ctx context.Context, b *forge.TokenBudget) error {
	return saveVersioned(r.db.WithContext(ctx), models.TokenBudgetModelFromDomain(b), b.Version,
		"period", "tokens_used", "cost_used")
}

// AddUsage atomically increments the counters of a period
func (r *GormBudgetRepository) AddUsage(ctx context.Context, period string, tokens int64, cost decimal.Decimal) error {
	n, err := addBudgetUsage(r.db.WithContext(ctx), period, tokens, cost)
	if err != nil {
		return err
	}
	if n == 0 {
		return forge.ErrBudgetNotFound.WithDetail("period", period)
	}
	return nil
}

// addBudgetUsage increments in SQL so concurrent completions never lose an update
func addBudgetUsage(db *gorm.DB, period string, tokens int64, cost decimal.Decimal) (int64, error) {
	result := db.Model(&models.TokenBudgetModel{}).
		Where("period = ?", period).
		Updates(map[string]any{
			"tokens_used": gorm.Expr("tokens_used + ?", tokens),
			"cost_used":   gorm.Expr("cost_used + ?", cost),
			"updated_at":  time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

// GormRunnerKeyRepository implements forge.RunnerKeyRepository using GORM
type GormRunnerKeyRepository struct {
	db *gorm.DB
}

// NewGormRunnerKeyRepository creates a new GormRunnerKeyRepository
func NewGormRunnerKeyRepository(db *gorm.DB) *GormRunnerKeyRepository {
	return &GormRunnerKeyRepository{db: db}
}

// FindByID finds a runner key by its ID
func (r *GormRunnerKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*forge.RunnerKey, error) {
	var model models.RunnerKeyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, forge.ErrRunnerKeyNotFound)
	}
	return model.ToDomain(), nil
}

// FindByPrefix finds the key a presented token claims to be
func (r *GormRunnerKeyRepository) FindByPrefix(ctx context.Context, prefix string) (*forge.RunnerKey, error) {
	var model models.RunnerKeyModel
	if err := r.db.WithContext(ctx).First(&model, "prefix = ?", prefix).Error; err != nil {
		return nil, notFound(err, forge.ErrRunnerKeyNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists runner keys, newest first
func (r *GormRunnerKeyRepository) FindAll(ctx context.Context) ([]forge.RunnerKey, error) {
	var keyModels []models.RunnerKeyModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&keyModels).Error; err != nil {
		return nil, err
	}

	out := make([]forge.RunnerKey, len(keyModels))
	for i, model := range keyModels {
		out[i] = *model.ToDomain()
	}
	return out, nil
}

// Create inserts a runner key
func (r *GormRunnerKeyRepository) Create(ctx context.Context, k *forge.RunnerKey) error {
	return r.db.WithContext(ctx).Create(models.RunnerKeyModelFromDomain(k)).Error
}

// Save updates the mutable fields of a runner key
func (r *GormRunnerKeyRepository) Save(ctx context.Context, k *forge.RunnerKey) error {
	result := r.db.WithContext(ctx).Model(&models.RunnerKeyModel{}).
		Where("id = ?", k.ID).
		Updates(map[string]any{
			"name":       k.Name,
			"revoked_at": k.RevokedAt,
			"updated_at": k.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return forge.ErrRunnerKeyNotFound
	}
	return nil
}

// TouchLastUsed records when a key last authenticated
func (r *GormRunnerKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.RunnerKeyModel{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", at.UTC()).Error
}

// Ensure the GORM repositories implement the forge interfaces
var (
	_ forge.TicketRepository    = (*GormTicketRepository)(nil)
	_ forge.ExecutionRepository = (*GormExecutionRepository)(nil)
	_ forge.BudgetRepository    = (*GormBudgetRepository)(nil)
	_ forge.RunnerKeyRepository = (*GormRunnerKeyRepository)(nil)
)
