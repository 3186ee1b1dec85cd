package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// forPortfolio restricts a query to one tenant
func forPortfolio(portfolioID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("portfolio_id = ?", portfolioID)
	}
}

// paginate applies the page window of a normalized filter
func paginate(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.PageSize < 1 {
			return db
		}
		return db.Offset(filter.Offset()).Limit(filter.PageSize)
	}
}

// orderBy sorts by a whitelisted column; id breaks ties so pages are stable
func orderBy(filter shared.Filter, allowed SortFields, defaultField string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := allowed.Column(filter.OrderBy, defaultField)
		dir := sortDirection(filter.OrderDir)
		return db.Order(field + " " + dir).Order("id " + dir)
	}
}

// search matches the term case-insensitively against any of the columns.
// LOWER+LIKE instead of ILIKE keeps queries portable to sqlite.
func search(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, c := range columns {
			clauses[i] = "LOWER(" + c + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// saveVersioned inserts a version 1 aggregate and otherwise updates the row
// only if the stored version is one behind. model must have its primary key set.
func saveVersioned(db *gorm.DB, model any, version int, omit ...string) error {
	if version <= 1 {
		if err := db.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return nil
	}
	omit = append(omit, "id", "created_at")
	result := db.Model(model).
		Select("*").
		Omit(omit...).
		Where("version = ?", version-1).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// notFound maps gorm's missing-row error to the context's error
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
