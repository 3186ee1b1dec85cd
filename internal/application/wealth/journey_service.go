package wealth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/property"
	"github.com/keystone/backend/internal/domain/wealth"
	"go.uber.org/zap"
)

// Cache stores serialized dashboards. Implemented by the Redis and in-memory stores.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// HeldPropertyLister loads the properties a portfolio still holds
type HeldPropertyLister interface {
	FindAllHeld(ctx context.Context, portfolioID uuid.UUID) ([]property.Property, error)
}

// JourneyService builds the wealth dashboard and caches it per portfolio.
// Cache failures never fail a request; the dashboard is computed instead.
type JourneyService struct {
	properties HeldPropertyLister
	cache      Cache
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewJourneyService creates a new JourneyService. A nil cache disables caching.
func NewJourneyService(properties HeldPropertyLister, cache Cache, ttl time.Duration, logger *zap.Logger) *JourneyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &JourneyService{
		properties: properties,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// GetJourney returns the dashboard of a portfolio
func (s *JourneyService) GetJourney(ctx context.Context, portfolioID uuid.UUID) (*JourneyResponse, error) {
	key := cacheKey(portfolioID)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	props, err := s.properties.FindAllHeld(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	response := ToJourneyResponse(wealth.Compute(portfolioID, props, s.now()))

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			err = s.cache.Set(ctx, key, payload, s.ttl)
		}
		if err != nil {
			s.logger.Warn("Failed to cache wealth journey",
				zap.String("portfolio_id", portfolioID.String()),
				zap.Error(err),
			)
		}
	}
	return &response, nil
}

// Invalidate drops the cached dashboard of a portfolio
func (s *JourneyService) Invalidate(ctx context.Context, portfolioID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(portfolioID)); err != nil {
		s.logger.Warn("Failed to invalidate wealth journey",
			zap.String("portfolio_id", portfolioID.String()),
			zap.Error(err),
		)
	}
}

func (s *JourneyService) fromCache(ctx context.Context, key string) (*JourneyResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read wealth journey cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var response JourneyResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		s.logger.Warn("Discarding unreadable wealth journey cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &response, true
}

func cacheKey(portfolioID uuid.UUID) string {
	return "wealth:journey:" + portfolioID.String()
}
