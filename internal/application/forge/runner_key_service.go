package forge

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/forge"
	"go.uber.org/zap"
)

// RunnerKeyService issues and verifies the API keys agent runners use to
// report results
type RunnerKeyService struct {
	keys   forge.RunnerKeyRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewRunnerKeyService creates a new RunnerKeyService
func NewRunnerKeyService(keys forge.RunnerKeyRepository, logger *zap.Logger) *RunnerKeyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunnerKeyService{keys: keys, logger: logger, now: time.Now}
}

// Create issues a key. The token is returned only here.
func (s *RunnerKeyService) Create(ctx context.Context, createdBy string, req CreateRunnerKeyRequest) (*IssuedRunnerKeyResponse, error) {
	k, token, err := forge.NewRunnerKey(req.Name, createdBy)
	if err != nil {
		return nil, err
	}
	if err := s.keys.Create(ctx, k); err != nil {
		return nil, err
	}
	s.logger.Info("Runner key issued", zap.String("prefix", k.Prefix), zap.String("created_by", createdBy))
	return &IssuedRunnerKeyResponse{RunnerKeyResponse: ToRunnerKeyResponse(k), Token: token}, nil
}

// List returns every key without secrets
func (s *RunnerKeyService) List(ctx context.Context) ([]RunnerKeyResponse, error) {
	keys, err := s.keys.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]RunnerKeyResponse, 0, len(keys))
	for i := range keys {
		responses = append(responses, ToRunnerKeyResponse(&keys[i]))
	}
	return responses, nil
}

// Revoke disables a key
func (s *RunnerKeyService) Revoke(ctx context.Context, id uuid.UUID) (*RunnerKeyResponse, error) {
	k, err := s.keys.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := k.Revoke(s.now()); err != nil {
		return nil, err
	}
	if err := s.keys.Save(ctx, k); err != nil {
		return nil, err
	}
	response := ToRunnerKeyResponse(k)
	return &response, nil
}

// Authenticate verifies a runner token and returns the key it belongs to.
// Every failure, including unknown prefixes, yields ErrRunnerKeyInvalid.
func (s *RunnerKeyService) Authenticate(ctx context.Context, token string) (*forge.RunnerKey, error) {
	prefix, secret, err := forge.ParseRunnerToken(token)
	if err != nil {
		return nil, err
	}
	k, err := s.keys.FindByPrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, forge.ErrRunnerKeyNotFound) {
			return nil, forge.ErrRunnerKeyInvalid
		}
		return nil, err
	}
	if !k.Verify(secret) {
		return nil, forge.ErrRunnerKeyInvalid
	}

	now := s.now().UTC()
	if err := s.keys.TouchLastUsed(ctx, k.ID, now); err != nil {
		s.logger.Warn("Failed to record runner key use", zap.String("prefix", k.Prefix), zap.Error(err))
	} else {
		k.LastUsedAt = &now
	}
	return k, nil
}
