package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/keystone/backend/internal/domain/forge"
	"github.com/keystone/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Runner context keys
const (
	RunnerKeyHeader = "X-Forge-Runner-Key"
	RunnerKeyKey    = "runner_key"
)

// RunnerAuthenticator resolves a runner token to its key
type RunnerAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*forge.RunnerKey, error)
}

// RunnerKeyAuth authenticates machine callers by the X-Forge-Runner-Key header.
// Unknown, revoked and malformed keys are indistinguishable to the caller.
func RunnerKeyAuth(authenticator RunnerAuthenticator, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := c.GetHeader(RunnerKeyHeader)
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, forge.ErrRunnerKeyInvalid.Code, "Runner key is required")
			return
		}

		key, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, forge.ErrRunnerKeyInvalid) {
				abortWithError(c, http.StatusUnauthorized, forge.ErrRunnerKeyInvalid.Code, "Invalid runner key")
				return
			}
			log.Error("Runner key authentication failed", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}

		c.Set(RunnerKeyKey, key)
		c.Next()
	}
}

// GetRunnerKey returns the key set by RunnerKeyAuth
func GetRunnerKey(c *gin.Context) *forge.RunnerKey {
	if v, ok := c.Get(RunnerKeyKey); ok {
		if k, ok := v.(*forge.RunnerKey); ok {
			return k
		}
	}
	return nil
}
