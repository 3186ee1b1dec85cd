package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/portfolio"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/keystone/backend/internal/infrastructure/logger"
	"github.com/keystone/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Portfolio context keys
const (
	PortfolioHeader  = "X-Portfolio-ID"
	PortfolioIDKey   = "portfolio_id"
	PortfolioRoleKey = "portfolio_role"
)

// AccessResolver returns a user's role in a portfolio. Non-members get shared.ErrForbidden.
type AccessResolver interface {
	ResolveAccess(ctx context.Context, userID string, portfolioID uuid.UUID) (portfolio.Role, error)
}

// PortfolioAccess scopes the request to the portfolio named by the
// X-Portfolio-ID header. It must run after SessionAuth.
func PortfolioAccess(resolver AccessResolver, log *zap.Logger) gin.HandlerFunc {
	return portfolioAccess(resolver, log, func(c *gin.Context) string {
		return c.GetHeader(PortfolioHeader)
	})
}

// PortfolioAccessFromParam scopes the request to the portfolio in a path parameter,
// used by /portfolios/:id routes
func PortfolioAccessFromParam(resolver AccessResolver, param string, log *zap.Logger) gin.HandlerFunc {
	return portfolioAccess(resolver, log, func(c *gin.Context) string {
		return c.Param(param)
	})
}

func portfolioAccess(resolver AccessResolver, log *zap.Logger, source func(*gin.Context) string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		raw := source(c)
		if raw == "" {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodePortfolioRequired, "X-Portfolio-ID header is required")
			return
		}
		portfolioID, err := uuid.Parse(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Portfolio id must be a UUID")
			return
		}

		role, err := resolver.ResolveAccess(c.Request.Context(), GetUserID(c), portfolioID)
		if err != nil {
			if errors.Is(err, shared.ErrForbidden) {
				abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "You do not have access to this portfolio")
				return
			}
			log.Error("Failed to resolve portfolio access",
				zap.String("portfolio_id", portfolioID.String()),
				zap.Error(err),
			)
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}

		c.Set(PortfolioIDKey, portfolioID)
		c.Set(PortfolioRoleKey, role)
		ctx, _ := logger.WithPortfolioID(c.Request.Context(), logger.FromContext(c.Request.Context()), portfolioID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetPortfolioID returns the portfolio set by PortfolioAccess
func GetPortfolioID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(PortfolioIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// GetPortfolioRole returns the caller's role in the scoped portfolio
func GetPortfolioRole(c *gin.Context) portfolio.Role {
	if v, ok := c.Get(PortfolioRoleKey); ok {
		if r, ok := v.(portfolio.Role); ok {
			return r
		}
	}
	return ""
}

// RequireWriter allows owners and managers
func RequireWriter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPortfolioRole(c).CanWrite() {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "This action requires the owner or manager role")
			return
		}
		c.Next()
	}
}

// RequireOwner allows owners only
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPortfolioRole(c).CanAdminister() {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "This action requires the owner role")
			return
		}
		c.Next()
	}
}
