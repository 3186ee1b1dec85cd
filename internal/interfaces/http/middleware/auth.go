package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/keystone/backend/internal/infrastructure/auth"
	"github.com/keystone/backend/internal/infrastructure/logger"
	"github.com/keystone/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionKey     = "session"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
	DefaultCookie  = "__session"
	sessionUserKey = "session_user_id"
)

// TokenVerifier verifies provider session tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Session, error)
}

// RevocationChecker reports whether a provider session id was signed out
type RevocationChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// SessionConfig holds configuration for SessionAuth
type SessionConfig struct {
	Verifier TokenVerifier
	// Revocations is optional; lookups that fail are logged and let through
	Revocations RevocationChecker
	// CookieName is read when no bearer token is sent
	CookieName string
	Logger     *zap.Logger
}

// SessionAuth requires a valid provider session from the Authorization
// header or the session cookie
func SessionAuth(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookie
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, problem := extractToken(c, cfg.CookieName)
		if problem != "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, problem)
			return
		}

		session, err := cfg.Verifier.Verify(token)
		if err != nil {
			cfg.Logger.Debug("Session verification failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			code, message := authErrorCode(err)
			abortWithError(c, http.StatusUnauthorized, code, message)
			return
		}

		if cfg.Revocations != nil && session.SessionID != "" {
			revoked, err := cfg.Revocations.IsRevoked(c.Request.Context(), session.SessionID)
			switch {
			case err != nil:
				cfg.Logger.Error("Failed to check session revocation",
					zap.String("session_id", session.SessionID),
					zap.Error(err),
				)
			case revoked:
				abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenRevoked, "Session has been revoked")
				return
			}
		}

		c.Set(SessionKey, session)
		c.Set(sessionUserKey, session.UserID)
		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), session.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// extractToken returns the token, or a client facing problem when there is none
func extractToken(c *gin.Context, cookieName string) (token, problem string) {
	if header := c.GetHeader(AuthHeaderKey); header != "" {
		if !strings.HasPrefix(header, BearerPrefix) {
			return "", "Invalid authorization header format"
		}
		token = strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			return "", "Missing token"
		}
		return token, ""
	}
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, ""
	}
	return "", "Authentication required"
}

func authErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return dto.ErrCodeTokenExpired, "Session has expired"
	case errors.Is(err, auth.ErrTokenMissing):
		return dto.ErrCodeUnauthorized, "Authentication required"
	default:
		return dto.ErrCodeTokenInvalid, "Invalid session token"
	}
}

// GetSession returns the verified session, nil on public routes
func GetSession(c *gin.Context) *auth.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*auth.Session); ok {
			return s
		}
	}
	return nil
}

// GetUserID returns the authenticated user id, empty on public routes
func GetUserID(c *gin.Context) string {
	return c.GetString(sessionUserKey)
}

// RequireSessionRole allows only sessions carrying role, e.g. forge_admin
func RequireSessionRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).HasRole(role) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "This area requires the "+role+" role")
			return
		}
		c.Next()
	}
}
