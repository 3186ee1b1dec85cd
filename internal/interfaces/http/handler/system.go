package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keystone/backend/internal/interfaces/http/dto"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Pinger is a dependency probed by the readiness check
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// SessionRevoker records signed out sessions until they would have expired
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
}

// SystemHandler serves health, readiness and session endpoints
type SystemHandler struct {
	BaseHandler
	cfg       SystemConfig
	startTime time.Time
	revoker   SessionRevoker
	logger    *zap.Logger
}

// SystemConfig configures SystemHandler
type SystemConfig struct {
	Version string
	// Checks are probed by Ready, keyed by dependency name
	Checks         map[string]Pinger
	ForgeAdminRole string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(cfg SystemConfig, revoker SessionRevoker, logger *zap.Logger) *SystemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemHandler{
		cfg:       cfg,
		startTime: time.Now(),
		revoker:   revoker,
		logger:    logger,
	}
}

// HealthResponse reports liveness
// @name HandlerHealthResponse
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// ReadyResponse reports dependency status
// @name HandlerReadyResponse
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks"`
}

// MeResponse describes the caller's session
// @name HandlerMeResponse
type MeResponse struct {
	UserID     string     `json:"user_id" example:"user_2abc"`
	Email      string     `json:"email" example:"owner@example.com"`
	Role       string     `json:"role,omitempty" example:"forge_admin"`
	SessionID  string     `json:"session_id,omitempty" example:"sess_2abc"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	ForgeAdmin bool       `json:"forge_admin"`
}

// Health godoc
// @ID           getHealth
// @Summary      Liveness check
// @Description  Returns ok while the process serves requests
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status:    "ok",
		Version:   h.cfg.Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready godoc
// @ID           getReady
// @Summary      Readiness check
// @Description  Probes the database and cache; 503 when any is down
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[ReadyResponse]
// @Failure      503 {object} APIResponse[ReadyResponse]
// @Router       /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: make(map[string]string, len(h.cfg.Checks))}
	for name, check := range h.cfg.Checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "down"
			resp.Status = "not_ready"
			continue
		}
		resp.Checks[name] = "up"
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}

// Me godoc
// @ID           getMe
// @Summary      Current session
// @Description  Returns the identity carried by the caller's session
// @Tags         session
// @Produce      json
// @Success      200 {object} APIResponse[MeResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/me [get]
func (h *SystemHandler) Me(c *gin.Context) {
	s := middleware.GetSession(c)
	if s == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	resp := MeResponse{
		UserID:     s.UserID,
		Email:      s.Email,
		Role:       s.Role,
		SessionID:  s.SessionID,
		ForgeAdmin: s.HasRole(h.cfg.ForgeAdminRole),
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt
		resp.ExpiresAt = &exp
	}
	h.Success(c, resp)
}

// RevokeSession godoc
// @ID           revokeSession
// @Summary      Sign out the current session
// @Description  Rejects the caller's session id on later requests until the token would have expired
// @Tags         session
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/session/revoke [post]
func (h *SystemHandler) RevokeSession(c *gin.Context) {
	s := middleware.GetSession(c)
	if s == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	if s.SessionID == "" {
		h.BadRequest(c, "Session token carries no session id")
		return
	}
	ttl := s.RemainingTTL()
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := h.revoker.Revoke(c.Request.Context(), s.SessionID, ttl); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
