package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/keystone/backend/internal/infrastructure/auth"
	"github.com/keystone/backend/internal/interfaces/http/dto"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockRevoker struct {
	mock.Mock
}

func (m *mockRevoker) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, ttl)
	return args.Error(0)
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler(SystemConfig{Version: "1.2.3"}, nil, zaptest.NewLogger(t))
	c, w := newTestContext(http.MethodGet, "/health", nil)

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
}

func TestSystemHandler_Ready(t *testing.T) {
	t.Run("all up", func(t *testing.T) {
		h := NewSystemHandler(SystemConfig{Checks: map[string]Pinger{
			"database": PingFunc(func(context.Context) error { return nil }),
			"cache":    PingFunc(func(context.Context) error { return nil }),
		}}, nil, zaptest.NewLogger(t))
		c, w := newTestContext(http.MethodGet, "/ready", nil)

		h.Ready(c)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "ready", data["status"])
		assert.Equal(t, "up", data["checks"].(map[string]any)["database"])
	})

	t.Run("dependency down", func(t *testing.T) {
		h := NewSystemHandler(SystemConfig{Checks: map[string]Pinger{
			"database": PingFunc(func(context.Context) error { return nil }),
			"cache":    PingFunc(func(context.Context) error { return errors.New("connection refused") }),
		}}, nil, zaptest.NewLogger(t))
		c, w := newTestContext(http.MethodGet, "/ready", nil)

		h.Ready(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "not_ready", data["status"])
		checks := data["checks"].(map[string]any)
		assert.Equal(t, "up", checks["database"])
		assert.Equal(t, "down", checks["cache"])
	})
}

func TestSystemHandler_Me(t *testing.T) {
	h := NewSystemHandler(SystemConfig{ForgeAdminRole: "forge_admin"}, nil, zaptest.NewLogger(t))

	t.Run("session", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/api/v1/me", nil)
		c.Set(middleware.SessionKey, &auth.Session{
			UserID:    "user_1",
			Email:     "owner@example.com",
			Role:      "forge_admin",
			SessionID: "sess_1",
			ExpiresAt: time.Now().Add(time.Hour),
		})

		h.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "user_1", data["user_id"])
		assert.Equal(t, "owner@example.com", data["email"])
		assert.Equal(t, true, data["forge_admin"])
		assert.NotNil(t, data["expires_at"])
	})

	t.Run("no session", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/api/v1/me", nil)

		h.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, decodeResponse(t, w).Error.Code)
	})
}

func TestSystemHandler_RevokeSession(t *testing.T) {
	t.Run("revokes for remaining lifetime", func(t *testing.T) {
		revoker := new(mockRevoker)
		revoker.On("Revoke", mock.Anything, "sess_1", mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 29*time.Minute && ttl <= 30*time.Minute
		})).Return(nil)
		h := NewSystemHandler(SystemConfig{}, revoker, zaptest.NewLogger(t))

		c, w := newTestContext(http.MethodPost, "/api/v1/session/revoke", nil)
		c.Set(middleware.SessionKey, &auth.Session{UserID: "user_1", SessionID: "sess_1", ExpiresAt: time.Now().Add(30 * time.Minute)})

		h.RevokeSession(c)
		c.Writer.WriteHeaderNow()

		assert.Equal(t, http.StatusNoContent, w.Code)
		revoker.AssertExpectations(t)
	})

	t.Run("falls back to one hour without expiry", func(t *testing.T) {
		revoker := new(mockRevoker)
		revoker.On("Revoke", mock.Anything, "sess_2", time.Hour).Return(nil)
		h := NewSystemHandler(SystemConfig{}, revoker, zaptest.NewLogger(t))

		c, w := newTestContext(http.MethodPost, "/api/v1/session/revoke", nil)
		c.Set(middleware.SessionKey, &auth.Session{UserID: "user_1", SessionID: "sess_2"})

		h.RevokeSession(c)
		c.Writer.WriteHeaderNow()

		assert.Equal(t, http.StatusNoContent, w.Code)
		revoker.AssertExpectations(t)
	})

	t.Run("no session id", func(t *testing.T) {
		revoker := new(mockRevoker)
		h := NewSystemHandler(SystemConfig{}, revoker, zaptest.NewLogger(t))

		c, w := newTestContext(http.MethodPost, "/api/v1/session/revoke", nil)
		c.Set(middleware.SessionKey, &auth.Session{UserID: "user_1"})

		h.RevokeSession(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		revoker.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		revoker := new(mockRevoker)
		revoker.On("Revoke", mock.Anything, "sess_3", mock.Anything).Return(errors.New("redis down"))
		h := NewSystemHandler(SystemConfig{}, revoker, zaptest.NewLogger(t))

		c, w := newTestContext(http.MethodPost, "/api/v1/session/revoke", nil)
		c.Set(middleware.SessionKey, &auth.Session{UserID: "user_1", SessionID: "sess_3", ExpiresAt: time.Now().Add(time.Minute)})

		h.RevokeSession(c)

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
