package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/keystone/backend/internal/infrastructure/auth"
	"github.com/keystone/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(token string) (*auth.Session, error) {
	args := m.Called(token)
	if s := args.Get(0); s != nil {
		return s.(*auth.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s stubRevocations) IsRevoked(_ context.Context, sid string) (bool, error) {
	return s.revoked[sid], s.err
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func newAuthRouter(cfg SessionConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), SessionAuth(cfg))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "session": GetSession(c).SessionID})
	})
	return r
}

func TestSessionAuth(t *testing.T) {
	session := &auth.Session{UserID: "user_1", SessionID: "sess_1", Role: "member"}

	t.Run("accepts bearer token", func(t *testing.T) {
		v := new(mockVerifier)
		v.On("Verify", "good").Return(session, nil)
		r := newAuthRouter(SessionConfig{Verifier: v})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":"user_1"`)
		v.AssertExpectations(t)
	})

	t.Run("falls back to session cookie", func(t *testing.T) {
		v := new(mockVerifier)
		v.On("Verify", "cookie-token").Return(session, nil)
		r := newAuthRouter(SessionConfig{Verifier: v})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: DefaultCookie, Value: "cookie-token"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		r := newAuthRouter(SessionConfig{Verifier: new(mockVerifier)})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		errInfo := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeUnauthorized, errInfo.Code)
		assert.NotEmpty(t, errInfo.RequestID)
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		r := newAuthRouter(SessionConfig{Verifier: new(mockVerifier)})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		v := new(mockVerifier)
		v.On("Verify", "old").Return(nil, auth.ErrTokenExpired)
		r := newAuthRouter(SessionConfig{Verifier: v})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer old")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, decodeError(t, w).Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		v := new(mockVerifier)
		v.On("Verify", "bad").Return(nil, auth.ErrTokenInvalid)
		r := newAuthRouter(SessionConfig{Verifier: v})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, dto.ErrCodeTokenInvalid, decodeError(t, w).Code)
	})

	t.Run("revoked session", func(t *testing.T) {
		v := new(mockVerifier)
		v.On("Verify", "good").Return(session, nil)
		r := newAuthRouter(SessionConfig{
			Verifier:    v,
			Revocations: stubRevocations{revoked: map[string]bool{"sess_1": true}},
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, w).Code)
	})

	t.Run("revocation lookup failure lets the request through", func(t *testing.T) {
		v := new(mockVerifier)
		v.On("Verify", "good").Return(session, nil)
		r := newAuthRouter(SessionConfig{
			Verifier:    v,
			Revocations: stubRevocations{err: errors.New("redis down")},
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireSessionRole(t *testing.T) {
	v := new(mockVerifier)
	v.On("Verify", "admin").Return(&auth.Session{UserID: "a", Role: "forge_admin"}, nil)
	v.On("Verify", "member").Return(&auth.Session{UserID: "m", Role: "member"}, nil)

	r := gin.New()
	r.Use(SessionAuth(SessionConfig{Verifier: v}), RequireSessionRole("forge_admin"))
	r.GET("/forge", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for token, want := range map[string]int{"admin": http.StatusNoContent, "member": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/forge", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
	}
}
