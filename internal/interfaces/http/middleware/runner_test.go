package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/keystone/backend/internal/domain/forge"
	"github.com/stretchr/testify/assert"
)

type stubRunnerAuth struct {
	tokens map[string]*forge.RunnerKey
}

func (s stubRunnerAuth) Authenticate(_ context.Context, token string) (*forge.RunnerKey, error) {
	if k, ok := s.tokens[token]; ok {
		return k, nil
	}
	return nil, forge.ErrRunnerKeyInvalid
}

func TestRunnerKeyAuth(t *testing.T) {
	key := &forge.RunnerKey{Name: "ci", Prefix: "abcd1234"}
	r := gin.New()
	r.POST("/complete", RunnerKeyAuth(stubRunnerAuth{tokens: map[string]*forge.RunnerKey{"good": key}}, nil),
		func(c *gin.Context) { c.String(http.StatusOK, GetRunnerKey(c).Name) })

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"unknown key", "bad", http.StatusUnauthorized},
		{"valid key", "good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/complete", nil)
			if tt.header != "" {
				req.Header.Set(RunnerKeyHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "RUNNER_KEY_INVALID", decodeError(t, w).Code)
			} else {
				assert.Equal(t, "ci", w.Body.String())
			}
		})
	}
}
