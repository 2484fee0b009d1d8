package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserID), "role": c.GetString(ContextRole)})
	})
	engine.GET("/", handlers...)
	return engine
}

func serve(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens, err := utils.NewTokenIssuer("mw-secret", time.Hour)
	require.NoError(t, err)
	token, _, err := tokens.GenerateAccessToken("u1", "ana@clinic.com", "FINANCE")
	require.NoError(t, err)
	engine := newEngine(AuthMiddleware(tokens))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + token, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(engine, tt.header)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRoleAuthMiddleware(t *testing.T) {
	setRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set(ContextRole, role) }
	}

	assert.Equal(t, http.StatusOK, serve(newEngine(setRole("finance"), RoleAuthMiddleware("ADMIN", "FINANCE")), "").Code)
	assert.Equal(t, http.StatusForbidden, serve(newEngine(setRole("SALES"), RoleAuthMiddleware("ADMIN")), "").Code)
	assert.Equal(t, http.StatusForbidden, serve(newEngine(RoleAuthMiddleware("ADMIN")), "").Code)
}

func TestSetupGuard(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(newEngine(SetupGuard(nil)), "").Code)

	w := serve(newEngine(SetupGuard([]string{"BACKEND_URL", "BACKEND_KEY"})), "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), utils.ErrCodeSetupRequired)
	assert.Contains(t, w.Body.String(), "BACKEND_KEY")
}

type stubSession struct {
	loaded bool
	err    error
	calls  int
}

func (s *stubSession) Bootstrap(context.Context) (*services.SessionInfo, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	s.loaded = true
	return &services.SessionInfo{LoadedAt: time.Now()}, nil
}

func (s *stubSession) Loaded() bool { return s.loaded }

func TestSessionMiddleware(t *testing.T) {
	session := &stubSession{err: errors.New("timeout")}
	engine := newEngine(SessionMiddleware(session))

	w := serve(engine, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), utils.ErrCodeBackendUnavailable)

	session.err = nil
	assert.Equal(t, http.StatusOK, serve(engine, "").Code)
	assert.Equal(t, http.StatusOK, serve(engine, "").Code)
	assert.Equal(t, 2, session.calls)
}
