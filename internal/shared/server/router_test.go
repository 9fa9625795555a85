package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness-backend/internal/services/health"
	"wellness-backend/internal/shared/auth"
	"wellness-backend/internal/shared/auth/authtest"
	"wellness-backend/internal/shared/config"
	"wellness-backend/internal/shared/server"
)

const routerSecret = "router-secret"

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	verifier, err := auth.NewVerifier(routerSecret, "dev")
	require.NoError(t, err)
	r := server.NewRouter(server.RouterDeps{
		Config:   config.Config{CORSAllowOrigin: []string{"http://localhost:5173"}},
		Verifier: verifier,
		Health:   health.NewService(nil),
	})
	return r
}

func TestPublicEndpointsSkipAuth(t *testing.T) {
	r := newRouter(t)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.True(t, strings.Contains(resp.Body.String(), "checkins_recorded_total"))
}

func TestMeWithBearerToken(t *testing.T) {
	r := newRouter(t)

	token := authtest.Token(t, routerSecret, auth.Claims{
		Email:            "ada@example.com",
		Name:             "Ada",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "user-42", body["userId"])
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, false, body["isGuest"])
}

func TestMeRejectsMissingIdentity(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestPreflightBypassesAuth(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/checkins", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", server.Addr(""))
	assert.Equal(t, ":9000", server.Addr("9000"))
	assert.Equal(t, ":9000", server.Addr(":9000"))
}
