package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/chordgen-api/internal/config"
	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/middleware"
	"github.com/Conceptual-Machines/chordgen-api/internal/services"
)

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T, authMode string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	eng := engine.New(engine.WithSeedSource(engine.FixedSeed(1)))
	store, err := services.NewFileStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{AuthMode: authMode, JWTSecret: testSecret}
	return SetupRouter(Dependencies{
		Engine:  eng,
		Presets: services.NewPresetService(store, eng),
	}, cfg, "test")
}

func signToken(t *testing.T, subject, role string) string {
	t.Helper()
	claims := middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func serve(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_NoAuth(t *testing.T) {
	router := newTestRouter(t, config.AuthModeNone)

	w := serve(router, http.MethodPost, "/api/v1/progressions", `{"key":"C","bars":4}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodPost, "/api/v1/presets", `{"name":"open","request":{"key":"C","bars":4}}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(router, http.MethodDelete, "/api/v1/presets/open", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := newTestRouter(t, config.AuthModeJWT)

	for _, path := range []string{"/health", "/api/metrics"} {
		w := serve(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, config.AuthModeJWT)

	w := serve(router, http.MethodOptions, "/api/v1/progressions", "", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_JWTAuth(t *testing.T) {
	router := newTestRouter(t, config.AuthModeJWT)
	body := `{"key":"D","bars":4,"seed":2}`

	w := serve(router, http.MethodPost, "/api/v1/progressions", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, http.MethodPost, "/api/v1/progressions", body, map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	user := map[string]string{"Authorization": "Bearer " + signToken(t, "42", "user")}
	w = serve(router, http.MethodPost, "/api/v1/progressions", body, user)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodPost, "/api/v1/presets", `{"name":"shared","request":`+body+`}`, user)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(router, http.MethodDelete, "/api/v1/presets/shared", "", user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := map[string]string{"Authorization": "Bearer " + signToken(t, "1", middleware.RoleAdmin)}
	w = serve(router, http.MethodDelete, "/api/v1/presets/shared", "", admin)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_GatewayAuth(t *testing.T) {
	router := newTestRouter(t, config.AuthModeGateway)

	w := serve(router, http.MethodGet, "/api/v1/meta", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/meta", "", map[string]string{"X-User-ID": "7"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodDelete, "/api/v1/presets/missing", "", map[string]string{
		"X-User-ID":   "7",
		"X-User-Role": middleware.RoleAdmin,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
