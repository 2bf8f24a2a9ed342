package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/backend"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/gateway"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/middleware"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session/sessiontest"
	"github.com/farmersconnect/farmers-connect-ui/internal/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:  "0",
		Env:         "test",
		ServiceName: "farmers-connect-ui-test",
		Backend:     config.BackendConfig{Timeout: 5 * time.Second},
		Session: config.SessionConfig{
			Name:   "farmers_connect_session",
			Secret: "0123456789abcdef0123456789abcdef",
			MaxAge: time.Hour,
		},
	}
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/User/login", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"flag":    true,
			"message": "ok",
			"token":   sessiontest.Token("2", "Alice", "alice@example.com", "Farmer"),
		})
	})
	mux.HandleFunc("GET /WeatherForecast", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	backendSrv := httptest.NewServer(mux)
	t.Cleanup(backendSrv.Close)

	api := backend.NewClient(gateway.New(backendSrv.URL, backendSrv.Client(), nil))
	return SetupRouter(testConfig(), api, session.NewDecoder("", nil), zap.NewNop())
}

func TestRouterHealthz(t *testing.T) {
	r := newRouter(t)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRouterServesAssets(t *testing.T) {
	r := newRouter(t)
	for _, path := range []string{"/assets/css/app.css", "/assets/img/default-avatar.svg", "/assets/img/logo.svg"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouterSessionCookie(t *testing.T) {
	r := newRouter(t)

	form := url.Values{"email": {"alice@example.com"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "farmers_connect_session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sessionCookie.SameSite)
	assert.Equal(t, 3600, sessionCookie.MaxAge)
	assert.NotContains(t, sessionCookie.Value, "Alice", "the cookie is encoded, not plain")

	// The cookie alone carries the session into the next request.
	req = httptest.NewRequest(http.MethodGet, "/weather", nil)
	req.AddCookie(sessionCookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice")

	req = httptest.NewRequest(http.MethodGet, "/weather", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
}
