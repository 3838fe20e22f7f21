package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatepass/internal/auth/service"
	"gatepass/internal/auth/store"
	"gatepass/internal/jwttoken"
	"gatepass/internal/platform/middleware"
	"gatepass/pkg/requestcontext"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	users := store.NewInMemoryUserStore()
	sessions := store.NewInMemorySessionStore()
	ctx := context.Background()
	require.NoError(t, store.EnsureDefaultUsers(ctx, users, "admin-pass", "service-pass"))

	tokens := jwttoken.NewService("unit-test-key", "gatepass")
	svc := service.NewAuthService(users, sessions, tokens, time.Hour, slog.Default())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestcontext.WithTime(req.Context(), time.Now())))
		})
	})
	NewHandler(svc, slog.Default(), false).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/login", map[string]string{
		"username": "doufik@AdminEmail.com",
		"password": "admin-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "login must set the session cookie")
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(time.Hour/time.Second), cookie.MaxAge)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "doufik@AdminEmail.com", user["username"])
	assert.Equal(t, "admin", user["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/login", map[string]string{
		"username": "doufik@AdminEmail.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "unauthorized", body["error"])
	assert.Equal(t, "invalid username or password", body["error_description"])
	assert.Nil(t, sessionCookie(resp))
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/login", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "bad_request", body["error"])
}

func TestCheckAuthAnonymous(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/check-auth")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["authenticated"])
	assert.NotContains(t, body, "user")
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	login := postJSON(t, srv.URL+"/login", map[string]string{
		"username": "services@AdminEmail.com",
		"password": "service-pass",
	})
	require.Equal(t, http.StatusOK, login.StatusCode)
	login.Body.Close()
	cookie := sessionCookie(login)
	require.NotNil(t, cookie)

	// Authenticated check-auth reports the logged-in user.
	checkReq, err := http.NewRequest(http.MethodGet, srv.URL+"/check-auth", nil)
	require.NoError(t, err)
	checkReq.AddCookie(cookie)
	check, err := http.DefaultClient.Do(checkReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, check.StatusCode)
	body := decodeBody(t, check)
	assert.Equal(t, true, body["authenticated"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "services@AdminEmail.com", user["username"])
	assert.Equal(t, "service", user["role"])

	// Logout clears the cookie and kills the session server-side.
	logoutReq, err := http.NewRequest(http.MethodPost, srv.URL+"/logout", nil)
	require.NoError(t, err)
	logoutReq.AddCookie(cookie)
	logout, err := http.DefaultClient.Do(logoutReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, logout.StatusCode)
	cleared := sessionCookie(logout)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
	logoutBody := decodeBody(t, logout)
	assert.Equal(t, true, logoutBody["success"])

	// The old cookie no longer authenticates.
	checkReq2, err := http.NewRequest(http.MethodGet, srv.URL+"/check-auth", nil)
	require.NoError(t, err)
	checkReq2.AddCookie(cookie)
	check2, err := http.DefaultClient.Do(checkReq2)
	require.NoError(t, err)
	body2 := decodeBody(t, check2)
	assert.Equal(t, false, body2["authenticated"])
}

func TestLogoutWithoutCookieSucceeds(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/logout", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
}
