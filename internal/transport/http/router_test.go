package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authhandler "gatepass/internal/auth/handler"
	authservice "gatepass/internal/auth/service"
	authstore "gatepass/internal/auth/store"
	badgehandler "gatepass/internal/badge/handler"
	badgeservice "gatepass/internal/badge/service"
	badgestore "gatepass/internal/badge/store"
	"gatepass/internal/contract"
	"gatepass/internal/jwttoken"
	"gatepass/internal/notification"
	"gatepass/internal/stats"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.Default()

	badges := badgestore.NewInMemoryBadgeStore()
	additions := badgestore.NewInMemoryAdditionLog()
	ledger := badgestore.NewInMemoryResolutionLedger()

	users := authstore.NewInMemoryUserStore()
	sessions := authstore.NewInMemorySessionStore()
	require.NoError(t, authstore.EnsureDefaultUsers(context.Background(), users, "admin-pass", "service-pass"))

	tokens := jwttoken.NewService("unit-test-key", "gatepass")
	authSvc := authservice.NewAuthService(users, sessions, tokens, time.Hour, log)

	badgeSvc := badgeservice.NewBadgeService(badges, additions, ledger, log)
	notifSvc := notification.NewService(badges, additions, ledger, log)
	statsSvc := stats.NewService(badges, additions, log)
	contracts := contract.NewStorage(t.TempDir())

	router := NewRouter(Deps{
		Logger:        log,
		Validator:     authSvc,
		Auth:          authhandler.NewHandler(authSvc, log, false),
		Badges:        badgehandler.New(badgeSvc, log),
		Notifications: notification.NewHandler(notifSvc, log),
		Stats:         stats.NewHandler(statsSvc, log),
		Contracts:     contract.NewHandler(badgeSvc, contracts, log),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server) *http.Cookie {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{
		"username": "doufik@AdminEmail.com",
		"password": "admin-pass",
	})
	resp, err := http.Post(srv.URL+"/api/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "gatepass_session" {
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func TestHealthzIsPublic(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsIsPublic(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBadgeAPIRequiresSession(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/badges/permanent")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unauthorized", body["error"])
}

func TestAuthenticatedBadgeFlow(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv)

	payload, _ := json.Marshal(map[string]any{
		"badge_num":         "P-100",
		"full_name":         "Nadia Bennis",
		"company":           "Atlas Cargo",
		"cin":               "AB123456",
		"validity_duration": "1 year",
		"request_date":      "2025-05-01",
	})
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/badges/permanent", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The new badge shows up in the notification feed as a new addition.
	feedReq, err := http.NewRequest(http.MethodGet, srv.URL+"/api/notifications", nil)
	require.NoError(t, err)
	feedReq.AddCookie(cookie)
	feed, err := http.DefaultClient.Do(feedReq)
	require.NoError(t, err)
	defer feed.Body.Close()
	require.Equal(t, http.StatusOK, feed.StatusCode)

	var feedBody struct {
		Summary struct {
			NewBadges int `json:"new_badges"`
		} `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(feed.Body).Decode(&feedBody))
	assert.Equal(t, 1, feedBody.Summary.NewBadges)

	// Stats is reachable on the same session.
	statsReq, err := http.NewRequest(http.MethodGet, srv.URL+"/api/stats", nil)
	require.NoError(t, err)
	statsReq.AddCookie(cookie)
	statsResp, err := http.DefaultClient.Do(statsReq)
	require.NoError(t, err)
	statsResp.Body.Close()
	assert.Equal(t, http.StatusOK, statsResp.StatusCode)
}
