package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-console/internal/client"
	"helpdesk-console/internal/feedback"
	"helpdesk-console/internal/guard"
	"helpdesk-console/internal/model"
	"helpdesk-console/internal/service"
	"helpdesk-console/internal/session"
)

const testSecret = "console-test-secret-0123456789abcdef"

type memoryAuditStore struct {
	entries []model.AuditEntry
}

func (m *memoryAuditStore) Record(_ context.Context, entry model.AuditEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryAuditStore) Query(_ context.Context, _ model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	return m.entries, model.Meta{Total: len(m.entries)}, nil
}

func (m *memoryAuditStore) actions() []string {
	actions := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

type consoleFixture struct {
	store   session.Store
	cookies *guard.CookieCodec
	guard   *guard.Guard
	deps    client.Deps
	audit   *service.AuditService
	trail   *memoryAuditStore
}

func newConsoleFixture(t *testing.T, backendURL string) *consoleFixture {
	t.Helper()

	store, err := session.NewMemoryStore(testSecret, time.Hour)
	require.NoError(t, err)

	cookies, err := guard.NewCookieCodec(testSecret, time.Hour, false)
	require.NoError(t, err)

	trail := &memoryAuditStore{}

	return &consoleFixture{
		store:   store,
		cookies: cookies,
		guard:   guard.New(cookies, store),
		deps: client.Deps{
			BaseURL:    backendURL,
			HTTPClient: &http.Client{Timeout: time.Second},
			Tokens:     guard.SessionTokens{Store: store},
			Feedback:   feedback.NewCenter(),
			MaxRetries: 1,
			BaseDelay:  time.Millisecond,
		},
		audit: service.NewAuditService(trail, nil),
		trail: trail,
	}
}

func testProfile(modules ...model.ModulePermission) model.UserProfile {
	return model.UserProfile{
		UserID:          "u-1",
		FullName:        "Dana Admin",
		Email:           "dana@example.test",
		RoleName:        "Administrator",
		RolePermissions: modules,
	}
}

// fakeTicketingBackend stands in for the external REST backend.
func fakeTicketingBackend(t *testing.T, profile model.UserProfile) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var payload model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		w.Header().Set("Content-Type", "application/json")
		if payload.Password != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
			return
		}

		_ = json.NewEncoder(w).Encode(model.LoginResult{Token: "backend-token-1", User: profile})
	})
	mux.HandleFunc("/api/tickets", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer backend-token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Missing token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"t-1","subject":"Printer down","priority":"High","status":"Open"}],"total":1}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func doLogin(t *testing.T, fx *consoleFixture, password string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewAuthHandler(client.NewAuthAPI(fx.deps), fx.store, fx.cookies, fx.audit, nil)
	body := `{"email":"dana@example.test","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestAuthHandler_LoginIssuesSessionCookie(t *testing.T) {
	profile := testProfile(model.ModulePermission{
		ModuleName:  "Tickets",
		Permissions: map[string]bool{model.CapRead: true},
	})
	backend := fakeTicketingBackend(t, profile)
	fx := newConsoleFixture(t, backend.URL)

	rec := doLogin(t, fx, "good")
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "login must set the session cookie")

	var envelope struct {
		Success bool              `json:"success"`
		Data    model.UserProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "Dana Admin", envelope.Data.FullName)

	assert.Contains(t, fx.trail.actions(), model.AuditLogin)
}

func TestAuthHandler_LoginFailureNeverCreatesSession(t *testing.T) {
	backend := fakeTicketingBackend(t, testProfile())
	fx := newConsoleFixture(t, backend.URL)

	rec := doLogin(t, fx, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
	assert.Empty(t, rec.Result().Cookies(), "no session cookie after a failed login")
	assert.Contains(t, fx.trail.actions(), model.AuditLoginFailed)
}

func TestAuthHandler_GuardedAPIRoundTrip(t *testing.T) {
	profile := testProfile(model.ModulePermission{
		ModuleName:  "Tickets",
		Permissions: map[string]bool{model.CapRead: true},
	})
	backend := fakeTicketingBackend(t, profile)
	fx := newConsoleFixture(t, backend.URL)

	loginRec := doLogin(t, fx, "good")
	require.Equal(t, http.StatusOK, loginRec.Code)
	sessionCookie := loginRec.Result().Cookies()[0]

	tickets := NewTicketHandler(client.NewTicketAPI(fx.deps), nil, fx.audit)
	guarded := fx.guard.RequireAPI(http.HandlerFunc(tickets.List))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil)
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Printer down")
}

func TestAuthHandler_GuardedAPIWithoutCookie(t *testing.T) {
	backend := fakeTicketingBackend(t, testProfile())
	fx := newConsoleFixture(t, backend.URL)

	tickets := NewTicketHandler(client.NewTicketAPI(fx.deps), nil, fx.audit)
	guarded := fx.guard.RequireAPI(http.HandlerFunc(tickets.List))

	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestTicketHandler_PermissionDeniedIsAudited(t *testing.T) {
	// Profile can sign in but has no Tickets module at all.
	profile := testProfile(model.ModulePermission{
		ModuleName:  "Dashboard",
		Permissions: map[string]bool{model.CapRead: true},
	})
	backend := fakeTicketingBackend(t, profile)
	fx := newConsoleFixture(t, backend.URL)

	loginRec := doLogin(t, fx, "good")
	require.Equal(t, http.StatusOK, loginRec.Code)
	sessionCookie := loginRec.Result().Cookies()[0]

	tickets := NewTicketHandler(client.NewTicketAPI(fx.deps), nil, fx.audit)
	guarded := fx.guard.RequireAPI(http.HandlerFunc(tickets.List))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil)
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
	assert.Contains(t, fx.trail.actions(), model.AuditPermissionDenied)
}

func TestMenuHandler_FiltersByProfile(t *testing.T) {
	profile := testProfile(
		model.ModulePermission{ModuleName: "Dashboard", Permissions: map[string]bool{model.CapRead: true}},
		model.ModulePermission{ModuleName: "Tickets", Permissions: map[string]bool{model.CapRead: true}},
	)
	backend := fakeTicketingBackend(t, profile)
	fx := newConsoleFixture(t, backend.URL)

	loginRec := doLogin(t, fx, "good")
	require.Equal(t, http.StatusOK, loginRec.Code)
	sessionCookie := loginRec.Result().Cookies()[0]

	guarded := fx.guard.RequireAPI(http.HandlerFunc(NewMenuHandler().Menu))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil)
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []guard.MenuEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "Dashboard", envelope.Data[0].Title)
	assert.Equal(t, "Tickets", envelope.Data[1].Title)
}

func TestAuthHandler_LogoutClearsSession(t *testing.T) {
	profile := testProfile(model.ModulePermission{
		ModuleName:  "Tickets",
		Permissions: map[string]bool{model.CapRead: true},
	})
	backend := fakeTicketingBackend(t, profile)
	fx := newConsoleFixture(t, backend.URL)

	loginRec := doLogin(t, fx, "good")
	require.Equal(t, http.StatusOK, loginRec.Code)
	sessionCookie := loginRec.Result().Cookies()[0]

	authHandler := NewAuthHandler(client.NewAuthAPI(fx.deps), fx.store, fx.cookies, fx.audit, nil)
	logout := fx.guard.RequireAPI(http.HandlerFunc(authHandler.Logout))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	logout.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The old cookie no longer resolves to a session.
	tickets := NewTicketHandler(client.NewTicketAPI(fx.deps), nil, fx.audit)
	guarded := fx.guard.RequireAPI(http.HandlerFunc(tickets.List))
	retry := httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil)
	retry.AddCookie(sessionCookie)
	retryRec := httptest.NewRecorder()
	guarded.ServeHTTP(retryRec, retry)
	assert.Equal(t, http.StatusUnauthorized, retryRec.Code)

	assert.Contains(t, fx.trail.actions(), model.AuditLogout)
}
