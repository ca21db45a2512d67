package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"helpdesk-console/internal/feedback"
	"helpdesk-console/internal/model"
	"helpdesk-console/pkg/apierror"
)

func testDeps(serverURL string) Deps {
	return Deps{
		BaseURL:  serverURL,
		Feedback: feedback.NewCenter(),
	}
}

func TestAuthAPI(t *testing.T) {
	t.Parallel()

	t.Run("login decodes token and profile", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/auth/login", r.URL.Path)
			require.Equal(t, http.MethodPost, r.Method)

			var req model.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "dana@example.com", req.Email)

			json.NewEncoder(w).Encode(model.LoginResult{
				Token: "opaque-bearer",
				User: model.UserProfile{
					UserID:   "u-1",
					FullName: "Dana Reyes",
					RoleName: "Agent",
				},
			})
		}))
		defer server.Close()

		api := NewAuthAPI(testDeps(server.URL))
		result, err := api.Login(context.Background(), "dana@example.com", "pw")
		require.NoError(t, err)
		require.Equal(t, "opaque-bearer", result.Token)
		require.Equal(t, "Dana Reyes", result.User.FullName)
	})

	t.Run("login failure surfaces the classified error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid email or password"}`))
		}))
		defer server.Close()

		api := NewAuthAPI(testDeps(server.URL))
		_, err := api.Login(context.Background(), "dana@example.com", "wrong")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
		require.Equal(t, "Invalid email or password", apiErr.Message)
	})
}

func TestTicketAPI(t *testing.T) {
	t.Parallel()

	t.Run("list builds the filter query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/tickets", r.URL.Path)
			require.Equal(t, "Open", r.URL.Query().Get("status"))
			require.Equal(t, "2", r.URL.Query().Get("page"))

			json.NewEncoder(w).Encode(TicketPage{
				Items: []model.Ticket{{ID: "t-1", Subject: "Printer down"}},
				Total: 41,
			})
		}))
		defer server.Close()

		api := NewTicketAPI(testDeps(server.URL))
		page, err := api.List(context.Background(), model.TicketFilter{Status: "Open", Page: 2})
		require.NoError(t, err)
		require.Equal(t, 41, page.Total)
		require.Len(t, page.Items, 1)
		require.Equal(t, "Printer down", page.Items[0].Subject)
	})

	t.Run("workflow actions hit their subresources", func(t *testing.T) {
		var paths []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.Method+" "+r.URL.Path)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		api := NewTicketAPI(testDeps(server.URL))
		ctx := context.Background()
		require.NoError(t, api.ChangeStatus(ctx, "t-1", "Resolved"))
		require.NoError(t, api.ChangePriority(ctx, "t-1", "High"))
		require.NoError(t, api.Assign(ctx, "t-1", "u-9"))

		require.Equal(t, []string{
			"PUT /api/tickets/t-1/status",
			"PUT /api/tickets/t-1/priority",
			"PUT /api/tickets/t-1/assignee",
		}, paths)
	})
}

func TestDashboardAPI(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dashboard/summary":
			json.NewEncoder(w).Encode(model.DashboardSummary{OpenTickets: 12, OverdueTickets: 3})
		case "/api/dashboard/trends/seven-day":
			json.NewEncoder(w).Encode([]model.TrendPoint{{Date: "2026-08-27", Created: 5, Resolved: 4}})
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
		}
	}))
	defer server.Close()

	api := NewDashboardAPI(testDeps(server.URL))

	summary, err := api.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, summary.OpenTickets)

	trend, err := api.SevenDayTrend(context.Background())
	require.NoError(t, err)
	require.Len(t, trend, 1)
	require.Equal(t, 5, trend[0].Created)
}
