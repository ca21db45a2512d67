// Package guard is the navigation layer: it decides, per request, whether
// the caller is signed in, redirects accordingly, and exposes the permission
// evaluator and menu filtering that gate what the console renders. The
// authenticated branch depends solely on a token being present in the
// session store; nothing is cached between requests.
//
// This gating is a UX convenience. The ticketing backend enforces
// authorization independently on every proxied call.
package guard

import (
	"context"
	"encoding/json"
	"net/http"

	"helpdesk-console/internal/model"
	"helpdesk-console/internal/permission"
	"helpdesk-console/internal/session"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type contextKey string

const (
	sessionIDContextKey contextKey = "session_id"
	profileContextKey   contextKey = "session_profile"
)

type Guard struct {
	cookies *CookieCodec
	store   session.Store
}

func New(cookies *CookieCodec, store session.Store) *Guard {
	return &Guard{cookies: cookies, store: store}
}

// resolve maps a request to its session. ok is true only when the session
// store holds a token for the cookie's session ID; the profile may still be
// nil, in which case every permission check denies.
func (g *Guard) resolve(r *http.Request) (string, *model.UserProfile, bool) {
	sid, ok := g.cookies.SessionID(r)
	if !ok {
		return "", nil, false
	}

	if _, ok := g.store.Token(r.Context(), sid); !ok {
		return "", nil, false
	}

	profile, _ := g.store.Profile(r.Context(), sid)
	return sid, profile, true
}

// RequirePage guards server-rendered routes: unauthenticated requests are
// redirected to the login page.
func (g *Guard) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, profile, ok := g.resolve(r)
		if !ok {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sid, profile)))
	})
}

// RequireAPI guards JSON routes: unauthenticated requests get a 401 envelope
// instead of a redirect.
func (g *Guard) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, profile, ok := g.resolve(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(model.APIResponse{
				Success: false,
				Error: &model.APIError{
					Code:    "UNAUTHORIZED",
					Message: "Authentication required",
				},
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sid, profile)))
	})
}

// RedirectAuthenticated keeps signed-in users off the auth pages by sending
// them to the dashboard.
func (g *Guard) RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := g.resolve(r); ok {
			http.Redirect(w, r, DashboardPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func withSession(ctx context.Context, sid string, profile *model.UserProfile) context.Context {
	ctx = context.WithValue(ctx, sessionIDContextKey, sid)
	if profile != nil {
		ctx = context.WithValue(ctx, profileContextKey, profile)
	}
	return ctx
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sessionIDContextKey).(string)
	return sid, ok && sid != ""
}

func ProfileFromContext(ctx context.Context) (*model.UserProfile, bool) {
	profile, ok := ctx.Value(profileContextKey).(*model.UserProfile)
	return profile, ok
}

// EvaluatorFromContext builds the permission evaluator for the request's
// session; with no session it denies everything.
func EvaluatorFromContext(ctx context.Context) permission.Evaluator {
	profile, _ := ProfileFromContext(ctx)
	return permission.NewEvaluator(profile)
}

// SessionTokens adapts the session store into the pipeline's token source:
// the bearer token for a proxied call is whatever the request's session
// currently holds, read from storage on every call.
type SessionTokens struct {
	Store session.Store
}

func (s SessionTokens) Token(ctx context.Context) (string, bool) {
	sid, ok := SessionIDFromContext(ctx)
	if !ok {
		return "", false
	}
	return s.Store.Token(ctx, sid)
}
