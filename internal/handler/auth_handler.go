package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"helpdesk-console/internal/client"
	"helpdesk-console/internal/event"
	"helpdesk-console/internal/guard"
	"helpdesk-console/internal/model"
	"helpdesk-console/internal/service"
	"helpdesk-console/internal/session"
)

type AuthHandler struct {
	auth    *client.AuthAPI
	store   session.Store
	cookies *guard.CookieCodec
	audit   *service.AuditService
	bus     event.Bus
}

func NewAuthHandler(auth *client.AuthAPI, store session.Store, cookies *guard.CookieCodec, audit *service.AuditService, bus event.Bus) *AuthHandler {
	return &AuthHandler{auth: auth, store: store, cookies: cookies, audit: audit, bus: bus}
}

func (h *AuthHandler) announce(eventType event.Type, userID string) {
	if h.bus == nil {
		return
	}
	h.bus.Publish(event.Event{Type: eventType, Payload: map[string]string{"userId": userID}})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || payload.Password == "" {
		badRequest(w, "email and password are required", "")
		return
	}

	result, err := h.auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.audit.Record(r.Context(), model.AuditEntry{
			Action: model.AuditLoginFailed,
			Detail: payload.Email + " from " + clientIP(r),
		})
		writeError(w, err)
		return
	}

	sid := uuid.NewString()
	if err := h.store.SaveToken(r.Context(), sid, result.Token); err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.SaveProfile(r.Context(), sid, &result.User); err != nil {
		writeError(w, err)
		return
	}
	if err := h.cookies.Issue(w, sid); err != nil {
		writeError(w, err)
		return
	}

	h.audit.Record(r.Context(), model.AuditEntry{
		Action:    model.AuditLogin,
		ActorID:   result.User.UserID,
		ActorName: result.User.FullName,
		Detail:    "from " + clientIP(r),
		Success:   true,
	})
	h.announce(event.TypeSessionCreated, result.User.UserID)

	writeSuccess(w, http.StatusOK, result.User, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	entry := auditActor(r)

	if sid, ok := guard.SessionIDFromContext(r.Context()); ok {
		_ = h.store.Clear(r.Context(), sid)
	}
	h.cookies.Clear(w)

	entry.Action = model.AuditLogout
	entry.Success = true
	h.audit.Record(r.Context(), entry)
	h.announce(event.TypeSessionCleared, entry.ActorID)

	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

// Me returns the stored profile, falling back to a backend fetch when the
// session carries a token but the profile copy was lost.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if profile, ok := guard.ProfileFromContext(r.Context()); ok && profile != nil {
		writeSuccess(w, http.StatusOK, profile, nil)
		return
	}

	h.refresh(w, r)
}

// Refresh always re-fetches the profile so permission changes made on the
// backend take effect without a fresh login.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.refresh(w, r)
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	profile, err := h.auth.Profile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if sid, ok := guard.SessionIDFromContext(r.Context()); ok {
		if err := h.store.SaveProfile(r.Context(), sid, profile); err != nil {
			writeError(w, err)
			return
		}
	}

	writeSuccess(w, http.StatusOK, profile, nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if payload.CurrentPassword == "" || payload.NewPassword == "" {
		badRequest(w, "currentPassword and newPassword are required", "")
		return
	}

	if err := h.auth.ChangePassword(r.Context(), payload.CurrentPassword, payload.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	entry := auditActor(r)
	entry.Action = model.AuditMutation
	entry.Detail = "password changed"
	entry.Success = true
	h.audit.Record(r.Context(), entry)

	writeSuccess(w, http.StatusOK, map[string]any{"changed": true}, nil)
}
