package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"helpdesk-console/internal/client"
	"helpdesk-console/internal/model"
	"helpdesk-console/internal/permission"
	"helpdesk-console/internal/service"
)

type UserHandler struct {
	users *client.UserAPI
	audit *service.AuditService
}

func NewUserHandler(users *client.UserAPI, audit *service.AuditService) *UserHandler {
	return &UserHandler{users: users, audit: audit}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleUsers, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	page := parseIntOrDefault(query.Get("page"), 1)
	limit := parseIntOrDefault(query.Get("limit"), 20)

	result, err := h.users.List(r.Context(), strings.TrimSpace(query.Get("q")), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result.Items, &model.Meta{Page: page, Limit: limit, Total: result.Total})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleUsers, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		badRequest(w, "user id is required", "id")
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleUsers, model.CapManageUsers); err != nil {
		writeError(w, err)
		return
	}

	var payload client.SaveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if strings.TrimSpace(payload.Email) == "" {
		badRequest(w, "email is required", "email")
		return
	}

	user, err := h.users.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "user created: "+user.Email)
	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleUsers, model.CapManageUsers); err != nil {
		writeError(w, err)
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		badRequest(w, "user id is required", "id")
		return
	}

	var payload client.SaveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	user, err := h.users.Update(r.Context(), userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "user updated: "+userID)
	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleUsers, model.CapManageUsers); err != nil {
		writeError(w, err)
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		badRequest(w, "user id is required", "id")
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "user deleted: "+userID)
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *UserHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleUsers, model.CapManageUsers); err != nil {
		writeError(w, err)
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		badRequest(w, "user id is required", "id")
		return
	}

	var payload setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if err := h.users.SetActive(r.Context(), userID, payload.Active); err != nil {
		writeError(w, err)
		return
	}

	state := "deactivated"
	if payload.Active {
		state = "activated"
	}
	h.recordMutation(r, "user "+state+": "+userID)
	writeSuccess(w, http.StatusOK, map[string]any{"active": payload.Active}, nil)
}

type assignRoleRequest struct {
	RoleID string `json:"roleId"`
}

func (h *UserHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleUsers, model.CapManageUsers); err != nil {
		writeError(w, err)
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		badRequest(w, "user id is required", "id")
		return
	}

	var payload assignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if payload.RoleID == "" {
		badRequest(w, "roleId is required", "roleId")
		return
	}

	if err := h.users.AssignRole(r.Context(), userID, payload.RoleID); err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "role "+payload.RoleID+" assigned to user "+userID)
	writeSuccess(w, http.StatusOK, map[string]any{"assigned": true}, nil)
}

func (h *UserHandler) recordMutation(r *http.Request, detail string) {
	entry := auditActor(r)
	entry.Action = model.AuditMutation
	entry.Module = permission.ModuleUsers
	entry.Detail = detail
	entry.Success = true
	h.audit.Record(r.Context(), entry)
}
