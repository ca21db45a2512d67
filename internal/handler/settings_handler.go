package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"helpdesk-console/internal/client"
	"helpdesk-console/internal/model"
	"helpdesk-console/internal/permission"
	"helpdesk-console/internal/service"
)

// SettingsHandler manages the ticketing catalogs: categories, priority
// levels, status definitions and SLA policies. A save with an empty ID
// creates, otherwise it updates.
type SettingsHandler struct {
	settings *client.SettingsAPI
	audit    *service.AuditService
}

func NewSettingsHandler(settings *client.SettingsAPI, audit *service.AuditService) *SettingsHandler {
	return &SettingsHandler{settings: settings, audit: audit}
}

func (h *SettingsHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleSettings, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	categories, err := h.settings.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, categories, nil)
}

func (h *SettingsHandler) SaveCategory(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.Category
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if err := requireCapability(r, h.audit, permission.ModuleSettings, saveCapability(payload.ID)); err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		badRequest(w, "name is required", "name")
		return
	}

	saved, err := h.settings.SaveCategory(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "category saved: "+saved.Name)
	writeSuccess(w, saveStatus(payload.ID), saved, nil)
}

func (h *SettingsHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "category", h.settings.DeleteCategory)
}

func (h *SettingsHandler) ListPriorities(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleSettings, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	priorities, err := h.settings.Priorities(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, priorities, nil)
}

func (h *SettingsHandler) SavePriority(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.PriorityLevel
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if err := requireCapability(r, h.audit, permission.ModuleSettings, saveCapability(payload.ID)); err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		badRequest(w, "name is required", "name")
		return
	}

	saved, err := h.settings.SavePriority(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "priority saved: "+saved.Name)
	writeSuccess(w, saveStatus(payload.ID), saved, nil)
}

func (h *SettingsHandler) DeletePriority(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "priority", h.settings.DeletePriority)
}

func (h *SettingsHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleSettings, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	statuses, err := h.settings.Statuses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, statuses, nil)
}

func (h *SettingsHandler) SaveStatus(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.StatusDefinition
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if err := requireCapability(r, h.audit, permission.ModuleSettings, saveCapability(payload.ID)); err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		badRequest(w, "name is required", "name")
		return
	}

	saved, err := h.settings.SaveStatus(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "status saved: "+saved.Name)
	writeSuccess(w, saveStatus(payload.ID), saved, nil)
}

func (h *SettingsHandler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "status", h.settings.DeleteStatus)
}

func (h *SettingsHandler) ListSLAPolicies(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleSettings, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	policies, err := h.settings.SLAPolicies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, policies, nil)
}

func (h *SettingsHandler) SaveSLAPolicy(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SLAPolicy
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if err := requireCapability(r, h.audit, permission.ModuleSettings, saveCapability(payload.ID)); err != nil {
		writeError(w, err)
		return
	}

	if payload.Priority == "" || payload.ResolutionMinutes <= 0 {
		badRequest(w, "priority and a positive resolutionMinutes are required", "")
		return
	}

	saved, err := h.settings.SaveSLAPolicy(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "sla policy saved for priority "+saved.Priority)
	writeSuccess(w, saveStatus(payload.ID), saved, nil)
}

func (h *SettingsHandler) DeleteSLAPolicy(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "sla policy", h.settings.DeleteSLAPolicy)
}

func (h *SettingsHandler) delete(w http.ResponseWriter, r *http.Request, kind string, remove func(ctx context.Context, id string) error) {
	if err := requireCapability(r, h.audit, permission.ModuleSettings, model.CapDelete); err != nil {
		writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		badRequest(w, "id is required", "id")
		return
	}

	if err := remove(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, kind+" deleted: "+id)
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *SettingsHandler) recordMutation(r *http.Request, detail string) {
	entry := auditActor(r)
	entry.Action = model.AuditMutation
	entry.Module = permission.ModuleSettings
	entry.Detail = detail
	entry.Success = true
	h.audit.Record(r.Context(), entry)
}

func saveStatus(id string) int {
	if id == "" {
		return http.StatusCreated
	}
	return http.StatusOK
}

// saveCapability maps an upsert to the capability it exercises: an ID-less
// save creates, a save with an ID updates.
func saveCapability(id string) string {
	if id == "" {
		return model.CapCreate
	}
	return model.CapUpdate
}
