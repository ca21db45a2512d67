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

// OrgHandler covers departments and roles. They are separate modules in
// the permission matrix even though one backend module serves both.
type OrgHandler struct {
	org   *client.OrgAPI
	audit *service.AuditService
}

func NewOrgHandler(org *client.OrgAPI, audit *service.AuditService) *OrgHandler {
	return &OrgHandler{org: org, audit: audit}
}

type saveDepartmentRequest struct {
	Name string `json:"name"`
	Head string `json:"head"`
}

func (h *OrgHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleDepartments, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	departments, err := h.org.Departments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, departments, nil)
}

func (h *OrgHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleDepartments, model.CapCreate); err != nil {
		writeError(w, err)
		return
	}

	var payload saveDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		badRequest(w, "name is required", "name")
		return
	}

	department, err := h.org.CreateDepartment(r.Context(), payload.Name, payload.Head)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, permission.ModuleDepartments, "department created: "+department.Name)
	writeSuccess(w, http.StatusCreated, department, nil)
}

func (h *OrgHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleDepartments, model.CapUpdate); err != nil {
		writeError(w, err)
		return
	}

	departmentID := chi.URLParam(r, "id")
	if departmentID == "" {
		badRequest(w, "department id is required", "id")
		return
	}

	var payload saveDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	department, err := h.org.UpdateDepartment(r.Context(), departmentID, payload.Name, payload.Head)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, permission.ModuleDepartments, "department updated: "+departmentID)
	writeSuccess(w, http.StatusOK, department, nil)
}

func (h *OrgHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleDepartments, model.CapDelete); err != nil {
		writeError(w, err)
		return
	}

	departmentID := chi.URLParam(r, "id")
	if departmentID == "" {
		badRequest(w, "department id is required", "id")
		return
	}

	if err := h.org.DeleteDepartment(r.Context(), departmentID); err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, permission.ModuleDepartments, "department deleted: "+departmentID)
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *OrgHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleRoles, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	roles, err := h.org.Roles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, roles, nil)
}

func (h *OrgHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleRoles, model.CapCreate); err != nil {
		writeError(w, err)
		return
	}

	var payload client.SaveRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		badRequest(w, "name is required", "name")
		return
	}

	role, err := h.org.CreateRole(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, permission.ModuleRoles, "role created: "+role.Name)
	writeSuccess(w, http.StatusCreated, role, nil)
}

func (h *OrgHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleRoles, model.CapUpdate); err != nil {
		writeError(w, err)
		return
	}

	roleID := chi.URLParam(r, "id")
	if roleID == "" {
		badRequest(w, "role id is required", "id")
		return
	}

	var payload client.SaveRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	role, err := h.org.UpdateRole(r.Context(), roleID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, permission.ModuleRoles, "role updated: "+roleID)
	writeSuccess(w, http.StatusOK, role, nil)
}

func (h *OrgHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleRoles, model.CapDelete); err != nil {
		writeError(w, err)
		return
	}

	roleID := chi.URLParam(r, "id")
	if roleID == "" {
		badRequest(w, "role id is required", "id")
		return
	}

	if err := h.org.DeleteRole(r.Context(), roleID); err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, permission.ModuleRoles, "role deleted: "+roleID)
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *OrgHandler) recordMutation(r *http.Request, module string, detail string) {
	entry := auditActor(r)
	entry.Action = model.AuditMutation
	entry.Module = module
	entry.Detail = detail
	entry.Success = true
	h.audit.Record(r.Context(), entry)
}
