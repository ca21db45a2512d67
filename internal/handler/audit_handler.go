package handler

import (
	"net/http"
	"strings"

	"helpdesk-console/internal/model"
	"helpdesk-console/internal/permission"
	"helpdesk-console/internal/service"
)

// AuditHandler exposes the console's own activity trail. It rides on the
// reports module since both answer "who did what, when".
type AuditHandler struct {
	audit *service.AuditService
}

func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleReports, model.CapViewReports); err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	entries, meta, err := h.audit.Query(r.Context(), model.AuditQuery{
		Action:  strings.TrimSpace(query.Get("action")),
		Module:  strings.TrimSpace(query.Get("module")),
		ActorID: strings.TrimSpace(query.Get("actor_id")),
		From:    strings.TrimSpace(query.Get("from")),
		To:      strings.TrimSpace(query.Get("to")),
		Page:    parseIntOrDefault(query.Get("page"), 1),
		Limit:   parseIntOrDefault(query.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, entries, &meta)
}
