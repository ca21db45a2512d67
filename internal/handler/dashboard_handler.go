package handler

import (
	"net/http"
	"strings"

	"helpdesk-console/internal/client"
	"helpdesk-console/internal/model"
	"helpdesk-console/internal/permission"
	"helpdesk-console/internal/service"
)

// DashboardHandler gates each chart on its own capability flag so a role
// can see the summary cards without the trend or breakdown charts.
type DashboardHandler struct {
	dashboard *client.DashboardAPI
	reports   *client.ReportAPI
	audit     *service.AuditService
}

func NewDashboardHandler(dashboard *client.DashboardAPI, reports *client.ReportAPI, audit *service.AuditService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, reports: reports, audit: audit}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleDashboard, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, summary, nil)
}

func (h *DashboardHandler) SevenDayTrend(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleDashboard, model.CapSevenDayTrends); err != nil {
		writeError(w, err)
		return
	}

	trend, err := h.dashboard.SevenDayTrend(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, trend, nil)
}

func (h *DashboardHandler) TicketsByStatus(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleDashboard, model.CapTicketByStatus); err != nil {
		writeError(w, err)
		return
	}

	buckets, err := h.dashboard.TicketsByStatus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, buckets, nil)
}

func (h *DashboardHandler) TicketsByPriority(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleDashboard, model.CapTicketByPriority); err != nil {
		writeError(w, err)
		return
	}

	buckets, err := h.dashboard.TicketsByPriority(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, buckets, nil)
}

func (h *DashboardHandler) TicketReport(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleReports, model.CapViewReports); err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	filter := model.ReportFilter{
		From:         strings.TrimSpace(query.Get("from")),
		To:           strings.TrimSpace(query.Get("to")),
		DepartmentID: strings.TrimSpace(query.Get("department_id")),
		Page:         parseIntOrDefault(query.Get("page"), 1),
		Limit:        parseIntOrDefault(query.Get("limit"), 50),
	}

	page, err := h.reports.Tickets(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	meta := &model.Meta{Page: filter.Page, Limit: filter.Limit, Total: page.Total}
	writeSuccess(w, http.StatusOK, page.Items, meta)
}
