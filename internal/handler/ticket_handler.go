package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"helpdesk-console/internal/client"
	"helpdesk-console/internal/model"
	"helpdesk-console/internal/permission"
	"helpdesk-console/internal/service"
	"helpdesk-console/internal/util"
)

type TicketHandler struct {
	tickets  *client.TicketAPI
	previews *service.PreviewService
	audit    *service.AuditService
}

func NewTicketHandler(tickets *client.TicketAPI, previews *service.PreviewService, audit *service.AuditService) *TicketHandler {
	return &TicketHandler{tickets: tickets, previews: previews, audit: audit}
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	filter := model.TicketFilter{
		Status:     strings.TrimSpace(query.Get("status")),
		Priority:   strings.TrimSpace(query.Get("priority")),
		CategoryID: strings.TrimSpace(query.Get("category_id")),
		AssigneeID: strings.TrimSpace(query.Get("assignee_id")),
		Search:     strings.TrimSpace(query.Get("q")),
		Page:       parseIntOrDefault(query.Get("page"), 1),
		Limit:      parseIntOrDefault(query.Get("limit"), 20),
	}

	page, err := h.tickets.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	meta := &model.Meta{Page: filter.Page, Limit: filter.Limit, Total: page.Total}
	writeSuccess(w, http.StatusOK, page.Items, meta)
}

func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		badRequest(w, "ticket id is required", "id")
		return
	}

	ticket, err := h.tickets.Get(r.Context(), ticketID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, ticket, nil)
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapCreateTicket); err != nil {
		writeError(w, err)
		return
	}

	var payload model.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if strings.TrimSpace(payload.Subject) == "" {
		badRequest(w, "subject is required", "subject")
		return
	}

	ticket, err := h.tickets.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "ticket created: "+ticket.ID)
	writeSuccess(w, http.StatusCreated, ticket, nil)
}

func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapUpdate); err != nil {
		writeError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		badRequest(w, "ticket id is required", "id")
		return
	}

	var payload model.UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	ticket, err := h.tickets.Update(r.Context(), ticketID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "ticket updated: "+ticketID)
	writeSuccess(w, http.StatusOK, ticket, nil)
}

func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapDelete); err != nil {
		writeError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		badRequest(w, "ticket id is required", "id")
		return
	}

	if err := h.tickets.Delete(r.Context(), ticketID); err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "ticket deleted: "+ticketID)
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

type workflowRequest struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Assignee string `json:"assigneeId,omitempty"`
}

func (h *TicketHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	h.workflow(w, r, model.CapUpdate, func(id string, payload workflowRequest) (string, error) {
		if payload.Status == "" {
			return "", model.ErrInvalidInput
		}
		return "ticket " + id + " status -> " + payload.Status,
			h.tickets.ChangeStatus(r.Context(), id, payload.Status)
	})
}

func (h *TicketHandler) ChangePriority(w http.ResponseWriter, r *http.Request) {
	h.workflow(w, r, model.CapUpdate, func(id string, payload workflowRequest) (string, error) {
		if payload.Priority == "" {
			return "", model.ErrInvalidInput
		}
		return "ticket " + id + " priority -> " + payload.Priority,
			h.tickets.ChangePriority(r.Context(), id, payload.Priority)
	})
}

func (h *TicketHandler) Assign(w http.ResponseWriter, r *http.Request) {
	h.workflow(w, r, model.CapAssignTicket, func(id string, payload workflowRequest) (string, error) {
		if payload.Assignee == "" {
			return "", model.ErrInvalidInput
		}
		return "ticket " + id + " assigned to " + payload.Assignee,
			h.tickets.Assign(r.Context(), id, payload.Assignee)
	})
}

func (h *TicketHandler) workflow(w http.ResponseWriter, r *http.Request, capability string, apply func(string, workflowRequest) (string, error)) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleTickets, capability); err != nil {
		writeError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		badRequest(w, "ticket id is required", "id")
		return
	}

	var payload workflowRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	detail, err := apply(ticketID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, detail)
	writeSuccess(w, http.StatusOK, map[string]any{"updated": true}, nil)
}

func (h *TicketHandler) Comments(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		badRequest(w, "ticket id is required", "id")
		return
	}

	comments, err := h.tickets.Comments(r.Context(), ticketID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, comments, nil)
}

type addCommentRequest struct {
	Body     string `json:"body"`
	Internal bool   `json:"internal"`
}

func (h *TicketHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapUpdate); err != nil {
		writeError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		badRequest(w, "ticket id is required", "id")
		return
	}

	var payload addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body", "")
		return
	}

	if strings.TrimSpace(payload.Body) == "" {
		badRequest(w, "comment body is required", "body")
		return
	}

	comment, err := h.tickets.AddComment(r.Context(), ticketID, payload.Body, payload.Internal)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "comment added to ticket "+ticketID)
	writeSuccess(w, http.StatusCreated, comment, nil)
}

func (h *TicketHandler) Attachments(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		badRequest(w, "ticket id is required", "id")
		return
	}

	attachments, err := h.tickets.Attachments(r.Context(), ticketID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, attachments, nil)
}

func (h *TicketHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapUpdate); err != nil {
		writeError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		badRequest(w, "ticket id is required", "id")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file field is required", "file")
		return
	}
	defer file.Close()

	fileName, err := util.SanitizeFilename(header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}

	attachment, err := h.tickets.UploadAttachment(r.Context(), ticketID, fileName, file)
	if err != nil {
		writeError(w, err)
		return
	}

	h.recordMutation(r, "attachment uploaded to ticket "+ticketID)
	writeSuccess(w, http.StatusCreated, attachment, nil)
}

func (h *TicketHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "id")
	attachmentID := chi.URLParam(r, "attachment_id")
	if ticketID == "" || attachmentID == "" {
		badRequest(w, "ticket id and attachment id are required", "")
		return
	}

	resp, err := h.tickets.DownloadAttachment(r.Context(), ticketID, attachmentID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		writeError(w, model.ErrAttachmentNotFound)
		return
	}

	copyHeader(w, resp, "Content-Type")
	copyHeader(w, resp, "Content-Length")
	copyHeader(w, resp, "Content-Disposition")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// PreviewAttachment downscales image attachments so the ticket view can
// show an inline thumbnail without pulling the full file.
func (h *TicketHandler) PreviewAttachment(w http.ResponseWriter, r *http.Request) {
	if err := requireCapability(r, h.audit, permission.ModuleTickets, model.CapRead); err != nil {
		writeError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "id")
	attachmentID := chi.URLParam(r, "attachment_id")
	if ticketID == "" || attachmentID == "" {
		badRequest(w, "ticket id and attachment id are required", "")
		return
	}

	resp, err := h.tickets.DownloadAttachment(r.Context(), ticketID, attachmentID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		writeError(w, model.ErrAttachmentNotFound)
		return
	}

	if !h.previews.Previewable(resp.Header.Get("Content-Type")) {
		writeError(w, model.ErrUnsupportedPreview)
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		writeError(w, err)
		return
	}

	rendered, err := h.previews.Render(attachmentID, body)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(rendered)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendered)
}

func (h *TicketHandler) recordMutation(r *http.Request, detail string) {
	entry := auditActor(r)
	entry.Action = model.AuditMutation
	entry.Module = permission.ModuleTickets
	entry.Detail = detail
	entry.Success = true
	h.audit.Record(r.Context(), entry)
}

func copyHeader(w http.ResponseWriter, resp *http.Response, name string) {
	if value := resp.Header.Get(name); value != "" {
		w.Header().Set(name, value)
	}
}
