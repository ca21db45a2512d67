package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"helpdesk-console/internal/model"
	"helpdesk-console/internal/pipeline"
)

type TicketAPI struct {
	pipe *pipeline.Client
}

func NewTicketAPI(deps Deps) *TicketAPI {
	return &TicketAPI{pipe: deps.pipeline("/api/tickets")}
}

type TicketPage struct {
	Items []model.Ticket `json:"items"`
	Total int            `json:"total"`
}

func (t *TicketAPI) List(ctx context.Context, filter model.TicketFilter) (*TicketPage, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Priority != "" {
		query.Set("priority", filter.Priority)
	}
	if filter.CategoryID != "" {
		query.Set("categoryId", filter.CategoryID)
	}
	if filter.AssigneeID != "" {
		query.Set("assigneeId", filter.AssigneeID)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var page TicketPage
	if err := t.pipe.Get(ctx, "", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (t *TicketAPI) Get(ctx context.Context, id string) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := t.pipe.Get(ctx, "/"+id, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (t *TicketAPI) Create(ctx context.Context, req model.CreateTicketRequest) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := t.pipe.Post(ctx, "", req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (t *TicketAPI) Update(ctx context.Context, id string, req model.UpdateTicketRequest) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := t.pipe.Put(ctx, "/"+id, req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (t *TicketAPI) Delete(ctx context.Context, id string) error {
	return t.pipe.Delete(ctx, "/"+id, nil)
}

func (t *TicketAPI) ChangeStatus(ctx context.Context, id string, status string) error {
	return t.pipe.Put(ctx, "/"+id+"/status", map[string]string{"status": status}, nil)
}

func (t *TicketAPI) ChangePriority(ctx context.Context, id string, priority string) error {
	return t.pipe.Put(ctx, "/"+id+"/priority", map[string]string{"priority": priority}, nil)
}

func (t *TicketAPI) Assign(ctx context.Context, id string, assigneeID string) error {
	return t.pipe.Put(ctx, "/"+id+"/assignee", map[string]string{"assigneeId": assigneeID}, nil)
}

func (t *TicketAPI) Comments(ctx context.Context, id string) ([]model.TicketComment, error) {
	var comments []model.TicketComment
	if err := t.pipe.Get(ctx, "/"+id+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (t *TicketAPI) AddComment(ctx context.Context, id string, body string, internal bool) (*model.TicketComment, error) {
	var comment model.TicketComment
	payload := map[string]any{"body": body, "internal": internal}
	if err := t.pipe.Post(ctx, "/"+id+"/comments", payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (t *TicketAPI) Attachments(ctx context.Context, id string) ([]model.Attachment, error) {
	var attachments []model.Attachment
	if err := t.pipe.Get(ctx, "/"+id+"/attachments", nil, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

func (t *TicketAPI) UploadAttachment(ctx context.Context, id string, fileName string, file io.Reader) (*model.Attachment, error) {
	var attachment model.Attachment
	err := t.pipe.Upload(ctx, "/"+id+"/attachments", nil, "file", fileName, file, &attachment)
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DownloadAttachment returns the raw backend response so the handler can
// stream it; the caller closes the body.
func (t *TicketAPI) DownloadAttachment(ctx context.Context, ticketID string, attachmentID string) (*http.Response, error) {
	return t.pipe.Raw(ctx, http.MethodGet, "/"+ticketID+"/attachments/"+attachmentID, nil)
}
