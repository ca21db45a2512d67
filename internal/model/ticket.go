package model

type Ticket struct {
	ID           string `json:"id"`
	Number       string `json:"number,omitempty"`
	Subject      string `json:"subject"`
	Description  string `json:"description,omitempty"`
	CategoryID   string `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	RequesterID  string `json:"requesterId,omitempty"`
	AssigneeID   string `json:"assigneeId,omitempty"`
	AssigneeName string `json:"assigneeName,omitempty"`
	DueAt        string `json:"dueAt,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

type TicketFilter struct {
	Status     string
	Priority   string
	CategoryID string
	AssigneeID string
	Search     string
	Page       int
	Limit      int
}

type TicketComment struct {
	ID        string `json:"id"`
	TicketID  string `json:"ticketId"`
	AuthorID  string `json:"authorId"`
	Author    string `json:"author,omitempty"`
	Body      string `json:"body"`
	Internal  bool   `json:"internal,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type Attachment struct {
	ID          string `json:"id"`
	TicketID    string `json:"ticketId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	UploadedAt  string `json:"uploadedAt,omitempty"`
}

type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId"`
	Priority    string `json:"priority"`
}

type UpdateTicketRequest struct {
	Subject     string `json:"subject,omitempty"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"categoryId,omitempty"`
	Priority    string `json:"priority,omitempty"`
}
