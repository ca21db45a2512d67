package model

import "time"

// AuditEntry is one row of the console's own activity trail: who did what
// through the gateway. This is console telemetry, separate from whatever
// auditing the ticketing backend keeps.
type AuditEntry struct {
	ID         int64     `json:"id,omitempty"`
	Action     string    `json:"action"`
	Module     string    `json:"module,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	ActorName  string    `json:"actor_name,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Success    bool      `json:"success"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AuditQuery struct {
	Action  string
	Module  string
	ActorID string
	From    string
	To      string
	Page    int
	Limit   int
}

// Console audit actions.
const (
	AuditLogin            = "login"
	AuditLoginFailed      = "login_failed"
	AuditLogout           = "logout"
	AuditPermissionDenied = "permission_denied"
	AuditMutation         = "mutation"
)
