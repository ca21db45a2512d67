package event

type Type string

const (
	TypeToast          Type = "toast.shown"
	TypeLoaderShown    Type = "loader.shown"
	TypeLoaderHidden   Type = "loader.hidden"
	TypeSessionCreated Type = "session.created"
	TypeSessionCleared Type = "session.cleared"
	TypeAuditRecorded  Type = "audit.recorded"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
