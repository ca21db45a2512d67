package service

import (
	"context"
	"log/slog"
	"time"

	"helpdesk-console/internal/event"
	"helpdesk-console/internal/model"
)

// AuditStore is the persistence contract for the console audit trail.
type AuditStore interface {
	Record(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

type AuditService struct {
	store AuditStore
	bus   event.Bus
}

func NewAuditService(store AuditStore, bus event.Bus) *AuditService {
	return &AuditService{store: store, bus: bus}
}

// Record persists an entry and announces it on the bus. Recording is
// best-effort: a storage failure is logged, never propagated, so audit
// trouble cannot break the user-facing action it describes.
func (s *AuditService) Record(ctx context.Context, entry model.AuditEntry) {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}

	if err := s.store.Record(ctx, entry); err != nil {
		slog.Error("audit record failed", "action", entry.Action, "error", err)
		return
	}

	if s.bus != nil {
		s.bus.Publish(event.Event{
			Type:      event.TypeAuditRecorded,
			Payload:   entry,
			Timestamp: entry.OccurredAt.Format(time.RFC3339),
		})
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	return s.store.Query(ctx, query)
}
