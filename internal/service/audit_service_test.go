package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-console/internal/event"
	"helpdesk-console/internal/model"
)

type fakeAuditStore struct {
	entries []model.AuditEntry
	fail    bool
}

func (f *fakeAuditStore) Record(_ context.Context, entry model.AuditEntry) error {
	if f.fail {
		return errors.New("connection refused")
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) Query(_ context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	matched := []model.AuditEntry{}
	for _, entry := range f.entries {
		if query.Action != "" && entry.Action != query.Action {
			continue
		}
		matched = append(matched, entry)
	}
	return matched, model.Meta{Total: len(matched)}, nil
}

func TestAuditService_RecordStampsTime(t *testing.T) {
	store := &fakeAuditStore{}
	svc := NewAuditService(store, nil)

	svc.Record(context.Background(), model.AuditEntry{Action: model.AuditLogin, Success: true})

	require.Len(t, store.entries, 1)
	assert.WithinDuration(t, time.Now().UTC(), store.entries[0].OccurredAt, time.Minute)
}

func TestAuditService_RecordKeepsExplicitTime(t *testing.T) {
	store := &fakeAuditStore{}
	svc := NewAuditService(store, nil)
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc.Record(context.Background(), model.AuditEntry{Action: model.AuditLogout, OccurredAt: when})

	require.Len(t, store.entries, 1)
	assert.Equal(t, when, store.entries[0].OccurredAt)
}

func TestAuditService_RecordSwallowsStorageFailure(t *testing.T) {
	store := &fakeAuditStore{fail: true}
	svc := NewAuditService(store, nil)

	// Must not panic or propagate; the caller's action already succeeded.
	svc.Record(context.Background(), model.AuditEntry{Action: model.AuditMutation})
	assert.Empty(t, store.entries)
}

func TestAuditService_RecordPublishesEvent(t *testing.T) {
	store := &fakeAuditStore{}
	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	svc := NewAuditService(store, bus)
	svc.Record(context.Background(), model.AuditEntry{Action: model.AuditPermissionDenied, Module: "Tickets"})

	select {
	case e := <-events:
		assert.Equal(t, event.TypeAuditRecorded, e.Type)
	case <-time.After(time.Second):
		t.Fatal("no audit event published")
	}
}

func TestAuditService_QueryPassesFilter(t *testing.T) {
	store := &fakeAuditStore{}
	svc := NewAuditService(store, nil)
	svc.Record(context.Background(), model.AuditEntry{Action: model.AuditLogin})
	svc.Record(context.Background(), model.AuditEntry{Action: model.AuditLogout})

	entries, meta, err := svc.Query(context.Background(), model.AuditQuery{Action: model.AuditLogin})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, meta.Total)
}
