package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"rentmatch_backend/internal/events"
	"rentmatch_backend/internal/leads/repository"
	"rentmatch_backend/platform/apperr"
)

type stubStore struct {
	leads    map[uuid.UUID]repository.Lead
	timeline []repository.TimelineEntry
}

func newStubStore() *stubStore {
	return &stubStore{leads: make(map[uuid.UUID]repository.Lead)}
}

func (s *stubStore) Create(_ context.Context, lead repository.Lead) (repository.Lead, error) {
	lead.ID = uuid.New()
	s.leads[lead.ID] = lead
	return lead, nil
}

func (s *stubStore) GetByID(_ context.Context, organizationID, id uuid.UUID) (repository.Lead, error) {
	lead, ok := s.leads[id]
	if !ok || lead.OrganizationID != organizationID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (s *stubStore) List(_ context.Context, organizationID uuid.UUID, status string) ([]repository.Lead, error) {
	out := make([]repository.Lead, 0)
	for _, lead := range s.leads {
		if lead.OrganizationID == organizationID && (status == "" || lead.Status == status) {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (s *stubStore) ListMatchable(_ context.Context, organizationID uuid.UUID) ([]repository.Lead, error) {
	out := make([]repository.Lead, 0)
	for _, lead := range s.leads {
		if lead.OrganizationID == organizationID && lead.Status != StatusClosed {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (s *stubStore) UpdateStatus(_ context.Context, organizationID, id uuid.UUID, status string) (repository.Lead, string, error) {
	lead, ok := s.leads[id]
	if !ok || lead.OrganizationID != organizationID {
		return repository.Lead{}, "", apperr.NotFound("lead not found")
	}
	old := lead.Status
	lead.Status = status
	s.leads[id] = lead
	return lead, old, nil
}

func (s *stubStore) AddTimelineEntry(_ context.Context, leadID uuid.UUID, kind, note string) error {
	s.timeline = append(s.timeline, repository.TimelineEntry{
		ID:     uuid.New(),
		LeadID: leadID,
		Kind:   kind,
		Note:   note,
	})
	return nil
}

func (s *stubStore) Timeline(_ context.Context, _, leadID uuid.UUID) ([]repository.TimelineEntry, error) {
	out := make([]repository.TimelineEntry, 0)
	for _, entry := range s.timeline {
		if entry.LeadID == leadID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func strPtr(s string) *string { return &s }

func TestCreate_NormalizesPhoneAndPublishes(t *testing.T) {
	store := newStubStore()
	bus := &recordingBus{}
	svc := New(store, bus)
	orgID := uuid.New()

	created, err := svc.Create(context.Background(), repository.Lead{
		OrganizationID: orgID,
		FullName:       "דנה לוי",
		Phone:          strPtr("052-123-4567"),
		Source:         strPtr("portal"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.Status != StatusNew {
		t.Fatalf("status = %q, want %q", created.Status, StatusNew)
	}
	if created.Phone == nil || *created.Phone != "+972521234567" {
		t.Fatalf("phone = %v, want +972521234567", created.Phone)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	event, ok := bus.published[0].(events.LeadCreated)
	if !ok {
		t.Fatalf("published event type = %T", bus.published[0])
	}
	if event.LeadID != created.ID || event.TenantID != orgID {
		t.Fatalf("event = %+v, want lead %s org %s", event, created.ID, orgID)
	}
}

func TestCreate_RejectsUnknownStatus(t *testing.T) {
	svc := New(newStubStore(), &recordingBus{})

	_, err := svc.Create(context.Background(), repository.Lead{
		OrganizationID: uuid.New(),
		FullName:       "Test",
		Status:         "archived",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Create() error = %v, want validation", err)
	}
}

func TestUpdateStatus_WritesTimelineAndPublishes(t *testing.T) {
	store := newStubStore()
	bus := &recordingBus{}
	svc := New(store, bus)
	orgID := uuid.New()

	created, err := svc.Create(context.Background(), repository.Lead{
		OrganizationID: orgID,
		FullName:       "Test",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	bus.published = nil

	updated, err := svc.UpdateStatus(context.Background(), orgID, created.ID, StatusContacted)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != StatusContacted {
		t.Fatalf("status = %q, want %q", updated.Status, StatusContacted)
	}

	if len(store.timeline) != 1 {
		t.Fatalf("timeline entries = %d, want 1", len(store.timeline))
	}
	entry := store.timeline[0]
	if entry.Kind != TimelineStatusChanged {
		t.Fatalf("timeline kind = %q, want %q", entry.Kind, TimelineStatusChanged)
	}
	if entry.Note != StatusNew+" -> "+StatusContacted {
		t.Fatalf("timeline note = %q", entry.Note)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	event, ok := bus.published[0].(events.LeadStatusChanged)
	if !ok {
		t.Fatalf("published event type = %T", bus.published[0])
	}
	if event.OldStatus != StatusNew || event.NewStatus != StatusContacted {
		t.Fatalf("event statuses = %q -> %q", event.OldStatus, event.NewStatus)
	}
}

func TestAddNote_ScopedToOrganization(t *testing.T) {
	store := newStubStore()
	svc := New(store, &recordingBus{})
	orgID := uuid.New()

	created, err := svc.Create(context.Background(), repository.Lead{
		OrganizationID: orgID,
		FullName:       "Test",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.AddNote(context.Background(), uuid.New(), created.ID, "wrong org"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("AddNote() with foreign org error = %v, want not found", err)
	}
	if err := svc.AddNote(context.Background(), orgID, created.ID, "called back"); err != nil {
		t.Fatalf("AddNote() error = %v", err)
	}
	if len(store.timeline) != 1 {
		t.Fatalf("timeline entries = %d, want 1", len(store.timeline))
	}
	if store.timeline[0].Kind != TimelineNote {
		t.Fatalf("timeline kind = %q, want %q", store.timeline[0].Kind, TimelineNote)
	}
}

func TestRecordChatMatches_WritesTimelineEntry(t *testing.T) {
	store := newStubStore()
	svc := New(store, &recordingBus{})
	leadID := uuid.New()

	if err := svc.RecordChatMatches(context.Background(), leadID, 4, 87); err != nil {
		t.Fatalf("RecordChatMatches() error = %v", err)
	}

	if len(store.timeline) != 1 {
		t.Fatalf("timeline entries = %d, want 1", len(store.timeline))
	}
	entry := store.timeline[0]
	if entry.Kind != TimelineChatMatches {
		t.Fatalf("timeline kind = %q, want %q", entry.Kind, TimelineChatMatches)
	}
	if !strings.Contains(entry.Note, "4") || !strings.Contains(entry.Note, "87") {
		t.Fatalf("timeline note = %q, want count and top score", entry.Note)
	}
}
