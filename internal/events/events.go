// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"rentmatch_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new renter lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	TenantID uuid.UUID `json:"tenantId"`
	FullName string    `json:"fullName"`
	Source   string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published when a lead's pipeline status changes.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	TenantID  uuid.UUID `json:"tenantId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// =============================================================================
// WhatsApp Leads Domain Events
// =============================================================================

// WhatsAppLeadReceived is published when a chat-derived lead is captured.
type WhatsAppLeadReceived struct {
	BaseEvent
	WhatsAppLeadID uuid.UUID  `json:"whatsappLeadId"`
	TenantID       uuid.UUID  `json:"tenantId"`
	Phone          string     `json:"phone"`
	LinkedLeadID   *uuid.UUID `json:"linkedLeadId,omitempty"`
}

func (e WhatsAppLeadReceived) EventName() string { return "whatsapp.lead.received" }

// WhatsAppMatchesComputed is published after a soft-strategy match run for a
// chat lead completes.
type WhatsAppMatchesComputed struct {
	BaseEvent
	WhatsAppLeadID uuid.UUID  `json:"whatsappLeadId"`
	TenantID       uuid.UUID  `json:"tenantId"`
	LinkedLeadID   *uuid.UUID `json:"linkedLeadId,omitempty"`
	ResultCount    int        `json:"resultCount"`
	TopScore       int        `json:"topScore"`
	Persisted      bool       `json:"persisted"`
}

func (e WhatsAppMatchesComputed) EventName() string { return "whatsapp.matches.computed" }
