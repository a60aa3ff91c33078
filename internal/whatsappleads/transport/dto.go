// Package transport defines the HTTP DTOs for the whatsapp leads module.
package transport

import (
	"rentmatch_backend/internal/whatsappleads/repository"

	"github.com/google/uuid"
)

// IntakeRequest is the payload for capturing a chat-derived lead.
type IntakeRequest struct {
	Phone      string   `json:"phone" validate:"required,max=32"`
	Name       *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Area       *string  `json:"area,omitempty" validate:"omitempty,max=100"`
	BudgetMin  *int64   `json:"budgetMin,omitempty" validate:"omitempty,gte=0"`
	BudgetMax  *int64   `json:"budgetMax,omitempty" validate:"omitempty,gte=0"`
	Rooms      *float64 `json:"rooms,omitempty" validate:"omitempty,gte=0"`
	MoveInFrom *string  `json:"moveInFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Pets       *bool    `json:"pets,omitempty"`
	SafeRoom   *bool    `json:"safeRoom,omitempty"`
	Balcony    *bool    `json:"balcony,omitempty"`
	Furnished  *bool    `json:"furnished,omitempty"`
	Features   []string `json:"features,omitempty" validate:"omitempty,dive,max=100"`
	RawMessage *string  `json:"rawMessage,omitempty" validate:"omitempty,max=10000"`
}

// ToModel converts the request to the persistence model.
func (r IntakeRequest) ToModel(organizationID uuid.UUID) repository.WhatsAppLead {
	return repository.WhatsAppLead{
		OrganizationID: organizationID,
		Phone:          r.Phone,
		Name:           r.Name,
		Area:           r.Area,
		BudgetMin:      r.BudgetMin,
		BudgetMax:      r.BudgetMax,
		Rooms:          r.Rooms,
		MoveInFrom:     r.MoveInFrom,
		Pets:           r.Pets,
		SafeRoom:       r.SafeRoom,
		Balcony:        r.Balcony,
		Furnished:      r.Furnished,
		Features:       r.Features,
		RawMessage:     r.RawMessage,
	}
}

// LinkLeadRequest attaches a portal lead to the chat lead.
type LinkLeadRequest struct {
	LeadID uuid.UUID `json:"leadId" validate:"required"`
}

// WhatsAppLeadResponse is the API shape of a chat lead.
type WhatsAppLeadResponse struct {
	ID           uuid.UUID  `json:"id"`
	Phone        string     `json:"phone"`
	Name         *string    `json:"name,omitempty"`
	Area         *string    `json:"area,omitempty"`
	BudgetMin    *int64     `json:"budgetMin,omitempty"`
	BudgetMax    *int64     `json:"budgetMax,omitempty"`
	Rooms        *float64   `json:"rooms,omitempty"`
	MoveInFrom   *string    `json:"moveInFrom,omitempty"`
	Pets         *bool      `json:"pets,omitempty"`
	SafeRoom     *bool      `json:"safeRoom,omitempty"`
	Balcony      *bool      `json:"balcony,omitempty"`
	Furnished    *bool      `json:"furnished,omitempty"`
	Features     []string   `json:"features,omitempty"`
	LinkedLeadID *uuid.UUID `json:"linkedLeadId,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    string     `json:"createdAt"`
	UpdatedAt    string     `json:"updatedAt"`
}

// FromModel converts the persistence model to the API shape.
func FromModel(lead repository.WhatsAppLead) WhatsAppLeadResponse {
	return WhatsAppLeadResponse{
		ID:           lead.ID,
		Phone:        lead.Phone,
		Name:         lead.Name,
		Area:         lead.Area,
		BudgetMin:    lead.BudgetMin,
		BudgetMax:    lead.BudgetMax,
		Rooms:        lead.Rooms,
		MoveInFrom:   lead.MoveInFrom,
		Pets:         lead.Pets,
		SafeRoom:     lead.SafeRoom,
		Balcony:      lead.Balcony,
		Furnished:    lead.Furnished,
		Features:     lead.Features,
		LinkedLeadID: lead.LinkedLeadID,
		Status:       lead.Status,
		CreatedAt:    lead.CreatedAt,
		UpdatedAt:    lead.UpdatedAt,
	}
}

// FromModels converts a slice of persistence models.
func FromModels(leads []repository.WhatsAppLead) []WhatsAppLeadResponse {
	out := make([]WhatsAppLeadResponse, len(leads))
	for i, lead := range leads {
		out[i] = FromModel(lead)
	}
	return out
}
