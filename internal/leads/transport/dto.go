// Package transport defines the HTTP DTOs for the leads module.
package transport

import (
	"rentmatch_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// CreateLeadRequest is the payload for creating a renter lead.
type CreateLeadRequest struct {
	FullName        string          `json:"fullName" validate:"required,max=200"`
	Phone           *string         `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email           *string         `json:"email,omitempty" validate:"omitempty,email"`
	Source          *string         `json:"source,omitempty" validate:"omitempty,max=100"`
	BudgetMin       *int64          `json:"budgetMin,omitempty" validate:"omitempty,gte=0"`
	BudgetMax       *int64          `json:"budgetMax,omitempty" validate:"omitempty,gte=0"`
	PreferredCities []string        `json:"preferredCities,omitempty" validate:"omitempty,dive,max=100"`
	PreferredRooms  *float64        `json:"preferredRooms,omitempty" validate:"omitempty,gte=0"`
	MoveInFrom      *string         `json:"moveInFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
	RequiredFields  map[string]bool `json:"requiredFields,omitempty"`
}

// ToModel converts the request to the persistence model.
func (r CreateLeadRequest) ToModel(organizationID uuid.UUID) repository.Lead {
	return repository.Lead{
		OrganizationID:  organizationID,
		FullName:        r.FullName,
		Phone:           r.Phone,
		Email:           r.Email,
		Source:          r.Source,
		BudgetMin:       r.BudgetMin,
		BudgetMax:       r.BudgetMax,
		PreferredCities: r.PreferredCities,
		PreferredRooms:  r.PreferredRooms,
		MoveInFrom:      r.MoveInFrom,
		RequiredFields:  r.RequiredFields,
	}
}

// UpdateStatusRequest transitions a lead's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new active contacted closed"`
}

// AddNoteRequest appends a free-text note to the lead timeline.
type AddNoteRequest struct {
	Note string `json:"note" validate:"required,max=2000"`
}

// LeadResponse is the API shape of a lead.
type LeadResponse struct {
	ID              uuid.UUID       `json:"id"`
	FullName        string          `json:"fullName"`
	Phone           *string         `json:"phone,omitempty"`
	Email           *string         `json:"email,omitempty"`
	Source          *string         `json:"source,omitempty"`
	BudgetMin       *int64          `json:"budgetMin,omitempty"`
	BudgetMax       *int64          `json:"budgetMax,omitempty"`
	PreferredCities []string        `json:"preferredCities,omitempty"`
	PreferredRooms  *float64        `json:"preferredRooms,omitempty"`
	MoveInFrom      *string         `json:"moveInFrom,omitempty"`
	RequiredFields  map[string]bool `json:"requiredFields,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// FromModel converts the persistence model to the API shape.
func FromModel(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:              lead.ID,
		FullName:        lead.FullName,
		Phone:           lead.Phone,
		Email:           lead.Email,
		Source:          lead.Source,
		BudgetMin:       lead.BudgetMin,
		BudgetMax:       lead.BudgetMax,
		PreferredCities: lead.PreferredCities,
		PreferredRooms:  lead.PreferredRooms,
		MoveInFrom:      lead.MoveInFrom,
		RequiredFields:  lead.RequiredFields,
		Status:          lead.Status,
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
}

// FromModels converts a slice of persistence models.
func FromModels(leads []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i, lead := range leads {
		out[i] = FromModel(lead)
	}
	return out
}

// TimelineEntryResponse is the API shape of one timeline record.
type TimelineEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Note      string    `json:"note"`
	CreatedAt string    `json:"createdAt"`
}

// FromTimeline converts timeline records to the API shape.
func FromTimeline(entries []repository.TimelineEntry) []TimelineEntryResponse {
	out := make([]TimelineEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = TimelineEntryResponse{
			ID:        entry.ID,
			Kind:      entry.Kind,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		}
	}
	return out
}
