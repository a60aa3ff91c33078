// Package transport defines the HTTP DTOs for the properties module.
package transport

import (
	"rentmatch_backend/internal/properties/repository"

	"github.com/google/uuid"
)

// CreatePropertyRequest is the payload for creating a listing.
type CreatePropertyRequest struct {
	Title         string          `json:"title" validate:"required,max=200"`
	City          string          `json:"city" validate:"required,max=100"`
	Region        *string         `json:"region,omitempty" validate:"omitempty,max=100"`
	Neighborhood  *string         `json:"neighborhood,omitempty" validate:"omitempty,max=100"`
	Address       *string         `json:"address,omitempty" validate:"omitempty,max=255"`
	Price         *int64          `json:"price,omitempty" validate:"omitempty,gte=0"`
	Rooms         *float64        `json:"rooms,omitempty" validate:"omitempty,gte=0"`
	SizeSqm       *int            `json:"sizeSqm,omitempty" validate:"omitempty,gte=0"`
	AvailableFrom *string         `json:"availableFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Amenities     map[string]bool `json:"amenities,omitempty"`
	PetsAllowed   *bool           `json:"petsAllowed,omitempty"`
	Status        string          `json:"status,omitempty" validate:"omitempty,oneof=active rented archived"`
}

// ToModel converts the request to the persistence model.
func (r CreatePropertyRequest) ToModel(organizationID uuid.UUID) repository.Property {
	return repository.Property{
		OrganizationID: organizationID,
		Title:          r.Title,
		City:           r.City,
		Region:         r.Region,
		Neighborhood:   r.Neighborhood,
		Address:        r.Address,
		Price:          r.Price,
		Rooms:          r.Rooms,
		SizeSqm:        r.SizeSqm,
		AvailableFrom:  r.AvailableFrom,
		Amenities:      r.Amenities,
		PetsAllowed:    r.PetsAllowed,
		Status:         r.Status,
	}
}

// UpdateStatusRequest transitions a listing's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active rented archived"`
}

// PropertyResponse is the API shape of a listing.
type PropertyResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	City          string          `json:"city"`
	Region        *string         `json:"region,omitempty"`
	Neighborhood  *string         `json:"neighborhood,omitempty"`
	Address       *string         `json:"address,omitempty"`
	Price         *int64          `json:"price,omitempty"`
	Rooms         *float64        `json:"rooms,omitempty"`
	SizeSqm       *int            `json:"sizeSqm,omitempty"`
	AvailableFrom *string         `json:"availableFrom,omitempty"`
	Amenities     map[string]bool `json:"amenities,omitempty"`
	PetsAllowed   *bool           `json:"petsAllowed,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

// FromModel converts the persistence model to the API shape.
func FromModel(p repository.Property) PropertyResponse {
	return PropertyResponse{
		ID:            p.ID,
		Title:         p.Title,
		City:          p.City,
		Region:        p.Region,
		Neighborhood:  p.Neighborhood,
		Address:       p.Address,
		Price:         p.Price,
		Rooms:         p.Rooms,
		SizeSqm:       p.SizeSqm,
		AvailableFrom: p.AvailableFrom,
		Amenities:     p.Amenities,
		PetsAllowed:   p.PetsAllowed,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromModels converts a slice of persistence models.
func FromModels(properties []repository.Property) []PropertyResponse {
	out := make([]PropertyResponse, len(properties))
	for i, p := range properties {
		out[i] = FromModel(p)
	}
	return out
}
