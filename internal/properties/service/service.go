// Package service contains the property listing use cases.
package service

import (
	"context"

	"rentmatch_backend/internal/matching"
	"rentmatch_backend/internal/properties/repository"
	"rentmatch_backend/platform/apperr"

	"github.com/google/uuid"
)

// Statuses a listing can be in.
const (
	StatusActive   = "active"
	StatusRented   = "rented"
	StatusArchived = "archived"
)

var validStatuses = map[string]bool{
	StatusActive:   true,
	StatusRented:   true,
	StatusArchived: true,
}

// Service implements property listing management.
type Service struct {
	repo *repository.Repo
}

// New creates the properties service.
func New(repo *repository.Repo) *Service {
	return &Service{repo: repo}
}

// Create stores a new listing. New listings start active unless a status is
// given.
func (s *Service) Create(ctx context.Context, p repository.Property) (repository.Property, error) {
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !validStatuses[p.Status] {
		return repository.Property{}, apperr.Validation("invalid property status: " + p.Status)
	}
	return s.repo.Create(ctx, p)
}

// Get retrieves one listing.
func (s *Service) Get(ctx context.Context, organizationID, id uuid.UUID) (repository.Property, error) {
	return s.repo.GetByID(ctx, organizationID, id)
}

// List retrieves listings with optional filters.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID, filter repository.ListFilter) ([]repository.Property, error) {
	if filter.Status != "" && !validStatuses[filter.Status] {
		return nil, apperr.Validation("invalid property status: " + filter.Status)
	}
	return s.repo.List(ctx, organizationID, filter)
}

// UpdateStatus transitions a listing.
func (s *Service) UpdateStatus(ctx context.Context, organizationID, id uuid.UUID, status string) (repository.Property, error) {
	if !validStatuses[status] {
		return repository.Property{}, apperr.Validation("invalid property status: " + status)
	}
	return s.repo.UpdateStatus(ctx, organizationID, id, status)
}

// ActiveCandidates loads the active listings as matching inputs.
func (s *Service) ActiveCandidates(ctx context.Context, organizationID uuid.UUID) ([]matching.Property, error) {
	properties, err := s.repo.ListActive(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	candidates := make([]matching.Property, len(properties))
	for i, p := range properties {
		candidates[i] = ToMatchingProperty(p)
	}
	return candidates, nil
}

// MatchingProperty loads one listing as a matching input.
func (s *Service) MatchingProperty(ctx context.Context, organizationID, id uuid.UUID) (matching.Property, error) {
	p, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return matching.Property{}, err
	}
	return ToMatchingProperty(p), nil
}

// ToMatchingProperty maps a persisted listing onto the engine's input shape.
// Legacy flat columns land in Attrs so old listings still satisfy amenity
// requirements.
func ToMatchingProperty(p repository.Property) matching.Property {
	attrs := map[string]bool{}
	if p.PetsAllowed != nil {
		attrs["pets_allowed"] = *p.PetsAllowed
	}
	return matching.Property{
		ID:            p.ID,
		Title:         p.Title,
		City:          p.City,
		Region:        p.Region,
		Neighborhood:  p.Neighborhood,
		Price:         p.Price,
		Rooms:         p.Rooms,
		AvailableFrom: p.AvailableFrom,
		Amenities:     p.Amenities,
		Attrs:         attrs,
	}
}
