// Package service implements credential checks and access token issuance.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rentmatch_backend/internal/auth/password"
	"rentmatch_backend/internal/auth/repository"
	"rentmatch_backend/platform/apperr"
	"rentmatch_backend/platform/config"
	"rentmatch_backend/platform/logger"
)

const accessTokenType = "access"

// UserStore abstracts user persistence for the auth service.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.User, error)
	Create(ctx context.Context, u repository.User) (repository.User, error)
	CreateOrganization(ctx context.Context, name string) (uuid.UUID, error)
}

// Service handles authentication operations.
type Service struct {
	repo UserStore
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates the auth service.
func New(repo UserStore, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login checks credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return "", apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return "", apperr.Unauthorized("invalid credentials")
	}

	token, err := s.signAccessToken(user)
	if err != nil {
		return "", err
	}

	s.log.AuthEvent("login", email, true, "")
	return token, nil
}

// Me returns the profile of the authenticated user.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// SeedResult reports what the development seed created.
type SeedResult struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Email          string
}

// Seed creates an organization and an admin user for local development.
// Refused unless seeding is enabled in configuration.
func (s *Service) Seed(ctx context.Context, orgName, email, plainPassword string) (SeedResult, error) {
	if !s.cfg.IsSeedEnabled() {
		return SeedResult{}, apperr.Forbidden("seeding is disabled")
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return SeedResult{}, err
	}

	orgID, err := s.repo.CreateOrganization(ctx, orgName)
	if err != nil {
		return SeedResult{}, err
	}

	user, err := s.repo.Create(ctx, repository.User{
		OrganizationID: orgID,
		Email:          strings.TrimSpace(email),
		PasswordHash:   hash,
		Roles:          []string{"admin"},
	})
	if err != nil {
		return SeedResult{}, err
	}

	return SeedResult{
		OrganizationID: orgID,
		UserID:         user.ID,
		Email:          user.Email,
	}, nil
}

func (s *Service) signAccessToken(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"org":   user.OrganizationID.String(),
		"roles": user.Roles,
		"type":  accessTokenType,
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
