package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rentmatch_backend/internal/auth/password"
	"rentmatch_backend/internal/auth/repository"
	"rentmatch_backend/platform/apperr"
	"rentmatch_backend/platform/logger"
)

type stubStore struct {
	users map[string]repository.User
	orgs  int
}

func (s *stubStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	user, ok := s.users[email]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return repository.User{}, apperr.NotFound("user not found")
}

func (s *stubStore) Create(_ context.Context, u repository.User) (repository.User, error) {
	u.ID = uuid.New()
	if s.users == nil {
		s.users = make(map[string]repository.User)
	}
	s.users[u.Email] = u
	return u, nil
}

func (s *stubStore) CreateOrganization(_ context.Context, _ string) (uuid.UUID, error) {
	s.orgs++
	return uuid.New(), nil
}

type stubConfig struct {
	seed bool
}

func (stubConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (stubConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }
func (c stubConfig) IsSeedEnabled() bool            { return c.seed }

func seededStore(t *testing.T) (*stubStore, repository.User) {
	t.Helper()

	hash, err := password.Hash("correct-horse")
	if err != nil {
		t.Fatalf("password.Hash() error = %v", err)
	}

	user := repository.User{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Email:          "agent@example.com",
		PasswordHash:   hash,
		Roles:          []string{"agent"},
	}
	return &stubStore{users: map[string]repository.User{user.Email: user}}, user
}

func TestLogin_IssuesTokenWithOrgClaim(t *testing.T) {
	store, user := seededStore(t)
	svc := New(store, stubConfig{}, logger.New("test"))

	token, err := svc.Login(context.Background(), "agent@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	parsed, err := jwt.Parse(token, func(_ *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type = %T", parsed.Claims)
	}
	if claims["sub"] != user.ID.String() {
		t.Fatalf("sub = %v, want %s", claims["sub"], user.ID)
	}
	if claims["org"] != user.OrganizationID.String() {
		t.Fatalf("org = %v, want %s", claims["org"], user.OrganizationID)
	}
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	store, _ := seededStore(t)
	svc := New(store, stubConfig{}, logger.New("test"))

	if _, err := svc.Login(context.Background(), "agent@example.com", "wrong"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("Login() error = %v, want unauthorized", err)
	}
}

func TestLogin_RejectsUnknownEmail(t *testing.T) {
	store, _ := seededStore(t)
	svc := New(store, stubConfig{}, logger.New("test"))

	if _, err := svc.Login(context.Background(), "nobody@example.com", "whatever"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("Login() error = %v, want unauthorized", err)
	}
}

func TestSeed_DisabledByDefault(t *testing.T) {
	store := &stubStore{}
	svc := New(store, stubConfig{seed: false}, logger.New("test"))

	_, err := svc.Seed(context.Background(), "Acme Realty", "admin@example.com", "password123")
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("Seed() error = %v, want forbidden", err)
	}
	if store.orgs != 0 {
		t.Fatalf("organizations created = %d, want 0", store.orgs)
	}
}

func TestSeed_CreatesAdminUser(t *testing.T) {
	store := &stubStore{}
	svc := New(store, stubConfig{seed: true}, logger.New("test"))

	result, err := svc.Seed(context.Background(), "Acme Realty", "admin@example.com", "password123")
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	user, ok := store.users["admin@example.com"]
	if !ok {
		t.Fatalf("seed did not create the user")
	}
	if user.OrganizationID != result.OrganizationID {
		t.Fatalf("user org = %s, want %s", user.OrganizationID, result.OrganizationID)
	}
	if len(user.Roles) != 1 || user.Roles[0] != "admin" {
		t.Fatalf("roles = %v, want [admin]", user.Roles)
	}
	if err := password.Compare(user.PasswordHash, "password123"); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}
