package transport

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type SeedRequest struct {
	OrganizationName string `json:"organizationName" validate:"required,min=2"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
}

type SeedResponse struct {
	OrganizationID string `json:"organizationId"`
	UserID         string `json:"userId"`
	Email          string `json:"email"`
}

type MeResponse struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organizationId"`
	Email          string   `json:"email"`
	Roles          []string `json:"roles"`
	CreatedAt      string   `json:"createdAt"`
}
