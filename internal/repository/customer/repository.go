package customer

import (
	"context"

	"moving-broker/internal/domain"
)

// Repository fetches customer profiles. Profile creation belongs to the
// account/onboarding flow, not this core.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.CustomerProfile, error)
	GetByID(ctx context.Context, id string) (*domain.CustomerProfile, error)
}
