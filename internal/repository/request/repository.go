package request

import (
	"context"
	"time"

	"moving-broker/internal/domain"
)

// CreateInput carries the fields persisted for a new PENDING request.
type CreateInput struct {
	CustomerID  string
	MoveType    domain.MoveType
	MoveDate    time.Time
	FromAddress domain.Address
	ToAddress   domain.Address
}

// Repository persists and fetches estimate requests.
type Repository interface {
	// Create inserts a new PENDING request. The store enforces the
	// single-active-request invariant with a partial unique index; a
	// violation surfaces as domain.ErrActiveRequestExists.
	Create(ctx context.Context, in CreateInput) (*domain.EstimateRequest, error)
	GetByID(ctx context.Context, id string) (*domain.EstimateRequest, error)
	// ListActiveIDs returns ids of the customer's PENDING/CONFIRMED requests.
	ListActiveIDs(ctx context.Context, customerID string) ([]string, error)
	// FindActiveByUser returns the viewer's active request, if any.
	FindActiveByUser(ctx context.Context, userID string) (*domain.EstimateRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
	// AppendTargetMover appends moverID to the request's target list,
	// re-validating the duplicate and length constraints under a row lock.
	AppendTargetMover(ctx context.Context, requestID, moverID string) error
	// ListHistoryByUser returns the user's CONFIRMED/COMPLETED/CANCELED/
	// EXPIRED requests, newest first.
	ListHistoryByUser(ctx context.Context, userID string) ([]domain.EstimateRequest, error)
}
