package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moving-broker/internal/domain"
	requestrepo "moving-broker/internal/repository/request"
)

// Service owns the estimate-request lifecycle: creation under the
// single-active-request invariant, status transitions and target mover
// selection.
type Service struct {
	requests  requestRepo
	customers customerRepo
	movers    moverRepo
}

type requestRepo interface {
	Create(ctx context.Context, in requestrepo.CreateInput) (*domain.EstimateRequest, error)
	GetByID(ctx context.Context, id string) (*domain.EstimateRequest, error)
	ListActiveIDs(ctx context.Context, customerID string) ([]string, error)
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
	AppendTargetMover(ctx context.Context, requestID, moverID string) error
}

type customerRepo interface {
	GetByUserID(ctx context.Context, userID string) (*domain.CustomerProfile, error)
}

type moverRepo interface {
	GetByID(ctx context.Context, id string) (*domain.MoverProfile, error)
}

// New wires the service with its repositories.
func New(requests requestRepo, customers customerRepo, movers moverRepo) *Service {
	return &Service{requests: requests, customers: customers, movers: movers}
}

// CreateInput is the domain-validated shape of a create call.
type CreateInput struct {
	MoveType    domain.MoveType
	MoveDate    time.Time
	FromAddress domain.Address
	ToAddress   domain.Address
}

// Create opens a new PENDING request for the caller and returns its id.
// Fails with ErrProfileNotFound when the caller has no customer profile and
// ErrActiveRequestExists when a PENDING/CONFIRMED request already exists.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (string, error) {
	if !in.MoveType.Valid() {
		return "", fmt.Errorf("unknown move type %q", in.MoveType)
	}
	if in.MoveDate.IsZero() {
		return "", errors.New("move date required")
	}
	if !in.FromAddress.Complete() || !in.ToAddress.Complete() {
		return "", errors.New("both addresses must be complete")
	}

	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrProfileNotFound
		}
		return "", err
	}

	// Fast-path check for the user-facing error; the partial unique index
	// in the store remains the authoritative guard against the concurrent
	// double-create race.
	active, err := s.requests.ListActiveIDs(ctx, customer.ID)
	if err != nil {
		return "", err
	}
	if len(active) > 0 {
		return "", domain.ErrActiveRequestExists
	}

	created, err := s.requests.Create(ctx, requestrepo.CreateInput{
		CustomerID:  customer.ID,
		MoveType:    in.MoveType,
		MoveDate:    in.MoveDate,
		FromAddress: in.FromAddress,
		ToAddress:   in.ToAddress,
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// Transition moves the request to target after validating ownership and the
// state graph. Illegal moves fail with ErrInvalidTransition and are never
// coerced to a nearby legal state.
func (s *Service) Transition(ctx context.Context, requestID string, target domain.RequestStatus, userID string) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(ctx, req, userID); err != nil {
		return err
	}
	if !req.Status.CanTransition(target) {
		return domain.ErrInvalidTransition
	}
	return s.requests.UpdateStatus(ctx, requestID, target)
}

// FindActiveIDs returns the ids of the caller's PENDING/CONFIRMED requests.
func (s *Service) FindActiveIDs(ctx context.Context, userID string) ([]string, error) {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	ids, err := s.requests.ListActiveIDs(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// AddTargetMover appends moverID to the request's target list and returns a
// confirmation message. Validation order: request exists, caller owns it,
// mover not already targeted, list below the limit, mover profile exists.
// Request status is intentionally not checked.
func (s *Service) AddTargetMover(ctx context.Context, requestID, moverID, userID string) (string, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	if err := s.checkOwnership(ctx, req, userID); err != nil {
		return "", err
	}
	if req.HasTargetMover(moverID) {
		return "", domain.ErrDuplicateTarget
	}
	if len(req.TargetMoverIDs) >= domain.MaxTargetMovers {
		return "", domain.ErrTargetLimitExceeded
	}

	mover, err := s.movers.GetByID(ctx, moverID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrMoverNotFound
		}
		return "", err
	}

	// The repository re-validates under a row lock, so a concurrent append
	// cannot slip past the checks above.
	if err := s.requests.AppendTargetMover(ctx, requestID, moverID); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s has been added as a target mover for this request", mover.Nickname), nil
}

func (s *Service) checkOwnership(ctx context.Context, req *domain.EstimateRequest, userID string) error {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// A caller without a profile cannot own anything. Ownership
			// failures are Forbidden, not NotFound, so legitimate owners
			// get actionable feedback.
			return domain.ErrForbidden
		}
		return err
	}
	if req.CustomerID != customer.ID {
		return domain.ErrForbidden
	}
	return nil
}
