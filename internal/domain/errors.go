package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the actor does not own the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrProfileNotFound indicates the caller has no customer profile.
	ErrProfileNotFound = errors.New("customer profile not found")
	// ErrMoverNotFound indicates the referenced mover profile does not exist.
	ErrMoverNotFound = errors.New("mover profile not found")
	// ErrActiveRequestExists indicates the customer already has a pending or
	// confirmed estimate request.
	ErrActiveRequestExists = errors.New("active estimate request already exists")
	// ErrDuplicateTarget indicates the mover is already on the target list.
	ErrDuplicateTarget = errors.New("mover already targeted")
	// ErrTargetLimitExceeded indicates the target mover list is full.
	ErrTargetLimitExceeded = errors.New("target mover limit exceeded")
	// ErrInvalidTransition indicates an illegal status transition.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidPageSize indicates a non-positive page size.
	ErrInvalidPageSize = errors.New("page size must be positive")
	// ErrEmptyFilter indicates a filter set with no category enabled.
	ErrEmptyFilter = errors.New("at least one filter category required")
	// ErrInvalidCursor indicates a cursor token that cannot be decoded or
	// does not match the requested ordering.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrInvalidOrder indicates an unknown order field or direction.
	ErrInvalidOrder = errors.New("invalid order")
)
