package domain

import "time"

// MoveType classifies the kind of move being requested.
type MoveType string

const (
	MoveTypeSmall  MoveType = "SMALL"
	MoveTypeHome   MoveType = "HOME"
	MoveTypeOffice MoveType = "OFFICE"
)

// Valid reports whether t is a known move type.
func (t MoveType) Valid() bool {
	switch t {
	case MoveTypeSmall, MoveTypeHome, MoveTypeOffice:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of an estimate request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusConfirmed RequestStatus = "CONFIRMED"
	StatusCompleted RequestStatus = "COMPLETED"
	StatusCanceled  RequestStatus = "CANCELED"
	StatusExpired   RequestStatus = "EXPIRED"
)

// ActiveStatuses are the states that block a customer from opening another
// request. HistoryStatuses are the states visible in the history view; the
// two sets intentionally overlap on CONFIRMED.
var (
	ActiveStatuses  = []RequestStatus{StatusPending, StatusConfirmed}
	HistoryStatuses = []RequestStatus{StatusConfirmed, StatusCompleted, StatusCanceled, StatusExpired}
)

// Terminal reports whether no further transition is permitted from s.
func (s RequestStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCanceled, StatusExpired:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to target is legal.
// PENDING -> CONFIRMED -> COMPLETED, with CANCELED reachable from either
// non-terminal state and EXPIRED reachable from any non-terminal state.
func (s RequestStatus) CanTransition(target RequestStatus) bool {
	if s.Terminal() {
		return false
	}
	switch target {
	case StatusConfirmed:
		return s == StatusPending
	case StatusCompleted:
		return s == StatusConfirmed
	case StatusCanceled, StatusExpired:
		return s == StatusPending || s == StatusConfirmed
	}
	return false
}

// MaxTargetMovers bounds the target mover list of a request.
const MaxTargetMovers = 3

// EstimateRequest is a customer's solicitation for moving offers.
type EstimateRequest struct {
	ID             string        `json:"id"`
	CustomerID     string        `json:"-"`
	MoveType       MoveType      `json:"moveType"`
	MoveDate       time.Time     `json:"moveDate"`
	FromAddress    Address       `json:"fromAddress"`
	ToAddress      Address       `json:"toAddress"`
	Status         RequestStatus `json:"status"`
	TargetMoverIDs []string      `json:"targetMoverIds"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// HasTargetMover reports whether moverID is already on the target list.
func (r *EstimateRequest) HasTargetMover(moverID string) bool {
	for _, id := range r.TargetMoverIDs {
		if id == moverID {
			return true
		}
	}
	return false
}
