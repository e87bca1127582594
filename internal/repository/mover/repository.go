package mover

import (
	"context"

	"moving-broker/internal/domain"
)

// OrderField is a declared, totally-ordered ranking column for the
// mover directory.
type OrderField string

const (
	OrderReviewCount    OrderField = "review_count"
	OrderAverageRating  OrderField = "average_rating"
	OrderExperience     OrderField = "experience"
	OrderConfirmedCount OrderField = "confirmed_estimate_count"
)

// Valid reports whether f is a known order field.
func (f OrderField) Valid() bool {
	switch f {
	case OrderReviewCount, OrderAverageRating, OrderExperience, OrderConfirmedCount:
		return true
	}
	return false
}

// Direction is the sort direction applied to the order field and the id
// tiebreak alike.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// Seek is the keyset position of the last row already returned: the next
// page starts strictly past (Value, ID) in the requested direction.
type Seek struct {
	Value float64
	ID    string
}

// ListQuery describes one page fetch of the mover directory.
type ListQuery struct {
	OrderField     OrderField
	Direction      Direction
	Limit          int
	After          *Seek
	ServiceTypes   []string
	ServiceRegions []string
}

// ListRow is a directory row joined with its reputation snapshot.
type ListRow struct {
	Mover domain.MoverProfile
	Stats domain.ReputationSnapshot
}

// OrderValue extracts the row's ranking key for the given field.
func (r ListRow) OrderValue(f OrderField) float64 {
	switch f {
	case OrderReviewCount:
		return float64(r.Stats.ReviewCount)
	case OrderAverageRating:
		return r.Stats.AverageRating
	case OrderExperience:
		return float64(r.Mover.Experience)
	case OrderConfirmedCount:
		return float64(r.Stats.ConfirmedEstimateCount)
	}
	return 0
}

// Repository fetches mover profiles, directory pages and the derived
// reputation snapshots.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.MoverProfile, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.MoverProfile, error)
	// List returns up to q.Limit rows matching the filters, ordered by
	// (order field, id) in q.Direction, seeking past q.After when set.
	List(ctx context.Context, q ListQuery) ([]ListRow, error)
	// FindReputationByIDs batch-loads reputation snapshots. Movers absent
	// from the view are simply absent from the map.
	FindReputationByIDs(ctx context.Context, ids []string) (map[string]domain.ReputationSnapshot, error)
	// ListLikedMoverIDs returns, among moverIDs, the ones liked by the user.
	ListLikedMoverIDs(ctx context.Context, userID string, moverIDs []string) (map[string]bool, error)
}
