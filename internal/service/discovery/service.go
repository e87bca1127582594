package discovery

import (
	"context"
	"errors"

	"moving-broker/internal/domain"
	moverrepo "moving-broker/internal/repository/mover"
)

const defaultPageSize = 5

// Service ranks and keyset-paginates the mover directory. Reads are
// lock-free; reputation numbers are allowed to be stale.
type Service struct {
	movers   moverRepo
	requests requestRepo
}

type moverRepo interface {
	GetByID(ctx context.Context, id string) (*domain.MoverProfile, error)
	List(ctx context.Context, q moverrepo.ListQuery) ([]moverrepo.ListRow, error)
	FindReputationByIDs(ctx context.Context, ids []string) (map[string]domain.ReputationSnapshot, error)
	ListLikedMoverIDs(ctx context.Context, userID string, moverIDs []string) (map[string]bool, error)
}

type requestRepo interface {
	FindActiveByUser(ctx context.Context, userID string) (*domain.EstimateRequest, error)
}

// New wires the service with its repositories.
func New(movers moverRepo, requests requestRepo) *Service {
	return &Service{movers: movers, requests: requests}
}

// ListInput describes one directory page request. ViewerID is the
// authenticated user when present; it only affects the isTargeted/isLiked
// flags. Take nil means the default page size.
type ListInput struct {
	Cursor         string
	OrderField     moverrepo.OrderField
	OrderDirection moverrepo.Direction
	Take           *int
	ServiceType    domain.ServiceFlags
	ServiceRegion  domain.ServiceFlags
	ViewerID       string
}

// MoverListing is one directory row. The stat field names mirror the
// declared order fields on purpose.
type MoverListing struct {
	ID                     string              `json:"id"`
	Nickname               string              `json:"nickname"`
	ImageURL               string              `json:"imageUrl,omitempty"`
	Experience             int                 `json:"experience"`
	Intro                  string              `json:"intro"`
	ServiceType            domain.ServiceFlags `json:"serviceType"`
	ReviewCount            int                 `json:"review_count"`
	AverageRating          float64             `json:"average_rating"`
	ConfirmedEstimateCount int                 `json:"confirmed_estimate_count"`
	LikeCount              int                 `json:"like_count"`
	IsTargeted             bool                `json:"isTargeted"`
	IsLiked                bool                `json:"isLiked"`
}

// ListOutput is one directory page.
type ListOutput struct {
	Movers     []MoverListing `json:"movers"`
	HasNext    bool           `json:"hasNext"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

// List returns one ranked page of movers matching both filters. The page is
// totally ordered by (order field, id); the returned cursor seeks strictly
// past the last row, so sequential pages never skip or repeat rows even
// while reputation numbers shift underneath.
func (s *Service) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	if !in.OrderField.Valid() || !in.OrderDirection.Valid() {
		return nil, domain.ErrInvalidOrder
	}
	take := defaultPageSize
	if in.Take != nil {
		take = *in.Take
	}
	if take <= 0 {
		return nil, domain.ErrInvalidPageSize
	}
	if !in.ServiceType.AnyTrue() || !in.ServiceRegion.AnyTrue() {
		return nil, domain.ErrEmptyFilter
	}

	var after *moverrepo.Seek
	if in.Cursor != "" {
		seek, err := decodeCursor(in.Cursor, in.OrderField, in.OrderDirection)
		if err != nil {
			return nil, err
		}
		after = seek
	}

	// Fetch one extra row to learn whether a next page exists.
	rows, err := s.movers.List(ctx, moverrepo.ListQuery{
		OrderField:     in.OrderField,
		Direction:      in.OrderDirection,
		Limit:          take + 1,
		After:          after,
		ServiceTypes:   in.ServiceType.TrueKeys(),
		ServiceRegions: in.ServiceRegion.TrueKeys(),
	})
	if err != nil {
		return nil, err
	}

	hasNext := len(rows) > take
	if hasNext {
		rows = rows[:take]
	}

	targeted, liked, err := s.viewerFlags(ctx, in.ViewerID, rows)
	if err != nil {
		return nil, err
	}

	out := &ListOutput{Movers: make([]MoverListing, 0, len(rows)), HasNext: hasNext}
	for _, row := range rows {
		out.Movers = append(out.Movers, MoverListing{
			ID:                     row.Mover.ID,
			Nickname:               row.Mover.Nickname,
			ImageURL:               row.Mover.ImageURL,
			Experience:             row.Mover.Experience,
			Intro:                  row.Mover.Intro,
			ServiceType:            row.Mover.ServiceType,
			ReviewCount:            row.Stats.ReviewCount,
			AverageRating:          row.Stats.AverageRating,
			ConfirmedEstimateCount: row.Stats.ConfirmedEstimateCount,
			LikeCount:              row.Stats.LikeCount,
			IsTargeted:             targeted[row.Mover.ID],
			IsLiked:                liked[row.Mover.ID],
		})
	}
	if hasNext {
		last := rows[len(rows)-1]
		out.NextCursor = encodeCursor(last.OrderValue(in.OrderField), last.Mover.ID, in.OrderField, in.OrderDirection)
	}
	return out, nil
}

// MoverDetail is the single-mover view, including the fields the list
// omits (description, service region) and camel-cased stats.
type MoverDetail struct {
	ID                     string              `json:"id"`
	Nickname               string              `json:"nickname"`
	ImageURL               string              `json:"imageUrl,omitempty"`
	Experience             int                 `json:"experience"`
	Intro                  string              `json:"intro"`
	Description            string              `json:"description"`
	ServiceType            domain.ServiceFlags `json:"serviceType"`
	ServiceRegion          domain.ServiceFlags `json:"serviceRegion"`
	ReviewCount            int                 `json:"reviewCount"`
	AverageRating          float64             `json:"averageRating"`
	ConfirmedEstimateCount int                 `json:"confirmedEstimateCount"`
	LikeCount              int                 `json:"likeCount"`
	IsTargeted             bool                `json:"isTargeted"`
	IsLiked                bool                `json:"isLiked"`
}

// GetDetail returns one mover with its reputation snapshot and the
// viewer's flags.
func (s *Service) GetDetail(ctx context.Context, moverID, viewerID string) (*MoverDetail, error) {
	mover, err := s.movers.GetByID(ctx, moverID)
	if err != nil {
		return nil, err
	}
	stats, err := s.movers.FindReputationByIDs(ctx, []string{moverID})
	if err != nil {
		return nil, err
	}
	snap := stats[moverID]

	targeted, liked, err := s.viewerFlagsForIDs(ctx, viewerID, []string{moverID})
	if err != nil {
		return nil, err
	}

	return &MoverDetail{
		ID:                     mover.ID,
		Nickname:               mover.Nickname,
		ImageURL:               mover.ImageURL,
		Experience:             mover.Experience,
		Intro:                  mover.Intro,
		Description:            mover.Description,
		ServiceType:            mover.ServiceType,
		ServiceRegion:          mover.ServiceRegion,
		ReviewCount:            snap.ReviewCount,
		AverageRating:          snap.AverageRating,
		ConfirmedEstimateCount: snap.ConfirmedEstimateCount,
		LikeCount:              snap.LikeCount,
		IsTargeted:             targeted[moverID],
		IsLiked:                liked[moverID],
	}, nil
}

func (s *Service) viewerFlags(ctx context.Context, viewerID string, rows []moverrepo.ListRow) (map[string]bool, map[string]bool, error) {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.Mover.ID
	}
	return s.viewerFlagsForIDs(ctx, viewerID, ids)
}

func (s *Service) viewerFlagsForIDs(ctx context.Context, viewerID string, ids []string) (map[string]bool, map[string]bool, error) {
	targeted := make(map[string]bool)
	if viewerID == "" || len(ids) == 0 {
		return targeted, map[string]bool{}, nil
	}

	active, err := s.requests.FindActiveByUser(ctx, viewerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	if active != nil {
		for _, id := range ids {
			if active.HasTargetMover(id) {
				targeted[id] = true
			}
		}
	}

	liked, err := s.movers.ListLikedMoverIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, nil, err
	}
	return targeted, liked, nil
}
