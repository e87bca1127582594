package history

import (
	"context"
	"time"

	"moving-broker/internal/domain"
)

// Service builds the customer-facing history projection: historical
// requests joined with their offers, each offer enriched with the mover's
// reputation snapshot and the viewer's like flag.
type Service struct {
	requests requestRepo
	offers   offerRepo
	movers   moverRepo
}

type requestRepo interface {
	ListHistoryByUser(ctx context.Context, userID string) ([]domain.EstimateRequest, error)
}

type offerRepo interface {
	ListByRequestIDs(ctx context.Context, requestIDs []string) (map[string][]domain.EstimateOffer, error)
}

type moverRepo interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.MoverProfile, error)
	FindReputationByIDs(ctx context.Context, ids []string) (map[string]domain.ReputationSnapshot, error)
	ListLikedMoverIDs(ctx context.Context, userID string, moverIDs []string) (map[string]bool, error)
}

// New wires the service with its repositories.
func New(requests requestRepo, offers offerRepo, movers moverRepo) *Service {
	return &Service{requests: requests, offers: offers, movers: movers}
}

// MoverSummary is the offer-embedded mover shape. Phone is only populated
// when the caller is entitled to full contact details.
type MoverSummary struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Experience int    `json:"experience"`
	Phone      string `json:"phone,omitempty"`
}

// OfferProjection is one offer as shown in the history view.
type OfferProjection struct {
	ID                     string       `json:"id"`
	Price                  int64        `json:"price"`
	Comment                string       `json:"comment,omitempty"`
	CreatedAt              time.Time    `json:"createdAt"`
	Mover                  MoverSummary `json:"mover"`
	IsLiked                bool         `json:"isLiked"`
	ConfirmedEstimateCount int          `json:"confirmedEstimateCount"`
	AverageRating          float64      `json:"averageRating"`
	ReviewCount            int          `json:"reviewCount"`
	LikeCount              int          `json:"likeCount"`
}

// RequestProjection is one historical request with its offers.
type RequestProjection struct {
	ID          string               `json:"id"`
	MoveType    domain.MoveType      `json:"moveType"`
	Status      domain.RequestStatus `json:"status"`
	MoveDate    time.Time            `json:"moveDate"`
	FromAddress domain.Address       `json:"fromAddress"`
	ToAddress   domain.Address       `json:"toAddress"`
	CreatedAt   time.Time            `json:"createdAt"`
	Offers      []OfferProjection    `json:"offers"`
}

// ProjectHistory returns the caller's CONFIRMED/COMPLETED/CANCELED/EXPIRED
// requests, newest first, with offers enriched from a single batched
// reputation fetch. Movers missing from the snapshot project zero stats.
// includeFullAddress gates the mover contact fields; the history view of
// the owning customer passes true.
func (s *Service) ProjectHistory(ctx context.Context, userID string, includeFullAddress bool) ([]RequestProjection, error) {
	requests, err := s.requests.ListHistoryByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return []RequestProjection{}, nil
	}

	requestIDs := make([]string, len(requests))
	for i, req := range requests {
		requestIDs[i] = req.ID
	}

	offersByRequest, err := s.offers.ListByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}

	moverIDs := collectMoverIDs(offersByRequest)
	movers, err := s.movers.GetByIDs(ctx, moverIDs)
	if err != nil {
		return nil, err
	}
	stats, err := s.movers.FindReputationByIDs(ctx, moverIDs)
	if err != nil {
		return nil, err
	}
	liked, err := s.movers.ListLikedMoverIDs(ctx, userID, moverIDs)
	if err != nil {
		return nil, err
	}

	result := make([]RequestProjection, 0, len(requests))
	for _, req := range requests {
		projection := RequestProjection{
			ID:          req.ID,
			MoveType:    req.MoveType,
			Status:      req.Status,
			MoveDate:    req.MoveDate,
			FromAddress: req.FromAddress,
			ToAddress:   req.ToAddress,
			CreatedAt:   req.CreatedAt,
			Offers:      []OfferProjection{},
		}
		for _, o := range offersByRequest[req.ID] {
			projection.Offers = append(projection.Offers, projectOffer(o, movers[o.MoverID], stats[o.MoverID], liked[o.MoverID], includeFullAddress))
		}
		result = append(result, projection)
	}
	return result, nil
}

func projectOffer(o domain.EstimateOffer, mover domain.MoverProfile, snap domain.ReputationSnapshot, isLiked, includeFullAddress bool) OfferProjection {
	summary := MoverSummary{
		ID:         o.MoverID,
		Nickname:   mover.Nickname,
		ImageURL:   mover.ImageURL,
		Experience: mover.Experience,
	}
	if includeFullAddress {
		summary.Phone = mover.Phone
	}
	// snap is the zero value when the reputation view has no entry for the
	// mover, which is exactly the zero-defaulted projection we want.
	return OfferProjection{
		ID:                     o.ID,
		Price:                  o.Price,
		Comment:                o.Comment,
		CreatedAt:              o.CreatedAt,
		Mover:                  summary,
		IsLiked:                isLiked,
		ConfirmedEstimateCount: snap.ConfirmedEstimateCount,
		AverageRating:          snap.AverageRating,
		ReviewCount:            snap.ReviewCount,
		LikeCount:              snap.LikeCount,
	}
}

func collectMoverIDs(offersByRequest map[string][]domain.EstimateOffer) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, offers := range offersByRequest {
		for _, o := range offers {
			if !seen[o.MoverID] {
				seen[o.MoverID] = true
				ids = append(ids, o.MoverID)
			}
		}
	}
	return ids
}
