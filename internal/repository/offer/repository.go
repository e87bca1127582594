package offer

import (
	"context"

	"moving-broker/internal/domain"
)

// Repository reads estimate offers. Offer creation is out of scope here;
// the history projection is the only consumer.
type Repository interface {
	// ListByRequestIDs returns every offer belonging to the given requests,
	// grouped by request id, oldest first within a request.
	ListByRequestIDs(ctx context.Context, requestIDs []string) (map[string][]domain.EstimateOffer, error)
}
