package offer

import (
	"context"
	"io"
	"log"

	"moving-broker/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListByRequestIDs(ctx context.Context, requestIDs []string) (map[string][]domain.EstimateOffer, error) {
	result := make(map[string][]domain.EstimateOffer)
	if len(requestIDs) == 0 {
		return result, nil
	}

	const q = `
SELECT id::text, request_id::text, mover_id::text, price, COALESCE(comment, ''), status, created_at
FROM estimate_offers
WHERE request_id = ANY($1)
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, requestIDs)
	if err != nil {
		r.logger.Printf("offer repo: list requests=%d error=%v", len(requestIDs), err)
		return nil, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var o domain.EstimateOffer
		if err := rows.Scan(&o.ID, &o.RequestID, &o.MoverID, &o.Price, &o.Comment, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		result[o.RequestID] = append(result[o.RequestID], o)
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("offer repo: list requests=%d offers=%d", len(requestIDs), count)
	return result, nil
}
