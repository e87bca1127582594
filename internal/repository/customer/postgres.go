package customer

import (
	"context"
	"errors"
	"io"
	"log"

	"moving-broker/internal/domain"
	"github.com/jackc/pgx/v5"
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

const selectColumns = `id::text, user_id, name, COALESCE(image_url, ''), service_type, service_region, created_at`

func (r *postgresRepo) GetByUserID(ctx context.Context, userID string) (*domain.CustomerProfile, error) {
	const q = `
SELECT ` + selectColumns + `
FROM customers
WHERE user_id = $1
`
	return r.scanProfile(ctx, q, userID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.CustomerProfile, error) {
	const q = `
SELECT ` + selectColumns + `
FROM customers
WHERE id = $1
`
	return r.scanProfile(ctx, q, id)
}

func (r *postgresRepo) scanProfile(ctx context.Context, q string, arg string) (*domain.CustomerProfile, error) {
	var p domain.CustomerProfile
	err := r.pool.QueryRow(ctx, q, arg).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.ImageURL,
		&p.ServiceType,
		&p.ServiceRegion,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("customer repo: get arg=%s error=%v", arg, err)
		return nil, err
	}
	return &p, nil
}
