package request

import (
	"context"
	"errors"
	"io"
	"log"

	"moving-broker/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const selectColumns = `id::text, customer_id::text, move_type, move_date, from_address, to_address, status, target_mover_ids, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.EstimateRequest, error) {
	const q = `
INSERT INTO estimate_requests (customer_id, move_type, move_date, from_address, to_address, status)
VALUES ($1, $2, $3, $4, $5, 'PENDING')
RETURNING ` + selectColumns + `
`
	var req domain.EstimateRequest
	err := r.pool.QueryRow(ctx, q,
		in.CustomerID,
		string(in.MoveType),
		in.MoveDate,
		in.FromAddress,
		in.ToAddress,
	).Scan(
		&req.ID,
		&req.CustomerID,
		&req.MoveType,
		&req.MoveDate,
		&req.FromAddress,
		&req.ToAddress,
		&req.Status,
		&req.TargetMoverIDs,
		&req.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// The partial unique index on (customer_id) for active statuses is
		// the authoritative guard against two concurrent creates.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrActiveRequestExists
		}
		r.logger.Printf("request repo: create customer_id=%s error=%v", in.CustomerID, err)
		return nil, err
	}
	r.logger.Printf("request repo: created id=%s customer_id=%s", req.ID, req.CustomerID)
	return &req, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.EstimateRequest, error) {
	const q = `
SELECT ` + selectColumns + `
FROM estimate_requests
WHERE id = $1
`
	row := r.pool.QueryRow(ctx, q, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("request repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return req, nil
}

func (r *postgresRepo) ListActiveIDs(ctx context.Context, customerID string) ([]string, error) {
	const q = `
SELECT id::text
FROM estimate_requests
WHERE customer_id = $1 AND status = ANY($2)
`
	rows, err := r.pool.Query(ctx, q, customerID, statusStrings(domain.ActiveStatuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresRepo) FindActiveByUser(ctx context.Context, userID string) (*domain.EstimateRequest, error) {
	const q = `
SELECT r.id::text, r.customer_id::text, r.move_type, r.move_date, r.from_address, r.to_address, r.status, r.target_mover_ids, r.created_at
FROM estimate_requests r
JOIN customers c ON c.id = r.customer_id
WHERE c.user_id = $1 AND r.status = ANY($2)
LIMIT 1
`
	row := r.pool.QueryRow(ctx, q, userID, statusStrings(domain.ActiveStatuses))
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("request repo: active user_id=%s error=%v", userID, err)
		return nil, err
	}
	return req, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	const q = `
UPDATE estimate_requests
SET status = $1
WHERE id = $2
`
	tag, err := r.pool.Exec(ctx, q, string(status), id)
	if err != nil {
		r.logger.Printf("request repo: update status id=%s status=%s error=%v", id, status, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("request repo: updated id=%s status=%s", id, status)
	return nil
}

func (r *postgresRepo) AppendTargetMover(ctx context.Context, requestID, moverID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var targets []string
	err = tx.QueryRow(ctx, `
SELECT target_mover_ids
FROM estimate_requests
WHERE id = $1
FOR UPDATE
`, requestID).Scan(&targets)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	// Re-check under the lock so two concurrent appends cannot exceed the
	// limit or insert the same mover twice.
	for _, id := range targets {
		if id == moverID {
			return domain.ErrDuplicateTarget
		}
	}
	if len(targets) >= domain.MaxTargetMovers {
		return domain.ErrTargetLimitExceeded
	}

	if _, err := tx.Exec(ctx, `
UPDATE estimate_requests
SET target_mover_ids = array_append(target_mover_ids, $1)
WHERE id = $2
`, moverID, requestID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("request repo: target appended id=%s mover_id=%s", requestID, moverID)
	return nil
}

func (r *postgresRepo) ListHistoryByUser(ctx context.Context, userID string) ([]domain.EstimateRequest, error) {
	const q = `
SELECT r.id::text, r.customer_id::text, r.move_type, r.move_date, r.from_address, r.to_address, r.status, r.target_mover_ids, r.created_at
FROM estimate_requests r
JOIN customers c ON c.id = r.customer_id
WHERE c.user_id = $1 AND r.status = ANY($2)
ORDER BY r.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID, statusStrings(domain.HistoryStatuses))
	if err != nil {
		r.logger.Printf("request repo: history user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.EstimateRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("request repo: history user_id=%s count=%d", userID, len(result))
	return result, nil
}

func scanRequest(row pgx.Row) (*domain.EstimateRequest, error) {
	var req domain.EstimateRequest
	if err := row.Scan(
		&req.ID,
		&req.CustomerID,
		&req.MoveType,
		&req.MoveDate,
		&req.FromAddress,
		&req.ToAddress,
		&req.Status,
		&req.TargetMoverIDs,
		&req.CreatedAt,
	); err != nil {
		return nil, err
	}
	if req.TargetMoverIDs == nil {
		req.TargetMoverIDs = []string{}
	}
	return &req, nil
}

func statusStrings(statuses []domain.RequestStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
