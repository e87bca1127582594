package mover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

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

const moverColumns = `m.id::text, m.nickname, COALESCE(m.image_url, ''), m.experience, COALESCE(m.intro, ''), COALESCE(m.description, ''), COALESCE(m.phone, ''), m.service_type, m.service_region, m.created_at`

// orderExprs maps declared order fields to SQL expressions. Keyed by the
// whitelisted OrderField values only; never interpolate caller input here.
var orderExprs = map[OrderField]string{
	OrderReviewCount:    "v.review_count",
	OrderAverageRating:  "v.average_rating",
	OrderExperience:     "m.experience",
	OrderConfirmedCount: "v.confirmed_estimate_count",
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.MoverProfile, error) {
	q := `
SELECT ` + moverColumns + `
FROM movers m
WHERE m.id = $1
`
	var m domain.MoverProfile
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.Nickname, &m.ImageURL, &m.Experience, &m.Intro,
		&m.Description, &m.Phone, &m.ServiceType, &m.ServiceRegion, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("mover repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &m, nil
}

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []string) (map[string]domain.MoverProfile, error) {
	result := make(map[string]domain.MoverProfile)
	if len(ids) == 0 {
		return result, nil
	}
	q := `
SELECT ` + moverColumns + `
FROM movers m
WHERE m.id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		r.logger.Printf("mover repo: get batch size=%d error=%v", len(ids), err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.MoverProfile
		if err := rows.Scan(
			&m.ID, &m.Nickname, &m.ImageURL, &m.Experience, &m.Intro,
			&m.Description, &m.Phone, &m.ServiceType, &m.ServiceRegion, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		result[m.ID] = m
	}
	return result, rows.Err()
}

func (r *postgresRepo) List(ctx context.Context, q ListQuery) ([]ListRow, error) {
	orderExpr, ok := orderExprs[q.OrderField]
	if !ok {
		return nil, domain.ErrInvalidOrder
	}
	if !q.Direction.Valid() {
		return nil, domain.ErrInvalidOrder
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`
SELECT ` + moverColumns + `,
       v.confirmed_estimate_count, v.average_rating, v.review_count, v.like_count
FROM movers m
JOIN mover_reputation_view v ON v.mover_id = m.id
WHERE `)
	writeFlagFilter(&sb, &args, "m.service_type", q.ServiceTypes)
	sb.WriteString(" AND ")
	writeFlagFilter(&sb, &args, "m.service_region", q.ServiceRegions)

	cmp := "<"
	if q.Direction == Asc {
		cmp = ">"
	}
	if q.After != nil {
		args = append(args, q.After.Value)
		valArg := len(args)
		args = append(args, q.After.ID)
		idArg := len(args)
		// Row comparison keeps the seek aligned with the (order value, id)
		// total order, so pages never overlap even on ties.
		fmt.Fprintf(&sb, " AND (%s::float8, m.id) %s ($%d::float8, $%d::uuid)", orderExpr, cmp, valArg, idArg)
	}

	dir := "DESC"
	if q.Direction == Asc {
		dir = "ASC"
	}
	fmt.Fprintf(&sb, "\nORDER BY %s %s, m.id %s", orderExpr, dir, dir)
	args = append(args, q.Limit)
	fmt.Fprintf(&sb, "\nLIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Printf("mover repo: list order=%s error=%v", q.OrderField, err)
		return nil, err
	}
	defer rows.Close()

	var result []ListRow
	for rows.Next() {
		var row ListRow
		if err := rows.Scan(
			&row.Mover.ID, &row.Mover.Nickname, &row.Mover.ImageURL, &row.Mover.Experience,
			&row.Mover.Intro, &row.Mover.Description, &row.Mover.Phone,
			&row.Mover.ServiceType, &row.Mover.ServiceRegion, &row.Mover.CreatedAt,
			&row.Stats.ConfirmedEstimateCount, &row.Stats.AverageRating,
			&row.Stats.ReviewCount, &row.Stats.LikeCount,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("mover repo: list order=%s %s count=%d", q.OrderField, q.Direction, len(result))
	return result, nil
}

// writeFlagFilter appends an OR-joined jsonb flag condition: the mover
// matches when any of the selected categories is true on its own flag set.
func writeFlagFilter(sb *strings.Builder, args *[]any, column string, keys []string) {
	if len(keys) == 0 {
		// No key can match; the service rejects empty filters before this
		// point, so this branch only guards direct repo use.
		sb.WriteString("FALSE")
		return
	}
	sb.WriteString("(")
	for i, key := range keys {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		*args = append(*args, key)
		fmt.Fprintf(sb, "COALESCE((%s ->> $%d)::boolean, FALSE)", column, len(*args))
	}
	sb.WriteString(")")
}

func (r *postgresRepo) FindReputationByIDs(ctx context.Context, ids []string) (map[string]domain.ReputationSnapshot, error) {
	result := make(map[string]domain.ReputationSnapshot)
	if len(ids) == 0 {
		return result, nil
	}
	const q = `
SELECT mover_id::text, confirmed_estimate_count, average_rating, review_count, like_count
FROM mover_reputation_view
WHERE mover_id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		r.logger.Printf("mover repo: reputation batch size=%d error=%v", len(ids), err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   string
			snap domain.ReputationSnapshot
		)
		if err := rows.Scan(&id, &snap.ConfirmedEstimateCount, &snap.AverageRating, &snap.ReviewCount, &snap.LikeCount); err != nil {
			return nil, err
		}
		result[id] = snap
	}
	return result, rows.Err()
}

func (r *postgresRepo) ListLikedMoverIDs(ctx context.Context, userID string, moverIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if userID == "" || len(moverIDs) == 0 {
		return result, nil
	}
	const q = `
SELECT l.mover_id::text
FROM mover_likes l
JOIN customers c ON c.id = l.customer_id
WHERE c.user_id = $1 AND l.mover_id = ANY($2)
`
	rows, err := r.pool.Query(ctx, q, userID, moverIDs)
	if err != nil {
		r.logger.Printf("mover repo: likes user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = true
	}
	return result, rows.Err()
}
