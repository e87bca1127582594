package seed

import (
	"context"
	"errors"
	"fmt"

	"moving-broker/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type moverSeed struct {
	UserID        string
	Nickname      string
	Experience    int
	Intro         string
	Description   string
	Phone         string
	ServiceType   domain.ServiceFlags
	ServiceRegion domain.ServiceFlags
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	customerID, err := ensureCustomer(ctx, pool, "user-demo-customer", "Demo Customer")
	if err != nil {
		return fmt.Errorf("ensure customer: %w", err)
	}

	movers := []moverSeed{
		{
			UserID:        "user-demo-mover-1",
			Nickname:      "SwiftMove",
			Experience:    7,
			Intro:         "Fast and careful home moves",
			Description:   "Seven years of apartment and office moves around the capital region.",
			Phone:         "010-1111-2222",
			ServiceType:   domain.ServiceFlags{"SMALL": true, "HOME": true},
			ServiceRegion: domain.ServiceFlags{"Seoul": true, "Gyeonggi-do": true},
		},
		{
			UserID:        "user-demo-mover-2",
			Nickname:      "CarefulCrew",
			Experience:    3,
			Intro:         "No scratch, no stress",
			Description:   "Small crew specialized in fragile household items and studio moves.",
			Phone:         "010-3333-4444",
			ServiceType:   domain.ServiceFlags{"SMALL": true},
			ServiceRegion: domain.ServiceFlags{"Seoul": true, "Incheon": true},
		},
		{
			UserID:        "user-demo-mover-3",
			Nickname:      "OfficePro",
			Experience:    12,
			Intro:         "Office relocation specialists",
			Description:   "Weekend office relocations with minimal downtime for your team.",
			Phone:         "010-5555-6666",
			ServiceType:   domain.ServiceFlags{"HOME": true, "OFFICE": true},
			ServiceRegion: domain.ServiceFlags{"Seoul": true, "Busan": true},
		},
	}

	moverIDs := make([]string, 0, len(movers))
	for _, m := range movers {
		id, err := upsertMover(ctx, pool, m)
		if err != nil {
			return fmt.Errorf("upsert mover %s: %w", m.Nickname, err)
		}
		moverIDs = append(moverIDs, id)
	}

	// A couple of likes and reviews so the reputation view has something
	// to aggregate.
	if err := ensureLike(ctx, pool, customerID, moverIDs[0]); err != nil {
		return fmt.Errorf("ensure like: %w", err)
	}
	if err := ensureReview(ctx, pool, customerID, moverIDs[0], 5, "Quick and friendly, would book again."); err != nil {
		return fmt.Errorf("ensure review: %w", err)
	}
	if err := ensureReview(ctx, pool, customerID, moverIDs[2], 4, "Office move done overnight as promised."); err != nil {
		return fmt.Errorf("ensure review: %w", err)
	}

	return nil
}

func ensureCustomer(ctx context.Context, pool *pgxpool.Pool, userID, name string) (string, error) {
	const q = `
INSERT INTO customers (user_id, name, service_type, service_region)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	err := pool.QueryRow(ctx, q,
		userID,
		name,
		domain.ServiceFlags{"HOME": true},
		domain.ServiceFlags{"Seoul": true},
	).Scan(&id)
	return id, err
}

func upsertMover(ctx context.Context, pool *pgxpool.Pool, m moverSeed) (string, error) {
	const q = `
INSERT INTO movers (user_id, nickname, experience, intro, description, phone, service_type, service_region)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id) DO UPDATE SET
    nickname = EXCLUDED.nickname,
    experience = EXCLUDED.experience,
    intro = EXCLUDED.intro,
    description = EXCLUDED.description,
    phone = EXCLUDED.phone,
    service_type = EXCLUDED.service_type,
    service_region = EXCLUDED.service_region
RETURNING id::text
`
	var id string
	err := pool.QueryRow(ctx, q,
		m.UserID,
		m.Nickname,
		m.Experience,
		m.Intro,
		m.Description,
		m.Phone,
		m.ServiceType,
		m.ServiceRegion,
	).Scan(&id)
	return id, err
}

func ensureLike(ctx context.Context, pool *pgxpool.Pool, customerID, moverID string) error {
	const q = `
INSERT INTO mover_likes (customer_id, mover_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
	_, err := pool.Exec(ctx, q, customerID, moverID)
	return err
}

func ensureReview(ctx context.Context, pool *pgxpool.Pool, customerID, moverID string, rating int, comment string) error {
	const existsQ = `
SELECT id::text
FROM reviews
WHERE customer_id = $1 AND mover_id = $2
LIMIT 1
`
	var existing string
	err := pool.QueryRow(ctx, existsQ, customerID, moverID).Scan(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	const q = `
INSERT INTO reviews (id, customer_id, mover_id, rating, comment)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = pool.Exec(ctx, q, uuid.NewString(), customerID, moverID, rating, comment)
	return err
}
