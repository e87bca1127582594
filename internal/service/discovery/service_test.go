package discovery

import (
	"context"
	"errors"
	"sort"
	"testing"

	"moving-broker/internal/domain"
	moverrepo "moving-broker/internal/repository/mover"
)

// memoryMoverRepo reproduces the store's (order value, id) total order and
// seek semantics in memory so pagination properties can be checked without
// a database.
type memoryMoverRepo struct {
	rows  []moverrepo.ListRow
	liked map[string]bool
}

func (m *memoryMoverRepo) GetByID(_ context.Context, id string) (*domain.MoverProfile, error) {
	for _, row := range m.rows {
		if row.Mover.ID == id {
			mover := row.Mover
			return &mover, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryMoverRepo) List(_ context.Context, q moverrepo.ListQuery) ([]moverrepo.ListRow, error) {
	var matched []moverrepo.ListRow
	for _, row := range m.rows {
		if intersects(row.Mover.ServiceType, q.ServiceTypes) && intersects(row.Mover.ServiceRegion, q.ServiceRegions) {
			matched = append(matched, row)
		}
	}

	desc := q.Direction == moverrepo.Desc
	sort.Slice(matched, func(i, j int) bool {
		vi, vj := matched[i].OrderValue(q.OrderField), matched[j].OrderValue(q.OrderField)
		if vi != vj {
			if desc {
				return vi > vj
			}
			return vi < vj
		}
		if desc {
			return matched[i].Mover.ID > matched[j].Mover.ID
		}
		return matched[i].Mover.ID < matched[j].Mover.ID
	})

	if q.After != nil {
		idx := 0
		for i, row := range matched {
			v := row.OrderValue(q.OrderField)
			past := false
			if desc {
				past = v < q.After.Value || (v == q.After.Value && row.Mover.ID < q.After.ID)
			} else {
				past = v > q.After.Value || (v == q.After.Value && row.Mover.ID > q.After.ID)
			}
			if past {
				idx = i
				break
			}
			idx = i + 1
		}
		matched = matched[idx:]
	}

	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (m *memoryMoverRepo) FindReputationByIDs(_ context.Context, ids []string) (map[string]domain.ReputationSnapshot, error) {
	result := make(map[string]domain.ReputationSnapshot)
	for _, row := range m.rows {
		for _, id := range ids {
			if row.Mover.ID == id {
				result[id] = row.Stats
			}
		}
	}
	return result, nil
}

func (m *memoryMoverRepo) ListLikedMoverIDs(_ context.Context, _ string, ids []string) (map[string]bool, error) {
	result := make(map[string]bool)
	for _, id := range ids {
		if m.liked[id] {
			result[id] = true
		}
	}
	return result, nil
}

func intersects(flags domain.ServiceFlags, keys []string) bool {
	for _, k := range keys {
		if flags[k] {
			return true
		}
	}
	return false
}

type stubRequestRepo struct {
	active *domain.EstimateRequest
}

func (s *stubRequestRepo) FindActiveByUser(_ context.Context, _ string) (*domain.EstimateRequest, error) {
	if s.active == nil {
		return nil, domain.ErrNotFound
	}
	return s.active, nil
}

func seoulMover(id, nickname string, rating float64, reviews int) moverrepo.ListRow {
	return moverrepo.ListRow{
		Mover: domain.MoverProfile{
			ID:            id,
			Nickname:      nickname,
			ServiceType:   domain.ServiceFlags{"HOME": true},
			ServiceRegion: domain.ServiceFlags{"Seoul": true},
		},
		Stats: domain.ReputationSnapshot{AverageRating: rating, ReviewCount: reviews},
	}
}

func homeSeoulInput() ListInput {
	return ListInput{
		OrderField:     moverrepo.OrderAverageRating,
		OrderDirection: moverrepo.Desc,
		ServiceType:    domain.ServiceFlags{"HOME": true},
		ServiceRegion:  domain.ServiceFlags{"Seoul": true},
	}
}

func intPtr(v int) *int { return &v }

func TestListRejectsInvalidOrder(t *testing.T) {
	svc := New(&memoryMoverRepo{}, &stubRequestRepo{})
	in := homeSeoulInput()
	in.OrderField = "popularity"
	if _, err := svc.List(context.Background(), in); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("expected invalid order, got %v", err)
	}
}

func TestListRejectsNonPositiveTake(t *testing.T) {
	svc := New(&memoryMoverRepo{}, &stubRequestRepo{})
	in := homeSeoulInput()
	in.Take = intPtr(0)
	if _, err := svc.List(context.Background(), in); !errors.Is(err, domain.ErrInvalidPageSize) {
		t.Fatalf("expected invalid page size, got %v", err)
	}
}

func TestListRejectsEmptyFilter(t *testing.T) {
	svc := New(&memoryMoverRepo{}, &stubRequestRepo{})
	in := homeSeoulInput()
	in.ServiceRegion = domain.ServiceFlags{"Seoul": false}
	if _, err := svc.List(context.Background(), in); !errors.Is(err, domain.ErrEmptyFilter) {
		t.Fatalf("expected empty filter, got %v", err)
	}
}

func TestListRejectsGarbageCursor(t *testing.T) {
	svc := New(&memoryMoverRepo{}, &stubRequestRepo{})
	in := homeSeoulInput()
	in.Cursor = "not-base64!"
	if _, err := svc.List(context.Background(), in); !errors.Is(err, domain.ErrInvalidCursor) {
		t.Fatalf("expected invalid cursor, got %v", err)
	}
}

func TestListRejectsCursorFromDifferentOrdering(t *testing.T) {
	token := encodeCursor(4.5, "m1", moverrepo.OrderReviewCount, moverrepo.Desc)
	svc := New(&memoryMoverRepo{}, &stubRequestRepo{})
	in := homeSeoulInput()
	in.Cursor = token
	if _, err := svc.List(context.Background(), in); !errors.Is(err, domain.ErrInvalidCursor) {
		t.Fatalf("expected invalid cursor, got %v", err)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	token := encodeCursor(4.75, "f888f633-2c37-4e39-a898-a4a288d39355", moverrepo.OrderAverageRating, moverrepo.Desc)
	seek, err := decodeCursor(token, moverrepo.OrderAverageRating, moverrepo.Desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seek.Value != 4.75 || seek.ID != "f888f633-2c37-4e39-a898-a4a288d39355" {
		t.Fatalf("cursor did not round-trip: %+v", seek)
	}
	reencoded := encodeCursor(seek.Value, seek.ID, moverrepo.OrderAverageRating, moverrepo.Desc)
	if reencoded != token {
		t.Fatalf("encode(decode(cursor)) != cursor")
	}
}

func TestListFirstPageAndNext(t *testing.T) {
	repo := &memoryMoverRepo{rows: []moverrepo.ListRow{
		seoulMover("m1", "first", 4.9, 10),
		seoulMover("m2", "second", 4.7, 8),
		seoulMover("m3", "third", 4.5, 6),
		seoulMover("m4", "fourth", 4.3, 4),
		{Mover: domain.MoverProfile{
			ID:            "m5",
			Nickname:      "office-only",
			ServiceType:   domain.ServiceFlags{"OFFICE": true},
			ServiceRegion: domain.ServiceFlags{"Seoul": true},
		}, Stats: domain.ReputationSnapshot{AverageRating: 5}},
	}}
	svc := New(repo, &stubRequestRepo{})

	in := homeSeoulInput()
	in.Take = intPtr(2)
	page1, err := svc.List(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page1.Movers) != 2 || page1.Movers[0].ID != "m1" || page1.Movers[1].ID != "m2" {
		t.Fatalf("unexpected first page: %+v", page1.Movers)
	}
	if !page1.HasNext || page1.NextCursor == "" {
		t.Fatalf("expected next page indicator")
	}

	in.Cursor = page1.NextCursor
	page2, err := svc.List(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page2.Movers) != 2 || page2.Movers[0].ID != "m3" || page2.Movers[1].ID != "m4" {
		t.Fatalf("unexpected second page: %+v", page2.Movers)
	}
	if page2.HasNext {
		t.Fatalf("expected final page")
	}
	if page2.NextCursor != "" {
		t.Fatalf("nextCursor must be absent on the final page")
	}
}

func TestListPaginationCompleteNoOverlap(t *testing.T) {
	// Equal ratings everywhere: only the id tiebreak keeps pages stable.
	repo := &memoryMoverRepo{rows: []moverrepo.ListRow{
		seoulMover("a", "a", 4.0, 1),
		seoulMover("b", "b", 4.0, 2),
		seoulMover("c", "c", 4.0, 3),
		seoulMover("d", "d", 4.0, 4),
		seoulMover("e", "e", 4.0, 5),
		seoulMover("f", "f", 4.0, 6),
		seoulMover("g", "g", 4.0, 7),
	}}
	svc := New(repo, &stubRequestRepo{})

	for _, dir := range []moverrepo.Direction{moverrepo.Asc, moverrepo.Desc} {
		in := homeSeoulInput()
		in.OrderDirection = dir
		in.Take = intPtr(3)

		seen := make(map[string]bool)
		var order []string
		for {
			page, err := svc.List(context.Background(), in)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", dir, err)
			}
			for _, m := range page.Movers {
				if seen[m.ID] {
					t.Fatalf("%s: duplicate row %s across pages", dir, m.ID)
				}
				seen[m.ID] = true
				order = append(order, m.ID)
			}
			if !page.HasNext {
				break
			}
			in.Cursor = page.NextCursor
		}
		if len(seen) != len(repo.rows) {
			t.Fatalf("%s: pagination omitted rows, saw %d of %d", dir, len(seen), len(repo.rows))
		}
		for i := 1; i < len(order); i++ {
			if (dir == moverrepo.Asc && order[i-1] >= order[i]) || (dir == moverrepo.Desc && order[i-1] <= order[i]) {
				t.Fatalf("%s: rows out of order: %v", dir, order)
			}
		}
	}
}

func TestListDefaultsPageSize(t *testing.T) {
	var rows []moverrepo.ListRow
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		rows = append(rows, seoulMover(id, id, 4.0, 0))
	}
	svc := New(&memoryMoverRepo{rows: rows}, &stubRequestRepo{})

	page, err := svc.List(context.Background(), homeSeoulInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Movers) != defaultPageSize {
		t.Fatalf("expected default page size %d, got %d", defaultPageSize, len(page.Movers))
	}
}

func TestListViewerFlags(t *testing.T) {
	repo := &memoryMoverRepo{
		rows:  []moverrepo.ListRow{seoulMover("m1", "first", 4.9, 1), seoulMover("m2", "second", 4.5, 1)},
		liked: map[string]bool{"m2": true},
	}
	requests := &stubRequestRepo{active: &domain.EstimateRequest{ID: "r1", TargetMoverIDs: []string{"m1"}}}
	svc := New(repo, requests)

	in := homeSeoulInput()
	in.ViewerID = "u1"
	page, err := svc.List(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.Movers[0].IsTargeted || page.Movers[0].IsLiked {
		t.Fatalf("unexpected flags for m1: %+v", page.Movers[0])
	}
	if page.Movers[1].IsTargeted || !page.Movers[1].IsLiked {
		t.Fatalf("unexpected flags for m2: %+v", page.Movers[1])
	}
}

func TestGetDetail(t *testing.T) {
	repo := &memoryMoverRepo{rows: []moverrepo.ListRow{
		{
			Mover: domain.MoverProfile{
				ID:            "m1",
				Nickname:      "SwiftMove",
				Description:   "Careful crews, fair prices.",
				ServiceType:   domain.ServiceFlags{"HOME": true},
				ServiceRegion: domain.ServiceFlags{"Seoul": true},
			},
			Stats: domain.ReputationSnapshot{ConfirmedEstimateCount: 3, AverageRating: 4.8, ReviewCount: 9, LikeCount: 5},
		},
	}}
	svc := New(repo, &stubRequestRepo{})

	detail, err := svc.GetDetail(context.Background(), "m1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Nickname != "SwiftMove" || detail.AverageRating != 4.8 || detail.ReviewCount != 9 {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	if _, err := svc.GetDetail(context.Background(), "missing", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
