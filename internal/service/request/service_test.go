package request

import (
	"context"
	"errors"
	"testing"
	"time"

	"moving-broker/internal/domain"
	requestrepo "moving-broker/internal/repository/request"
)

type stubRequestRepo struct {
	created      *domain.EstimateRequest
	createErr    error
	lastCreate   requestrepo.CreateInput
	byID         *domain.EstimateRequest
	byIDErr      error
	activeIDs    []string
	activeErr    error
	statusErr    error
	lastStatusID string
	lastStatus   domain.RequestStatus
	appendErr    error
	lastAppendID string
	lastAppendMv string
}

func (s *stubRequestRepo) Create(_ context.Context, in requestrepo.CreateInput) (*domain.EstimateRequest, error) {
	s.lastCreate = in
	return s.created, s.createErr
}

func (s *stubRequestRepo) GetByID(_ context.Context, _ string) (*domain.EstimateRequest, error) {
	return s.byID, s.byIDErr
}

func (s *stubRequestRepo) ListActiveIDs(_ context.Context, _ string) ([]string, error) {
	return s.activeIDs, s.activeErr
}

func (s *stubRequestRepo) UpdateStatus(_ context.Context, id string, status domain.RequestStatus) error {
	s.lastStatusID = id
	s.lastStatus = status
	return s.statusErr
}

func (s *stubRequestRepo) AppendTargetMover(_ context.Context, requestID, moverID string) error {
	s.lastAppendID = requestID
	s.lastAppendMv = moverID
	return s.appendErr
}

type stubCustomerRepo struct {
	profile *domain.CustomerProfile
	err     error
}

func (s *stubCustomerRepo) GetByUserID(_ context.Context, _ string) (*domain.CustomerProfile, error) {
	return s.profile, s.err
}

type stubMoverRepo struct {
	mover *domain.MoverProfile
	err   error
}

func (s *stubMoverRepo) GetByID(_ context.Context, _ string) (*domain.MoverProfile, error) {
	return s.mover, s.err
}

func validCreateInput() CreateInput {
	addr := domain.Address{
		Sido:        "서울",
		SidoEnglish: "Seoul",
		Sigungu:     "강남구",
		RoadAddress: "테헤란로 212",
		FullAddress: "서울 강남구 테헤란로 212",
	}
	return CreateInput{
		MoveType:    domain.MoveTypeHome,
		MoveDate:    time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		FromAddress: addr,
		ToAddress:   addr,
	}
}

func TestCreateRejectsUnknownMoveType(t *testing.T) {
	svc := New(&stubRequestRepo{}, &stubCustomerRepo{}, &stubMoverRepo{})
	in := validCreateInput()
	in.MoveType = "GARAGE"
	if _, err := svc.Create(context.Background(), "u1", in); err == nil {
		t.Fatalf("expected move type error")
	}
}

func TestCreateRejectsIncompleteAddress(t *testing.T) {
	svc := New(&stubRequestRepo{}, &stubCustomerRepo{}, &stubMoverRepo{})
	in := validCreateInput()
	in.ToAddress.Sigungu = ""
	if _, err := svc.Create(context.Background(), "u1", in); err == nil {
		t.Fatalf("expected address error")
	}
}

func TestCreateProfileNotFound(t *testing.T) {
	svc := New(&stubRequestRepo{}, &stubCustomerRepo{err: domain.ErrNotFound}, &stubMoverRepo{})
	_, err := svc.Create(context.Background(), "u1", validCreateInput())
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
}

func TestCreateActiveRequestExists(t *testing.T) {
	repo := &stubRequestRepo{activeIDs: []string{"r1"}}
	svc := New(repo, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "c1"}}, &stubMoverRepo{})
	_, err := svc.Create(context.Background(), "u1", validCreateInput())
	if !errors.Is(err, domain.ErrActiveRequestExists) {
		t.Fatalf("expected active request error, got %v", err)
	}
}

func TestCreateHappyPath(t *testing.T) {
	repo := &stubRequestRepo{created: &domain.EstimateRequest{ID: "r1", Status: domain.StatusPending}}
	svc := New(repo, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "c1"}}, &stubMoverRepo{})
	id, err := svc.Create(context.Background(), "u1", validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "r1" {
		t.Fatalf("unexpected id %q", id)
	}
	if repo.lastCreate.CustomerID != "c1" {
		t.Fatalf("expected create for customer c1, got %q", repo.lastCreate.CustomerID)
	}
}

func TestCreateSurfacesIndexViolation(t *testing.T) {
	// Two concurrent creates can both pass the fast-path check; the repo
	// then reports the unique-index violation.
	repo := &stubRequestRepo{createErr: domain.ErrActiveRequestExists}
	svc := New(repo, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "c1"}}, &stubMoverRepo{})
	_, err := svc.Create(context.Background(), "u1", validCreateInput())
	if !errors.Is(err, domain.ErrActiveRequestExists) {
		t.Fatalf("expected active request error, got %v", err)
	}
}

func TestTransitionMatrix(t *testing.T) {
	cases := []struct {
		from  domain.RequestStatus
		to    domain.RequestStatus
		legal bool
	}{
		{domain.StatusPending, domain.StatusConfirmed, true},
		{domain.StatusPending, domain.StatusCanceled, true},
		{domain.StatusPending, domain.StatusExpired, true},
		{domain.StatusPending, domain.StatusCompleted, false},
		{domain.StatusConfirmed, domain.StatusCompleted, true},
		{domain.StatusConfirmed, domain.StatusCanceled, true},
		{domain.StatusConfirmed, domain.StatusExpired, true},
		{domain.StatusConfirmed, domain.StatusPending, false},
		{domain.StatusCompleted, domain.StatusCanceled, false},
		{domain.StatusCanceled, domain.StatusPending, false},
		{domain.StatusExpired, domain.StatusConfirmed, false},
	}

	for _, tc := range cases {
		repo := &stubRequestRepo{byID: &domain.EstimateRequest{ID: "r1", CustomerID: "c1", Status: tc.from}}
		svc := New(repo, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "c1"}}, &stubMoverRepo{})
		err := svc.Transition(context.Background(), "r1", tc.to, "u1")
		if tc.legal && err != nil {
			t.Fatalf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.legal && !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("%s -> %s: expected invalid transition, got %v", tc.from, tc.to, err)
		}
		if tc.legal && (repo.lastStatusID != "r1" || repo.lastStatus != tc.to) {
			t.Fatalf("%s -> %s: status not persisted", tc.from, tc.to)
		}
	}
}

func TestTransitionForbiddenForNonOwner(t *testing.T) {
	repo := &stubRequestRepo{byID: &domain.EstimateRequest{ID: "r1", CustomerID: "c1", Status: domain.StatusPending}}
	svc := New(repo, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "other"}}, &stubMoverRepo{})
	err := svc.Transition(context.Background(), "r1", domain.StatusConfirmed, "u2")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestTransitionNotFound(t *testing.T) {
	repo := &stubRequestRepo{byIDErr: domain.ErrNotFound}
	svc := New(repo, &stubCustomerRepo{}, &stubMoverRepo{})
	err := svc.Transition(context.Background(), "missing", domain.StatusConfirmed, "u1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFindActiveIDsEmpty(t *testing.T) {
	svc := New(&stubRequestRepo{}, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "c1"}}, &stubMoverRepo{})
	ids, err := svc.FindActiveIDs(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Fatalf("expected empty slice, got %v", ids)
	}
}

func TestAddTargetMoverRequestNotFound(t *testing.T) {
	svc := New(&stubRequestRepo{byIDErr: domain.ErrNotFound}, &stubCustomerRepo{}, &stubMoverRepo{})
	_, err := svc.AddTargetMover(context.Background(), "missing", "m1", "u1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddTargetMoverForbidden(t *testing.T) {
	repo := &stubRequestRepo{byID: &domain.EstimateRequest{ID: "r1", CustomerID: "c1"}}
	svc := New(repo, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "other"}}, &stubMoverRepo{})
	_, err := svc.AddTargetMover(context.Background(), "r1", "m1", "u2")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAddTargetMoverDuplicate(t *testing.T) {
	repo := &stubRequestRepo{byID: &domain.EstimateRequest{ID: "r1", CustomerID: "c1", TargetMoverIDs: []string{"m1"}}}
	svc := New(repo, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "c1"}}, &stubMoverRepo{})
	_, err := svc.AddTargetMover(context.Background(), "r1", "m1", "u1")
	if !errors.Is(err, domain.ErrDuplicateTarget) {
		t.Fatalf("expected duplicate target, got %v", err)
	}
}

func TestAddTargetMoverLimit(t *testing.T) {
	repo := &stubRequestRepo{byID: &domain.EstimateRequest{
		ID:             "r1",
		CustomerID:     "c1",
		TargetMoverIDs: []string{"m1", "m2", "m3"},
	}}
	svc := New(repo, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "c1"}}, &stubMoverRepo{})
	_, err := svc.AddTargetMover(context.Background(), "r1", "m4", "u1")
	if !errors.Is(err, domain.ErrTargetLimitExceeded) {
		t.Fatalf("expected target limit error, got %v", err)
	}
}

func TestAddTargetMoverMoverNotFound(t *testing.T) {
	repo := &stubRequestRepo{byID: &domain.EstimateRequest{ID: "r1", CustomerID: "c1"}}
	svc := New(repo, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "c1"}}, &stubMoverRepo{err: domain.ErrNotFound})
	_, err := svc.AddTargetMover(context.Background(), "r1", "m1", "u1")
	if !errors.Is(err, domain.ErrMoverNotFound) {
		t.Fatalf("expected mover not found, got %v", err)
	}
}

func TestAddTargetMoverSuccess(t *testing.T) {
	repo := &stubRequestRepo{byID: &domain.EstimateRequest{ID: "r1", CustomerID: "c1", Status: domain.StatusCompleted}}
	movers := &stubMoverRepo{mover: &domain.MoverProfile{ID: "m1", Nickname: "SwiftMove"}}
	svc := New(repo, &stubCustomerRepo{profile: &domain.CustomerProfile{ID: "c1"}}, movers)
	// Terminal status does not block target additions.
	msg, err := svc.AddTargetMover(context.Background(), "r1", "m1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "SwiftMove has been added as a target mover for this request" {
		t.Fatalf("unexpected message %q", msg)
	}
	if repo.lastAppendID != "r1" || repo.lastAppendMv != "m1" {
		t.Fatalf("append not called as expected")
	}
}
