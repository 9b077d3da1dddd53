package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinelist/movie-collection/internal/core/domain"
	"github.com/cinelist/movie-collection/internal/core/ports"
	"github.com/cinelist/movie-collection/internal/pkg/validation"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubMovieRepo struct {
	byID       map[string]*domain.Movie
	nextID     int
	lastFilter ports.ListMoviesFilter
	lastScope  string
	err        error
}

func newStubMovieRepo() *stubMovieRepo {
	return &stubMovieRepo{byID: make(map[string]*domain.Movie)}
}

func validStubID(id string) bool { return strings.HasPrefix(id, "m") }

func (r *stubMovieRepo) Create(_ context.Context, m *domain.Movie) (*domain.Movie, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	clone := *m
	clone.ID = fmt.Sprintf("m%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubMovieRepo) FindByID(_ context.Context, id string) (*domain.Movie, error) {
	if !validStubID(id) {
		return nil, domain.ErrInvalidMovieID
	}
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMovieNotFound
	}
	clone := *m
	return &clone, nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubMovieRepo) List(_ context.Context, f ports.ListMoviesFilter) ([]*domain.Movie, error) {
	r.lastFilter = f
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Movie
	for _, m := range r.byID {
		if f.OwnerID != "" && m.OwnerID != f.OwnerID {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(m.Title), q) && !strings.Contains(strings.ToLower(m.Director), q) {
				continue
			}
		}
		clone := *m
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Order == ports.SortAsc {
			return out[i].DateAdded.Before(out[j].DateAdded)
		}
		return out[i].DateAdded.After(out[j].DateAdded)
	})
	return out, nil
}

func (r *stubMovieRepo) Update(_ context.Context, id, ownerID string, p ports.MovieUpdate) (*domain.Movie, error) {
	r.lastScope = ownerID
	if !validStubID(id) {
		return nil, domain.ErrInvalidMovieID
	}
	m, ok := r.byID[id]
	if !ok || (ownerID != "" && m.OwnerID != ownerID) {
		return nil, domain.ErrMovieNotFound
	}
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Director != nil {
		m.Director = *p.Director
	}
	if p.Year != nil {
		m.Year = *p.Year
	}
	clone := *m
	return &clone, nil
}

func (r *stubMovieRepo) Delete(_ context.Context, id string) (*domain.Movie, error) {
	if !validStubID(id) {
		return nil, domain.ErrInvalidMovieID
	}
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMovieNotFound
	}
	delete(r.byID, id)
	return m, nil
}

func (r *stubMovieRepo) Exists(_ context.Context, candidate *domain.Movie) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, m := range r.byID {
		if m.ListingKey() == candidate.ListingKey() {
			return true, nil
		}
	}
	return false, nil
}

var _ ports.MovieRepository = (*stubMovieRepo)(nil)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	testNow   = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	owner     = domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleUser}
	admin     = domain.Identity{ID: "u2", Username: "root", Role: domain.RoleAdmin}
	otherUser = domain.Identity{ID: "u3", Username: "mallory", Role: domain.RoleUser}
)

func newTestMovieService(repo *stubMovieRepo) *MovieService {
	svc := NewMovieService(repo, validation.NewWithClock(func() time.Time { return testNow }), zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func year(y int) *int { return &y }

func str(s string) *string { return &s }

func duneInput(ownerID string) ports.CreateMovieInput {
	return ports.CreateMovieInput{OwnerID: ownerID, Title: "Dune", Director: "Villeneuve", Year: year(2021)}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestMovieService_CreateThenGet_RoundTrip(t *testing.T) {
	svc := newTestMovieService(newStubMovieRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, ports.CreateMovieInput{
		OwnerID: owner.ID, Title: "  Dune ", Director: " Villeneuve", Year: year(2021),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !created.DateAdded.Equal(testNow) {
		t.Fatalf("expected dateAdded %v, got %v", testNow, created.DateAdded)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "Dune" || got.Director != "Villeneuve" || got.Year != 2021 || got.OwnerID != owner.ID {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestMovieService_Create_DateAddedMatchesStoredPrecision(t *testing.T) {
	svc := newTestMovieService(newStubMovieRepo())
	local := time.FixedZone("UTC+2", 2*60*60)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 123456789, local) }

	created, err := svc.Create(context.Background(), duneInput(owner.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	want := time.Date(2026, 5, 1, 10, 0, 0, 123000000, time.UTC)
	if !created.DateAdded.Equal(want) || created.DateAdded.Location() != time.UTC {
		t.Fatalf("expected dateAdded %v, got %v", want, created.DateAdded)
	}
}

func TestMovieService_Create_Validation(t *testing.T) {
	cases := []struct {
		name  string
		in    ports.CreateMovieInput
		field string
	}{
		{"missing title", ports.CreateMovieInput{OwnerID: "u1", Title: "  ", Director: "X", Year: year(2000)}, "title"},
		{"missing director", ports.CreateMovieInput{OwnerID: "u1", Title: "X", Year: year(2000)}, "director"},
		{"missing year", ports.CreateMovieInput{OwnerID: "u1", Title: "X", Director: "Y"}, "year"},
		{"year too old", ports.CreateMovieInput{OwnerID: "u1", Title: "X", Director: "Y", Year: year(1799)}, "year"},
		{"year too far ahead", ports.CreateMovieInput{OwnerID: "u1", Title: "X", Director: "Y", Year: year(2032)}, "year"},
		{"title too long", ports.CreateMovieInput{OwnerID: "u1", Title: strings.Repeat("x", 256), Director: "Y", Year: year(2000)}, "title"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubMovieRepo()
			_, err := newTestMovieService(repo).Create(context.Background(), tc.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || !ve.Has(tc.field) {
				t.Fatalf("expected %s violation, got %v", tc.field, err)
			}
			if len(repo.byID) != 0 {
				t.Fatalf("nothing must be stored on validation failure")
			}
		})
	}
}

func TestMovieService_Get_InvalidIDIsNotFound(t *testing.T) {
	svc := newTestMovieService(newStubMovieRepo())

	_, err := svc.Get(context.Background(), "not-an-id")
	if !errors.Is(err, domain.ErrInvalidMovieID) || !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected invalid id to also be not found, got %v", err)
	}

	if _, err := svc.Get(context.Background(), "m404"); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestMovieService_List_DefaultsAndScoping(t *testing.T) {
	repo := newStubMovieRepo()
	svc := newTestMovieService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, duneInput(owner.ID)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, duneInput(otherUser.ID)); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := svc.List(ctx, ports.ListMoviesInput{Actor: &owner})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(mine) != 1 || mine[0].OwnerID != owner.ID {
		t.Fatalf("expected only the owner's movie, got %+v", mine)
	}
	if repo.lastFilter.SortBy != "dateAdded" || repo.lastFilter.Order != ports.SortDesc {
		t.Fatalf("expected newest-first default, got %+v", repo.lastFilter)
	}

	all, err := svc.List(ctx, ports.ListMoviesInput{})
	if err != nil || len(all) != 2 {
		t.Fatalf("expected whole catalogue for anonymous list, got %d (%v)", len(all), err)
	}
}

func TestMovieService_List_EmptyIsNotNil(t *testing.T) {
	svc := newTestMovieService(newStubMovieRepo())

	movies, err := svc.List(context.Background(), ports.ListMoviesInput{Actor: &owner})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if movies == nil || len(movies) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", movies)
	}
}

func TestMovieService_List_SearchAndSort(t *testing.T) {
	repo := newStubMovieRepo()
	svc := newTestMovieService(repo)

	_, err := svc.List(context.Background(), ports.ListMoviesInput{
		Actor: &owner, Search: "  villen ", Sort: "year", Order: "ASC",
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	f := repo.lastFilter
	if f.Search != "villen" || f.SortBy != "year" || f.Order != ports.SortAsc || f.OwnerID != owner.ID {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestMovieService_List_RejectsBadSort(t *testing.T) {
	svc := newTestMovieService(newStubMovieRepo())

	for _, in := range []ports.ListMoviesInput{
		{Sort: "$where"},
		{Sort: "title", Order: "sideways"},
	} {
		if _, err := svc.List(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}
}

func TestMovieService_Import_DuplicateConflicts(t *testing.T) {
	repo := newStubMovieRepo()
	svc := newTestMovieService(repo)
	ctx := context.Background()

	if _, err := svc.ImportFromPublicListing(ctx, duneInput(owner.ID)); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if _, err := svc.ImportFromPublicListing(ctx, duneInput(owner.ID)); !errors.Is(err, domain.ErrMovieExists) {
		t.Fatalf("expected ErrMovieExists, got %v", err)
	}
	if _, err := svc.ImportFromPublicListing(ctx, duneInput(otherUser.ID)); err != nil {
		t.Fatalf("another owner may import the same movie: %v", err)
	}
	if len(repo.byID) != 2 {
		t.Fatalf("expected two stored movies, got %d", len(repo.byID))
	}
}

func TestMovieService_Update_Partial(t *testing.T) {
	repo := newStubMovieRepo()
	svc := newTestMovieService(repo)
	ctx := context.Background()

	m, _ := svc.Create(ctx, duneInput(owner.ID))

	updated, err := svc.Update(ctx, ports.UpdateMovieInput{ID: m.ID, Actor: admin, Year: year(2024)})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Year != 2024 || updated.Title != "Dune" {
		t.Fatalf("expected only year to change, got %+v", updated)
	}
	if repo.lastScope != "" {
		t.Fatalf("admin update must not be owner scoped, got %q", repo.lastScope)
	}
}

func TestMovieService_Update_NonAdminScopedToOwner(t *testing.T) {
	repo := newStubMovieRepo()
	svc := newTestMovieService(repo)
	ctx := context.Background()

	m, _ := svc.Create(ctx, duneInput(owner.ID))

	if _, err := svc.Update(ctx, ports.UpdateMovieInput{ID: m.ID, Actor: otherUser, Title: str("Stolen")}); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound for foreign movie, got %v", err)
	}
	if _, err := svc.Update(ctx, ports.UpdateMovieInput{ID: m.ID, Actor: owner, Title: str("Dune: Part One")}); err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
}

func TestMovieService_Update_Validation(t *testing.T) {
	svc := newTestMovieService(newStubMovieRepo())

	_, err := svc.Update(context.Background(), ports.UpdateMovieInput{ID: "m1", Actor: admin, Title: str("   "), Year: year(1700)})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || !ve.Has("title") || !ve.Has("year") {
		t.Fatalf("expected title and year violations, got %v", err)
	}
}

func TestMovieService_Update_NotFound(t *testing.T) {
	svc := newTestMovieService(newStubMovieRepo())

	if _, err := svc.Update(context.Background(), ports.UpdateMovieInput{ID: "m9", Actor: admin, Year: year(2000)}); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestMovieService_Delete(t *testing.T) {
	repo := newStubMovieRepo()
	svc := newTestMovieService(repo)
	ctx := context.Background()

	m, _ := svc.Create(ctx, duneInput(owner.ID))

	deleted, err := svc.Delete(ctx, m.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if deleted.ID != m.ID || deleted.Title != "Dune" {
		t.Fatalf("expected deleted snapshot, got %+v", deleted)
	}
	if _, err := svc.Delete(ctx, m.ID); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound on second delete, got %v", err)
	}
}

func TestMovieService_Create_StorageError(t *testing.T) {
	repo := newStubMovieRepo()
	repo.err = errors.New("mongo down")
	svc := newTestMovieService(repo)

	if _, err := svc.Create(context.Background(), duneInput(owner.ID)); err == nil {
		t.Fatalf("expected storage error")
	}
}
