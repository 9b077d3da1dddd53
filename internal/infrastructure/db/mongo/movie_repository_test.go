package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/cinelist/movie-collection/internal/core/domain"
	"github.com/cinelist/movie-collection/internal/core/ports"
)

var addedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func movieDoc(id, owner primitive.ObjectID, title string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "director", Value: "Denis Villeneuve"},
		{Key: "year", Value: 2021},
		{Key: "user", Value: owner},
		{Key: "dateAdded", Value: addedAt},
	}
}

func TestListQuery(t *testing.T) {
	owner := primitive.NewObjectID()

	q, err := listQuery(ports.ListMoviesFilter{OwnerID: owner.Hex(), Search: "a.b("})
	require.NoError(t, err)
	assert.Equal(t, owner, q["user"])

	or, ok := q["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	title := or[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, `a\.b\(`, title.Pattern)
	assert.Equal(t, "i", title.Options)

	q, err = listQuery(ports.ListMoviesFilter{})
	require.NoError(t, err)
	assert.Empty(t, q)

	_, err = listQuery(ports.ListMoviesFilter{OwnerID: "not-hex"})
	assert.Error(t, err)
}

func TestListSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "dateAdded", Value: -1}}, listSort(ports.ListMoviesFilter{}))
	assert.Equal(t, bson.D{{Key: "title", Value: 1}}, listSort(ports.ListMoviesFilter{SortBy: "title", Order: ports.SortAsc}))
}

func TestListingFilter(t *testing.T) {
	owner := primitive.NewObjectID()
	m := &domain.Movie{ID: "ignored", Title: "Dune", Director: "Denis Villeneuve", Year: 2021, OwnerID: owner.Hex(), DateAdded: addedAt}

	f, err := listingFilter(m.ListingKey())
	require.NoError(t, err)
	assert.Equal(t, bson.M{"title": "Dune", "director": "Denis Villeneuve", "year": 2021, "user": owner}, f)

	_, err = listingFilter(domain.ListingKey{OwnerID: "not-hex"})
	assert.Error(t, err)
}

func TestMovieRepository_InvalidID(t *testing.T) {
	repo := &MovieRepository{}
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrInvalidMovieID)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)

	_, err = repo.Update(ctx, "zzz", "", ports.MovieUpdate{})
	assert.ErrorIs(t, err, domain.ErrInvalidMovieID)

	_, err = repo.Delete(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidMovieID)
}

func TestMovieRepository_FindByID(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		id, owner := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.movies", mtest.FirstBatch, movieDoc(id, owner, "Dune")))

		m, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), m.ID)
		assert.Equal(mt, owner.Hex(), m.OwnerID)
		assert.Equal(mt, "Dune", m.Title)
		assert.Equal(mt, addedAt, m.DateAdded)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.movies", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, domain.ErrMovieNotFound)
		assert.NotErrorIs(mt, err, domain.ErrInvalidMovieID)
	})
}

func TestMovieRepository_List(t *testing.T) {
	mt := newMockT(t)

	mt.Run("two documents", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		owner := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "db.movies", mtest.FirstBatch,
				movieDoc(primitive.NewObjectID(), owner, "Dune"),
				movieDoc(primitive.NewObjectID(), owner, "Arrival"),
			),
			mtest.CreateCursorResponse(0, "db.movies", mtest.NextBatch),
		)

		movies, err := repo.List(context.Background(), ports.ListMoviesFilter{OwnerID: owner.Hex()})
		require.NoError(mt, err)
		require.Len(mt, movies, 2)
		assert.Equal(mt, "Dune", movies[0].Title)
		assert.Equal(mt, "Arrival", movies[1].Title)
	})

	mt.Run("empty is not nil", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.movies", mtest.FirstBatch))

		movies, err := repo.List(context.Background(), ports.ListMoviesFilter{Search: "nothing"})
		require.NoError(mt, err)
		assert.NotNil(mt, movies)
		assert.Empty(mt, movies)
	})
}

func TestMovieRepository_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("inserts", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		owner := primitive.NewObjectID().Hex()

		m, err := repo.Create(context.Background(), &domain.Movie{
			Title: "Dune", Director: "Denis Villeneuve", Year: 2021, OwnerID: owner, DateAdded: addedAt,
		})
		require.NoError(mt, err)
		assert.Len(mt, m.ID, 24)
		assert.Equal(mt, owner, m.OwnerID)
	})

	mt.Run("bad owner", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		_, err := repo.Create(context.Background(), &domain.Movie{OwnerID: "nope"})
		assert.Error(mt, err)
	})
}

func TestMovieRepository_Update(t *testing.T) {
	mt := newMockT(t)

	mt.Run("returns updated document", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		id, owner := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: movieDoc(id, owner, "Dune: Part One")},
		})

		title := "Dune: Part One"
		m, err := repo.Update(context.Background(), id.Hex(), owner.Hex(), ports.MovieUpdate{Title: &title})
		require.NoError(mt, err)
		assert.Equal(mt, title, m.Title)
	})

	mt.Run("owned by someone else", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		year := 2020
		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), ports.MovieUpdate{Year: &year})
		assert.ErrorIs(mt, err, domain.ErrMovieNotFound)
	})
}

func TestMovieRepository_Delete(t *testing.T) {
	mt := newMockT(t)

	mt.Run("returns deleted document", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		id, owner := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: movieDoc(id, owner, "Dune")}})

		m, err := repo.Delete(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), m.ID)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, domain.ErrMovieNotFound)
	})
}

func TestMovieRepository_Exists(t *testing.T) {
	mt := newMockT(t)

	mt.Run("duplicate listing", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.movies", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}))

		ok, err := repo.Exists(context.Background(), &domain.Movie{
			Title: "Dune", Director: "Denis Villeneuve", Year: 2021, OwnerID: primitive.NewObjectID().Hex(),
		})
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("fresh listing", func(mt *mtest.T) {
		repo := &MovieRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.movies", mtest.FirstBatch))

		ok, err := repo.Exists(context.Background(), &domain.Movie{OwnerID: primitive.NewObjectID().Hex()})
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}
