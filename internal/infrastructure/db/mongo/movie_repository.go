package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cinelist/movie-collection/internal/core/domain"
	"github.com/cinelist/movie-collection/internal/core/ports"
)

const (
	collectionMovies = "movies"
	defaultSortField = "dateAdded"
)

type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository(db *mongo.Database) *MovieRepository {
	return &MovieRepository{col: db.Collection(collectionMovies)}
}

type mongoMovie struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Director  string             `bson:"director"`
	Year      int                `bson:"year"`
	OwnerID   primitive.ObjectID `bson:"user"`
	DateAdded time.Time          `bson:"dateAdded"`
}

func (mm mongoMovie) toDomain() *domain.Movie {
	return &domain.Movie{
		ID:        mm.ID.Hex(),
		Title:     mm.Title,
		Director:  mm.Director,
		Year:      mm.Year,
		OwnerID:   mm.OwnerID.Hex(),
		DateAdded: mm.DateAdded.UTC(),
	}
}

func parseMovieID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidMovieID
	}
	return oid, nil
}

func parseOwnerID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid owner id %q: %w", id, err)
	}
	return oid, nil
}

// Create inserts a new movie document owned by m.OwnerID.
func (r *MovieRepository) Create(ctx context.Context, m *domain.Movie) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := parseOwnerID(m.OwnerID)
	if err != nil {
		return nil, err
	}

	doc := mongoMovie{
		Title:     m.Title,
		Director:  m.Director,
		Year:      m.Year,
		OwnerID:   owner,
		DateAdded: m.DateAdded.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id string) (*domain.Movie, error) {
	oid, err := parseMovieID(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": oid})
}

// List returns the movies matching filter. Search terms are matched literally.
func (r *MovieRepository) List(ctx context.Context, filter ports.ListMoviesFilter) ([]*domain.Movie, error) {
	query, err := listQuery(filter)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(listSort(filter)))
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer cur.Close(ctx)

	movies := make([]*domain.Movie, 0)
	for cur.Next(ctx) {
		var mm mongoMovie
		if err := cur.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode movie: %w", err)
		}
		movies = append(movies, mm.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

func listQuery(filter ports.ListMoviesFilter) (bson.M, error) {
	query := bson.M{}
	if filter.OwnerID != "" {
		owner, err := parseOwnerID(filter.OwnerID)
		if err != nil {
			return nil, err
		}
		query["user"] = owner
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"director": pattern},
		}
	}
	return query, nil
}

func listSort(filter ports.ListMoviesFilter) bson.D {
	field := filter.SortBy
	if field == "" {
		field = defaultSortField
	}
	order := filter.Order
	if order != ports.SortAsc {
		order = ports.SortDesc
	}
	return bson.D{{Key: field, Value: int(order)}}
}

// Update applies patch and returns the updated document. With a non-empty
// ownerID a movie owned by someone else reads as not found.
func (r *MovieRepository) Update(ctx context.Context, id, ownerID string, patch ports.MovieUpdate) (*domain.Movie, error) {
	oid, err := parseMovieID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid}
	if ownerID != "" {
		owner, err := parseOwnerID(ownerID)
		if err != nil {
			return nil, err
		}
		filter["user"] = owner
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Director != nil {
		set["director"] = *patch.Director
	}
	if patch.Year != nil {
		set["year"] = *patch.Year
	}
	if len(set) == 0 {
		return r.findOne(ctx, filter)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mm mongoMovie
	err = r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mm)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}
	return mm.toDomain(), nil
}

// Delete removes the movie and returns the deleted document.
func (r *MovieRepository) Delete(ctx context.Context, id string) (*domain.Movie, error) {
	oid, err := parseMovieID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mm mongoMovie
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&mm); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("delete movie: %w", err)
	}
	return mm.toDomain(), nil
}

func (r *MovieRepository) Exists(ctx context.Context, m *domain.Movie) (bool, error) {
	filter, err := listingFilter(m.ListingKey())
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count movies: %w", err)
	}
	return n > 0, nil
}

func listingFilter(k domain.ListingKey) (bson.M, error) {
	owner, err := parseOwnerID(k.OwnerID)
	if err != nil {
		return nil, err
	}
	return bson.M{
		"title":    k.Title,
		"director": k.Director,
		"year":     k.Year,
		"user":     owner,
	}, nil
}

// EnsureIndexes creates the indexes used by listing and duplicate checks.
func (r *MovieRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "dateAdded", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "title", Value: 1}, {Key: "director", Value: 1}, {Key: "year", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("movies indexes: %w", err)
	}
	return nil
}

func (r *MovieRepository) findOne(ctx context.Context, filter bson.M) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mm mongoMovie
	if err := r.col.FindOne(ctx, filter).Decode(&mm); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return mm.toDomain(), nil
}
