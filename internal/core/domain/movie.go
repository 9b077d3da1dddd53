package domain

import "time"

const (
	MinMovieYear     = 1800
	movieYearLeadway = 5
)

// Movie is a single entry in a user's collection.
type Movie struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Director  string    `json:"director"`
	Year      int       `json:"year"`
	OwnerID   string    `json:"user"`
	DateAdded time.Time `json:"dateAdded"`
}

// MaxMovieYear is the latest release year accepted at time now.
func MaxMovieYear(now time.Time) int {
	return now.Year() + movieYearLeadway
}

// ValidMovieYear reports whether year is a plausible release year at time now.
func ValidMovieYear(year int, now time.Time) bool {
	return year >= MinMovieYear && year <= MaxMovieYear(now)
}

// ListingKey is the set of fields that makes two movies the same
// collection entry. Keys compare with ==.
type ListingKey struct {
	Title    string
	Director string
	Year     int
	OwnerID  string
}

// ListingKey returns the duplicate-detection key of m.
func (m *Movie) ListingKey() ListingKey {
	return ListingKey{Title: m.Title, Director: m.Director, Year: m.Year, OwnerID: m.OwnerID}
}
