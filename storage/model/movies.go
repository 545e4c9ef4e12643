package model

import (
	"time"
)

// Movie is a single watchlist entry
type Movie struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title string `gorm:"size:60;not null" json:"title"`
	// Year is kept as a fixed-width string, e.g. "1994"
	Year string `gorm:"size:4;not null" json:"year"`
}

// MoviesStore abstracts persistence of the movie list.
// Every method is a single all-or-nothing write or read.
type MoviesStore interface {
	// List returns all movies ordered by id
	List() ([]Movie, error)
	// Get returns a movie by id or a NotFoundError
	Get(id uint) (*Movie, error)
	// Create appends a new movie and returns it with its assigned id
	Create(title, year string) (*Movie, error)
	// Update replaces title and year of an existing movie
	Update(id uint, title, year string) (*Movie, error)
	// Delete removes a movie; a missing id yields a NotFoundError
	Delete(id uint) error
	// Count returns the number of stored movies
	Count() (int64, error)
}
