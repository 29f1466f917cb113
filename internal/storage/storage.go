// Package storage persists the imported movie catalog.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/reelmatch/internal/models"
)

// ErrMovieNotFound is returned when no stored movie has the requested id.
var ErrMovieNotFound = errors.New("movie not found")

// Storage defines movie catalog persistence operations.
type Storage interface {
	// UpsertMovies inserts or replaces movies by id. New ids are appended in input order;
	// existing ids keep their catalog position.
	UpsertMovies(ctx context.Context, movies []models.Movie) (inserted, updated int, err error)
	GetMovie(ctx context.Context, id int) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id int) error
	// ListMovies returns movies in catalog order. limit <= 0 returns everything after offset.
	ListMovies(ctx context.Context, offset, limit int) ([]models.Movie, error)
	CountMovies(ctx context.Context) (int64, error)

	Close() error
}
