// Package metadata resolves movie identifiers to display details from an external provider.
package metadata

import (
	"context"
	"errors"

	"github.com/hyperjump/reelmatch/internal/models"
)

var (
	// ErrMovieNotFound is returned when the provider has no record for an id.
	ErrMovieNotFound = errors.New("movie not found at metadata provider")
	// ErrPersonNotFound is returned when the provider has no record for a person id.
	ErrPersonNotFound = errors.New("person not found at metadata provider")
	// ErrUnavailable is returned while the provider circuit is open.
	ErrUnavailable = errors.New("metadata provider unavailable")
	// ErrDisabled is returned by the no-op provider.
	ErrDisabled = errors.New("metadata provider disabled")
)

// Provider looks up display data from an external movie database.
type Provider interface {
	MovieDetail(ctx context.Context, id int) (*models.MovieDetail, error)
	PersonDetail(ctx context.Context, id int) (*models.PersonDetail, error)
	Trending(ctx context.Context) ([]models.MovieSummary, error)
}

// Disabled is a Provider that always fails with ErrDisabled.
type Disabled struct{}

// MovieDetail implements Provider.
func (Disabled) MovieDetail(context.Context, int) (*models.MovieDetail, error) {
	return nil, ErrDisabled
}

// PersonDetail implements Provider.
func (Disabled) PersonDetail(context.Context, int) (*models.PersonDetail, error) {
	return nil, ErrDisabled
}

// Trending implements Provider.
func (Disabled) Trending(context.Context) ([]models.MovieSummary, error) {
	return nil, ErrDisabled
}
