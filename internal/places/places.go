// Package places talks to the place-data provider: text search for a place
// identifier, detail lookup, and photo downloads.
package places

import (
	"context"
	"errors"

	"github.com/jerryli27/coffee-project/internal/model"
)

// ErrNoCandidates is returned when a text search matches nothing.
var ErrNoCandidates = errors.New("no place candidates")

// DetailFields is the fixed field set requested for every place.
var DetailFields = []string{
	"place_id", "name", "formatted_address", "geometry",
	"rating", "user_ratings_total", "price_level",
	"opening_hours", "formatted_phone_number", "website",
	"photo", "reviews", "type", "business_status",
	"url", "utc_offset", "vicinity",
}

// Candidate is one text-search hit.
type Candidate struct {
	PlaceID string
}

// Provider is the full place-data capability set.
type Provider interface {
	FindPlace(ctx context.Context, text string) ([]Candidate, error)
	Details(ctx context.Context, placeID string, fields []string) (*model.PlaceDetail, error)
	Photo(ctx context.Context, reference string, maxWidth, maxHeight uint) ([]byte, error)
}
