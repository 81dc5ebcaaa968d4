package places

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jerryli27/coffee-project/internal/model"
	"googlemaps.github.io/maps"
)

// Google is a Provider backed by the Google Places API.
type Google struct {
	client *maps.Client
}

// NewGoogle creates a Google provider using the GOOGLE_MAPS_API_KEY env var.
// Extra client options (base URL, HTTP client) are passed through.
func NewGoogle(opts ...maps.ClientOption) (*Google, error) {
	key := os.Getenv("GOOGLE_MAPS_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY environment variable not set")
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(key)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}
	return &Google{client: client}, nil
}

// FindPlace runs a text query requesting only the place identifier.
func (g *Google) FindPlace(ctx context.Context, text string) ([]Candidate, error) {
	resp, err := g.client.FindPlaceFromText(ctx, &maps.FindPlaceFromTextRequest{
		Input:     text,
		InputType: maps.FindPlaceFromTextInputTypeTextQuery,
		Fields:    []maps.PlaceSearchFieldMask{maps.PlaceSearchFieldMask("place_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("find place %q: %w", text, err)
	}
	candidates := make([]Candidate, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		candidates = append(candidates, Candidate{PlaceID: c.PlaceID})
	}
	return candidates, nil
}

// Details fetches the given fields for a place.
func (g *Google) Details(ctx context.Context, placeID string, fields []string) (*model.PlaceDetail, error) {
	masks := make([]maps.PlaceDetailsFieldMask, 0, len(fields))
	for _, f := range fields {
		masks = append(masks, maps.PlaceDetailsFieldMask(f))
	}
	res, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  masks,
	})
	if err != nil {
		return nil, fmt.Errorf("place details %s: %w", placeID, err)
	}
	return convertDetails(res), nil
}

// Photo downloads one photo binary.
func (g *Google) Photo(ctx context.Context, reference string, maxWidth, maxHeight uint) ([]byte, error) {
	resp, err := g.client.PlacePhoto(ctx, &maps.PlacePhotoRequest{
		PhotoReference: reference,
		MaxWidth:       maxWidth,
		MaxHeight:      maxHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("place photo: %w", err)
	}
	defer resp.Data.Close()

	if resp.ContentType != "" && !strings.HasPrefix(resp.ContentType, "image/") {
		return nil, fmt.Errorf("place photo: unexpected content type %q", resp.ContentType)
	}
	data, err := io.ReadAll(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	return data, nil
}

// convertDetails maps the client result onto the optional-field model.
// The client reports absent numbers as zero, so zero ratings, counts and
// price levels are treated as absent.
func convertDetails(res maps.PlaceDetailsResult) *model.PlaceDetail {
	d := &model.PlaceDetail{
		PlaceID:              res.PlaceID,
		Name:                 res.Name,
		FormattedAddress:     res.FormattedAddress,
		FormattedPhoneNumber: res.FormattedPhoneNumber,
		Website:              res.Website,
		Types:                res.Types,
		BusinessStatus:       res.BusinessStatus,
		URL:                  res.URL,
		UTCOffset:            res.UTCOffset,
		Vicinity:             res.Vicinity,
	}

	loc := res.Geometry.Location
	if loc.Lat != 0 || loc.Lng != 0 {
		d.Geometry = &model.Geometry{Location: model.LatLng{Lat: loc.Lat, Lng: loc.Lng}}
	}
	if res.Rating > 0 {
		rating := float64(res.Rating)
		d.Rating = &rating
	}
	if res.UserRatingsTotal > 0 || d.Rating != nil {
		total := res.UserRatingsTotal
		d.UserRatingsTotal = &total
	}
	if res.PriceLevel > 0 {
		level := res.PriceLevel
		d.PriceLevel = &level
	}
	if res.OpeningHours != nil {
		d.OpeningHours = &model.OpeningHours{
			OpenNow:     res.OpeningHours.OpenNow,
			WeekdayText: res.OpeningHours.WeekdayText,
		}
	}
	for _, p := range res.Photos {
		d.Photos = append(d.Photos, model.Photo{
			PhotoReference: p.PhotoReference,
			Height:         p.Height,
			Width:          p.Width,
		})
	}
	for _, r := range res.Reviews {
		d.Reviews = append(d.Reviews, model.Review{Text: r.Text, Rating: r.Rating})
	}
	return d
}
