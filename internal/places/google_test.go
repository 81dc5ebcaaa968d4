package places

import (
	"testing"

	"googlemaps.github.io/maps"
)

func TestConvertDetails(t *testing.T) {
	open := true
	res := maps.PlaceDetailsResult{
		PlaceID:          "abc",
		Name:             "Redemption Roasters",
		FormattedAddress: "84 Lamb's Conduit St, London WC1N 3LR, UK",
		Rating:           4.5,
		UserRatingsTotal: 812,
		URL:              "https://maps.google.com/?cid=1",
		Types:            []string{"cafe", "food"},
		OpeningHours: &maps.OpeningHours{
			OpenNow:     &open,
			WeekdayText: []string{"Monday: 7:00 AM – 6:00 PM"},
		},
		Photos: []maps.Photo{
			{PhotoReference: "ref-1", Height: 600, Width: 800},
		},
		Reviews: []maps.PlaceReview{
			{Text: "Lots of seats downstairs", Rating: 5},
		},
	}
	res.Geometry.Location = maps.LatLng{Lat: 51.52, Lng: -0.12}

	d := convertDetails(res)

	if d.PlaceID != "abc" || d.Name != "Redemption Roasters" {
		t.Errorf("unexpected identity: %+v", d)
	}
	if d.Rating == nil || *d.Rating != 4.5 {
		t.Errorf("expected rating 4.5, got %v", d.Rating)
	}
	if d.UserRatingsTotal == nil || *d.UserRatingsTotal != 812 {
		t.Errorf("expected 812 ratings, got %v", d.UserRatingsTotal)
	}
	if d.PriceLevel != nil {
		t.Errorf("expected absent price level, got %v", *d.PriceLevel)
	}
	if d.Geometry == nil || d.Geometry.Location.Lat != 51.52 {
		t.Errorf("unexpected geometry %+v", d.Geometry)
	}
	if d.OpeningHours == nil || d.OpeningHours.OpenNow == nil || !*d.OpeningHours.OpenNow {
		t.Errorf("expected open now, got %+v", d.OpeningHours)
	}
	if len(d.Photos) != 1 || d.Photos[0].PhotoReference != "ref-1" || d.Photos[0].Bytes != nil {
		t.Errorf("unexpected photos %+v", d.Photos)
	}
	if len(d.Reviews) != 1 || d.Reviews[0].Rating != 5 {
		t.Errorf("unexpected reviews %+v", d.Reviews)
	}
}

func TestConvertDetailsSparse(t *testing.T) {
	d := convertDetails(maps.PlaceDetailsResult{PlaceID: "x"})

	if d.Geometry != nil {
		t.Error("expected nil geometry")
	}
	if d.Rating != nil || d.UserRatingsTotal != nil {
		t.Error("expected absent rating fields")
	}
	if d.OpeningHours != nil {
		t.Error("expected absent opening hours")
	}
	if len(d.Photos) != 0 || len(d.Reviews) != 0 {
		t.Error("expected no photos or reviews")
	}
}

func TestNewGoogleRequiresKey(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	if _, err := NewGoogle(); err == nil {
		t.Fatal("expected error without API key")
	}
}
