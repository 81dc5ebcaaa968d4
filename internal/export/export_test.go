package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jerryli27/coffee-project/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() model.EnrichedRecord {
	rating := 4.6
	total := 812
	open := true
	rec := model.Merge(model.SourceRecord{
		OriginalTitle: "Redemption Roasters - Holborn",
		URL:           "https://www.google.com/maps/place/Redemption+Roasters/data=abc",
		Note:          "good flat white",
		Tags:          "work",
		Comment:       "basement seats",
		PlaceID:       "rr-1",
	}, model.PlaceDetail{
		PlaceID:          "rr-1",
		Name:             "Redemption Roasters",
		FormattedAddress: "84 Lamb's Conduit St, London WC1N 3LR, UK",
		Rating:           &rating,
		UserRatingsTotal: &total,
		URL:              "https://maps.google.com/?cid=123",
		Types:            []string{"cafe", "food"},
		Geometry:         &model.Geometry{Location: model.LatLng{Lat: 51.52, Lng: -0.119}},
		OpeningHours:     &model.OpeningHours{OpenNow: &open, WeekdayText: []string{"Monday: 7-5", "Tuesday: 7-5"}},
		Photos:           []model.Photo{{PhotoReference: "p1"}, {PhotoReference: "p2"}},
		Reviews:          []model.Review{{Rating: 5, Text: strings.Repeat("x", 250)}},
	})
	rec.GeneratedReviews = &model.GeneratedReview{EN: "Great for work.", ZH: "适合工作"}
	return rec
}

func TestToRows(t *testing.T) {
	rows := ToRows([]model.EnrichedRecord{testRecord()}, quietLogger())
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]

	if r.GoogleURL != "https://maps.google.com/?cid=123" {
		t.Errorf("unexpected google_url %q", r.GoogleURL)
	}
	if r.OriginalURL != "https://www.google.com/maps/place/Redemption+Roasters/data=abc" {
		t.Errorf("expected original_url from the input row, got %q", r.OriginalURL)
	}
	if r.OriginalTitle != "Redemption Roasters - Holborn" || r.Note != "good flat white" {
		t.Errorf("expected source fields carried, got %+v", r)
	}
	if r.Types != "cafe, food" {
		t.Errorf("unexpected types %q", r.Types)
	}
	if r.Hours != "Monday: 7-5\nTuesday: 7-5" || r.OpenNow == nil || !*r.OpenNow {
		t.Errorf("unexpected hours %q / %v", r.Hours, r.OpenNow)
	}
	if r.Latitude == nil || *r.Latitude != 51.52 || r.Longitude == nil || *r.Longitude != -0.119 {
		t.Errorf("unexpected coordinates %v %v", r.Latitude, r.Longitude)
	}
	if r.PhotoCount == nil || *r.PhotoCount != 2 || r.PhotoReference != "p1" {
		t.Errorf("unexpected photo columns %v %q", r.PhotoCount, r.PhotoReference)
	}
	if r.ReviewCount == nil || *r.ReviewCount != 1 {
		t.Errorf("unexpected review_count %v", r.ReviewCount)
	}
	if r.RecentReview != strings.Repeat("x", 200)+"..." {
		t.Errorf("expected recent review truncated to 200 + ..., got %d chars", len(r.RecentReview))
	}
	if r.ReviewEN != "Great for work." || r.ReviewZH != "适合工作" {
		t.Errorf("unexpected generated reviews %q %q", r.ReviewEN, r.ReviewZH)
	}
}

func TestToRowsAbsentOptionals(t *testing.T) {
	rows := ToRows([]model.EnrichedRecord{{PlaceDetail: model.PlaceDetail{PlaceID: "bare"}}}, quietLogger())
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Rating != nil || r.Latitude != nil || r.PhotoCount != nil || r.ReviewCount != nil || r.OpenNow != nil {
		t.Errorf("expected absent optionals to stay nil, got %+v", r)
	}

	cells := Record(r)
	if len(cells) != len(Columns) {
		t.Fatalf("expected %d cells, got %d", len(Columns), len(cells))
	}
	for i, c := range cells {
		if i > 0 && c != "" {
			t.Errorf("expected empty cell for %s, got %q", Columns[i], c)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "enriched_coffee_shops.csv")
	rows := ToRows([]model.EnrichedRecord{testRecord()}, quietLogger())

	if err := WriteCSV(path, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening csv: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(Columns, ",") {
		t.Errorf("unexpected header %v", records[0])
	}
	got := map[string]string{}
	for i, col := range records[0] {
		got[col] = records[1][i]
	}
	if got["rating"] != "4.6" || got["user_ratings_total"] != "812" || got["price_level"] != "" {
		t.Errorf("unexpected numeric cells %q %q %q", got["rating"], got["user_ratings_total"], got["price_level"])
	}
	if got["open_now"] != "true" || got["hours"] != "Monday: 7-5\nTuesday: 7-5" {
		t.Errorf("unexpected hours cells %q %q", got["open_now"], got["hours"])
	}
}

func TestWriteGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shops.geojson")
	noCoords := model.EnrichedRecord{PlaceDetail: model.PlaceDetail{PlaceID: "nowhere"}}
	rows := ToRows([]model.EnrichedRecord{testRecord(), noCoords}, quietLogger())

	ok, err := WriteGeoJSON(path, rows, quietLogger())
	if err != nil || !ok {
		t.Fatalf("WriteGeoJSON: %v %v", ok, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading geojson: %v", err)
	}
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("decoding geojson: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("expected one feature, got %s with %d", fc.Type, len(fc.Features))
	}
	f := fc.Features[0]
	if f.Geometry.Type != "Point" || f.Geometry.Coordinates[0] != -0.119 || f.Geometry.Coordinates[1] != 51.52 {
		t.Errorf("expected lng/lat point, got %+v", f.Geometry)
	}
	if f.Properties["name"] != "Redemption Roasters" || f.Properties["rating"] != 4.6 {
		t.Errorf("unexpected properties %v", f.Properties)
	}
	if f.Properties["price_level"] != nil {
		t.Errorf("expected null price_level, got %v", f.Properties["price_level"])
	}
}

func TestWriteGeoJSONSkippedWithoutCoordinates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shops.geojson")
	rows := ToRows([]model.EnrichedRecord{{PlaceDetail: model.PlaceDetail{PlaceID: "a"}}}, quietLogger())

	ok, err := WriteGeoJSON(path, rows, quietLogger())
	if err != nil {
		t.Fatalf("expected skip without error, got %v", err)
	}
	if ok {
		t.Error("expected export to be skipped")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file to be written")
	}
}
