package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jerryli27/coffee-project/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := filepath.Join(os.TempDir(), "cafe-map-store-test-"+t.Name())
	os.RemoveAll(dir)
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := New(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRows() []model.OutputRow {
	rating := 4.6
	total := 812
	lat, lng := 51.52, -0.119
	open := true
	photos := 2
	return []model.OutputRow{
		{
			PlaceID: "rr-1", Name: "Redemption Roasters", Rating: &rating, UserRatingsTotal: &total,
			Latitude: &lat, Longitude: &lng, OpenNow: &open, PhotoCount: &photos,
			Types: "cafe, food", ReviewEN: "Great for work.", ReviewZH: "适合工作",
		},
		{PlaceID: "bb-1", Name: "Blue Bottle"},
		{PlaceID: "gh-1", Name: "Ghost Cafe"},
	}
}

func TestRunRoundTrip(t *testing.T) {
	s := testStore(t)

	if run, err := s.LastRun(); err != nil || run != nil {
		t.Fatalf("expected no last run, got %+v %v", run, err)
	}

	run, err := s.BeginRun("data/coffee.csv", "site/coffee")
	if err != nil {
		t.Fatalf("beginning run: %v", err)
	}
	if run.ID == "" || run.StartedAt == "" {
		t.Fatalf("expected id and start time, got %+v", run)
	}

	run.Loaded, run.Enriched, run.Reviewed, run.Pages = 4, 3, 3, 3
	if err := s.FinishRun(run); err != nil {
		t.Fatalf("finishing run: %v", err)
	}

	got, err := s.LastRun()
	if err != nil {
		t.Fatalf("reading last run: %v", err)
	}
	if got.ID != run.ID || got.Input != "data/coffee.csv" || got.Enriched != 3 || got.FinishedAt == "" {
		t.Errorf("unexpected run %+v", got)
	}
	if got.OutDir != "site/coffee" {
		t.Errorf("expected output dir kept on the run, got %q", got.OutDir)
	}
	if s.RunCount() != 1 {
		t.Errorf("expected 1 run, got %d", s.RunCount())
	}
}

func TestRunCountSkipsUnfinishedRuns(t *testing.T) {
	s := testStore(t)

	if _, err := s.BeginRun("broken.csv", "output/broken"); err != nil {
		t.Fatalf("beginning run: %v", err)
	}
	if s.RunCount() != 0 {
		t.Errorf("expected unfinished run not counted, got %d", s.RunCount())
	}

	run, err := s.BeginRun("good.csv", "output/good")
	if err != nil {
		t.Fatalf("beginning run: %v", err)
	}
	if err := s.FinishRun(run); err != nil {
		t.Fatalf("finishing run: %v", err)
	}
	if s.RunCount() != 1 {
		t.Errorf("expected 1 finished run, got %d", s.RunCount())
	}
}

func TestReadEmptyReturnsEmptySlices(t *testing.T) {
	s := testStore(t)

	shops, err := s.ReadShops("Nowhere")
	if err != nil || shops == nil || len(shops) != 0 {
		t.Errorf("expected empty non-nil shops, got %#v (%v)", shops, err)
	}
	cities, err := s.ReadCities()
	if err != nil || cities == nil || len(cities) != 0 {
		t.Errorf("expected empty non-nil cities, got %#v (%v)", cities, err)
	}
}

func TestShopsRoundTrip(t *testing.T) {
	s := testStore(t)

	run, err := s.BeginRun("in.csv", "output/in")
	if err != nil {
		t.Fatalf("beginning run: %v", err)
	}
	cities := map[string]string{"rr-1": "London", "bb-1": "San_Francisco"}
	if err := s.WriteShops(run.ID, sampleRows(), cities, "Unknown_City"); err != nil {
		t.Fatalf("writing shops: %v", err)
	}

	// Not visible until the run is finished.
	if s.ShopCount() != 0 {
		t.Errorf("expected unfinished run hidden, got %d shops", s.ShopCount())
	}
	if err := s.FinishRun(run); err != nil {
		t.Fatalf("finishing run: %v", err)
	}

	shops, err := s.ReadShops("")
	if err != nil {
		t.Fatalf("reading shops: %v", err)
	}
	if len(shops) != 3 {
		t.Fatalf("expected 3 shops, got %d", len(shops))
	}
	rr := shops[0]
	if rr.City != "London" || rr.RunID != run.ID || rr.Name != "Redemption Roasters" {
		t.Errorf("unexpected first shop %+v", rr)
	}
	if rr.Rating == nil || *rr.Rating != 4.6 || rr.UserRatingsTotal == nil || *rr.UserRatingsTotal != 812 {
		t.Errorf("expected numeric fields preserved, got %v %v", rr.Rating, rr.UserRatingsTotal)
	}
	if rr.OpenNow == nil || !*rr.OpenNow || rr.Longitude == nil || *rr.Longitude != -0.119 {
		t.Errorf("expected optional fields preserved, got %v %v", rr.OpenNow, rr.Longitude)
	}
	if shops[1].Rating != nil || shops[1].PhotoCount != nil {
		t.Errorf("expected NULLs to read back as nil, got %+v", shops[1])
	}
	if shops[2].City != "Unknown_City" {
		t.Errorf("expected unmapped place filed as unknown, got %q", shops[2].City)
	}

	london, err := s.ReadShops("London")
	if err != nil || len(london) != 1 {
		t.Fatalf("expected 1 London shop, got %d (%v)", len(london), err)
	}

	summaries, err := s.ReadCities()
	if err != nil {
		t.Fatalf("reading cities: %v", err)
	}
	if len(summaries) != 3 || summaries[0].City != "London" || summaries[0].Shops != 1 {
		t.Errorf("unexpected city summaries %+v", summaries)
	}
}

func TestCountMethods(t *testing.T) {
	s := testStore(t)

	if s.ShopCount() != 0 || s.CityCount() != 0 || s.ReviewCount() != 0 {
		t.Error("expected empty counts on a fresh store")
	}

	first, _ := s.BeginRun("a.csv", "output/a")
	s.WriteShops(first.ID, sampleRows(), map[string]string{"rr-1": "London", "bb-1": "London"}, "Unknown_City")
	s.FinishRun(first)

	if s.ShopCount() != 3 {
		t.Errorf("expected 3 shops, got %d", s.ShopCount())
	}
	if s.CityCount() != 2 {
		t.Errorf("expected 2 cities, got %d", s.CityCount())
	}
	if s.ReviewCount() != 1 {
		t.Errorf("expected 1 reviewed shop, got %d", s.ReviewCount())
	}

	second, _ := s.BeginRun("b.csv", "output/b")
	s.WriteShops(second.ID, sampleRows()[:1], map[string]string{"rr-1": "London"}, "Unknown_City")
	s.FinishRun(second)

	if s.ShopCount() != 1 {
		t.Errorf("expected counts to follow the latest run, got %d", s.ShopCount())
	}
}

func TestExportParquet(t *testing.T) {
	s := testStore(t)

	run, err := s.BeginRun("in.csv", "output/in")
	if err != nil {
		t.Fatalf("beginning run: %v", err)
	}
	if err := s.WriteShops(run.ID, sampleRows(), nil, "Unknown_City"); err != nil {
		t.Fatalf("writing shops: %v", err)
	}

	path := filepath.Join(s.DataDir, "out", "it's.parquet")
	if err := s.ExportParquet(run.ID, path); err != nil {
		t.Fatalf("exporting parquet: %v", err)
	}

	var n int
	var name string
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM read_parquet(" + quote(path) + ")").Scan(&n); err != nil {
		t.Fatalf("reading parquet back: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 parquet rows, got %d", n)
	}
	if err := s.DB.QueryRow("SELECT name FROM read_parquet(" + quote(path) + ") LIMIT 1").Scan(&name); err != nil {
		t.Fatalf("reading parquet name: %v", err)
	}
	if name != "Redemption Roasters" {
		t.Errorf("expected insertion order kept, got %q", name)
	}
}
