package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
	"github.com/jerryli27/coffee-project/internal/model"
)

// Store manages run history and enriched shop rows via DuckDB.
type Store struct {
	DB      *sql.DB
	DataDir string
}

// New opens (or creates) a DuckDB database in the given data directory.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cafe-map.duckdb")
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	s := &Store{DB: db, DataDir: dataDir}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		"CREATE SEQUENCE IF NOT EXISTS shops_seq",
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input TEXT NOT NULL,
			out_dir TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			finished_at TEXT,
			loaded INTEGER NOT NULL DEFAULT 0,
			enriched INTEGER NOT NULL DEFAULT 0,
			reviewed INTEGER NOT NULL DEFAULT 0,
			pages INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS shops (
			id BIGINT PRIMARY KEY DEFAULT nextval('shops_seq'),
			run_id TEXT NOT NULL,
			city TEXT NOT NULL,
			place_id TEXT,
			name TEXT,
			original_title TEXT,
			formatted_address TEXT,
			vicinity TEXT,
			rating DOUBLE,
			user_ratings_total BIGINT,
			price_level BIGINT,
			phone TEXT,
			website TEXT,
			business_status TEXT,
			google_url TEXT,
			original_url TEXT,
			note TEXT,
			tags TEXT,
			comment TEXT,
			types TEXT,
			latitude DOUBLE,
			longitude DOUBLE,
			open_now BOOLEAN,
			hours TEXT,
			photo_count BIGINT,
			photo_reference TEXT,
			review_count BIGINT,
			recent_review TEXT,
			review_en TEXT,
			review_zh TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(stmt, "\n")
	return line
}

// rowColumns is the OutputRow column list, in the order of rowValues and
// rowTargets.
const rowColumns = `place_id, name, original_title, formatted_address, vicinity,
	rating, user_ratings_total, price_level, phone, website,
	business_status, google_url, original_url, note, tags, comment,
	types, latitude, longitude, open_now, hours, photo_count,
	photo_reference, review_count, recent_review, review_en, review_zh`

func rowValues(r *model.OutputRow) []any {
	return []any{
		r.PlaceID, r.Name, r.OriginalTitle, r.FormattedAddress, r.Vicinity,
		value(r.Rating), value(r.UserRatingsTotal), value(r.PriceLevel), r.Phone, r.Website,
		r.BusinessStatus, r.GoogleURL, r.OriginalURL, r.Note, r.Tags, r.Comment,
		r.Types, value(r.Latitude), value(r.Longitude), value(r.OpenNow), r.Hours, value(r.PhotoCount),
		r.PhotoReference, value(r.ReviewCount), r.RecentReview, r.ReviewEN, r.ReviewZH,
	}
}

// value turns an absent optional into a NULL argument.
func value[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func rowTargets(r *model.OutputRow) []any {
	return []any{
		&r.PlaceID, &r.Name, &r.OriginalTitle, &r.FormattedAddress, &r.Vicinity,
		&r.Rating, &r.UserRatingsTotal, &r.PriceLevel, &r.Phone, &r.Website,
		&r.BusinessStatus, &r.GoogleURL, &r.OriginalURL, &r.Note, &r.Tags, &r.Comment,
		&r.Types, &r.Latitude, &r.Longitude, &r.OpenNow, &r.Hours, &r.PhotoCount,
		&r.PhotoReference, &r.ReviewCount, &r.RecentReview, &r.ReviewEN, &r.ReviewZH,
	}
}

// BeginRun records the start of a pipeline run reading input and writing
// under outDir, and returns it with a fresh identifier.
func (s *Store) BeginRun(input, outDir string) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.NewString(),
		Input:     input,
		OutDir:    outDir,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
	_, err := s.DB.Exec("INSERT INTO runs (id, input, out_dir, started_at) VALUES (?, ?, ?, ?)",
		run.ID, run.Input, run.OutDir, run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// FinishRun stores the run's final counts and marks it as the latest run.
func (s *Store) FinishRun(run *model.Run) error {
	run.FinishedAt = time.Now().UTC().Format(time.RFC3339)

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE runs SET finished_at = ?, loaded = ?, enriched = ?, reviewed = ?, pages = ? WHERE id = ?",
		run.FinishedAt, run.Loaded, run.Enriched, run.Reviewed, run.Pages, run.ID); err != nil {
		return fmt.Errorf("updating run %s: %w", run.ID, err)
	}
	if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('last_run_id', ?)", run.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// WriteShops replaces the rows stored for runID. cities maps place IDs to
// city labels; places without one are filed under unknown.
func (s *Store) WriteShops(runID string, rows []model.OutputRow, cities map[string]string, unknown string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM shops WHERE run_id = ?", runID); err != nil {
		return err
	}

	// run_id, city and one placeholder per row column.
	placeholders := strings.Repeat("?, ", 28) + "?"
	stmt, err := tx.Prepare("INSERT INTO shops (run_id, city, " + rowColumns + ") VALUES (" + placeholders + ")")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range rows {
		city, ok := cities[rows[i].PlaceID]
		if !ok {
			city = unknown
		}
		args := append([]any{runID, city}, rowValues(&rows[i])...)
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting shop %s: %w", rows[i].PlaceID, err)
		}
	}

	return tx.Commit()
}

// ExportParquet writes the rows of runID, in insertion order and without the
// run and city columns, to a Parquet file at path.
func (s *Store) ExportParquet(runID, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	// COPY does not take bound parameters.
	q := fmt.Sprintf("COPY (SELECT %s FROM shops WHERE run_id = %s ORDER BY id) TO %s (FORMAT PARQUET)",
		rowColumns, quote(runID), quote(path))
	if _, err := s.DB.Exec(q); err != nil {
		return fmt.Errorf("exporting parquet: %w", err)
	}
	return nil
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// LastRun returns the most recently finished run, or nil if there is none.
func (s *Store) LastRun() (*model.Run, error) {
	var id string
	err := s.DB.QueryRow("SELECT value FROM meta WHERE key = 'last_run_id'").Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run := &model.Run{ID: id}
	var outDir, finished sql.NullString
	err = s.DB.QueryRow("SELECT input, out_dir, started_at, finished_at, loaded, enriched, reviewed, pages FROM runs WHERE id = ?", id).
		Scan(&run.Input, &outDir, &run.StartedAt, &finished, &run.Loaded, &run.Enriched, &run.Reviewed, &run.Pages)
	if err != nil {
		return nil, fmt.Errorf("reading run %s: %w", id, err)
	}
	run.OutDir = outDir.String
	run.FinishedAt = finished.String
	return run, nil
}

// lastRunFilter restricts a shops query to the latest finished run.
const lastRunFilter = "run_id = (SELECT value FROM meta WHERE key = 'last_run_id')"

// ReadShops loads the latest run's shops, optionally limited to one city.
func (s *Store) ReadShops(city string) ([]model.Shop, error) {
	q := "SELECT run_id, city, " + rowColumns + " FROM shops WHERE " + lastRunFilter
	var args []any
	if city != "" {
		q += " AND city = ?"
		args = append(args, city)
	}
	q += " ORDER BY id"

	rows, err := s.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shops := make([]model.Shop, 0)
	for rows.Next() {
		var sh model.Shop
		targets := append([]any{&sh.RunID, &sh.City}, rowTargets(&sh.OutputRow)...)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		shops = append(shops, sh)
	}
	return shops, rows.Err()
}

// ReadCities returns the latest run's shop counts per city, sorted by city.
func (s *Store) ReadCities() ([]model.CitySummary, error) {
	rows, err := s.DB.Query("SELECT city, COUNT(*) FROM shops WHERE " + lastRunFilter + " GROUP BY city ORDER BY city")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]model.CitySummary, 0)
	for rows.Next() {
		var c model.CitySummary
		if err := rows.Scan(&c.City, &c.Shops); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// ShopCount returns the number of shops in the latest run.
func (s *Store) ShopCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM shops WHERE " + lastRunFilter).Scan(&n)
	return n
}

// CityCount returns the number of distinct cities in the latest run.
func (s *Store) CityCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(DISTINCT city) FROM shops WHERE " + lastRunFilter).Scan(&n)
	return n
}

// ReviewCount returns how many shops in the latest run carry a generated
// English review.
func (s *Store) ReviewCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM shops WHERE " + lastRunFilter + " AND review_en <> ''").Scan(&n)
	return n
}

// RunCount returns the number of finished runs. Runs that failed during
// setup are never finished and are not counted.
func (s *Store) RunCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM runs WHERE finished_at IS NOT NULL").Scan(&n)
	return n
}
