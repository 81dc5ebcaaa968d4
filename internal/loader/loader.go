// Package loader reads the saved-places CSV and resolves each row to a
// provider place identifier.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/jerryli27/coffee-project/internal/model"
	"github.com/jerryli27/coffee-project/internal/places"
)

var placePathRe = regexp.MustCompile(`/place/([^/]+)`)

// Finder is the text-search capability the loader needs.
type Finder interface {
	FindPlace(ctx context.Context, text string) ([]places.Candidate, error)
}

// Loader turns input rows into source records.
type Loader struct {
	Finder Finder
	Logger *slog.Logger
}

// Load reads path and resolves every row. Only an unreadable file is an
// error; rows that cannot be resolved are dropped with a warning.
func (l *Loader) Load(ctx context.Context, path string) ([]model.SourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	l.logger().Info("loaded rows", "path", path, "rows", len(rows))

	return l.Resolve(ctx, rows)
}

// Resolve looks up a place identifier for each row, preserving input order.
// It stops early only when ctx is cancelled.
func (l *Loader) Resolve(ctx context.Context, rows []model.RawRow) ([]model.SourceRecord, error) {
	log := l.logger()
	var records []model.SourceRecord
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		name, ok := ExtractPlaceName(row.URL)
		if !ok {
			log.Warn("could not extract place name from URL", "title", row.Title, "url", row.URL)
			continue
		}

		placeID, err := l.findPlaceID(ctx, name)
		if err != nil {
			log.Warn("could not resolve place", "title", row.Title, "query", name, "error", err)
			continue
		}
		log.Debug("resolved place", "query", name, "place_id", placeID)

		records = append(records, model.SourceRecord{
			OriginalTitle: row.Title,
			Note:          row.Note,
			URL:           row.URL,
			Tags:          row.Tags,
			Comment:       row.Comment,
			PlaceID:       placeID,
		})
	}
	log.Info("resolved place identifiers", "records", len(records), "dropped", len(rows)-len(records))
	return records, nil
}

func (l *Loader) findPlaceID(ctx context.Context, name string) (string, error) {
	candidates, err := l.Finder.FindPlace(ctx, name)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 || candidates[0].PlaceID == "" {
		return "", places.ErrNoCandidates
	}
	return candidates[0].PlaceID, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// ExtractPlaceName pulls the place name out of a ".../place/<name>/..." URL.
// "+" and "%20" become spaces and anything after "?" is dropped.
func ExtractPlaceName(url string) (string, bool) {
	m := placePathRe.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	name := strings.ReplaceAll(m[1], "+", " ")
	name = strings.ReplaceAll(name, "%20", " ")
	name, _, _ = strings.Cut(name, "?")
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

// ReadRows parses a CSV with a header row. Columns are matched by name,
// case-insensitively; missing columns read as empty. Rows with neither a
// title nor a URL are skipped.
func ReadRows(r io.Reader) ([]model.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	// Notes are free text; a stray quote mid-field is literal.
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[h] = i
	}
	get := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []model.RawRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		row := model.RawRow{
			Title:   get(rec, "title"),
			URL:     get(rec, "url"),
			Note:    get(rec, "note"),
			Tags:    get(rec, "tags"),
			Comment: get(rec, "comment"),
		}
		if row.Title == "" && row.URL == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
