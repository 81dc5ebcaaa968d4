package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jerryli27/coffee-project/internal/model"
)

// CityClassifier maps a formatted address to a folder-safe city label.
type CityClassifier interface {
	Classify(ctx context.Context, address string) string
}

// Site writes the per-city page tree and the index under OutputDir.
type Site struct {
	Classifier CityClassifier
	OutputDir  string
	// Markdown, when set, also writes a .md copy next to each page.
	Markdown *Markdown
	Logger   *slog.Logger
}

// Result describes what Write produced.
type Result struct {
	ByCity map[string][]Page
	// Cities maps place IDs to the city label their page was filed under.
	Cities    map[string]string
	IndexPath string
	Images    int
}

// Pages returns the number of page files written. Two records with the
// same sanitized name in one city share a file; the later write wins and
// both are counted.
func (r *Result) Pages() int {
	n := 0
	for _, pages := range r.ByCity {
		n += len(pages)
	}
	return n
}

// Write renders every record into <out>/<city>/<name>.html, saves its photos
// under <out>/<city>/images and finishes with <out>/index.html. A record that
// fails to render is logged and skipped; only failing to create the output
// root or to write the index is an error.
func (s *Site) Write(ctx context.Context, records []model.EnrichedRecord) (*Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	res := &Result{ByCity: make(map[string][]Page), Cities: make(map[string]string)}
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := &records[i]
		label := s.Classifier.Classify(ctx, rec.FormattedAddress)

		page, images, err := s.writePage(rec, label, logger)
		if err != nil {
			logger.Warn("error generating page", "name", rec.DisplayName(), "error", err)
			continue
		}
		res.ByCity[label] = append(res.ByCity[label], page)
		if rec.PlaceID != "" {
			res.Cities[rec.PlaceID] = label
		}
		res.Images += images
		logger.Info("generated page", "path", page.Path, "images", images)
	}

	index, err := Index(records, res.ByCity)
	if err != nil {
		return nil, err
	}
	res.IndexPath = filepath.Join(s.OutputDir, "index.html")
	if err := os.WriteFile(res.IndexPath, []byte(index), 0o644); err != nil {
		return nil, fmt.Errorf("writing index: %w", err)
	}

	logger.Info("generated site", "pages", res.Pages(), "cities", len(res.ByCity), "dir", s.OutputDir)
	return res, nil
}

func (s *Site) writePage(rec *model.EnrichedRecord, label string, logger *slog.Logger) (Page, int, error) {
	cityDir := filepath.Join(s.OutputDir, label)
	if err := os.MkdirAll(cityDir, 0o755); err != nil {
		return Page{}, 0, fmt.Errorf("creating city dir: %w", err)
	}

	paths, err := SaveImages(rec, cityDir)
	if err != nil {
		// Keep whatever was written before the failure.
		logger.Warn("error saving images", "name", rec.DisplayName(), "error", err)
	}

	html, err := ShopPage(rec, paths)
	if err != nil {
		return Page{}, 0, err
	}

	safe := SanitizeName(rec.Name)
	if err := os.WriteFile(filepath.Join(cityDir, safe+".html"), []byte(html), 0o644); err != nil {
		return Page{}, 0, fmt.Errorf("writing page: %w", err)
	}

	if s.Markdown != nil {
		md, err := s.Markdown.Convert(html)
		if err == nil {
			err = os.WriteFile(filepath.Join(cityDir, safe+".md"), []byte(md), 0o644)
		}
		if err != nil {
			logger.Warn("error writing markdown copy", "name", rec.DisplayName(), "error", err)
		}
	}

	return Page{Path: strings.Join([]string{label, safe + ".html"}, "/"), Record: rec}, len(paths), nil
}
