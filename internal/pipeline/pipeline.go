// Package pipeline runs the enrichment stages end to end: load, enrich,
// review, render, export.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jerryli27/coffee-project/internal/city"
	"github.com/jerryli27/coffee-project/internal/enricher"
	"github.com/jerryli27/coffee-project/internal/export"
	"github.com/jerryli27/coffee-project/internal/llm"
	"github.com/jerryli27/coffee-project/internal/loader"
	"github.com/jerryli27/coffee-project/internal/model"
	"github.com/jerryli27/coffee-project/internal/places"
	"github.com/jerryli27/coffee-project/internal/render"
	"github.com/jerryli27/coffee-project/internal/review"
	"github.com/jerryli27/coffee-project/internal/store"
)

// TableName is the base name of the tabular outputs.
const TableName = "enriched_coffee_shops"

// Pipeline holds the collaborators shared by every run.
type Pipeline struct {
	Places places.Provider
	// Text may be nil: reviews are then skipped and cities come from the
	// address heuristic.
	Text   llm.Completer
	Store  *store.Store
	Logger *slog.Logger
}

// Options selects the input, the outputs and the optional stages of one run.
type Options struct {
	Input     string
	OutputDir string
	Format    string // "parquet" or "csv"
	GeoJSON   bool
	Reviews   bool
	HTML      bool
	Markdown  bool

	Enrich enricher.Options
	Review review.Options
	// CityModel is the model used for city labels when Text is set.
	CityModel string
}

// Result reports the counts and artifacts of a run.
type Result struct {
	RunID    string
	OutDir   string
	Loaded   int
	Enriched int
	Reviewed int
	Rows     int
	Pages    int
	Cities   []string

	// Addresses is the number of distinct addresses given a city label.
	Addresses int

	TablePath   string
	GeoJSONPath string
	IndexPath   string

	Records  []model.EnrichedRecord
	Duration time.Duration
}

// OutDir returns <outputDir>/<input file name without extension>.
func OutDir(outputDir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Run executes one pass. Only setup failures (unreadable input, store or
// output errors) are returned as errors; per-record failures shrink the
// counts instead. A run that loads or enriches nothing returns early with
// an empty Result.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	outDir := OutDir(opts.OutputDir, opts.Input)
	run, err := p.Store.BeginRun(opts.Input, outDir)
	if err != nil {
		return nil, err
	}
	res := &Result{RunID: run.ID, OutDir: outDir}
	finish := func() (*Result, error) {
		run.Loaded, run.Enriched, run.Reviewed, run.Pages = res.Loaded, res.Enriched, res.Reviewed, res.Pages
		if err := p.Store.FinishRun(run); err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
		res.Duration = time.Since(start)
		return res, nil
	}

	ld := &loader.Loader{Finder: p.Places, Logger: logger}
	sources, err := ld.Load(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	res.Loaded = len(sources)
	if len(sources) == 0 {
		logger.Warn("no coffee shops with place IDs found", "input", opts.Input)
		return finish()
	}

	records, err := enricher.New(p.Places, opts.Enrich, logger).Enrich(ctx, sources)
	if err != nil {
		return nil, err
	}
	res.Enriched = len(records)
	if len(records) == 0 {
		logger.Warn("no shops were enriched")
		return finish()
	}

	if opts.Reviews && p.Text != nil {
		records, err = review.New(p.Text, opts.Review, logger).GenerateAll(ctx, records)
		if err != nil {
			return nil, err
		}
		res.Reviewed = len(records)
	}
	res.Records = records

	cache := city.NewCache()
	cities := make(map[string]string)
	if opts.HTML {
		site := &render.Site{
			Classifier: city.New(p.Text, opts.CityModel, cache, logger),
			OutputDir:  res.OutDir,
			Logger:     logger,
		}
		if opts.Markdown {
			site.Markdown = render.NewMarkdown()
		}
		out, err := site.Write(ctx, records)
		if err != nil {
			return nil, err
		}
		res.Pages = out.Pages()
		res.IndexPath = out.IndexPath
		for label := range out.ByCity {
			res.Cities = append(res.Cities, label)
		}
		sort.Strings(res.Cities)
		cities = out.Cities
	}

	// Records without a rendered page still get a label for the store, from
	// the heuristic so no extra model calls are made.
	heuristic := city.New(nil, "", cache, logger)
	for i := range records {
		if _, ok := cities[records[i].PlaceID]; !ok {
			cities[records[i].PlaceID] = heuristic.Classify(ctx, records[i].FormattedAddress)
		}
	}
	res.Addresses = cache.Len()

	rows := export.ToRows(records, logger)
	res.Rows = len(rows)
	if err := p.Store.WriteShops(run.ID, rows, cities, city.Unknown); err != nil {
		return nil, fmt.Errorf("storing shops: %w", err)
	}

	switch opts.Format {
	case "csv":
		res.TablePath = filepath.Join(res.OutDir, TableName+".csv")
		err = export.WriteCSV(res.TablePath, rows)
	default:
		res.TablePath = filepath.Join(res.OutDir, TableName+".parquet")
		err = p.Store.ExportParquet(run.ID, res.TablePath)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("saved enriched data", "path", res.TablePath, "rows", res.Rows)

	if opts.GeoJSON {
		path := filepath.Join(res.OutDir, TableName+".geojson")
		ok, err := export.WriteGeoJSON(path, rows, logger)
		if err != nil {
			return nil, err
		}
		if ok {
			res.GeoJSONPath = path
		}
	}

	return finish()
}
