// Package enricher merges provider place details into source records.
package enricher

import (
	"context"
	"log/slog"
	"time"

	"github.com/jerryli27/coffee-project/internal/model"
	"github.com/jerryli27/coffee-project/internal/places"
	"github.com/jerryli27/coffee-project/internal/throttle"
)

// DetailFetcher is the subset of the place provider used for enrichment.
type DetailFetcher interface {
	Details(ctx context.Context, placeID string, fields []string) (*model.PlaceDetail, error)
	Photo(ctx context.Context, reference string, maxWidth, maxHeight uint) ([]byte, error)
}

// Options controls photo downloads and pacing.
type Options struct {
	DownloadPhotos  bool
	PhotoMaxWidth   uint
	PhotoMaxHeight  uint
	PhotoTimeout    time.Duration
	DetailsInterval time.Duration
	PhotoInterval   time.Duration
}

// Enricher fetches details for each record.
type Enricher struct {
	provider DetailFetcher
	opts     Options
	details  *throttle.Limiter
	photos   *throttle.Limiter
	logger   *slog.Logger
}

// New creates an Enricher. A nil logger uses slog.Default.
func New(provider DetailFetcher, opts Options, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		provider: provider,
		opts:     opts,
		details:  throttle.Every(opts.DetailsInterval),
		photos:   throttle.Every(opts.PhotoInterval),
		logger:   logger,
	}
}

// Enrich returns one merged record per source record whose details could be
// fetched. Records without an identifier or whose lookup fails are dropped
// with a warning. It returns early with what it has when ctx is cancelled.
func (e *Enricher) Enrich(ctx context.Context, records []model.SourceRecord) ([]model.EnrichedRecord, error) {
	var out []model.EnrichedRecord
	for _, src := range records {
		if src.PlaceID == "" {
			e.logger.Warn("no place ID for record", "title", src.OriginalTitle)
			continue
		}
		if err := e.details.Wait(ctx); err != nil {
			return out, err
		}

		e.logger.Info("enriching", "title", src.OriginalTitle, "place_id", src.PlaceID)
		detail, err := e.provider.Details(ctx, src.PlaceID, places.DetailFields)
		if err != nil || detail == nil {
			e.logger.Warn("could not get details", "place_id", src.PlaceID, "error", err)
			continue
		}

		rec := model.Merge(src, *detail)
		if e.opts.DownloadPhotos && len(rec.Photos) > 0 {
			rec.Photos = e.downloadPhotos(ctx, rec.Name, rec.Photos)
		}
		out = append(out, rec)
	}
	e.logger.Info("enriched records", "records", len(out), "dropped", len(records)-len(out))
	return out, nil
}

// downloadPhotos fetches every photo binary. A photo that fails to download
// is removed from the returned list.
func (e *Enricher) downloadPhotos(ctx context.Context, name string, photos []model.Photo) []model.Photo {
	kept := make([]model.Photo, 0, len(photos))
	for i, p := range photos {
		if err := e.photos.Wait(ctx); err != nil {
			return kept
		}
		data, err := e.fetchPhoto(ctx, p.PhotoReference)
		if err != nil {
			e.logger.Warn("photo download failed", "name", name, "photo", i+1, "error", err)
			continue
		}
		p.Bytes = data
		kept = append(kept, p)
	}
	e.logger.Debug("downloaded photos", "name", name, "kept", len(kept), "total", len(photos))
	return kept
}

func (e *Enricher) fetchPhoto(ctx context.Context, ref string) ([]byte, error) {
	if e.opts.PhotoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.PhotoTimeout)
		defer cancel()
	}
	return e.provider.Photo(ctx, ref, e.opts.PhotoMaxWidth, e.opts.PhotoMaxHeight)
}
