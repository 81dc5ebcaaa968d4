package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jerryli27/coffee-project/internal/model"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// WriteGeoJSON writes one point feature per row that has both coordinates.
// When no row carries a latitude, or none carries a longitude, the export is
// skipped with a warning and false is returned with a nil error.
func WriteGeoJSON(path string, rows []model.OutputRow, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var hasLat, hasLng bool
	for _, row := range rows {
		hasLat = hasLat || row.Latitude != nil
		hasLng = hasLng || row.Longitude != nil
	}
	if !hasLat || !hasLng {
		logger.Warn("no coordinates in output rows, skipping GeoJSON export", "path", path)
		return false, nil
	}

	fc := geojson.NewFeatureCollection()
	for _, row := range rows {
		if row.Latitude == nil || row.Longitude == nil {
			continue
		}
		f := geojson.NewFeature(orb.Point{*row.Longitude, *row.Latitude})
		cells := Record(row)
		for i, col := range Columns {
			if col == "latitude" || col == "longitude" {
				continue
			}
			f.Properties[col] = propertyValue(row, col, cells[i])
		}
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return false, fmt.Errorf("encoding GeoJSON: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("exported places to GeoJSON", "features", len(fc.Features), "path", path)
	return true, nil
}

// propertyValue keeps numeric and boolean columns typed in the feature
// properties; absent values become null.
func propertyValue(row model.OutputRow, col, cell string) any {
	switch col {
	case "rating":
		return deref(row.Rating)
	case "user_ratings_total":
		return deref(row.UserRatingsTotal)
	case "price_level":
		return deref(row.PriceLevel)
	case "open_now":
		return deref(row.OpenNow)
	case "photo_count":
		return deref(row.PhotoCount)
	case "review_count":
		return deref(row.ReviewCount)
	}
	return cell
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
