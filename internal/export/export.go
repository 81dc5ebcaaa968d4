// Package export flattens enriched records into OutputRows and writes them
// as CSV and GeoJSON. Parquet output goes through the store.
package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jerryli27/coffee-project/internal/model"
)

// Columns is the header of every tabular output, in order.
var Columns = []string{
	"place_id", "name", "original_title", "formatted_address", "vicinity",
	"rating", "user_ratings_total", "price_level", "phone", "website",
	"business_status", "google_url", "original_url", "note", "tags", "comment",
	"types", "latitude", "longitude", "open_now", "hours", "photo_count",
	"photo_reference", "review_count", "recent_review", "review_en", "review_zh",
}

const recentReviewLen = 200

// ToRows flattens records. A record that cannot be flattened is logged and
// left out; the rest of the batch is unaffected.
func ToRows(records []model.EnrichedRecord, logger *slog.Logger) []model.OutputRow {
	if logger == nil {
		logger = slog.Default()
	}
	rows := make([]model.OutputRow, 0, len(records))
	for i := range records {
		row, err := toRow(&records[i])
		if err != nil {
			logger.Warn("error processing shop data", "place_id", records[i].PlaceID, "error", err)
			continue
		}
		rows = append(rows, row)
	}
	logger.Info("built output rows", "rows", len(rows))
	return rows
}

func toRow(rec *model.EnrichedRecord) (row model.OutputRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("flattening record: %v", r)
		}
	}()

	row = model.OutputRow{
		PlaceID:          rec.PlaceID,
		Name:             rec.Name,
		OriginalTitle:    rec.OriginalTitle(),
		FormattedAddress: rec.FormattedAddress,
		Vicinity:         rec.Vicinity,
		Rating:           rec.Rating,
		UserRatingsTotal: rec.UserRatingsTotal,
		PriceLevel:       rec.PriceLevel,
		Phone:            rec.FormattedPhoneNumber,
		Website:          rec.Website,
		BusinessStatus:   rec.BusinessStatus,
		GoogleURL:        rec.URL,
		OriginalURL:      rec.OriginalURL(),
		Note:             rec.Source.Note,
		Tags:             rec.Source.Tags,
		Comment:          rec.Source.Comment,
		Types:            strings.Join(rec.Types, ", "),
	}

	if rec.Geometry != nil {
		lat, lng := rec.Geometry.Location.Lat, rec.Geometry.Location.Lng
		row.Latitude, row.Longitude = &lat, &lng
	}
	if rec.OpeningHours != nil {
		row.OpenNow = rec.OpeningHours.OpenNow
		row.Hours = strings.Join(rec.OpeningHours.WeekdayText, "\n")
	}
	if rec.Photos != nil {
		n := len(rec.Photos)
		row.PhotoCount = &n
		if n > 0 {
			row.PhotoReference = rec.Photos[0].PhotoReference
		}
	}
	if rec.Reviews != nil {
		n := len(rec.Reviews)
		row.ReviewCount = &n
		if n > 0 {
			row.RecentReview = truncate(rec.Reviews[0].Text, recentReviewLen) + "..."
		}
	}
	if rec.GeneratedReviews != nil {
		row.ReviewEN = rec.GeneratedReviews.EN
		row.ReviewZH = rec.GeneratedReviews.ZH
	}
	return row, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Record returns row as CSV cells in Columns order. Absent values are
// empty cells.
func Record(row model.OutputRow) []string {
	return []string{
		row.PlaceID, row.Name, row.OriginalTitle, row.FormattedAddress, row.Vicinity,
		formatFloat(row.Rating), formatInt(row.UserRatingsTotal), formatInt(row.PriceLevel),
		row.Phone, row.Website, row.BusinessStatus, row.GoogleURL, row.OriginalURL,
		row.Note, row.Tags, row.Comment, row.Types,
		formatFloat(row.Latitude), formatFloat(row.Longitude), formatBool(row.OpenNow),
		row.Hours, formatInt(row.PhotoCount), row.PhotoReference,
		formatInt(row.ReviewCount), row.RecentReview, row.ReviewEN, row.ReviewZH,
	}
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// WriteCSV writes rows with a header line to path, creating parent
// directories as needed.
func WriteCSV(path string, rows []model.OutputRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(Record(row)); err != nil {
			return fmt.Errorf("writing row %s: %w", row.PlaceID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
