package model

// RawRow is one line of the saved-places export.
type RawRow struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Note    string `json:"note"`
	Tags    string `json:"tags"`
	Comment string `json:"comment"`
}

// SourceRecord is a RawRow that resolved to a provider place identifier.
type SourceRecord struct {
	OriginalTitle string `json:"original_title"`
	Note          string `json:"note"`
	URL           string `json:"url"`
	Tags          string `json:"tags"`
	Comment       string `json:"comment"`
	PlaceID       string `json:"place_id,omitempty"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Geometry struct {
	Location LatLng `json:"location"`
}

type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// Photo is a provider photo reference. Bytes is only set when the photo
// binary was downloaded.
type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
	Bytes          []byte `json:"-"`
}

// Review is a customer review as returned by the place provider.
type Review struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// PlaceDetail holds the detail fields fetched for one place. Every field is
// optional; numeric fields are pointers so "absent" and "zero" differ.
type PlaceDetail struct {
	PlaceID              string        `json:"place_id"`
	Name                 string        `json:"name,omitempty"`
	FormattedAddress     string        `json:"formatted_address,omitempty"`
	Geometry             *Geometry     `json:"geometry,omitempty"`
	Rating               *float64      `json:"rating,omitempty"`
	UserRatingsTotal     *int          `json:"user_ratings_total,omitempty"`
	PriceLevel           *int          `json:"price_level,omitempty"`
	OpeningHours         *OpeningHours `json:"opening_hours,omitempty"`
	FormattedPhoneNumber string        `json:"formatted_phone_number,omitempty"`
	Website              string        `json:"website,omitempty"`
	Photos               []Photo       `json:"photos,omitempty"`
	Reviews              []Review      `json:"reviews,omitempty"`
	Types                []string      `json:"types,omitempty"`
	BusinessStatus       string        `json:"business_status,omitempty"`
	URL                  string        `json:"url,omitempty"`
	UTCOffset            *int          `json:"utc_offset,omitempty"`
	Vicinity             string        `json:"vicinity,omitempty"`
}

// GeneratedReview is a short bilingual review written by the text model.
type GeneratedReview struct {
	EN string `json:"en"`
	ZH string `json:"zh"`
}

// EnrichedRecord is a SourceRecord merged with its PlaceDetail. Fields of the
// embedded PlaceDetail win over same-named source fields (place_id, url);
// the untouched source record stays available under Source.
type EnrichedRecord struct {
	PlaceDetail
	Source           SourceRecord     `json:"source"`
	GeneratedReviews *GeneratedReview `json:"generated_reviews,omitempty"`
}

// Merge combines a source record with provider details, provider first.
func Merge(src SourceRecord, detail PlaceDetail) EnrichedRecord {
	if detail.PlaceID == "" {
		detail.PlaceID = src.PlaceID
	}
	src.PlaceID = detail.PlaceID
	return EnrichedRecord{PlaceDetail: detail, Source: src}
}

// OriginalTitle is the title from the input row.
func (r *EnrichedRecord) OriginalTitle() string { return r.Source.OriginalTitle }

// OriginalURL is the pre-merge URL from the input row.
func (r *EnrichedRecord) OriginalURL() string { return r.Source.URL }

// DisplayName returns the provider name, falling back to the input title.
func (r *EnrichedRecord) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Source.OriginalTitle
}

// OutputRow is the flat projection of an EnrichedRecord written to the
// tabular outputs. Nil pointers are empty cells.
type OutputRow struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	OriginalTitle    string   `json:"original_title"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level"`
	Phone            string   `json:"phone"`
	Website          string   `json:"website"`
	BusinessStatus   string   `json:"business_status"`
	GoogleURL        string   `json:"google_url"`
	OriginalURL      string   `json:"original_url"`
	Note             string   `json:"note"`
	Tags             string   `json:"tags"`
	Comment          string   `json:"comment"`
	Types            string   `json:"types"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	OpenNow          *bool    `json:"open_now"`
	Hours            string   `json:"hours"`
	PhotoCount       *int     `json:"photo_count"`
	PhotoReference   string   `json:"photo_reference"`
	ReviewCount      *int     `json:"review_count"`
	RecentReview     string   `json:"recent_review"`
	ReviewEN         string   `json:"review_en"`
	ReviewZH         string   `json:"review_zh"`
}

// Shop is an OutputRow as persisted, tagged with its run and city label.
type Shop struct {
	RunID string `json:"run_id"`
	City  string `json:"city"`
	OutputRow
}

// Run records one pipeline execution.
type Run struct {
	ID         string `json:"id"`
	Input      string `json:"input"`
	OutDir     string `json:"out_dir"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
	Loaded     int    `json:"loaded"`
	Enriched   int    `json:"enriched"`
	Reviewed   int    `json:"reviewed"`
	Pages      int    `json:"pages"`
}

// CitySummary is the number of shops filed under one city label.
type CitySummary struct {
	City  string `json:"city"`
	Shops int    `json:"shops"`
}
