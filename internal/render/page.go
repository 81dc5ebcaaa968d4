// Package render produces the static HTML site: one page per shop, grouped
// into city folders, plus an index.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/jerryli27/coffee-project/internal/model"
)

type shopView struct {
	Name        string
	Address     string
	Rating      string
	RatingCount int
	Phone       string
	Website     string
	Hours       []string
	ReviewEN    string
	ReviewZH    string
	Images      []string
}

// ShopPage renders the standalone HTML page for one shop. imagePaths are
// relative to the page's own directory.
func ShopPage(rec *model.EnrichedRecord, imagePaths []string) (string, error) {
	v := shopView{
		Name:    rec.Name,
		Address: rec.FormattedAddress,
		Rating:  formatRating(rec.Rating),
		Phone:   rec.FormattedPhoneNumber,
		Website: rec.Website,
		Images:  imagePaths,
	}
	if v.Name == "" {
		v.Name = unknownShop
	}
	if v.Address == "" {
		v.Address = "Address not available"
	}
	if rec.UserRatingsTotal != nil {
		v.RatingCount = *rec.UserRatingsTotal
	}
	if rec.OpeningHours != nil {
		v.Hours = rec.OpeningHours.WeekdayText
	}
	if rec.GeneratedReviews != nil {
		v.ReviewEN = rec.GeneratedReviews.EN
		v.ReviewZH = rec.GeneratedReviews.ZH
	}

	var buf bytes.Buffer
	if err := shopTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("rendering %s: %w", v.Name, err)
	}
	return buf.String(), nil
}

func formatRating(r *float64) string {
	if r == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

var shopTmpl = template.Must(template.New("shop").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Name}}</title>
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; line-height: 1.6; color: #333; background-color: #f9f9f9; }
        .container { background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; margin-bottom: 20px; }
        h3 { color: #34495e; margin-top: 30px; margin-bottom: 15px; }
        h4 { color: #7f8c8d; margin-top: 20px; margin-bottom: 10px; }
        .rating { font-size: 1.2em; color: #f39c12; margin: 10px 0; }
        .address { font-size: 1.1em; color: #555; margin: 15px 0; padding: 10px; background: #ecf0f1; border-radius: 5px; }
        .photo-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(200px, 1fr)); gap: 15px; margin-top: 15px; }
        .photo { width: 100%; height: 200px; object-fit: cover; border-radius: 8px; box-shadow: 0 2px 5px rgba(0,0,0,0.2); }
        .review-block { background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 15px 0; border-left: 4px solid #3498db; }
        .review-block p { margin: 0; text-align: justify; }
        .hours-section ul { list-style: none; padding: 0; }
        .hours-section li { padding: 5px 0; border-bottom: 1px solid #ecf0f1; }
        .contact-section a { color: #3498db; text-decoration: none; }
        * { user-select: text; }
    </style>
</head>
<body>
    <div class="container">
        <h1>☕ {{.Name}}</h1>
        <div class="rating">⭐ {{.Rating}}/5 ({{.RatingCount}} reviews)</div>
        <div class="address">📍 {{.Address}}</div>
{{- if or .Phone .Website}}
        <div class="contact-section">
            <h3>📞 Contact Information</h3>
{{- if .Phone}}
            <p><strong>Phone:</strong> {{.Phone}}</p>
{{- end}}
{{- if .Website}}
            <p><strong>Website:</strong> <a href="{{.Website}}" target="_blank">{{.Website}}</a></p>
{{- end}}
        </div>
{{- end}}
{{- if .Hours}}
        <div class="hours-section">
            <h3>⏰ Opening Hours</h3>
            <ul>
{{- range .Hours}}
                <li>{{.}}</li>
{{- end}}
            </ul>
        </div>
{{- end}}
{{- if or .ReviewEN .ReviewZH}}
        <div class="reviews-section">
            <h3>📝 Work &amp; Study Review</h3>
{{- if .ReviewEN}}
            <div class="review-block" lang="en">
                <h4>🇺🇸 English Review</h4>
                <p>{{.ReviewEN}}</p>
            </div>
{{- end}}
{{- if .ReviewZH}}
            <div class="review-block" lang="zh">
                <h4>🇨🇳 中文评论</h4>
                <p>{{.ReviewZH}}</p>
            </div>
{{- end}}
        </div>
{{- end}}
{{- if .Images}}
        <div class="photos-section">
            <h3>📸 Photos</h3>
            <div class="photo-grid">
{{- range $i, $src := .Images}}
                <img src="{{$src}}" alt="Photo {{inc $i}}" class="photo">
{{- end}}
            </div>
        </div>
{{- end}}
    </div>
</body>
</html>
`))
