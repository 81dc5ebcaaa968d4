package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/jerryli27/coffee-project/internal/model"
)

// Page is one rendered shop page. Path is slash-separated and relative to
// the output root.
type Page struct {
	Path   string
	Record *model.EnrichedRecord
}

type indexCard struct {
	Href    string
	Name    string
	Address string
	Rating  string
}

type indexCity struct {
	Anchor  string
	Display string
	Cards   []indexCard
}

// Index renders the directory page. Cities are sorted by label and cards
// within a city by path. The shop total counts every record passed in, not
// only those that produced a page.
func Index(records []model.EnrichedRecord, byCity map[string][]Page) (string, error) {
	labels := make([]string, 0, len(byCity))
	for label := range byCity {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	cities := make([]indexCity, 0, len(labels))
	for _, label := range labels {
		pages := append([]Page(nil), byCity[label]...)
		sort.Slice(pages, func(i, j int) bool { return pages[i].Path < pages[j].Path })

		c := indexCity{Anchor: label, Display: strings.ReplaceAll(label, "_", " ")}
		for _, p := range pages {
			card := indexCard{
				Href:    p.Path,
				Name:    p.Record.Name,
				Address: p.Record.FormattedAddress,
				Rating:  formatRating(p.Record.Rating),
			}
			if card.Name == "" {
				card.Name = unknownShop
			}
			if card.Address == "" {
				card.Address = "Address not available"
			}
			c.Cards = append(c.Cards, card)
		}
		cities = append(cities, c)
	}

	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, struct {
		TotalShops  int
		TotalCities int
		Cities      []indexCity
	}{len(records), len(cities), cities})
	if err != nil {
		return "", fmt.Errorf("rendering index: %w", err)
	}
	return buf.String(), nil
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Coffee Shops Directory</title>
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; max-width: 1200px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
        .container { background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        h1 { color: #2c3e50; text-align: center; margin-bottom: 30px; border-bottom: 3px solid #3498db; padding-bottom: 15px; }
        .summary { text-align: center; margin-bottom: 30px; padding: 20px; background: #ecf0f1; border-radius: 8px; }
        .cities-nav { background: #34495e; padding: 15px; border-radius: 8px; margin-bottom: 30px; }
        .cities-nav h3 { color: white; margin: 0 0 10px 0; }
        .cities-nav a { color: #ecf0f1; text-decoration: none; margin-right: 15px; padding: 5px 10px; background: #2c3e50; border-radius: 4px; display: inline-block; margin-bottom: 5px; }
        .city-section { margin-bottom: 40px; }
        .city-section h2 { color: #2c3e50; border-left: 4px solid #3498db; padding-left: 15px; }
        .shop-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(300px, 1fr)); gap: 20px; }
        .shop-card { border: 1px solid #ddd; border-radius: 8px; padding: 20px; background: #fafafa; }
        .shop-card h3 { margin-top: 0; }
        .shop-card a { color: #2c3e50; text-decoration: none; }
        .address { color: #7f8c8d; font-size: 0.9em; }
        .rating { color: #f39c12; font-weight: bold; }
    </style>
</head>
<body>
    <div class="container">
        <h1>☕ Coffee Shops Directory</h1>
        <div class="summary">
            <p>📊 <strong>{{.TotalShops}} coffee shops</strong> across <strong>{{.TotalCities}} cities</strong> with detailed information, reviews, and photos</p>
            <p>Click on any coffee shop name to view its detailed page</p>
        </div>
        <div class="cities-nav">
            <h3>🗺️ Quick Navigation by City:</h3>
{{- range .Cities}}
            <a href="#{{.Anchor}}">{{.Display}}</a>
{{- end}}
        </div>
{{- range .Cities}}
        <div class="city-section" id="{{.Anchor}}">
            <h2>📍 {{.Display}} ({{len .Cards}} coffee shops)</h2>
            <div class="shop-grid">
{{- range .Cards}}
                <div class="shop-card">
                    <h3><a href="{{.Href}}">{{.Name}}</a></h3>
                    <p class="address">📍 {{.Address}}</p>
                    <p class="rating">⭐ {{.Rating}}/5</p>
                </div>
{{- end}}
            </div>
        </div>
{{- end}}
    </div>
</body>
</html>
`))
