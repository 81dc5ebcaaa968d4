package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/jerryli27/coffee-project/internal/model"
)

const (
	maxImages   = 10
	unknownShop = "Unknown Coffee Shop"
)

// SanitizeName keeps letters, digits, spaces, hyphens and underscores,
// trims trailing spaces and turns spaces into underscores.
func SanitizeName(name string) string {
	if name == "" {
		name = unknownShop
	}
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, name)
	safe = strings.TrimRight(safe, " ")
	return strings.ReplaceAll(safe, " ", "_")
}

// SaveImages writes up to ten downloaded photos of rec to cityDir/images and
// returns their paths relative to cityDir. Photos without bytes are skipped;
// the file index is the photo's 1-based position in the list.
func SaveImages(rec *model.EnrichedRecord, cityDir string) ([]string, error) {
	photos := rec.Photos
	if len(photos) > maxImages {
		photos = photos[:maxImages]
	}
	if len(photos) == 0 {
		return nil, nil
	}

	imagesDir := filepath.Join(cityDir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating images dir: %w", err)
	}

	safe := SanitizeName(rec.Name)
	var paths []string
	for i, p := range photos {
		if len(p.Bytes) == 0 {
			continue
		}
		filename := fmt.Sprintf("%s_%d.jpg", safe, i+1)
		if err := os.WriteFile(filepath.Join(imagesDir, filename), p.Bytes, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", filename, err)
		}
		paths = append(paths, "images/"+filename)
	}
	return paths, nil
}
