package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != "parquet" {
		t.Errorf("expected parquet default, got %q", cfg.Output.Format)
	}
	if cfg.LLM.Models().ReviewModel != "claude-sonnet-4-20250514" {
		t.Errorf("unexpected review model %q", cfg.LLM.Models().ReviewModel)
	}
	if cfg.Places.DetailsInterval() != 100*time.Millisecond {
		t.Errorf("expected 100ms details interval, got %v", cfg.Places.DetailsInterval())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[output]
format = "csv"

[places]
download_photos = false

[llm]
provider = "openai"

[llm.openai]
city_model = "gpt-4.1-nano"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != "csv" {
		t.Errorf("expected csv, got %q", cfg.Output.Format)
	}
	if cfg.Places.DownloadPhotos {
		t.Error("expected download_photos=false")
	}
	if cfg.Places.PhotoMaxWidth != 800 {
		t.Errorf("expected untouched default width, got %d", cfg.Places.PhotoMaxWidth)
	}
	m := cfg.LLM.Models()
	if m.CityModel != "gpt-4.1-nano" {
		t.Errorf("expected overridden city model, got %q", m.CityModel)
	}
	if m.ReviewModel != "gpt-4o" {
		t.Errorf("expected default openai review model, got %q", m.ReviewModel)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[output\nformat="), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}
