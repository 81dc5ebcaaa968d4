package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all user-facing configuration for cafe-map.
type Config struct {
	Data    DataConfig    `toml:"data"`
	Output  OutputConfig  `toml:"output"`
	Places  PlacesConfig  `toml:"places"`
	LLM     LLMConfig     `toml:"llm"`
	Server  ServerConfig  `toml:"server"`
	Publish PublishConfig `toml:"publish"`
}

type DataConfig struct {
	Dir string `toml:"dir"`
}

type OutputConfig struct {
	Dir      string `toml:"dir"`
	Format   string `toml:"format"`
	Markdown bool   `toml:"markdown"`
}

type PlacesConfig struct {
	PhotoMaxWidth     uint `toml:"photo_max_width"`
	PhotoMaxHeight    uint `toml:"photo_max_height"`
	PhotoTimeoutMS    int  `toml:"photo_timeout_ms"`
	DetailsIntervalMS int  `toml:"details_interval_ms"`
	PhotoIntervalMS   int  `toml:"photo_interval_ms"`
	DownloadPhotos    bool `toml:"download_photos"`
}

type LLMConfig struct {
	Provider          string      `toml:"provider"`
	ReviewMaxTokens   int         `toml:"review_max_tokens"`
	ReviewTemperature float64     `toml:"review_temperature"`
	ReviewIntervalMS  int         `toml:"review_interval_ms"`
	Anthropic         ModelConfig `toml:"anthropic"`
	OpenAI            ModelConfig `toml:"openai"`
}

// ModelConfig names the models used for each prompt of one provider.
type ModelConfig struct {
	ReviewModel string `toml:"review_model"`
	CityModel   string `toml:"city_model"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type PublishConfig struct {
	Bucket string `toml:"bucket"`
	Prefix string `toml:"prefix"`
	Region string `toml:"region"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Data:   DataConfig{Dir: "data"},
		Output: OutputConfig{Dir: "output", Format: "parquet"},
		Places: PlacesConfig{
			PhotoMaxWidth:     800,
			PhotoMaxHeight:    800,
			PhotoTimeoutMS:    30000,
			DetailsIntervalMS: 100,
			PhotoIntervalMS:   200,
			DownloadPhotos:    true,
		},
		LLM: LLMConfig{
			Provider:          "anthropic",
			ReviewMaxTokens:   1500,
			ReviewTemperature: 1.0,
			ReviewIntervalMS:  1000,
			Anthropic: ModelConfig{
				ReviewModel: "claude-sonnet-4-20250514",
				CityModel:   "claude-3-5-haiku-20241022",
			},
			OpenAI: ModelConfig{
				ReviewModel: "gpt-4o",
				CityModel:   "gpt-4o-mini",
			},
		},
		Server:  ServerConfig{Host: "localhost", Port: 8080},
		Publish: PublishConfig{Region: "us-east-1"},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Models returns the model names of the configured text provider.
func (c LLMConfig) Models() ModelConfig {
	if c.Provider == "openai" {
		return c.OpenAI
	}
	return c.Anthropic
}

func (c PlacesConfig) PhotoTimeout() time.Duration {
	return time.Duration(c.PhotoTimeoutMS) * time.Millisecond
}

func (c PlacesConfig) DetailsInterval() time.Duration {
	return time.Duration(c.DetailsIntervalMS) * time.Millisecond
}

func (c PlacesConfig) PhotoInterval() time.Duration {
	return time.Duration(c.PhotoIntervalMS) * time.Millisecond
}

func (c LLMConfig) ReviewInterval() time.Duration {
	return time.Duration(c.ReviewIntervalMS) * time.Millisecond
}
