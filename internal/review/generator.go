// Package review asks a text model for short bilingual work/study reviews.
package review

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/jerryli27/coffee-project/internal/llm"
	"github.com/jerryli27/coffee-project/internal/model"
	"github.com/jerryli27/coffee-project/internal/throttle"
	"github.com/microcosm-cc/bluemonday"
)

// Sentinels stored in place of a review that could not be generated.
const (
	FailedEN = "Review generation failed"
	FailedZH = "评论生成失败"
)

// Options configures the model call and pacing.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Interval    time.Duration
}

// Generator writes reviews through a text provider.
type Generator struct {
	client llm.Completer
	opts   Options
	pace   *throttle.Limiter
	policy *bluemonday.Policy
	logger *slog.Logger
}

// New creates a Generator. A nil logger uses slog.Default.
func New(client llm.Completer, opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		client: client,
		opts:   opts,
		pace:   throttle.Every(opts.Interval),
		policy: bluemonday.StrictPolicy(),
		logger: logger,
	}
}

// Failed is the review stored when generation fails entirely.
func Failed() model.GeneratedReview {
	return model.GeneratedReview{EN: FailedEN, ZH: FailedZH}
}

// Generate returns a review for one record. It never fails: any error
// yields the failure sentinels, and a missing language gets its sentinel.
func (g *Generator) Generate(ctx context.Context, rec *model.EnrichedRecord) (out model.GeneratedReview) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("review generation panicked", "name", rec.DisplayName(), "panic", r)
			out = Failed()
		}
	}()

	resp, err := g.client.Complete(ctx, llm.Request{
		Model:       g.opts.Model,
		Prompt:      buildPrompt(rec),
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		g.logger.Warn("review generation failed", "name", rec.DisplayName(), "error", err)
		return Failed()
	}
	text, err := resp.FirstText()
	if err != nil {
		g.logger.Warn("review generation failed", "name", rec.DisplayName(), "error", err)
		return Failed()
	}

	obj, err := llm.ExtractObject(text)
	if err != nil {
		g.logger.Warn("could not parse review response", "name", rec.DisplayName(), "error", err)
		return Failed()
	}

	out = model.GeneratedReview{
		EN: g.field(obj, "en", FailedEN),
		ZH: g.field(obj, "zh", FailedZH),
	}
	g.logger.Info("generated review", "name", rec.DisplayName())
	return out
}

// field reads a non-empty string value and strips any markup from it.
func (g *Generator) field(obj map[string]any, key, sentinel string) string {
	s, ok := obj[key].(string)
	if !ok {
		return sentinel
	}
	s = strings.TrimSpace(html.UnescapeString(g.policy.Sanitize(s)))
	if s == "" {
		return sentinel
	}
	return s
}

// GenerateAll attaches a review to every record, pacing calls by the
// configured interval. Records are copied; the input slice is untouched.
func (g *Generator) GenerateAll(ctx context.Context, records []model.EnrichedRecord) ([]model.EnrichedRecord, error) {
	out := make([]model.EnrichedRecord, 0, len(records))
	for i := range records {
		if err := g.pace.Wait(ctx); err != nil {
			return append(out, records[i:]...), fmt.Errorf("generating reviews: %w", err)
		}
		rec := records[i]
		g.logger.Info("generating review", "name", rec.DisplayName(), "n", i+1, "of", len(records))
		review := g.Generate(ctx, &rec)
		rec.GeneratedReviews = &review
		out = append(out, rec)
	}
	return out, nil
}
