// Package llm wraps the text-generation providers behind one Complete call.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoTextSegment is returned when a response carries no text segment.
var ErrNoTextSegment = errors.New("response has no text segment")

// Request is one prompt sent to a text provider.
type Request struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Segment is one typed content block of a response.
type Segment struct {
	Type string
	Text string
}

// Usage reports token counts when the provider returns them.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is the provider output as a sequence of content segments.
type Response struct {
	Segments []Segment
	Usage    Usage
}

// FirstText returns the first text segment of the response.
func (r *Response) FirstText() (string, error) {
	if r != nil {
		for _, s := range r.Segments {
			if s.Type == "text" {
				return s.Text, nil
			}
		}
	}
	return "", ErrNoTextSegment
}

// Completer is implemented by every text provider.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// APIError is a provider-reported failure.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("API error (%s): %s", e.Type, e.Message)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Status, e.Message)
}
