// Package city derives a folder-safe city label from a formatted address.
package city

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/jerryli27/coffee-project/internal/llm"
	"golang.org/x/sync/singleflight"
)

// Unknown is the label for addresses that cannot be classified.
const Unknown = "Unknown_City"

// Cache maps exact address strings to labels. It is safe for concurrent use
// and is never invalidated.
type Cache struct {
	mu     sync.RWMutex
	labels map[string]string
}

func NewCache() *Cache {
	return &Cache{labels: make(map[string]string)}
}

func (c *Cache) Get(address string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	label, ok := c.labels[address]
	return label, ok
}

func (c *Cache) Put(address, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels[address] = label
}

// Len is the number of distinct addresses labelled so far.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.labels)
}

// Classifier labels addresses with a text model, falling back to a comma
// heuristic when no model is configured or the call fails.
type Classifier struct {
	client llm.Completer
	model  string
	cache  *Cache
	group  singleflight.Group
	logger *slog.Logger
}

// New creates a Classifier. client may be nil, in which case every address
// goes through Fallback. A nil cache gets a fresh one.
func New(client llm.Completer, model string, cache *Cache, logger *slog.Logger) *Classifier {
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{client: client, model: model, cache: cache, logger: logger}
}

// Classify returns the city label for address. Results, including
// Unknown, are cached by exact address string.
func (c *Classifier) Classify(ctx context.Context, address string) string {
	if address == "" {
		return Unknown
	}
	if label, ok := c.cache.Get(address); ok {
		return label
	}

	v, _, _ := c.group.Do(address, func() (any, error) {
		if label, ok := c.cache.Get(address); ok {
			return label, nil
		}
		label := c.resolve(ctx, address)
		c.cache.Put(address, label)
		return label, nil
	})
	return v.(string)
}

func (c *Classifier) resolve(ctx context.Context, address string) string {
	if c.client == nil {
		c.logger.Debug("no text provider configured, using fallback city parsing")
		return Fallback(address)
	}

	resp, err := c.client.Complete(ctx, llm.Request{
		Model:       c.model,
		Prompt:      buildPrompt(address),
		MaxTokens:   50,
		Temperature: 0,
	})
	if err == nil {
		var text string
		if text, err = resp.FirstText(); err == nil {
			return c.validate(address, strings.TrimSpace(text))
		}
	}
	c.logger.Warn("city extraction failed, using fallback", "address", address, "error", err)
	return Fallback(address)
}

func (c *Classifier) validate(address, name string) string {
	if name != "" && name != Unknown && len([]rune(name)) > 1 {
		clean := strings.Map(func(r rune) rune {
			if isAlnum(r) || r == '_' || r == '-' {
				return r
			}
			return -1
		}, name)
		if clean != "" {
			c.logger.Info("extracted city", "city", clean, "address", address)
			return clean
		}
	}
	c.logger.Warn("could not extract city from address", "address", address)
	return Unknown
}

func buildPrompt(address string) string {
	return `Extract the city name from this address: "` + address + `"

Return ONLY the city name, nothing else. If you cannot determine the city, return "Unknown_City".
Make the city name suitable for use as a folder name (replace spaces with underscores, remove special characters).

Examples:
- "123 Main St, New York, NY 10001, USA" -> "New_York"
- "456 Oak Ave, Los Angeles, CA, United States" -> "Los_Angeles"
- "789 Pine Rd, London, UK" -> "London"
- "321 Elm St, San Francisco, California" -> "San_Francisco"

Address: ` + address + `

City name:`
}

// Fallback guesses the city from the comma-separated address parts: the
// first part, excluding the last, that has no digit in its first three
// characters; failing that, the first non-numeric part of any position.
func Fallback(address string) string {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) >= 2 {
		for _, part := range parts[:len(parts)-1] {
			if isDigits(part) || hasDigitInPrefix(part, 3) {
				continue
			}
			if city := cleanSegment(part); len([]rune(city)) > 2 {
				return strings.ReplaceAll(city, " ", "_")
			}
		}
	}

	for _, part := range parts {
		city := cleanSegment(part)
		if city != "" && !isDigits(city) && len([]rune(city)) > 2 {
			return strings.ReplaceAll(city, " ", "_")
		}
	}
	return Unknown
}

func cleanSegment(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if isAlnum(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, s))
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func hasDigitInPrefix(s string, n int) bool {
	for i, r := range []rune(s) {
		if i == n {
			break
		}
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
