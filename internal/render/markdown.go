package render

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
)

// Markdown converts rendered shop pages into markdown, for pasting into
// posts that do not accept raw HTML.
type Markdown struct {
	conv *converter.Converter
}

func NewMarkdown() *Markdown {
	return &Markdown{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Convert returns the markdown form of page.
func (m *Markdown) Convert(page string) (string, error) {
	md, err := m.conv.ConvertString(page)
	if err != nil {
		return "", fmt.Errorf("converting to markdown: %w", err)
	}
	return md, nil
}
