package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
)

// OpenAI calls the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI creates a client using the OPENAI_API_KEY env var. The SDK's
// automatic retries are disabled; every call is a single attempt.
func NewOpenAI(opts ...option.RequestOption) (*OpenAI, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	base := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(0)}
	return &OpenAI{client: openai.NewClient(append(base, opts...)...)}, nil
}

// Complete sends the prompt as a single user message. Each choice becomes a
// text segment.
func (c *OpenAI) Complete(ctx context.Context, r Request) (*Response, error) {
	completion, err := c.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model: openai.ChatModel(r.Model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(r.Prompt),
			},
			MaxTokens:   param.NewOpt(int64(r.MaxTokens)),
			Temperature: param.NewOpt(r.Temperature),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	out := &Response{
		Usage: Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
	}
	for _, choice := range completion.Choices {
		out.Segments = append(out.Segments, Segment{Type: "text", Text: choice.Message.Content})
	}
	return out, nil
}
