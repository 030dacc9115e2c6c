package insights

import (
	"context"
	"fmt"

	"github.com/dicefinance/expense-dashboard/internal/pipeline"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.0-flash"

// Client calls Gemini to generate recommendations and chat replies.
// It satisfies Generator.
type Client struct {
	model string
	log   zerolog.Logger
}

// NewClient creates an insight client for the given model name. An empty
// model selects DefaultModelName.
func NewClient(model string, log zerolog.Logger) *Client {
	if model == "" {
		model = DefaultModelName
	}
	return &Client{model: model, log: log}
}

// AnalyzeBatch asks the model for 4-5 actionable insights over the batch and
// parses its reply into structured records. On any failure, or when the
// reply contains no records, the fixed fallback list is returned instead.
func (c *Client) AnalyzeBatch(ctx context.Context, analytics pipeline.AnalyticsSnapshot, transactions []pipeline.Transaction) []Recommendation {
	reply, err := c.generate(ctx, buildAnalysisPrompt(analytics, transactions))
	if err != nil {
		c.log.Warn().Err(err).Msg("Insight generation failed, using fallback recommendations")
		return FallbackRecommendations()
	}

	recommendations := ParseRecommendations(reply)
	if len(recommendations) == 0 {
		c.log.Warn().Msg("Model reply contained no recommendation records, using fallback")
		return FallbackRecommendations()
	}
	return recommendations
}

// Chat answers a free-form question about the current batch. A remote
// failure degrades to a canned reply built from the context numbers.
func (c *Client) Chat(ctx context.Context, message string, chatCtx ChatContext) string {
	reply, err := c.generate(ctx, buildChatPrompt(message, chatCtx))
	if err != nil {
		c.log.Warn().Err(err).Msg("Chat generation failed, using fallback reply")
		return fallbackChatReply(message, chatCtx)
	}
	return reply
}

// generate sends one prompt to the model and returns its text reply.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("generate: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("generate: empty response from model")
	}
	return text, nil
}
