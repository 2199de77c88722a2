package questiongen

import (
	"context"
	"errors"

	"github.com/abhisek/quizgen/internal/llm"
)

// systemPrompt sets the model's role for every generation call.
const systemPrompt = `You are an experienced teacher who writes clear, accurate quiz questions.
Always answer with a single JSON object and nothing else.`

// Client makes one model call per Call, retrying transport and service
// failures with exponential backoff. Malformed output is never retried.
type Client struct {
	provider    llm.Provider
	schema      *llm.Schema
	maxRetries  int
	maxTokens   int
	temperature float64
}

// NewClient wraps provider with the retry policy in cfg.Retry.
func NewClient(provider llm.Provider, cfg Config) *Client {
	var schema *llm.Schema
	if cfg.StructuredOutput {
		schema = StructuredEnvelopeSchema
	}
	return &Client{
		provider:    llm.WithRetry(provider, cfg.Retry),
		schema:      schema,
		maxRetries:  cfg.Retry.MaxRetries,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// MaxRetries returns the number of retries after the first attempt.
func (c *Client) MaxRetries() int { return c.maxRetries }

// ModelID returns the underlying model identifier.
func (c *Client) ModelID() string { return c.provider.ModelID() }

// Call sends prompt and returns the model's raw text.
//
// Errors: *ServiceError once retries are exhausted or the call is
// abandoned; *ParseError when the model replied with unusable output
// (truncated, or failing the structured-output schema).
func (c *Client) Call(ctx context.Context, prompt string) (string, error) {
	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:      c.schema,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err == nil {
		return resp.Text(), nil
	}

	var (
		exhausted *llm.ErrRetriesExhausted
		maxTok    *llm.ErrMaxTokensExceeded
		invalid   *llm.ErrInvalidResponse
	)
	switch {
	case errors.As(err, &exhausted):
		return "", &ServiceError{Attempts: exhausted.Attempts, Err: exhausted.Err}
	case errors.As(err, &maxTok):
		return "", newParseError(string(maxTok.Content), err)
	case errors.As(err, &invalid):
		return "", newParseError(string(invalid.Content), err)
	default:
		return "", &ServiceError{Err: err}
	}
}
