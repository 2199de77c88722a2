package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizgen/internal/logger"
	"github.com/abhisek/quizgen/internal/store"
)

// NewBaseProvider creates the bare SDK-backed Provider selected by cfg,
// without any middleware.
func NewBaseProvider(ctx context.Context, cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return base, nil
}

// NewProvider creates a Provider from configuration, wrapped with logging
// middleware: caller → logging → base. Retries are applied by the caller
// (see questiongen.Client) so that retry policy stays next to the code
// that owns it.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	base, err := NewBaseProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return WithLogging(base, cfg.Provider, eventRepo, log), nil
}

// NewProviderFromEnv is NewProvider with ConfigFromEnv.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, log *logger.Logger) (Provider, Config, error) {
	cfg := ConfigFromEnv()
	p, err := NewProvider(ctx, cfg, eventRepo, log)
	return p, cfg, err
}
