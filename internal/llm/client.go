// Package llm talks to the language model backends: a local Ollama server
// (default) or the hosted Gemini API.
package llm

import (
	"context"
	"fmt"
	"time"

	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/logging"
)

// Client sends a single-turn prompt and returns the model's reply text.
type Client interface {
	Chat(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend and model for logs, e.g. "ollama:mistral".
	Name() string
}

// New builds the client selected by cfg.Provider, wrapped with a rate
// limiter when cfg.RequestsPerMinute > 0.
func New(ctx context.Context, cfg config.LLMConfig, logger logging.Logger) (Client, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	var client Client
	switch cfg.Provider {
	case config.ProviderOllama, "":
		client = NewOllamaClient(cfg.Host, cfg.Model, cfg.Temperature, timeout)
	case config.ProviderGemini:
		gc, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, timeout)
		if err != nil {
			return nil, err
		}
		client = gc
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}

	logger.Info("LLM client ready",
		logging.F(logging.FieldProvider, cfg.Provider),
		logging.F(logging.FieldModel, client.Name()))

	if cfg.RequestsPerMinute > 0 {
		return NewRateLimited(client, cfg.RequestsPerMinute), nil
	}
	return client, nil
}

// Close releases backend resources when the client holds any.
func Close(c Client) error {
	if closer, ok := c.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
