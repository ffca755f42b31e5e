package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/parsererror"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when the configured model is the Ollama default.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiClient calls the Gemini API through the official SDK.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
}

// NewGeminiClient creates a Gemini client. apiKey is required.
func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float64, timeout time.Duration) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if model == "" || model == "mistral" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	gm := client.GenerativeModel(model)
	gm.SetTemperature(float32(temperature))

	return &GeminiClient{client: client, model: gm, name: model, timeout: timeout}, nil
}

// Chat sends prompt and concatenates the text parts of the first candidate.
func (c *GeminiClient) Chat(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &parsererror.LLMError{Provider: config.ProviderGemini, Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &parsererror.LLMError{Provider: config.ProviderGemini, Err: errors.New("no response from Gemini API")}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// Name returns the provider and model.
func (c *GeminiClient) Name() string {
	return "gemini:" + c.name
}

// Close releases the underlying SDK client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
