package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/parsererror"
)

// DefaultOllamaHost is where a stock Ollama install listens.
const DefaultOllamaHost = "http://localhost:11434"

// OllamaClient calls the Ollama chat endpoint of a local server.
type OllamaClient struct {
	endpoint    string
	model       string
	temperature float64
	client      *http.Client
}

// NewOllamaClient creates a client for host (a bare "host:port" is
// accepted) and model. A zero timeout means no client-side timeout.
func NewOllamaClient(host, model string, temperature float64, timeout time.Duration) *OllamaClient {
	if model == "" {
		model = "mistral"
	}
	return &OllamaClient{
		endpoint:    normalizeHost(host),
		model:       model,
		temperature: temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return DefaultOllamaHost
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/")
}

// Chat sends prompt as a single user message and returns the reply.
func (c *OllamaClient) Chat(ctx context.Context, prompt string) (string, error) {
	req := ollamaChatRequest{
		Model:    c.model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Options:  &ollamaOptions{Temperature: c.temperature},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", &parsererror.LLMError{Provider: config.ProviderOllama, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(bodyBytes))
		var apiErr ollamaError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return "", &parsererror.LLMError{Provider: config.ProviderOllama, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	var result ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &parsererror.LLMError{Provider: config.ProviderOllama, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return strings.TrimSpace(result.Message.Content), nil
}

// Name returns the engine name.
func (c *OllamaClient) Name() string {
	return fmt.Sprintf("ollama:%s", c.model)
}

// Endpoint returns the base URL requests are sent to.
func (c *OllamaClient) Endpoint() string {
	return c.endpoint
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}
