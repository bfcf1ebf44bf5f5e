package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
)

const (
	defaultPerplexityBaseURL = "https://api.perplexity.ai"
	defaultPerplexityModel   = "sonar"
	perplexityTimeout        = 60 * time.Second
)

// PerplexityConfig holds configuration for the Perplexity agent
type PerplexityConfig struct {
	APIKey  string // Required
	BaseURL string // Optional
	Model   string // Optional, defaults to sonar
}

// PerplexityAgent implements ConversationalAgent against Perplexity's
// OpenAI-compatible chat API.
type PerplexityAgent struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

var _ repositories.ConversationalAgent = (*PerplexityAgent)(nil)

// NewPerplexityAgent creates a new Perplexity agent
func NewPerplexityAgent(config PerplexityConfig, logger *zap.Logger) (*PerplexityAgent, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("perplexity API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultPerplexityBaseURL
	}
	model := config.Model
	if model == "" {
		model = defaultPerplexityModel
	}

	return &PerplexityAgent{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: perplexityTimeout},
		logger:  logger,
	}, nil
}

// Process implements ConversationalAgent
func (a *PerplexityAgent) Process(ctx context.Context, prompt string) (*entities.AgentResponse, error) {
	payload := openAIChatRequest{
		Model:    a.model,
		Messages: []openAIMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &repositories.AgentError{
			HTTPCode: resp.StatusCode,
			Message:  string(respBody),
		}
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("perplexity returned no choices")
	}

	a.logger.Debug("Perplexity response received", zap.String("model", a.model))

	return &entities.AgentResponse{Text: chatResp.Choices[0].Message.Content}, nil
}

// ListModels implements ConversationalAgent. Perplexity has no model
// listing endpoint.
func (a *PerplexityAgent) ListModels(ctx context.Context) (string, error) {
	return "", repositories.ErrModelListingUnsupported
}
