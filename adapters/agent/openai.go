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
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
	openAITimeout        = 60 * time.Second
)

// OpenAIConfig holds configuration for the OpenAI agent
type OpenAIConfig struct {
	APIKey  string // Required
	BaseURL string // Optional, defaults to the public API
	Model   string // Optional, defaults to gpt-4o-mini
}

// OpenAIAgent implements ConversationalAgent using the OpenAI chat API
type OpenAIAgent struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

var _ repositories.ConversationalAgent = (*OpenAIAgent)(nil)

type openAIChatRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIAgent creates a new OpenAI agent
func NewOpenAIAgent(config OpenAIConfig, logger *zap.Logger) (*OpenAIAgent, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := config.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIAgent{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: openAITimeout},
		logger:  logger,
	}, nil
}

// Process implements ConversationalAgent
func (a *OpenAIAgent) Process(ctx context.Context, prompt string) (*entities.AgentResponse, error) {
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
		return nil, fmt.Errorf("openai returned no choices")
	}

	message := chatResp.Choices[0].Message
	response := &entities.AgentResponse{Text: message.Content}
	for _, tc := range message.ToolCalls {
		response.ToolCalls = append(response.ToolCalls, entities.ToolCall{
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	a.logger.Debug("OpenAI response received",
		zap.String("model", a.model),
		zap.Int("length", len(message.Content)),
		zap.Int("toolCalls", len(message.ToolCalls)))

	return response, nil
}

// ListModels implements ConversationalAgent, returning the raw model
// catalog JSON.
func (a *OpenAIAgent) ListModels(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/models", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create models request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("models request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read models response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &repositories.AgentError{
			HTTPCode: resp.StatusCode,
			Message:  string(body),
		}
	}

	return string(body), nil
}
