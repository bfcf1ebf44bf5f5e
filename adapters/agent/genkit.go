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

const genkitTimeout = 60 * time.Second

// GenkitConfig holds configuration for a self-hosted Genkit flow endpoint
type GenkitConfig struct {
	FlowURL string // Required, e.g. http://localhost:3400/conversationFlow
	APIKey  string // Optional bearer token
}

// GenkitAgent implements ConversationalAgent against a self-hosted Genkit
// flow. Flows can return structured device actions and tool calls natively.
type GenkitAgent struct {
	flowURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

var _ repositories.ConversationalAgent = (*GenkitAgent)(nil)

type genkitFlowRequest struct {
	Data struct {
		Message string `json:"message"`
	} `json:"data"`
}

type genkitFlowResponse struct {
	Result struct {
		Text      string                 `json:"text"`
		Action    *entities.DeviceAction `json:"action,omitempty"`
		ToolCalls []entities.ToolCall    `json:"tool_calls,omitempty"`
	} `json:"result"`
}

// NewGenkitAgent creates a new Genkit flow agent
func NewGenkitAgent(config GenkitConfig, logger *zap.Logger) (*GenkitAgent, error) {
	if config.FlowURL == "" {
		return nil, fmt.Errorf("genkit flow URL is required")
	}

	return &GenkitAgent{
		flowURL: config.FlowURL,
		apiKey:  config.APIKey,
		client:  &http.Client{Timeout: genkitTimeout},
		logger:  logger,
	}, nil
}

// Process implements ConversationalAgent
func (a *GenkitAgent) Process(ctx context.Context, prompt string) (*entities.AgentResponse, error) {
	var payload genkitFlowRequest
	payload.Data.Message = prompt

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal flow request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.flowURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create flow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flow request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &repositories.AgentError{
			HTTPCode: resp.StatusCode,
			Message:  string(respBody),
		}
	}

	var flowResp genkitFlowResponse
	if err := json.Unmarshal(respBody, &flowResp); err != nil {
		return nil, fmt.Errorf("failed to decode flow response: %w", err)
	}

	a.logger.Debug("Genkit flow response received",
		zap.Bool("hasAction", flowResp.Result.Action != nil),
		zap.Int("toolCalls", len(flowResp.Result.ToolCalls)))

	return &entities.AgentResponse{
		Text:      flowResp.Result.Text,
		Action:    flowResp.Result.Action,
		ToolCalls: flowResp.Result.ToolCalls,
	}, nil
}

// ListModels implements ConversationalAgent
func (a *GenkitAgent) ListModels(ctx context.Context) (string, error) {
	return "", repositories.ErrModelListingUnsupported
}
