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
	defaultDeepgramBaseURL    = "https://api.deepgram.com/v1"
	defaultDeepgramSpeakModel = "aura-2-thalia-en"
	deepgramTimeout           = 60 * time.Second
)

// DeepgramConfig holds configuration for the Deepgram agent
type DeepgramConfig struct {
	APIKey     string // Required
	BaseURL    string // Optional
	SpeakModel string // Optional, defaults to aura-2-thalia-en
}

// DeepgramAgent implements ConversationalAgent against Deepgram's agent
// API and synthesizes the reply through the Speak endpoint, so responses
// carry pre-synthesized audio and skip system TTS.
type DeepgramAgent struct {
	apiKey     string
	baseURL    string
	speakModel string
	client     *http.Client
	logger     *zap.Logger
}

var _ repositories.ConversationalAgent = (*DeepgramAgent)(nil)

type deepgramConverseRequest struct {
	Message string `json:"message"`
}

type deepgramConverseResponse struct {
	Reply string `json:"reply"`
}

type deepgramSpeakRequest struct {
	Text string `json:"text"`
}

// NewDeepgramAgent creates a new Deepgram agent
func NewDeepgramAgent(config DeepgramConfig, logger *zap.Logger) (*DeepgramAgent, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("deepgram API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultDeepgramBaseURL
	}
	speakModel := config.SpeakModel
	if speakModel == "" {
		speakModel = defaultDeepgramSpeakModel
	}

	return &DeepgramAgent{
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		speakModel: speakModel,
		client:     &http.Client{Timeout: deepgramTimeout},
		logger:     logger,
	}, nil
}

// Process implements ConversationalAgent
func (a *DeepgramAgent) Process(ctx context.Context, prompt string) (*entities.AgentResponse, error) {
	reply, err := a.converse(ctx, prompt)
	if err != nil {
		return nil, err
	}

	audio, err := a.synthesize(ctx, reply)
	if err != nil {
		// The reply is still usable; the orchestrator falls back to
		// system TTS when no audio is attached.
		a.logger.Warn("Deepgram speech synthesis failed, returning text only", zap.Error(err))
		return &entities.AgentResponse{Text: reply}, nil
	}

	return &entities.AgentResponse{Text: reply, Audio: audio}, nil
}

func (a *DeepgramAgent) converse(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(deepgramConverseRequest{Message: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal converse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/agent/converse", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create converse request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("converse request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read converse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &repositories.AgentError{
			HTTPCode: resp.StatusCode,
			Message:  string(respBody),
		}
	}

	var converseResp deepgramConverseResponse
	if err := json.Unmarshal(respBody, &converseResp); err != nil {
		return "", fmt.Errorf("failed to decode converse response: %w", err)
	}

	return converseResp.Reply, nil
}

func (a *DeepgramAgent) synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(deepgramSpeakRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speak request: %w", err)
	}

	url := fmt.Sprintf("%s/speak?model=%s", a.baseURL, a.speakModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create speak request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speak request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &repositories.AgentError{
			HTTPCode: resp.StatusCode,
			Message:  string(respBody),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speak audio: %w", err)
	}

	return audio, nil
}

// ListModels implements ConversationalAgent
func (a *DeepgramAgent) ListModels(ctx context.Context) (string, error) {
	return "", repositories.ErrModelListingUnsupported
}
