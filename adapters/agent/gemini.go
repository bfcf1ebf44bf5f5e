package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
)

const (
	defaultGeminiModel       = "gemini-2.0-flash"
	geminiTimeoutSeconds     = 60
	geminiMaxOutputTokens    = 1024
	geminiDefaultTemperature = 0.7
)

// GeminiConfig holds configuration for the Gemini agent
type GeminiConfig struct {
	APIKey string // Required
	Model  string // Optional, defaults to gemini-2.0-flash
}

// GeminiAgent implements ConversationalAgent using Google's Gemini API
type GeminiAgent struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

var _ repositories.ConversationalAgent = (*GeminiAgent)(nil)

// NewGeminiAgent creates a new Gemini agent
func NewGeminiAgent(config GeminiConfig, logger *zap.Logger) (*GeminiAgent, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiAgent{
		client: client,
		logger: logger,
		model:  model,
	}, nil
}

// Process implements ConversationalAgent
func (g *GeminiAgent) Process(ctx context.Context, prompt string) (*entities.AgentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiTimeoutSeconds*time.Second)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(geminiDefaultTemperature)),
		MaxOutputTokens: geminiMaxOutputTokens,
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	g.logger.Debug("Gemini response received",
		zap.String("model", g.model),
		zap.Int("length", len(text)))

	return &entities.AgentResponse{Text: text}, nil
}

// ListModels implements ConversationalAgent. The Gemini backend exposes no
// model registry through this adapter.
func (g *GeminiAgent) ListModels(ctx context.Context) (string, error) {
	return "", repositories.ErrModelListingUnsupported
}
