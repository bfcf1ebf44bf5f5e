package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
)

// OfflineAgent is the embedded fallback backend: no network, never fails.
// It answers from a small keyword table so the assistant stays usable when
// every remote backend is unreachable.
type OfflineAgent struct {
	logger *zap.Logger
}

var _ repositories.ConversationalAgent = (*OfflineAgent)(nil)

var offlineReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"hello", "hi ", "hey", "bonjour", "salut"}, "Hello! I'm running in offline mode, so I can only help with simple things right now."},
	{[]string{"time", "heure"}, "I can't check the time in offline mode, but your device clock should have it."},
	{[]string{"weather", "météo", "meteo"}, "I need a network connection to check the weather. Try again once you're back online."},
	{[]string{"thank", "merci"}, "You're welcome!"},
	{[]string{"who are you", "qui es-tu", "qui es tu"}, "I'm your voice assistant, currently running without a network connection."},
}

const offlineDefaultReply = "I'm in offline mode and couldn't understand that. Please try again when a connection is available."

// NewOfflineAgent creates the embedded offline agent
func NewOfflineAgent(logger *zap.Logger) *OfflineAgent {
	return &OfflineAgent{logger: logger}
}

// Process implements ConversationalAgent
func (a *OfflineAgent) Process(ctx context.Context, prompt string) (*entities.AgentResponse, error) {
	lower := strings.ToLower(prompt)
	for _, entry := range offlineReplies {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return &entities.AgentResponse{Text: entry.reply}, nil
			}
		}
	}
	a.logger.Debug("Offline agent returning default reply")
	return &entities.AgentResponse{Text: offlineDefaultReply}, nil
}

// ListModels implements ConversationalAgent
func (a *OfflineAgent) ListModels(ctx context.Context) (string, error) {
	return "", repositories.ErrModelListingUnsupported
}
