package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
)

// SwitchableAgent delegates to whichever registered backend is currently
// active, resolving it on every call so the backend can change at runtime
// without restarting the conversation.
type SwitchableAgent struct {
	mu     sync.RWMutex
	agents map[string]repositories.ConversationalAgent
	active string
	logger *zap.Logger
}

var _ repositories.ConversationalAgent = (*SwitchableAgent)(nil)

// NewSwitchableAgent creates the runtime-selectable wrapper. The initial
// active backend must be one of the registered names.
func NewSwitchableAgent(agents map[string]repositories.ConversationalAgent, active string, logger *zap.Logger) (*SwitchableAgent, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("at least one agent backend is required")
	}
	if _, ok := agents[active]; !ok {
		return nil, fmt.Errorf("unknown agent backend: %s", active)
	}
	return &SwitchableAgent{
		agents: agents,
		active: active,
		logger: logger,
	}, nil
}

// Use switches the active backend
func (s *SwitchableAgent) Use(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[name]; !ok {
		return fmt.Errorf("unknown agent backend: %s", name)
	}
	s.active = name
	s.logger.Info("Agent backend switched", zap.String("backend", name))
	return nil
}

// Active returns the name of the current backend
func (s *SwitchableAgent) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Backends lists the registered backend names, sorted
func (s *SwitchableAgent) Backends() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.agents))
	for name := range s.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *SwitchableAgent) current() repositories.ConversationalAgent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agents[s.active]
}

// Process implements ConversationalAgent
func (s *SwitchableAgent) Process(ctx context.Context, prompt string) (*entities.AgentResponse, error) {
	return s.current().Process(ctx, prompt)
}

// ListModels implements ConversationalAgent
func (s *SwitchableAgent) ListModels(ctx context.Context) (string, error) {
	return s.current().ListModels(ctx)
}
