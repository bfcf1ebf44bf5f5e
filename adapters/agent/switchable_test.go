package agent

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
)

type cannedAgent struct {
	reply string
}

func (a *cannedAgent) Process(ctx context.Context, prompt string) (*entities.AgentResponse, error) {
	return &entities.AgentResponse{Text: a.reply}, nil
}

func (a *cannedAgent) ListModels(ctx context.Context) (string, error) {
	return "", repositories.ErrModelListingUnsupported
}

func TestSwitchableAgent_HotSwap(t *testing.T) {
	s, err := NewSwitchableAgent(map[string]repositories.ConversationalAgent{
		"alpha": &cannedAgent{reply: "from alpha"},
		"beta":  &cannedAgent{reply: "from beta"},
	}, "alpha", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSwitchableAgent failed: %v", err)
	}

	response, _ := s.Process(context.Background(), "hi")
	if response.Text != "from alpha" {
		t.Errorf("Expected alpha reply, got %q", response.Text)
	}

	if err := s.Use("beta"); err != nil {
		t.Fatalf("Use failed: %v", err)
	}
	if s.Active() != "beta" {
		t.Errorf("Expected active 'beta', got %q", s.Active())
	}

	response, _ = s.Process(context.Background(), "hi")
	if response.Text != "from beta" {
		t.Errorf("Expected beta reply after switch, got %q", response.Text)
	}
}

func TestSwitchableAgent_RejectsUnknownBackend(t *testing.T) {
	s, _ := NewSwitchableAgent(map[string]repositories.ConversationalAgent{
		"alpha": &cannedAgent{},
	}, "alpha", zaptest.NewLogger(t))

	if err := s.Use("missing"); err == nil {
		t.Error("Expected error for unknown backend")
	}
	if s.Active() != "alpha" {
		t.Errorf("Active backend must be unchanged after a failed switch, got %q", s.Active())
	}
}

func TestNewSwitchableAgent_ValidatesInitialBackend(t *testing.T) {
	_, err := NewSwitchableAgent(map[string]repositories.ConversationalAgent{
		"alpha": &cannedAgent{},
	}, "missing", zaptest.NewLogger(t))
	if err == nil {
		t.Error("Expected error for unknown initial backend")
	}

	_, err = NewSwitchableAgent(nil, "any", zaptest.NewLogger(t))
	if err == nil {
		t.Error("Expected error for empty backend map")
	}
}

func TestSwitchableAgent_BackendsSorted(t *testing.T) {
	s, _ := NewSwitchableAgent(map[string]repositories.ConversationalAgent{
		"zulu":  &cannedAgent{},
		"alpha": &cannedAgent{},
		"mike":  &cannedAgent{},
	}, "mike", zaptest.NewLogger(t))

	names := s.Backends()
	want := []string{"alpha", "mike", "zulu"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, names)
		}
	}
}

func TestOfflineAgent_KeywordReplies(t *testing.T) {
	a := NewOfflineAgent(zaptest.NewLogger(t))

	response, err := a.Process(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if response.Text == offlineDefaultReply {
		t.Error("Expected a keyword reply for a greeting")
	}

	response, _ = a.Process(context.Background(), "xyzzy plugh")
	if response.Text != offlineDefaultReply {
		t.Errorf("Expected the default reply, got %q", response.Text)
	}
}

func TestOfflineAgent_NeverFails(t *testing.T) {
	a := NewOfflineAgent(zaptest.NewLogger(t))
	if _, err := a.Process(context.Background(), ""); err != nil {
		t.Errorf("Offline agent must never fail, got %v", err)
	}
}
