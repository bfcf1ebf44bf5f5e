package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/lumina-ai/lumina/domain/entities"
)

func TestGenkitAgent_Process_DecodesNativeAction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"text":"Opening Spotify","action":{"type":"open_app","target":"com.spotify.music","params":{"app_name":"spotify"}}}}`))
	}))
	defer server.Close()

	a, err := NewGenkitAgent(GenkitConfig{FlowURL: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewGenkitAgent failed: %v", err)
	}

	response, err := a.Process(context.Background(), "open spotify")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if response.Text != "Opening Spotify" {
		t.Errorf("Unexpected text: %q", response.Text)
	}
	if response.Action == nil {
		t.Fatal("Expected a structured action")
	}
	if response.Action.Type != entities.ActionOpenApp {
		t.Errorf("Expected open_app, got %s", response.Action.Type)
	}
	if response.Action.Target != "com.spotify.music" {
		t.Errorf("Unexpected target: %s", response.Action.Target)
	}
	if response.Action.Params["app_name"] != "spotify" {
		t.Errorf("Unexpected params: %v", response.Action.Params)
	}
}

func TestGenkitAgent_Process_TextOnlyFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"text":"just words"}}`))
	}))
	defer server.Close()

	a, _ := NewGenkitAgent(GenkitConfig{FlowURL: server.URL}, zaptest.NewLogger(t))

	response, err := a.Process(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if response.Action != nil {
		t.Errorf("Expected no action, got %+v", response.Action)
	}
}

func TestGenkitAgent_SendsBearerWhenConfigured(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"result":{"text":"ok"}}`))
	}))
	defer server.Close()

	a, _ := NewGenkitAgent(GenkitConfig{FlowURL: server.URL, APIKey: "flow-key"}, zaptest.NewLogger(t))
	if _, err := a.Process(context.Background(), "hi"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if gotAuth != "Bearer flow-key" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}
}

func TestNewGenkitAgent_RequiresFlowURL(t *testing.T) {
	if _, err := NewGenkitAgent(GenkitConfig{}, zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error for missing flow URL")
	}
}
