package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/lumina-ai/lumina/domain/repositories"
)

func TestOpenAIAgent_Process(t *testing.T) {
	var gotAuth string
	var gotReq openAIChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Hello from upstream"}}]}`))
	}))
	defer server.Close()

	a, err := NewOpenAIAgent(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewOpenAIAgent failed: %v", err)
	}

	response, err := a.Process(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "Hi" {
		t.Errorf("Unexpected request messages: %+v", gotReq.Messages)
	}
	if response.Text != "Hello from upstream" {
		t.Errorf("Expected upstream text, got %q", response.Text)
	}
}

func TestOpenAIAgent_Process_ToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"done","tool_calls":[{"function":{"name":"open_app","arguments":"{\"app\":\"spotify\"}"}}]}}]}`))
	}))
	defer server.Close()

	a, _ := NewOpenAIAgent(OpenAIConfig{APIKey: "k", BaseURL: server.URL}, zaptest.NewLogger(t))

	response, err := a.Process(context.Background(), "open spotify")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(response.ToolCalls) != 1 {
		t.Fatalf("Expected 1 tool call, got %d", len(response.ToolCalls))
	}
	if response.ToolCalls[0].Name != "open_app" {
		t.Errorf("Expected tool call 'open_app', got %q", response.ToolCalls[0].Name)
	}
}

func TestOpenAIAgent_Process_UpstreamErrorCarriesStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer server.Close()

	a, _ := NewOpenAIAgent(OpenAIConfig{APIKey: "bad", BaseURL: server.URL}, zaptest.NewLogger(t))

	_, err := a.Process(context.Background(), "Hi")
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}

	var agentErr *repositories.AgentError
	if !errors.As(err, &agentErr) {
		t.Fatalf("Expected *AgentError, got %T", err)
	}
	if agentErr.HTTPCode != http.StatusUnauthorized {
		t.Errorf("Expected HTTP code 401, got %d", agentErr.HTTPCode)
	}
}

func TestOpenAIAgent_ListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"gpt-4o-mini"}]}`))
	}))
	defer server.Close()

	a, _ := NewOpenAIAgent(OpenAIConfig{APIKey: "k", BaseURL: server.URL}, zaptest.NewLogger(t))

	raw, err := a.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if raw != `{"data":[{"id":"gpt-4o-mini"}]}` {
		t.Errorf("Unexpected raw catalog: %s", raw)
	}
}

func TestNewOpenAIAgent_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIAgent(OpenAIConfig{}, zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error for missing API key")
	}
}
