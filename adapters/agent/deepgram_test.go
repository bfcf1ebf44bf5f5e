package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestDeepgramAgent_Process_AttachesAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token dg-key" {
			t.Errorf("Unexpected auth header: %q", r.Header.Get("Authorization"))
		}
		switch r.URL.Path {
		case "/agent/converse":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"reply":"Hello there"}`))
		case "/speak":
			if r.URL.Query().Get("model") != "aura-2-thalia-en" {
				t.Errorf("Unexpected speak model: %s", r.URL.Query().Get("model"))
			}
			w.Write([]byte("raw-audio-bytes"))
		default:
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	a, err := NewDeepgramAgent(DeepgramConfig{APIKey: "dg-key", BaseURL: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewDeepgramAgent failed: %v", err)
	}

	response, err := a.Process(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if response.Text != "Hello there" {
		t.Errorf("Unexpected text: %q", response.Text)
	}
	if string(response.Audio) != "raw-audio-bytes" {
		t.Errorf("Expected synthesized audio attached, got %q", response.Audio)
	}
}

func TestDeepgramAgent_Process_DegradesToTextOnSynthesisFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/agent/converse":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"reply":"Hello there"}`))
		case "/speak":
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	a, _ := NewDeepgramAgent(DeepgramConfig{APIKey: "dg-key", BaseURL: server.URL}, zaptest.NewLogger(t))

	response, err := a.Process(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Synthesis failure must not fail the turn: %v", err)
	}
	if response.Text != "Hello there" {
		t.Errorf("Unexpected text: %q", response.Text)
	}
	if len(response.Audio) != 0 {
		t.Errorf("Expected no audio, got %d bytes", len(response.Audio))
	}
}

func TestDeepgramAgent_Process_ConverseFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	a, _ := NewDeepgramAgent(DeepgramConfig{APIKey: "dg-key", BaseURL: server.URL}, zaptest.NewLogger(t))

	if _, err := a.Process(context.Background(), "hi"); err == nil {
		t.Error("Expected error when the converse call fails")
	}
}
