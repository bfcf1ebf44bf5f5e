package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.ActiveAgent != "offline" {
		t.Errorf("Expected default agent 'offline', got %s", cfg.ActiveAgent)
	}
	if cfg.MongoDatabase != "lumina" {
		t.Errorf("Expected default database 'lumina', got %s", cfg.MongoDatabase)
	}
	if cfg.ActionExecutor != "device" {
		t.Errorf("Expected default action executor 'device', got %s", cfg.ActionExecutor)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ACTIVE_AGENT", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("JWT_SECRET", "override-secret")
	t.Setenv("ACTION_EXECUTOR", "local")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.ActiveAgent != "gemini" {
		t.Errorf("Expected agent 'gemini', got %s", cfg.ActiveAgent)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("Expected gemini key 'test-key', got %s", cfg.GeminiAPIKey)
	}
	if cfg.JWTSecret != "override-secret" {
		t.Errorf("Expected jwt secret 'override-secret', got %s", cfg.JWTSecret)
	}
	if cfg.ActionExecutor != "local" {
		t.Errorf("Expected action executor 'local', got %s", cfg.ActionExecutor)
	}
}
