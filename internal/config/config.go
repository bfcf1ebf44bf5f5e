// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port string

	// Conversation
	ActiveAgent  string
	SystemPrompt string
	DeviceID     string

	// ActionExecutor selects where device actions run: "device" delegates
	// over the websocket channel, "local" simulates them in-process.
	ActionExecutor string

	// Agent backends
	OpenAIAPIKey     string
	OpenAIModel      string
	GeminiAPIKey     string
	GeminiModel      string
	PerplexityAPIKey string
	DeepgramAPIKey   string
	GenkitFlowURL    string

	// Speech
	ElevenLabsAPIKey string

	// Storage
	MongoURI      string
	MongoDatabase string

	// Auth
	JWTSecret string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:             getEnv("PORT", "8080"),
		ActiveAgent:      getEnv("ACTIVE_AGENT", "offline"),
		SystemPrompt:     os.Getenv("SYSTEM_PROMPT"),
		DeviceID:         getEnv("DEVICE_ID", "default"),
		ActionExecutor:   getEnv("ACTION_EXECUTOR", "device"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		PerplexityAPIKey: os.Getenv("PERPLEXITY_API_KEY"),
		DeepgramAPIKey:   os.Getenv("DEEPGRAM_API_KEY"),
		GenkitFlowURL:    os.Getenv("GENKIT_FLOW_URL"),
		ElevenLabsAPIKey: os.Getenv("ELEVEN_LABS_API_KEY"),
		MongoURI:         os.Getenv("MONGODB_URI"),
		MongoDatabase:    getEnv("MONGODB_DATABASE", "lumina"),
		JWTSecret:        getEnv("JWT_SECRET", "lumina-dev-secret"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
