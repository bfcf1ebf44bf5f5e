package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/lumina-ai/lumina/adapters/actions"
	"github.com/lumina-ai/lumina/adapters/agent"
	"github.com/lumina-ai/lumina/adapters/memory"
	"github.com/lumina-ai/lumina/adapters/mongo"
	"github.com/lumina-ai/lumina/adapters/stt"
	"github.com/lumina-ai/lumina/adapters/tts"
	"github.com/lumina-ai/lumina/domain/repositories"
	"github.com/lumina-ai/lumina/internal/api"
	"github.com/lumina-ai/lumina/internal/auth"
	"github.com/lumina-ai/lumina/internal/config"
	"github.com/lumina-ai/lumina/internal/websocket"
	"github.com/lumina-ai/lumina/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	// Agent backends. The offline agent is always registered so the
	// assistant keeps answering without any API key.
	agents := map[string]repositories.ConversationalAgent{
		"offline": agent.NewOfflineAgent(logger),
	}
	registerConfiguredAgents(agents, cfg, logger)

	active := cfg.ActiveAgent
	if _, ok := agents[active]; !ok {
		logger.Warn("Configured agent backend unavailable, falling back to offline",
			zap.String("backend", active))
		active = "offline"
	}
	switchable, err := agent.NewSwitchableAgent(agents, active, logger)
	if err != nil {
		logger.Fatal("Failed to initialize agent backends", zap.Error(err))
	}

	// Speech adapters
	var textToSpeech repositories.TextToSpeech
	if cfg.ElevenLabsAPIKey != "" {
		textToSpeech, err = tts.NewElevenLabsTTS(tts.NewElevenLabsConfigFromEnv(), logger)
		if err != nil {
			logger.Fatal("Failed to initialize text to speech", zap.Error(err))
		}
	} else {
		logger.Warn("ELEVEN_LABS_API_KEY not set, speech synthesis disabled")
	}

	var speechToText repositories.SpeechToText
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		speechToText = stt.NewGoogleSpeechToText(logger)
	} else {
		logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using mock transcription")
		speechToText = stt.NewMockSpeechToText(logger)
	}

	// Conversation history: Mongo when configured, in-memory otherwise.
	var history repositories.ConversationRepository
	if cfg.MongoURI != "" {
		client, err := mongo.NewClient(cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Close(ctx)
		}()
		history = mongo.NewConversationRepository(client.Database)
	} else {
		logger.Warn("MONGODB_URI not set, conversation history is in-memory only")
		history = memory.NewConversationRepository()
	}

	// Device channel: one hub serves as both the voice channel and the
	// device-side action executor.
	hub := websocket.NewHub(speechToText, textToSpeech, logger)
	go hub.Run()

	// Actions normally run on the connected device; ACTION_EXECUTOR=local
	// simulates them in-process for development without one.
	var executor repositories.ActionExecutor = hub
	if cfg.ActionExecutor == "local" {
		logger.Warn("ACTION_EXECUTOR=local, device actions are simulated in-process")
		executor = actions.NewLocalExecutor(logger)
	}

	orchestrator := usecase.NewOrchestrator(switchable, hub, executor, history, usecase.Config{
		SystemPrompt: cfg.SystemPrompt,
		DeviceID:     cfg.DeviceID,
	}, logger)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	if err := orchestrator.LoadHistory(runCtx); err != nil {
		logger.Warn("Failed to load conversation history", zap.Error(err))
	}
	go orchestrator.Run(runCtx)

	authService, err := auth.NewService(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("Failed to initialize auth service", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.InitRoutes(e, api.Deps{
		Hub:          hub,
		Orchestrator: orchestrator,
		Agent:        switchable,
		Devices:      memory.NewDeviceRepository(),
		Auth:         authService,
		Logger:       logger,
	})

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("agent", switchable.Active()))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")
	cancelRun()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func registerConfiguredAgents(agents map[string]repositories.ConversationalAgent, cfg config.Config, logger *zap.Logger) {
	if cfg.GeminiAPIKey != "" {
		gemini, err := agent.NewGeminiAgent(agent.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, logger)
		if err != nil {
			logger.Warn("Failed to initialize Gemini agent", zap.Error(err))
		} else {
			agents["gemini"] = gemini
		}
	}

	if cfg.OpenAIAPIKey != "" {
		openai, err := agent.NewOpenAIAgent(agent.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		}, logger)
		if err != nil {
			logger.Warn("Failed to initialize OpenAI agent", zap.Error(err))
		} else {
			agents["openai"] = openai
		}
	}

	if cfg.PerplexityAPIKey != "" {
		perplexity, err := agent.NewPerplexityAgent(agent.PerplexityConfig{
			APIKey: cfg.PerplexityAPIKey,
		}, logger)
		if err != nil {
			logger.Warn("Failed to initialize Perplexity agent", zap.Error(err))
		} else {
			agents["perplexity"] = perplexity
		}
	}

	if cfg.DeepgramAPIKey != "" {
		deepgram, err := agent.NewDeepgramAgent(agent.DeepgramConfig{
			APIKey: cfg.DeepgramAPIKey,
		}, logger)
		if err != nil {
			logger.Warn("Failed to initialize Deepgram agent", zap.Error(err))
		} else {
			agents["deepgram"] = deepgram
		}
	}

	if cfg.GenkitFlowURL != "" {
		genkit, err := agent.NewGenkitAgent(agent.GenkitConfig{
			FlowURL: cfg.GenkitFlowURL,
		}, logger)
		if err != nil {
			logger.Warn("Failed to initialize Genkit agent", zap.Error(err))
		} else {
			agents["genkit"] = genkit
		}
	}
}
