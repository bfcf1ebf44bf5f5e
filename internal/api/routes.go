package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lumina-ai/lumina/adapters/agent"
	"github.com/lumina-ai/lumina/domain/repositories"
	"github.com/lumina-ai/lumina/internal/auth"
	"github.com/lumina-ai/lumina/internal/websocket"
	"github.com/lumina-ai/lumina/usecase"
)

// Deps collects everything the HTTP layer is wired to.
type Deps struct {
	Hub          *websocket.Hub
	Orchestrator *usecase.Orchestrator
	Agent        *agent.SwitchableAgent
	Devices      repositories.DeviceRepository
	Auth         *auth.Service
	Logger       *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, deps Deps) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "lumina-server",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.POST("/device/auth", func(c echo.Context) error {
		return deviceAuth(c, deps)
	})

	v1.GET("/conversation", func(c echo.Context) error {
		return c.JSON(http.StatusOK, deps.Orchestrator.Snapshot())
	})

	v1.GET("/errors", func(c echo.Context) error {
		snapshot := deps.Orchestrator.Snapshot()
		return c.JSON(http.StatusOK, map[string]interface{}{
			"last_error": snapshot.LastError,
			"error_log":  snapshot.ErrorLog,
		})
	})

	v1.GET("/models", func(c echo.Context) error {
		return listModels(c, deps)
	})

	v1.GET("/agent", func(c echo.Context) error {
		return c.JSON(http.StatusOK, AgentStatusResponse{
			Active:   deps.Agent.Active(),
			Backends: deps.Agent.Backends(),
		})
	})

	v1.PUT("/agent", func(c echo.Context) error {
		return switchAgent(c, deps)
	})

	// WebSocket endpoint with JWT validation
	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(c, deps)
	})
}

func deviceAuth(c echo.Context, deps Deps) error {
	var req DeviceAuthRequest

	if err := c.Bind(&req); err != nil {
		deps.Logger.Error("Failed to bind device auth request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.SerialNumber == "" || req.SecretKey == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Serial number and secret key are required",
		})
	}

	device, err := deps.Devices.Authenticate(c.Request().Context(), req.SerialNumber, req.SecretKey)
	if err != nil {
		deps.Logger.Warn("Device authentication failed",
			zap.String("serial_number", req.SerialNumber),
			zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid device credentials",
		})
	}

	token, err := deps.Auth.GenerateDeviceToken(device.ID, device.Platform)
	if err != nil {
		deps.Logger.Error("Failed to generate device token",
			zap.String("device_id", device.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	deps.Logger.Info("Device authenticated successfully",
		zap.String("device_id", device.ID),
		zap.String("serial_number", device.SerialNumber))

	return c.JSON(http.StatusOK, DeviceAuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		DeviceID:  device.ID,
	})
}

func listModels(c echo.Context, deps Deps) error {
	raw, err := deps.Orchestrator.ListModels(c.Request().Context())
	if err != nil {
		if errors.Is(err, repositories.ErrModelListingUnsupported) {
			return c.JSON(http.StatusNotImplemented, ErrorResponse{
				Error:   "not_supported",
				Message: "The active agent backend does not support model listing",
			})
		}
		deps.Logger.Error("Model listing failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: err.Error(),
		})
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(raw))
}

func switchAgent(c echo.Context, deps Deps) error {
	var req AgentSwitchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.Backend == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Backend name is required",
		})
	}

	if err := deps.Agent.Use(req.Backend); err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "unknown_backend",
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, AgentStatusResponse{
		Active:   deps.Agent.Active(),
		Backends: deps.Agent.Backends(),
	})
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func websocketWithAuth(c echo.Context, deps Deps) error {
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}
	if token == "" {
		// Browser websocket clients cannot set headers.
		token = c.QueryParam("token")
	}

	if token == "" {
		deps.Logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required",
		})
	}

	claims, err := deps.Auth.ValidateToken(token)
	if err != nil {
		deps.Logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}

	if claims.DeviceID == "" {
		deps.Logger.Error("WebSocket connection rejected: missing device ID in token")
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_token_claims",
			Message: "Device ID not found in token",
		})
	}

	deps.Logger.Info("WebSocket connection authenticated",
		zap.String("device_id", claims.DeviceID))

	return websocket.HandleWebSocketWithAuth(deps.Hub, c, claims.DeviceID, deps.Logger)
}
