package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks

	// Size of outbound binary audio frames.
	audioFrameSize = 4096

	// Fallback deadline for device-side action execution.
	defaultActionTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of connected devices and bridges them to the
// conversation loop. It implements both repositories.VoiceChannel
// (microphone in, speech out) and repositories.ActionExecutor
// (device-side action dispatch over the same connection).
type Hub struct {
	// Registered clients keyed by device ID.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	stt repositories.SpeechToText
	tts repositories.TextToSpeech

	events      chan entities.VoiceStatus
	transcripts chan string

	// In-flight execute_action frames awaiting an action_result.
	pending   map[string]chan entities.ActionResult
	pendingMu sync.Mutex

	logger *zap.Logger
}

var (
	_ repositories.VoiceChannel   = (*Hub)(nil)
	_ repositories.ActionExecutor = (*Hub)(nil)
)

// NewHub creates a new WebSocket hub
func NewHub(
	stt repositories.SpeechToText,
	tts repositories.TextToSpeech,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		stt:         stt,
		tts:         tts,
		events:      make(chan entities.VoiceStatus, 16),
		transcripts: make(chan string, 16),
		pending:     make(map[string]chan entities.ActionResult),
		logger:      logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.deviceID] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("deviceID", client.deviceID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.deviceID]; ok {
				delete(h.clients, client.deviceID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("deviceID", client.deviceID))
		}
	}
}

// Events implements repositories.VoiceChannel
func (h *Hub) Events() <-chan entities.VoiceStatus {
	return h.events
}

// Transcripts implements repositories.VoiceChannel
func (h *Hub) Transcripts() <-chan string {
	return h.transcripts
}

// StartListening asks connected devices to open their microphones.
func (h *Hub) StartListening() error {
	if err := h.broadcastControl(MessageTypeStartListening); err != nil {
		return err
	}
	h.emit(entities.VoiceStatusListening)
	return nil
}

// StopListening asks connected devices to close their microphones.
func (h *Hub) StopListening() error {
	return h.broadcastControl(MessageTypeStopListening)
}

// StopSpeaking interrupts any in-progress playback on the devices.
func (h *Hub) StopSpeaking() error {
	if err := h.broadcastControl(MessageTypeStopSpeaking); err != nil {
		return err
	}
	h.emit(entities.VoiceStatusSilence)
	return nil
}

// Speak synthesizes text through the TTS adapter and streams the audio
// to connected devices, bracketed by speaking_start and speaking_end.
func (h *Hub) Speak(ctx context.Context, text string, languageTag string) error {
	if h.tts == nil {
		return fmt.Errorf("no text-to-speech backend configured")
	}

	audioChan, err := h.tts.ConvertTextToSpeech(ctx, text, languageTag)
	if err != nil {
		return fmt.Errorf("text to speech conversion failed: %w", err)
	}

	h.emit(entities.VoiceStatusSpeaking)
	h.broadcastText(&SpeakingStartMessage{
		BaseMessage: newBase(MessageTypeSpeakingStart),
		Text:        text,
		Language:    languageTag,
	})

	for chunk := range audioChan {
		if err := ctx.Err(); err != nil {
			h.finishSpeaking()
			return err
		}
		h.broadcastBinary(chunk)
	}

	h.finishSpeaking()
	return nil
}

// PlayAudio streams pre-synthesized audio to connected devices.
func (h *Hub) PlayAudio(ctx context.Context, audio []byte) error {
	h.emit(entities.VoiceStatusSpeaking)
	h.broadcastText(&SpeakingStartMessage{BaseMessage: newBase(MessageTypeSpeakingStart)})

	for offset := 0; offset < len(audio); offset += audioFrameSize {
		if err := ctx.Err(); err != nil {
			h.finishSpeaking()
			return err
		}
		end := offset + audioFrameSize
		if end > len(audio) {
			end = len(audio)
		}
		h.broadcastBinary(audio[offset:end])
	}

	h.finishSpeaking()
	return nil
}

func (h *Hub) finishSpeaking() {
	h.broadcastText(&BaseMessage{Type: MessageTypeSpeakingEnd, Timestamp: time.Now().Unix()})
	h.emit(entities.VoiceStatusSilence)
}

// ExecuteAction implements repositories.ActionExecutor by forwarding the
// action to the device and waiting for the correlated action_result.
func (h *Hub) ExecuteAction(ctx context.Context, action entities.DeviceAction) (entities.ActionResult, error) {
	if !h.hasClients() {
		return entities.ActionResult{}, fmt.Errorf("no device connected")
	}

	id := uuid.NewString()
	resultChan := make(chan entities.ActionResult, 1)

	h.pendingMu.Lock()
	h.pending[id] = resultChan
	h.pendingMu.Unlock()
	defer func() {
		h.pendingMu.Lock()
		delete(h.pending, id)
		h.pendingMu.Unlock()
	}()

	h.broadcastText(&ExecuteActionMessage{
		BaseMessage: newBase(MessageTypeExecuteAction),
		ID:          id,
		Action:      action,
	})

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultActionTimeout)
		defer cancel()
	}

	select {
	case result := <-resultChan:
		return result, nil
	case <-ctx.Done():
		return entities.ActionResult{}, fmt.Errorf("device did not report action result: %w", ctx.Err())
	}
}

func (h *Hub) resolveAction(msg *ActionResultMessage) {
	h.pendingMu.Lock()
	resultChan, ok := h.pending[msg.ID]
	if ok {
		delete(h.pending, msg.ID)
	}
	h.pendingMu.Unlock()

	if !ok {
		h.logger.Warn("Received action_result with no pending action", zap.String("id", msg.ID))
		return
	}
	resultChan <- entities.ActionResult{Success: msg.Success, Message: msg.Message}
}

func (h *Hub) emit(status entities.VoiceStatus) {
	select {
	case h.events <- status:
	default:
		h.logger.Warn("Voice event channel full, dropping event", zap.String("status", string(status)))
	}
}

func (h *Hub) publishTranscript(text string) {
	select {
	case h.transcripts <- text:
	default:
		h.logger.Warn("Transcript channel full, dropping transcript")
	}
}

func (h *Hub) hasClients() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients) > 0
}

func (h *Hub) broadcastControl(t MessageType) error {
	if !h.hasClients() {
		return fmt.Errorf("no device connected")
	}
	h.broadcastText(&BaseMessage{Type: t, Timestamp: time.Now().Unix()})
	return nil
}

func (h *Hub) broadcastText(msg interface{}) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal outbound message", zap.Error(err))
		return
	}
	h.broadcast(WriteData{Type: websocket.TextMessage, Payload: payload})
}

func (h *Hub) broadcastBinary(payload []byte) {
	h.broadcast(WriteData{Type: websocket.BinaryMessage, Payload: payload})
}

func (h *Hub) broadcast(data WriteData) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("Client send buffer full, dropping frame",
				zap.String("deviceID", client.deviceID))
		}
	}
}

type WriteData struct {
	// MessageType is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	// Device ID for this client
	deviceID string

	// Logger
	logger *zap.Logger

	// Active transcription stream, nil outside a listening window.
	sttStreaming repositories.SpeechToTextStreaming

	chunkCount     int
	listeningStart time.Time

	mutex sync.Mutex
}

// HandleWebSocketWithAuth handles websocket requests with pre-authenticated device ID
func HandleWebSocketWithAuth(hub *Hub, c echo.Context, deviceID string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan WriteData, 256),
		deviceID: deviceID,
		logger:   logger,
	}

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.processMessage(message)
		case websocket.BinaryMessage:
			c.processBinaryAudioChunk(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage processes incoming text frames from the device
func (c *Client) processMessage(message []byte) {
	decoded, err := DecodeMessage(message)
	if err != nil {
		c.logger.Error("Failed to decode message", zap.Error(err))
		c.sendError("invalid_message", err.Error())
		return
	}

	switch msg := decoded.(type) {
	case *ListeningStartMessage:
		c.handleListeningStart(msg)
	case *ListeningEndMessage:
		c.handleListeningEnd()
	case *ActionResultMessage:
		c.hub.resolveAction(msg)
	case *BaseMessage:
		// ping, handled by the protocol-level pong in writePump
	}
}

// processBinaryAudioChunk forwards microphone audio to the active
// transcription stream.
func (c *Client) processBinaryAudioChunk(data []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.sttStreaming == nil {
		c.logger.Warn("Received binary audio chunk but no active listening window",
			zap.String("deviceID", c.deviceID))
		return
	}

	c.chunkCount++

	if err := c.sttStreaming.Stream(data); err != nil {
		c.logger.Error("Failed to stream audio data",
			zap.String("deviceID", c.deviceID),
			zap.Error(err))
		return
	}

	c.logger.Debug("Streamed binary audio chunk",
		zap.String("deviceID", c.deviceID),
		zap.Int("totalChunks", c.chunkCount))
}

// handleListeningStart opens a transcription stream for this connection.
func (c *Client) handleListeningStart(msg *ListeningStartMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.chunkCount = 0
	c.listeningStart = time.Now()

	audioConfig := repositories.AudioConfig{
		SampleRate: 16000,
		Language:   "en-US",
		Encoding:   "LINEAR16",
	}
	if msg.SampleRate > 0 {
		audioConfig.SampleRate = msg.SampleRate
	}
	if msg.Language != "" {
		audioConfig.Language = msg.Language
	}
	if msg.Encoding != "" {
		audioConfig.Encoding = msg.Encoding
	}

	streaming, err := c.hub.stt.InitTranscribeStreaming(ctx, audioConfig)
	if err != nil {
		c.logger.Error("Failed to initialize streaming transcription",
			zap.String("deviceID", c.deviceID),
			zap.Error(err))
		c.sendError("stt_unavailable", "failed to initialize transcription")
		return
	}
	c.sttStreaming = streaming

	c.hub.emit(entities.VoiceStatusListening)
	c.logger.Info("Listening window opened",
		zap.String("deviceID", c.deviceID),
		zap.Int("sampleRate", audioConfig.SampleRate),
		zap.String("language", audioConfig.Language))
}

// handleListeningEnd closes the transcription stream and publishes the
// final transcript to the conversation loop.
func (c *Client) handleListeningEnd() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.sttStreaming == nil {
		c.logger.Warn("Received listening_end with no active listening window",
			zap.String("deviceID", c.deviceID))
		return
	}

	transcript, err := c.sttStreaming.End()
	c.sttStreaming = nil
	if err != nil {
		c.logger.Error("Failed to end transcription stream",
			zap.String("deviceID", c.deviceID),
			zap.Error(err))
		c.sendError("stt_failed", "failed to end transcription")
		return
	}

	c.logger.Info("Transcription completed",
		zap.String("deviceID", c.deviceID),
		zap.String("transcription", transcript),
		zap.Duration("listeningFor", time.Since(c.listeningStart)))

	c.sendText(&TranscriptMessage{BaseMessage: newBase(MessageTypeTranscript), Text: transcript})
	c.hub.publishTranscript(transcript)
}

func (c *Client) sendError(code, message string) {
	c.sendText(NewErrorMessage(code, message))
}

func (c *Client) sendText(msg interface{}) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal outbound message", zap.Error(err))
		return
	}
	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	default:
		c.logger.Warn("Client send buffer full, dropping frame",
			zap.String("deviceID", c.deviceID))
	}
}
