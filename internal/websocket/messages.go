package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumina-ai/lumina/domain/entities"
)

// MessageType identifies a WebSocket frame on the device protocol.
type MessageType string

// Device-to-server message types.
const (
	MessageTypeListeningStart MessageType = "listening_start"
	MessageTypeListeningEnd   MessageType = "listening_end"
	MessageTypeActionResult   MessageType = "action_result"
	MessageTypePing           MessageType = "ping"
)

// Server-to-device message types.
const (
	MessageTypeStartListening MessageType = "start_listening"
	MessageTypeStopListening  MessageType = "stop_listening"
	MessageTypeStopSpeaking   MessageType = "stop_speaking"
	MessageTypeSpeakingStart  MessageType = "speaking_start"
	MessageTypeSpeakingEnd    MessageType = "speaking_end"
	MessageTypeExecuteAction  MessageType = "execute_action"
	MessageTypeTranscript     MessageType = "transcript"
	MessageTypeError          MessageType = "error"
)

// BaseMessage is the envelope shared by all text frames.
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

// ListeningStartMessage announces that the device is about to stream
// microphone audio. Audio parameters default when omitted.
type ListeningStartMessage struct {
	BaseMessage
	SampleRate int    `json:"sample_rate,omitempty"`
	Encoding   string `json:"encoding,omitempty"`
	Language   string `json:"language,omitempty"`
}

// ListeningEndMessage closes the current audio stream.
type ListeningEndMessage struct {
	BaseMessage
}

// ActionResultMessage carries the device's outcome for a previously
// dispatched execute_action frame, correlated by ID.
type ActionResultMessage struct {
	BaseMessage
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ExecuteActionMessage asks the device to perform an action. The device
// must reply with an ActionResultMessage bearing the same ID.
type ExecuteActionMessage struct {
	BaseMessage
	ID     string                `json:"id"`
	Action entities.DeviceAction `json:"action"`
}

// SpeakingStartMessage precedes a run of binary audio frames.
type SpeakingStartMessage struct {
	BaseMessage
	Text     string `json:"text,omitempty"`
	Language string `json:"language,omitempty"`
}

// TranscriptMessage echoes the final transcription back to the device.
type TranscriptMessage struct {
	BaseMessage
	Text string `json:"text"`
}

// ErrorMessage reports a protocol or processing failure to the device.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func newBase(t MessageType) BaseMessage {
	return BaseMessage{Type: t, Timestamp: time.Now().Unix()}
}

// NewErrorMessage creates an error frame ready for marshalling.
func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{BaseMessage: newBase(MessageTypeError), Code: code, Message: message}
}

// DecodeMessage parses an inbound text frame into its typed form. Only
// device-to-server types are accepted.
func DecodeMessage(raw []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON frame: %w", err)
	}

	switch base.Type {
	case MessageTypeListeningStart:
		var msg ListeningStartMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("invalid listening_start message: %w", err)
		}
		if msg.SampleRate != 0 && (msg.SampleRate < 8000 || msg.SampleRate > 48000) {
			return nil, fmt.Errorf("sample_rate must be between 8000 and 48000")
		}
		return &msg, nil

	case MessageTypeListeningEnd:
		var msg ListeningEndMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("invalid listening_end message: %w", err)
		}
		return &msg, nil

	case MessageTypeActionResult:
		var msg ActionResultMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("invalid action_result message: %w", err)
		}
		if msg.ID == "" {
			return nil, fmt.Errorf("action_result requires an id")
		}
		return &msg, nil

	case MessageTypePing:
		return &base, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}
