package entities

import (
	"fmt"
	"time"
)

// VoiceStatus represents the current activity of the voice channel
type VoiceStatus string

const (
	VoiceStatusSilence    VoiceStatus = "silence"
	VoiceStatusListening  VoiceStatus = "listening"
	VoiceStatusProcessing VoiceStatus = "processing"
	VoiceStatusSpeaking   VoiceStatus = "speaking"
)

// Sender identifies who produced a chat message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ErrorLogCapacity bounds the diagnostic error log; the oldest entry is
// evicted once the capacity is reached.
const ErrorLogCapacity = 10

// ChatMessage is a single immutable turn in the conversation
type ChatMessage struct {
	ID     string `json:"id" bson:"id"`
	Sender Sender `json:"sender" bson:"sender"`
	Text   string `json:"text" bson:"text"`
}

// NewChatMessage creates a message with an ID derived from the sender and
// the creation timestamp.
func NewChatMessage(sender Sender, text string) ChatMessage {
	return ChatMessage{
		ID:     fmt.Sprintf("%s_%d", sender, time.Now().UnixMilli()),
		Sender: sender,
		Text:   text,
	}
}

// DetailedError records a failed dispatch for diagnostics. HTTPCode is nil
// for failures that did not originate from a structured network error.
type DetailedError struct {
	HTTPCode  *int   `json:"http_code,omitempty"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// NewDetailedError creates an unstructured failure record
func NewDetailedError(message string) DetailedError {
	return DetailedError{
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewHTTPDetailedError creates a failure record carrying an HTTP status code
func NewHTTPDetailedError(code int, message string) DetailedError {
	return DetailedError{
		HTTPCode:  &code,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ConversationState is the single snapshot of a conversation. It is owned
// and serially replaced by the orchestrator; readers only ever receive
// deep clones.
type ConversationState struct {
	Messages          []ChatMessage   `json:"messages"`
	Status            VoiceStatus     `json:"status"`
	CurrentTranscript string          `json:"current_transcript"`
	LastError         *DetailedError  `json:"last_error,omitempty"`
	ErrorLog          []DetailedError `json:"error_log"`
}

// NewConversationState returns an empty state at rest
func NewConversationState() ConversationState {
	return ConversationState{Status: VoiceStatusSilence}
}

// Clone returns a deep copy so callers can never alias the owner's slices
func (s ConversationState) Clone() ConversationState {
	out := s
	if s.Messages != nil {
		out.Messages = make([]ChatMessage, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	if s.ErrorLog != nil {
		out.ErrorLog = make([]DetailedError, len(s.ErrorLog))
		copy(out.ErrorLog, s.ErrorLog)
	}
	if s.LastError != nil {
		e := *s.LastError
		out.LastError = &e
	}
	return out
}

// AppendError pushes an error onto the bounded log, evicting the oldest
// entry once ErrorLogCapacity is exceeded.
func (s *ConversationState) AppendError(err DetailedError) {
	s.ErrorLog = append(s.ErrorLog, err)
	if len(s.ErrorLog) > ErrorLogCapacity {
		s.ErrorLog = s.ErrorLog[len(s.ErrorLog)-ErrorLogCapacity:]
	}
}
