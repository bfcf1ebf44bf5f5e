package stt

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lumina-ai/lumina/domain/repositories"
)

// MockSpeechToText is a placeholder recognizer for local development and
// tests: it fakes a transcript based on how much audio was streamed.
type MockSpeechToText struct {
	logger *zap.Logger
}

// MockSpeechToTextStream is one mock streaming session
type MockSpeechToTextStream struct {
	logger        *zap.Logger
	audioReceived bool
	transcription string
}

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) repositories.SpeechToText {
	return &MockSpeechToText{logger: logger}
}

// InitTranscribeStreaming creates a new mock streaming session
func (s *MockSpeechToText) InitTranscribeStreaming(ctx context.Context, config repositories.AudioConfig) (repositories.SpeechToTextStreaming, error) {
	s.logger.Info("Initializing mock streaming transcription",
		zap.Int("sampleRate", config.SampleRate),
		zap.String("encoding", config.Encoding),
		zap.String("language", config.Language))

	return &MockSpeechToTextStream{logger: s.logger}, nil
}

// Stream implements mock streaming audio processing
func (m *MockSpeechToTextStream) Stream(data []byte) error {
	m.logger.Debug("Processing mock audio chunk", zap.Int("size", len(data)))

	if len(data) > 0 {
		m.audioReceived = true
		// Fake different utterances based on chunk size
		switch {
		case len(data) > 10000:
			m.transcription = "What is the weather like today and do I need an umbrella?"
		case len(data) > 5000:
			m.transcription = "Open spotify"
		case len(data) > 1000:
			m.transcription = "Hello there!"
		default:
			m.transcription = "Hi"
		}
	}

	return nil
}

// End returns the mock transcription result
func (m *MockSpeechToTextStream) End() (string, error) {
	m.logger.Info("Ending mock transcription stream", zap.String("result", m.transcription))

	if !m.audioReceived {
		return "", fmt.Errorf("no audio data received")
	}
	if m.transcription == "" {
		return "", fmt.Errorf("no speech detected in audio")
	}

	return m.transcription, nil
}
