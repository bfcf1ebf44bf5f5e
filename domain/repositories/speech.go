package repositories

import "context"

// SpeechToText abstracts streaming speech recognition services
type SpeechToText interface {
	// InitTranscribeStreaming opens a streaming transcription session
	InitTranscribeStreaming(ctx context.Context, config AudioConfig) (SpeechToTextStreaming, error)
}

// SpeechToTextStreaming is one in-progress transcription session
type SpeechToTextStreaming interface {
	Stream(data []byte) error
	End() (string, error)
}

// TextToSpeech abstracts text-to-speech synthesis. languageTag is an
// optional hint for voice/language selection; empty means the default.
type TextToSpeech interface {
	ConvertTextToSpeech(ctx context.Context, text string, languageTag string) (<-chan []byte, error)
}

// AudioConfig represents audio configuration for speech recognition
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}
