package repositories

import (
	"context"

	"github.com/lumina-ai/lumina/domain/entities"
)

// VoiceChannel abstracts the device-side speech surface: a stream of
// voice-activity events, a stream of transcribed utterances, and commands
// to control listening and speech output.
type VoiceChannel interface {
	StartListening() error
	StopListening() error
	StopSpeaking() error

	// Speak synthesizes text on the device. languageTag is an optional
	// BCP-47-ish hint for the TTS voice; empty means the default voice.
	Speak(ctx context.Context, text string, languageTag string) error
	// PlayAudio plays pre-synthesized audio bytes as-is.
	PlayAudio(ctx context.Context, audio []byte) error

	// Events emits the channel's activity transitions.
	Events() <-chan entities.VoiceStatus
	// Transcripts emits transcribed utterance text. Every non-blank
	// emission is treated by the consumer as a candidate final utterance.
	Transcripts() <-chan string
}
