package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
	"github.com/lumina-ai/lumina/internal/actionparse"
	"github.com/lumina-ai/lumina/internal/language"
)

// contextWindowSize bounds the rendered history sent to the agent per turn.
// A cost/latency control: unbounded history is a non-goal.
const contextWindowSize = 12

const closingInstruction = "Respond to the latest user message."

// Orchestrator is the single authority coordinating listening, agent
// dispatch, action execution and speech output for one conversation. It
// exclusively owns the ConversationState; readers only ever receive deep
// clones via Snapshot or Subscribe.
type Orchestrator struct {
	agent    repositories.ConversationalAgent
	voice    repositories.VoiceChannel
	executor repositories.ActionExecutor      // optional
	history  repositories.ConversationRepository // optional

	systemPrompt string
	deviceID     string
	logger       *zap.Logger

	// inFlight rejects overlapping dispatch cycles: at most one agent
	// dispatch runs at a time per conversation.
	inFlight atomic.Bool

	mu               sync.Mutex
	state            entities.ConversationState
	languageOverride string
	subscribers      map[int]chan entities.ConversationState
	nextSubID        int
}

// Config carries the optional knobs for an Orchestrator
type Config struct {
	// SystemPrompt is prepended to every rendered context prompt
	SystemPrompt string
	// DeviceID keys persisted history; only used when a repository is set
	DeviceID string
}

// NewOrchestrator wires the orchestrator to its collaborators. executor and
// history may be nil: without an executor, parsed actions are not executed;
// without a repository, history lives only in memory.
func NewOrchestrator(
	agent repositories.ConversationalAgent,
	voice repositories.VoiceChannel,
	executor repositories.ActionExecutor,
	history repositories.ConversationRepository,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		agent:        agent,
		voice:        voice,
		executor:     executor,
		history:      history,
		systemPrompt: cfg.SystemPrompt,
		deviceID:     cfg.DeviceID,
		logger:       logger,
		state:        entities.NewConversationState(),
		subscribers:  make(map[int]chan entities.ConversationState),
	}
}

// StartListening delegates to the voice channel
func (o *Orchestrator) StartListening() error {
	return o.voice.StartListening()
}

// StopListening delegates to the voice channel
func (o *Orchestrator) StopListening() error {
	return o.voice.StopListening()
}

// StopSpeaking delegates to the voice channel. It does not cancel an
// in-flight dispatch cycle.
func (o *Orchestrator) StopSpeaking() error {
	return o.voice.StopSpeaking()
}

// ListModels passes through to the active agent
func (o *Orchestrator) ListModels(ctx context.Context) (string, error) {
	return o.agent.ListModels(ctx)
}

// Snapshot returns a deep clone of the current conversation state
func (o *Orchestrator) Snapshot() entities.ConversationState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Clone()
}

// Subscribe returns a stream of state snapshots, one per state replacement,
// and a cancel func that removes the subscription and closes the channel.
// Slow subscribers miss updates rather than blocking the orchestrator.
func (o *Orchestrator) Subscribe() (<-chan entities.ConversationState, func()) {
	ch := make(chan entities.ConversationState, 16)
	o.mu.Lock()
	id := o.nextSubID
	o.nextSubID++
	o.subscribers[id] = ch
	o.mu.Unlock()

	cancel := func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if sub, ok := o.subscribers[id]; ok {
			delete(o.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// update applies a mutation to a clone of the state, replaces the state
// wholesale, and publishes the new snapshot. Publishing happens under the
// mutex so a concurrent cancel cannot close a channel mid-send; sends are
// non-blocking, so holding the lock is cheap.
func (o *Orchestrator) update(mutate func(s *entities.ConversationState)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	next := o.state.Clone()
	mutate(&next)
	o.state = next
	snapshot := next.Clone()
	for _, ch := range o.subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Run consumes the voice channel's event and transcript streams until the
// context is cancelled. Non-blank transcripts arriving while the channel is
// not speaking trigger a dispatch cycle.
func (o *Orchestrator) Run(ctx context.Context) {
	events := o.voice.Events()
	transcripts := o.voice.Transcripts()

	for {
		select {
		case <-ctx.Done():
			return

		case status, ok := <-events:
			if !ok {
				return
			}
			o.update(func(s *entities.ConversationState) {
				s.Status = status
			})

		case text, ok := <-transcripts:
			if !ok {
				return
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			o.mu.Lock()
			speaking := o.state.Status == entities.VoiceStatusSpeaking
			o.mu.Unlock()
			if speaking {
				continue
			}
			o.update(func(s *entities.ConversationState) {
				s.CurrentTranscript = text
			})
			go o.OnUserFinishedSpeaking(ctx, text)
		}
	}
}

// OnUserFinishedSpeaking runs one full dispatch cycle for a finalized
// utterance. Blank input is dropped with no state change. A cycle already
// in flight rejects the new one. No failure propagates out of this method;
// everything is converted into the state's error log.
func (o *Orchestrator) OnUserFinishedSpeaking(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		o.logger.Warn("Dispatch already in flight, dropping utterance",
			zap.String("text", text))
		return
	}
	defer o.inFlight.Store(false)

	if tag, ok := language.ExtractPreferredLanguageTag(text); ok {
		o.mu.Lock()
		o.languageOverride = tag
		o.mu.Unlock()
		o.logger.Info("Spoken-language override set", zap.String("tag", tag))
	}

	userMsg := entities.NewChatMessage(entities.SenderUser, text)
	o.update(func(s *entities.ConversationState) {
		s.Messages = append(s.Messages, userMsg)
		s.Status = entities.VoiceStatusProcessing
		s.LastError = nil
	})

	prompt := o.buildPrompt()

	response, err := o.agent.Process(ctx, prompt)
	if err != nil {
		o.failDispatch(err)
		return
	}

	displayed := response.Text
	action := response.Action
	if action == nil {
		action = actionparse.Parse(response.Text)
	}
	if action != nil && o.executor != nil {
		displayed += o.executeAction(ctx, *action)
	}

	assistantMsg := entities.NewChatMessage(entities.SenderAssistant, displayed)
	o.update(func(s *entities.ConversationState) {
		s.Messages = append(s.Messages, assistantMsg)
		s.Status = entities.VoiceStatusSpeaking
	})

	o.speakResponse(ctx, response)
	o.persist(ctx)
}

// executeAction runs the action and renders the bracketed status suffix
// that is appended to the displayed (never the spoken) assistant text.
func (o *Orchestrator) executeAction(ctx context.Context, action entities.DeviceAction) string {
	result, err := o.executor.ExecuteAction(ctx, action)
	if err != nil {
		o.logger.Error("Action execution failed",
			zap.String("type", string(action.Type)),
			zap.Error(err))
		return fmt.Sprintf(" [Action failed: %s]", err.Error())
	}
	if !result.Success {
		return fmt.Sprintf(" [Action failed: %s]", result.Message)
	}
	o.logger.Info("Action executed",
		zap.String("type", string(action.Type)),
		zap.String("target", action.Target))
	return fmt.Sprintf(" [Action executed: %s]", result.Message)
}

// speakResponse plays pre-synthesized audio when present, otherwise speaks
// the raw response text with the resolved language hint.
func (o *Orchestrator) speakResponse(ctx context.Context, response *entities.AgentResponse) {
	if len(response.Audio) > 0 {
		if err := o.voice.PlayAudio(ctx, response.Audio); err != nil {
			o.logger.Error("Audio playback failed", zap.Error(err))
			o.recordError(entities.NewDetailedError(err.Error()))
		}
		return
	}

	o.mu.Lock()
	tag := o.languageOverride
	o.mu.Unlock()
	if tag == "" {
		tag, _ = language.DetectLanguageTag(response.Text)
	}

	if err := o.voice.Speak(ctx, response.Text, tag); err != nil {
		o.logger.Error("Speech output failed", zap.Error(err))
		o.recordError(entities.NewDetailedError(err.Error()))
	}
}

// buildPrompt renders the bounded context window: optional system preamble,
// the last contextWindowSize messages as "User:"/"Assistant:" lines, and a
// closing instruction.
func (o *Orchestrator) buildPrompt() string {
	o.mu.Lock()
	messages := o.state.Messages
	window := messages
	if len(window) > contextWindowSize {
		window = window[len(window)-contextWindowSize:]
	}
	rendered := make([]string, 0, len(window))
	for _, msg := range window {
		label := "User"
		if msg.Sender == entities.SenderAssistant {
			label = "Assistant"
		}
		rendered = append(rendered, label+": "+msg.Text)
	}
	o.mu.Unlock()

	var b strings.Builder
	if o.systemPrompt != "" {
		b.WriteString(o.systemPrompt)
		b.WriteString("\n\n")
	}
	b.WriteString(strings.Join(rendered, "\n"))
	b.WriteString("\n\n")
	b.WriteString(closingInstruction)
	return b.String()
}

// failDispatch converts a boundary failure into a DetailedError and resets
// the conversation to silence. Failures are terminal for the turn; the user
// must re-initiate.
func (o *Orchestrator) failDispatch(err error) {
	derr := entities.NewDetailedError(err.Error())
	var agentErr *repositories.AgentError
	if errors.As(err, &agentErr) {
		derr = entities.NewHTTPDetailedError(agentErr.HTTPCode, agentErr.Message)
	}

	o.logger.Error("Dispatch cycle failed", zap.Error(err))
	o.update(func(s *entities.ConversationState) {
		s.AppendError(derr)
		s.LastError = &derr
		s.Status = entities.VoiceStatusSilence
	})
}

// recordError logs a post-response failure (playback, TTS) without
// discarding the already-appended assistant message.
func (o *Orchestrator) recordError(derr entities.DetailedError) {
	o.update(func(s *entities.ConversationState) {
		s.AppendError(derr)
		s.LastError = &derr
		s.Status = entities.VoiceStatusSilence
	})
}

// persist saves the conversation history after a completed turn,
// best-effort.
func (o *Orchestrator) persist(ctx context.Context) {
	if o.history == nil {
		return
	}
	snapshot := o.Snapshot()
	if err := o.history.Save(ctx, o.deviceID, snapshot.Messages); err != nil {
		o.logger.Error("Failed to persist conversation history",
			zap.String("deviceID", o.deviceID),
			zap.Error(err))
	}
}

// LoadHistory restores persisted messages into the conversation state,
// typically at startup.
func (o *Orchestrator) LoadHistory(ctx context.Context) error {
	if o.history == nil {
		return nil
	}
	messages, err := o.history.Load(ctx, o.deviceID)
	if err != nil {
		return fmt.Errorf("failed to load conversation history: %w", err)
	}
	o.update(func(s *entities.ConversationState) {
		s.Messages = messages
	})
	return nil
}

// LanguageOverride reports the session-level spoken-language override, if
// one has been set by an explicit user instruction.
func (o *Orchestrator) LanguageOverride() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.languageOverride
}
