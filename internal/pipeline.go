package internal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// PipelineState is where the pipeline currently is in one send.
type PipelineState int

const (
	StateIdle PipelineState = iota
	StateSending
	StateStreaming
	StateFinalizing
)

// String returns the state name
func (s PipelineState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// Update is published to the UI on every buffer growth during one send.
// Thinking is nil until a complete thought region has arrived.
type Update struct {
	Thinking *string
	Main     string
}

// UpdateHandler receives live updates while a response streams in. It runs
// on the sending goroutine; handlers must not call back into the pipeline.
type UpdateHandler func(Update)

// MessagePipeline orchestrates one send at a time for the active
// conversation: it validates input, appends and persists the user message,
// drives the network call, feeds decode output through the thought splitter
// for live rendering, and commits the final assistant message to the store.
//
// The pipeline owns the in-memory current session ID and draft messages; the
// store owns everything persisted. A single busy flag guards against
// concurrent sends; callers must also check Idle before switching sessions.
type MessagePipeline struct {
	mu    sync.Mutex
	busy  bool
	state PipelineState

	store  *SessionStore
	client *ChatClient
	usage  *UsageLogger
	cfg    Config

	identity  *Identity
	namespace string

	sessionID string
	draft     []Message

	cancel context.CancelFunc
}

// NewMessagePipeline creates a pipeline for one identity. usage may be nil
// to disable usage recording.
func NewMessagePipeline(store *SessionStore, client *ChatClient, usage *UsageLogger, cfg Config, identity *Identity) *MessagePipeline {
	return &MessagePipeline{
		store:     store,
		client:    client,
		usage:     usage,
		cfg:       cfg,
		identity:  identity,
		namespace: DeriveNamespace(identity),
	}
}

// Namespace returns the storage namespace this pipeline writes to
func (p *MessagePipeline) Namespace() string {
	return p.namespace
}

// SessionID returns the active conversation's session ID, empty for a new
// chat that has not persisted anything yet.
func (p *MessagePipeline) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionID
}

// Messages returns a copy of the current draft
func (p *MessagePipeline) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.draft))
	copy(out, p.draft)
	return out
}

// State returns the current pipeline state
func (p *MessagePipeline) State() PipelineState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// IsBusy reports whether a send is in flight
func (p *MessagePipeline) IsBusy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// NewChat resets to a fresh conversation. Rejected while a send is busy.
func (p *MessagePipeline) NewChat() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return ErrBusy
	}
	p.sessionID = ""
	p.draft = nil
	return nil
}

// LoadSession makes an existing session the active conversation and moves it
// to the front of the list. Rejected while a send is busy.
func (p *MessagePipeline) LoadSession(sessionID string) error {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return ErrBusy
	}
	p.mu.Unlock()

	sess, err := p.store.Get(p.namespace, sessionID)
	if err != nil {
		return err
	}
	if err := p.store.Touch(p.namespace, sessionID); err != nil {
		return err
	}

	p.mu.Lock()
	p.sessionID = sess.ID
	p.draft = sess.Messages
	p.mu.Unlock()
	return nil
}

// Cancel aborts an in-flight send at the transport level. The user message
// stays persisted; no partial assistant message is committed.
func (p *MessagePipeline) Cancel() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Send runs one complete exchange and returns the committed assistant
// message. Empty or whitespace-only text returns ErrEmptyMessage and a send
// while one is in flight returns ErrBusy; both leave all state untouched and
// may be ignored by the caller.
//
// A transport failure is returned as a *TransportError, but it is also
// synthesized into a persisted assistant message prefixed "Error:" so the
// failure stays visible in history, and the pipeline is back at Idle.
func (p *MessagePipeline) Send(ctx context.Context, text string, onUpdate UpdateHandler) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return Message{}, ErrBusy
	}
	p.busy = true
	p.state = StateSending
	p.cancel = cancel

	// Append and persist the user message before touching the network, so it
	// survives any failure from here on.
	userMsg := NewUserMessage(text)
	p.draft = append(p.draft, userMsg)
	draft := make([]Message, len(p.draft))
	copy(draft, p.draft)
	sessionID := p.sessionID
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.busy = false
		p.state = StateIdle
		p.cancel = nil
		p.mu.Unlock()
	}()

	sess, err := p.store.Upsert(p.namespace, sessionID, draft, "")
	if err != nil {
		return Message{}, err
	}
	p.mu.Lock()
	p.sessionID = sess.ID
	p.mu.Unlock()

	p.recordUsage(sess.ID, RoleUser, UsageStatusSuccess, len(text), 0)

	req := ChatRequest{
		Message:     text,
		ChatID:      sess.ID,
		IdentityRef: p.identity.Ref(),
		History:     historyOf(draft[:len(draft)-1]),
		Model:       p.cfg.Model,
		ImageMode:   p.cfg.ImageMode,
	}

	start := time.Now()
	decoder := NewStreamDecoder()
	var images []string

	if p.cfg.Stream {
		err = p.client.SendStream(ctx, req, func(chunk string) {
			p.setState(StateStreaming)
			buffer := decoder.Feed(chunk)
			if onUpdate != nil {
				split := SplitThought(buffer)
				onUpdate(Update{
					Thinking: split.ThinkingValue(p.cfg.ShowEmptyThought),
					Main:     split.Main,
				})
			}
		})
	} else {
		var resp *ChatResponse
		resp, err = p.client.Send(ctx, req)
		if err == nil {
			p.setState(StateStreaming)
			buffer := decoder.Feed(resp.Data.Message)
			images = resp.Data.Images
			if onUpdate != nil {
				split := SplitThought(buffer)
				onUpdate(Update{
					Thinking: split.ThinkingValue(p.cfg.ShowEmptyThought),
					Main:     split.Main,
				})
			}
		}
	}

	if err != nil {
		// An abandoned stream commits nothing; the user message is already
		// persisted and the next send can retry.
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			p.recordUsage(sess.ID, RoleAssistant, UsageStatusError, 0, msSince(start))
			return Message{}, err
		}
		return p.commitFailure(sess.ID, err, start, onUpdate)
	}

	p.setState(StateFinalizing)
	final := decoder.Finish()
	split := SplitThought(final)

	status := UsageStatusSuccess
	if decoder.Err() != nil {
		status = UsageStatusError
	}

	assistant := NewAssistantMessage(split.Main, split.ThinkingValue(p.cfg.ShowEmptyThought), images)
	if err := p.commitAssistant(sess.ID, assistant); err != nil {
		return Message{}, err
	}
	p.recordUsage(sess.ID, RoleAssistant, status, len(assistant.Content), msSince(start))
	return assistant, nil
}

// commitFailure persists a human-readable error as an ordinary assistant
// message, preserving conversational context so the user can retry.
func (p *MessagePipeline) commitFailure(sessionID string, sendErr error, start time.Time, onUpdate UpdateHandler) (Message, error) {
	var terr *TransportError
	content := "Error: " + sendErr.Error()
	if errors.As(sendErr, &terr) {
		content = terr.Message()
	}

	assistant := NewAssistantMessage(content, nil, nil)
	if err := p.commitAssistant(sessionID, assistant); err != nil {
		return Message{}, err
	}
	if onUpdate != nil {
		onUpdate(Update{Main: content})
	}
	p.recordUsage(sessionID, RoleAssistant, UsageStatusError, len(content), msSince(start))
	return assistant, sendErr
}

// commitAssistant appends the message to the draft and persists the session
func (p *MessagePipeline) commitAssistant(sessionID string, msg Message) error {
	p.mu.Lock()
	p.draft = append(p.draft, msg)
	draft := make([]Message, len(p.draft))
	copy(draft, p.draft)
	p.mu.Unlock()

	_, err := p.store.Upsert(p.namespace, sessionID, draft, "")
	return err
}

// SummarizeSession asks the backend for a title and applies it to the
// session. Best-effort; the computed title stays when the call fails.
func (p *MessagePipeline) SummarizeSession(ctx context.Context, sessionID string) (string, error) {
	sess, err := p.store.Get(p.namespace, sessionID)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Summarize(ctx, SummaryRequest{
		ChatID:      sessionID,
		IdentityRef: p.identity.Ref(),
		Messages:    historyOf(sess.Messages),
	})
	if err != nil {
		return "", err
	}
	if err := p.store.Rename(p.namespace, sessionID, resp.Data.Title); err != nil {
		return "", err
	}
	return resp.Data.Title, nil
}

func (p *MessagePipeline) setState(s PipelineState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *MessagePipeline) recordUsage(sessionID, role, status string, contentLength int, responseTimeMs float64) {
	if p.usage == nil {
		return
	}
	err := p.usage.Record(UsageEvent{
		SessionID:      sessionID,
		Namespace:      p.namespace,
		Role:           role,
		Model:          p.cfg.Model,
		Status:         status,
		ContentLength:  contentLength,
		ResponseTimeMs: responseTimeMs,
	})
	if err != nil {
		LogWarn("Usage event dropped: %v", err)
	}
}

// historyOf maps messages to wire history entries
func historyOf(messages []Message) []HistoryEntry {
	history := make([]HistoryEntry, 0, len(messages))
	for _, msg := range messages {
		history = append(history, HistoryEntry{Role: msg.Role, Content: msg.Content})
	}
	return history
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
