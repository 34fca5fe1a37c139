// Package chat routes incoming user messages to the weather pipeline and
// sends rendered replies back through a Messenger.
package chat

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Message is an incoming chat message.
type Message struct {
	UserID string
	ChatID string
	Text   string
}

// Messenger delivers outgoing text to a chat.
type Messenger interface {
	Send(ctx context.Context, chatID, text string) error
}

// MemoryMessenger records sent messages. Used in tests and as a stand-in
// when no real transport is configured.
type MemoryMessenger struct {
	mu   sync.Mutex
	sent []SentMessage
}

// SentMessage is one recorded delivery.
type SentMessage struct {
	ChatID string
	Text   string
}

// NewMemoryMessenger creates an empty in-memory messenger.
func NewMemoryMessenger() *MemoryMessenger {
	return &MemoryMessenger{}
}

// Send records the message.
func (m *MemoryMessenger) Send(_ context.Context, chatID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMessage{ChatID: chatID, Text: text})
	return nil
}

// Sent returns a copy of everything recorded so far.
func (m *MemoryMessenger) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// LogMessenger writes outgoing messages to the structured log. Used when
// no chat transport is configured, so deliveries stay observable.
type LogMessenger struct {
	logger zerolog.Logger
}

// NewLogMessenger creates a messenger backed by the given logger.
func NewLogMessenger(logger zerolog.Logger) *LogMessenger {
	return &LogMessenger{logger: logger.With().Str("messenger", "log").Logger()}
}

// Send logs the message.
func (m *LogMessenger) Send(_ context.Context, chatID, text string) error {
	m.logger.Info().Str("chat_id", chatID).Str("text", text).Msg("outgoing message")
	return nil
}
