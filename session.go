package bot

import (
	"sync"
	"time"
)

// Session is the append-only transcript of one conversation. Stored turns
// are never rewritten, and the transcript is not pruned; long sessions grow
// without bound.
type Session struct {
	ID           string
	SystemPrompt string
	CreatedAt    time.Time

	mu        sync.Mutex
	messages  []Message
	updatedAt time.Time
}

// NewSession returns an empty Session.
func NewSession(id, systemPrompt string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		SystemPrompt: systemPrompt,
		CreatedAt:    now,
		updatedAt:    now,
	}
}

// RestoreSession rebuilds a Session from persisted state.
func RestoreSession(id, systemPrompt string, createdAt, updatedAt time.Time, msgs []Message) *Session {
	s := &Session{
		ID:           id,
		SystemPrompt: systemPrompt,
		CreatedAt:    createdAt,
		updatedAt:    updatedAt,
	}
	s.messages = append(s.messages, msgs...)
	return s
}

// Append adds messages to the end of the transcript.
func (s *Session) Append(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
	s.updatedAt = time.Now()
}

// History returns a copy of the transcript in order.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// UpdatedAt returns the time of the last append.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}
