package chatbot

import (
	"sync"
	"time"

	"github.com/openai/openai-go"
)

// DefaultSessionID is used when a caller does not name a session.
const DefaultSessionID = "default"

type session struct {
	// mu serializes turns within one conversation.
	mu       sync.Mutex
	history  []openai.ChatCompletionMessageParamUnion
	lastUsed time.Time
}

// session returns the named session, creating it if needed, and evicts
// sessions idle longer than the configured TTL.
func (b *CareerChatbot) session(id string) *session {
	if id == "" {
		id = DefaultSessionID
	}
	now := b.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if ttl := b.settings.SessionTTL; ttl > 0 {
		for key, s := range b.sessions {
			if key != id && now.Sub(s.lastUsed) > ttl {
				delete(b.sessions, key)
			}
		}
	}

	s, ok := b.sessions[id]
	if !ok {
		s = &session{history: b.initialHistory()}
		b.sessions[id] = s
	}
	s.lastUsed = now
	return s
}

func (b *CareerChatbot) initialHistory() []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(b.systemPrompt)}
}

// Reset clears a session's history, keeping only the system prompt.
func (b *CareerChatbot) Reset(id string) {
	if id == "" {
		id = DefaultSessionID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, id)
}

// SessionCount reports how many conversations are held in memory.
func (b *CareerChatbot) SessionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}
