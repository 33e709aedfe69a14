package service

import (
	"sync"

	"github.com/google/uuid"

	"rentchat/internal/model"
)

// Greeting seeds every fresh conversation so the first thing the user sees
// is the assistant introducing itself.
const Greeting = "您好，我是租房小助手，请告诉我您想找什么样的房子～"

// Conversation holds the per-session dialogue state. History is append-only
// and chronological; it always starts with the fixed greeting, both at
// creation and after a reset. Only the chat service mutates it, and only
// after a turn fully succeeded.
type Conversation struct {
	id string

	mu      sync.Mutex
	history []model.ChatMessage
}

// NewConversation creates a conversation with a fresh ID and the greeting
// already in place.
func NewConversation() *Conversation {
	return &Conversation{
		id:      uuid.NewString(),
		history: []model.ChatMessage{{Role: model.RoleAssistant, Content: Greeting}},
	}
}

// ID returns the session identifier.
func (c *Conversation) ID() string {
	return c.id
}

// History returns a copy of the message history.
func (c *Conversation) History() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ChatMessage, len(c.history))
	copy(out, c.history)
	return out
}

// Reset clears the history back to the single greeting.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = []model.ChatMessage{{Role: model.RoleAssistant, Content: Greeting}}
}

// appendTurn records a completed exchange. The user and assistant messages
// are appended together so a failed turn can never leave a dangling user
// message in the context.
func (c *Conversation) appendTurn(userText, assistantText string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history,
		model.ChatMessage{Role: model.RoleUser, Content: userText},
		model.ChatMessage{Role: model.RoleAssistant, Content: assistantText},
	)
}

// SessionRegistry hands out conversations by ID. Each session owns its own
// independent state; the registry itself is safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Conversation
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Conversation)}
}

// GetOrCreate returns the conversation for id, creating a new one when the
// id is blank or unknown.
func (r *SessionRegistry) GetOrCreate(id string) *Conversation {
	if id != "" {
		r.mu.RLock()
		conv, ok := r.sessions[id]
		r.mu.RUnlock()
		if ok {
			return conv
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id != "" {
		if conv, ok := r.sessions[id]; ok {
			return conv
		}
	}
	conv := NewConversation()
	r.sessions[conv.ID()] = conv
	return conv
}
