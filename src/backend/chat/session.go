package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hannes/kanoon/src/backend/processor"
)

// InitialGreeting is the bot message every conversation starts with
const InitialGreeting = "Hello! I'm your comprehensive legal assistant specializing in Indian law. " +
	"I can help with questions, create legal notices, explain procedures, and provide lawyer referrals. " +
	"How can I assist you today?"

var ErrSessionNotFound = errors.New("chat session not found")

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one turn in a conversation
type Message struct {
	ID           string             `json:"id"`
	Text         string             `json:"text"`
	Sender       Sender             `json:"sender"`
	Timestamp    time.Time          `json:"timestamp"`
	Sources      []processor.Source `json:"sources,omitempty"`
	DocumentType DocumentType       `json:"document_type,omitempty"`
}

// Conversation is the message history of one chat session
type Conversation struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

func newMessage(text string, sender Sender, now time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: now,
	}
}

// SessionStore keeps conversations in memory keyed by session id
type SessionStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	now           func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		conversations: make(map[string]*Conversation),
		now:           time.Now,
	}
}

// Create starts a conversation seeded with the greeting
func (s *SessionStore) Create() Conversation {
	conv := &Conversation{
		ID:       uuid.NewString(),
		Messages: []Message{newMessage(InitialGreeting, SenderBot, s.now())},
	}

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.mu.Unlock()

	return copyConversation(conv)
}

// Get returns a copy of the conversation
func (s *SessionStore) Get(id string) (Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return Conversation{}, ErrSessionNotFound
	}
	return copyConversation(conv), nil
}

// Append adds messages to the end of a conversation
func (s *SessionStore) Append(id string, msgs ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return ErrSessionNotFound
	}
	conv.Messages = append(conv.Messages, msgs...)
	return nil
}

// Delete forgets a conversation
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.conversations, id)
	s.mu.Unlock()
}

// Len returns the number of live conversations
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

func copyConversation(conv *Conversation) Conversation {
	msgs := make([]Message, len(conv.Messages))
	copy(msgs, conv.Messages)
	return Conversation{ID: conv.ID, Messages: msgs}
}
