package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/storage"
)

// ConversationRepository is an in-memory storage.ConversationRepository.
type ConversationRepository struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]*core.Conversation
	messages      map[uuid.UUID][]*core.Message
	closed        bool
}

// NewConversationRepository creates an empty in-memory repository.
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		conversations: make(map[uuid.UUID]*core.Conversation),
		messages:      make(map[uuid.UUID][]*core.Message),
	}
}

// CreateConversation persists a new conversation.
func (r *ConversationRepository) CreateConversation(ctx context.Context, conv *core.Conversation) (*core.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}

	if conv == nil {
		conv = &core.Conversation{}
	}
	if conv.ID == uuid.Nil {
		conv.ID = uuid.New()
	}
	now := time.Now().UTC()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}

	stored := *conv
	r.conversations[conv.ID] = &stored
	return conv, nil
}

// GetConversation retrieves a conversation by ID.
func (r *ConversationRepository) GetConversation(ctx context.Context, id uuid.UUID) (*core.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}

	conv, ok := r.conversations[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *conv
	return &copied, nil
}

// AddMessage appends a message to its conversation.
func (r *ConversationRepository) AddMessage(ctx context.Context, msg *core.Message) (*core.Message, error) {
	if err := core.ValidateMessage(msg); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}

	conv, ok := r.conversations[msg.ConversationID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	conv.UpdatedAt = msg.CreatedAt

	stored := *msg
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], &stored)
	return msg, nil
}

// GetMessages returns every message of a conversation in chronological order.
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*core.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}
	return slices.Clone(r.messages[conversationID]), nil
}

// GetRecentMessages returns up to limit most recent messages of a
// conversation, in chronological order.
func (r *ConversationRepository) GetRecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*core.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}

	msgs := r.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return slices.Clone(msgs), nil
}

// Close marks the repository closed; further operations fail.
func (r *ConversationRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
