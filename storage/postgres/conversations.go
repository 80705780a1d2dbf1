package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/storage"
)

// ConversationRepository implements storage.ConversationRepository on
// the conversations and messages tables.
type ConversationRepository struct {
	backend *Backend
	logger  *slog.Logger
}

// NewConversationRepository creates a conversation repository over the backend.
func NewConversationRepository(backend *Backend) (storage.ConversationRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &ConversationRepository{
		backend: backend,
		logger:  slog.Default().With("component", "postgres-conversations"),
	}, nil
}

// CreateConversation persists a new conversation.
func (r *ConversationRepository) CreateConversation(ctx context.Context, conv *core.Conversation) (*core.Conversation, error) {
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

	metadata, err := json.Marshal(conv.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}

	_, err = r.backend.pool.Exec(ctx, `
	INSERT INTO conversations (id, created_at, updated_at, metadata)
	VALUES ($1, $2, $3, $4)
	`, conv.ID, conv.CreatedAt, conv.UpdatedAt, metadata)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("conversation created", "id", conv.ID)
	return conv, nil
}

// GetConversation retrieves a conversation by ID.
func (r *ConversationRepository) GetConversation(ctx context.Context, id uuid.UUID) (*core.Conversation, error) {
	var (
		conv     core.Conversation
		metadata []byte
	)
	err := r.backend.pool.QueryRow(ctx, `
	SELECT id, created_at, updated_at, metadata
	FROM conversations WHERE id = $1
	`, id).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt, &metadata)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &conv.Metadata); err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
		}
	}
	return &conv, nil
}

// AddMessage appends a message to its conversation and bumps the
// conversation's UpdatedAt.
func (r *ConversationRepository) AddMessage(ctx context.Context, msg *core.Message) (*core.Message, error) {
	if err := core.ValidateMessage(msg); err != nil {
		return nil, err
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	sources, err := json.Marshal(msg.Sources)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}

	tx, err := r.backend.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
	UPDATE conversations SET updated_at = $2 WHERE id = $1
	`, msg.ConversationID, msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
	INSERT INTO messages
		(id, conversation_id, role, content, selected_text, sources,
		 token_count, processing_time_ms, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, msg.ID, msg.ConversationID, string(msg.Role), msg.Content,
		msg.SelectedText, sources, msg.TokenCount, msg.ProcessingTimeMS,
		msg.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Debug("message added",
		"conversation", msg.ConversationID,
		"role", msg.Role)
	return msg, nil
}

// GetMessages returns every message of a conversation in chronological order.
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*core.Message, error) {
	rows, err := r.backend.pool.Query(ctx, `
	SELECT id, conversation_id, role, content, selected_text, sources,
	       token_count, processing_time_ms, created_at
	FROM messages
	WHERE conversation_id = $1
	ORDER BY created_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// GetRecentMessages returns up to limit most recent messages of a
// conversation, in chronological order.
func (r *ConversationRepository) GetRecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*core.Message, error) {
	rows, err := r.backend.pool.Query(ctx, `
	SELECT id, conversation_id, role, content, selected_text, sources,
	       token_count, processing_time_ms, created_at
	FROM messages
	WHERE conversation_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	// Fetched newest-first; reverse to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func scanMessages(rows pgx.Rows) ([]*core.Message, error) {
	var messages []*core.Message
	for rows.Next() {
		var (
			msg          core.Message
			role         string
			selectedText *string
			sources      []byte
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&role,
			&msg.Content,
			&selectedText,
			&sources,
			&msg.TokenCount,
			&msg.ProcessingTimeMS,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		msg.Role = core.Role(role)
		if selectedText != nil {
			msg.SelectedText = *selectedText
		}
		if len(sources) > 0 {
			if err := json.Unmarshal(sources, &msg.Sources); err != nil {
				return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// Close is a no-op; the shared backend owns the pool.
func (r *ConversationRepository) Close() error {
	return nil
}
