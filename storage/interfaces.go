package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/openfar/farbot/core"
)

// Point is one embedded chunk as stored in the vector index.
type Point struct {
	ID     uuid.UUID
	Chunk  core.Chunk
	Vector []float32
}

// ChunkQuery describes a similarity search against the vector index.
type ChunkQuery struct {
	// Vector is the query embedding. Required.
	Vector []float32

	// Limit caps the number of results. Required, must be positive.
	Limit int

	// Chapter restricts results to one FAR chapter when non-zero.
	Chapter int

	// Section restricts results to one section reference when non-empty,
	// e.g. "52.219-9".
	Section string

	// MinScore drops results whose cosine similarity is below it.
	// Zero admits everything.
	MinScore float32
}

// Validate checks the query for structural problems before it hits a backend.
func (q ChunkQuery) Validate() error {
	if len(q.Vector) == 0 {
		return ErrInvalidQuery
	}
	if q.Limit < 1 {
		return ErrInvalidQuery
	}
	return nil
}

// ChunkStore is the vector index of embedded regulation chunks.
// Implementations must be thread-safe and support concurrent access.
type ChunkStore interface {
	// UpsertChunks inserts or replaces points by ID.
	UpsertChunks(ctx context.Context, points []Point) error

	// DeleteChunksBySection removes every point belonging to the section.
	// Deleting a section with no points is not an error.
	DeleteChunksBySection(ctx context.Context, section string) error

	// Search finds chunks similar to the query vector. Results are ordered
	// by similarity score (highest first). An empty result is valid.
	Search(ctx context.Context, query ChunkQuery) ([]core.ScoredChunk, error)

	// Count reports the number of stored points, for diagnostics.
	Count(ctx context.Context) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentStore is the source corpus of regulation section documents.
type DocumentStore interface {
	// Read returns the document for the section reference.
	// Returns ErrNotFound if the corpus has no such section.
	Read(ctx context.Context, ref core.SectionRef) (*core.Document, error)

	// List returns the section references present in the corpus,
	// in corpus order.
	List(ctx context.Context) ([]core.SectionRef, error)
}

// ConversationRepository stores conversations and their messages.
// Implementations must be thread-safe and support concurrent access.
type ConversationRepository interface {
	// CreateConversation persists a new conversation. A zero ID is
	// replaced with a fresh one; timestamps are set if unset.
	CreateConversation(ctx context.Context, conv *core.Conversation) (*core.Conversation, error)

	// GetConversation retrieves a conversation by ID.
	// Returns ErrNotFound if it doesn't exist.
	GetConversation(ctx context.Context, id uuid.UUID) (*core.Conversation, error)

	// AddMessage appends a message to its conversation and bumps the
	// conversation's UpdatedAt. Returns ErrNotFound for an unknown
	// conversation.
	AddMessage(ctx context.Context, msg *core.Message) (*core.Message, error)

	// GetMessages returns every message of a conversation in
	// chronological order.
	GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*core.Message, error)

	// GetRecentMessages returns up to limit most recent messages of a
	// conversation, in chronological order.
	GetRecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*core.Message, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
