package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a deterministic identifier derived from content.
// It is used to detect unchanged documents and chunks across re-ingestion.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document is the raw text of one FAR section as scraped from the corpus.
// Documents are immutable once ingested; re-ingestion replaces their chunks.
type Document struct {
	Section    SectionRef
	Chapter    int // FAR part number, 1-53
	Text       string
	SourceFile string
}

// ContentID returns the deterministic content hash of the document text.
func (d *Document) ContentID() ID {
	return IDFromContent(d.Text)
}

// Chunk is a bounded substring of a source document prepared for embedding.
type Chunk struct {
	Text       string
	Index      int // 0-based position within the document
	Chapter    int
	Section    string
	SourceFile string
}

// ScoredChunk is a chunk returned from retrieval with its relevance score.
// ID identifies the vector-store point the chunk was loaded from; chunks
// produced by a direct corpus lookup carry a transient ID.
type ScoredChunk struct {
	ID    uuid.UUID
	Chunk Chunk
	Score float32 // cosine similarity in [0, 1]
}

// RetrievalResult is the ranked context set assembled for one query.
// It is transient: constructed per query and never persisted.
type RetrievalResult struct {
	Chunks []ScoredChunk
	// FallbackUsed is true when the primary threshold search returned
	// nothing and a relaxed-threshold search was substituted.
	FallbackUsed      bool
	InitialThreshold  float32
	FallbackThreshold float32 // meaningful only when FallbackUsed is true
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation groups the messages of one chat session.
type Conversation struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Metadata  map[string]string
}

// Message is a single turn in a conversation, persisted with the
// citations and accounting produced while answering it.
type Message struct {
	ID               uuid.UUID
	ConversationID   uuid.UUID
	Role             Role
	Content          string
	SelectedText     string
	Sources          []Source
	TokenCount       int
	ProcessingTimeMS int
	CreatedAt        time.Time
}

// Source is a citation attached to an assistant message.
type Source struct {
	ChunkID        string  `json:"chunk_id"`
	Chapter        int     `json:"chapter"`
	Section        string  `json:"section"`
	RelevanceScore float32 `json:"relevance_score"`
	Excerpt        string  `json:"excerpt"`
}
