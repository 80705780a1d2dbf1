package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/openfar/farbot/ai"
	"github.com/openfar/farbot/chunker"
	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/storage"
)

const (
	// DefaultMaxChunks is the number of chunks returned when the caller
	// doesn't override it.
	DefaultMaxChunks = 5

	// DefaultScoreThreshold is the minimum similarity for the primary
	// search step.
	DefaultScoreThreshold float32 = 0.5
)

// Retriever assembles FAR context for queries.
type Retriever struct {
	chunks    storage.ChunkStore
	corpus    storage.DocumentStore
	embedder  ai.Embedder
	splitter  *chunker.Chunker
	threshold float32
	logger    *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithChunker sets the chunker used when a cited section is read straight
// from the corpus. Default is chunker.Default().
func WithChunker(c *chunker.Chunker) Option {
	return func(r *Retriever) error {
		if c != nil {
			r.splitter = c
		}
		return nil
	}
}

// WithScoreThreshold sets the default primary-search threshold.
func WithScoreThreshold(threshold float32) Option {
	return func(r *Retriever) error {
		r.threshold = threshold
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(
	chunks storage.ChunkStore,
	corpus storage.DocumentStore,
	provider ai.Provider,
	opts ...Option,
) (*Retriever, error) {
	if chunks == nil {
		return nil, ErrChunkStoreRequired
	}
	if corpus == nil {
		return nil, ErrDocumentStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		chunks:    chunks,
		corpus:    corpus,
		embedder:  provider.Embedder(),
		splitter:  chunker.Default(),
		threshold: DefaultScoreThreshold,
		logger:    slog.Default().With("component", "retrieval"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// QueryOptions holds per-query parameters.
type QueryOptions struct {
	MaxChunks int
	Chapter   int
	Threshold float32
}

// QueryOption adjusts one query.
type QueryOption func(*QueryOptions)

// WithMaxChunks caps the number of chunks returned for this query.
func WithMaxChunks(n int) QueryOption {
	return func(o *QueryOptions) {
		if n > 0 {
			o.MaxChunks = n
		}
	}
}

// WithChapter restricts this query to one FAR chapter.
func WithChapter(chapter int) QueryOption {
	return func(o *QueryOptions) {
		o.Chapter = chapter
	}
}

// WithThreshold overrides the primary-search score threshold for this query.
func WithThreshold(threshold float32) QueryOption {
	return func(o *QueryOptions) {
		o.Threshold = threshold
	}
}

// Retrieve assembles context for the query. An empty result is valid;
// only upstream failures (embedding, storage) are errors.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts ...QueryOption) (*core.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	options := QueryOptions{
		MaxChunks: DefaultMaxChunks,
		Threshold: r.threshold,
	}
	for _, opt := range opts {
		opt(&options)
	}
	threshold := options.Threshold

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error embedding query", "err", err)
		return nil, err
	}

	// Step 1: explicit section references short-circuit similarity search.
	for _, ref := range core.ParseSectionRefs(query) {
		chunks, err := r.sectionChunks(ctx, ref, vector, options.MaxChunks)
		if err != nil {
			return nil, err
		}
		if len(chunks) > 0 {
			r.logger.Debug("retrieval satisfied by section reference",
				"section", ref, "chunks", len(chunks))
			// Section-scoped retrieval runs unthresholded.
			return &core.RetrievalResult{
				Chunks:           chunks,
				InitialThreshold: 0,
			}, nil
		}
	}

	// Step 2: primary threshold search.
	results, err := r.chunks.Search(ctx, storage.ChunkQuery{
		Vector:   vector,
		Limit:    options.MaxChunks,
		Chapter:  options.Chapter,
		MinScore: threshold,
	})
	if err != nil {
		r.logger.Error("error searching chunks", "err", err)
		return nil, err
	}
	if len(results) > 0 {
		return &core.RetrievalResult{
			Chunks:           results,
			InitialThreshold: threshold,
		}, nil
	}

	// Step 3: relaxed fallback. Weak context beats no context, but the
	// caller is told.
	fallback, err := r.chunks.Search(ctx, storage.ChunkQuery{
		Vector:  vector,
		Limit:   options.MaxChunks,
		Chapter: options.Chapter,
	})
	if err != nil {
		r.logger.Error("error in fallback search", "err", err)
		return nil, err
	}

	r.logger.Debug("fallback search used",
		"initial_threshold", threshold, "results", len(fallback))
	return &core.RetrievalResult{
		Chunks:            fallback,
		FallbackUsed:      true,
		InitialThreshold:  threshold,
		FallbackThreshold: 0,
	}, nil
}

// sectionChunks retrieves chunks for one cited section: from the vector
// store when the section is indexed, otherwise chunked directly from the
// corpus document at relevance 1.0.
func (r *Retriever) sectionChunks(ctx context.Context, ref core.SectionRef, vector []float32, maxChunks int) ([]core.ScoredChunk, error) {
	results, err := r.chunks.Search(ctx, storage.ChunkQuery{
		Vector:  vector,
		Limit:   maxChunks,
		Section: ref.String(),
	})
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}

	doc, err := r.corpus.Read(ctx, ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var chunks []core.ScoredChunk
	index := 0
	for text := range r.splitter.Chunks(doc.Text) {
		if index >= maxChunks {
			break
		}
		chunks = append(chunks, core.ScoredChunk{
			ID: uuid.New(),
			Chunk: core.Chunk{
				Text:       text,
				Index:      index,
				Chapter:    doc.Chapter,
				Section:    doc.Section.String(),
				SourceFile: doc.SourceFile,
			},
			Score: 1.0,
		})
		index++
	}
	return chunks, nil
}
