package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/openfar/farbot/ai"
	"github.com/openfar/farbot/chunker"
	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/storage"
	"github.com/openfar/farbot/storage/embedcache"
	"github.com/panjf2000/ants/v2"
)

// Pipeline orchestrates ingestion of FAR section documents into the
// vector store. It manages concurrent processing of documents.
type Pipeline struct {
	chunks     storage.ChunkStore
	corpus     storage.DocumentStore
	embedder   ai.Embedder
	splitter   *chunker.Chunker
	cache      *embedcache.Cache
	cacheModel string
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunker sets a custom chunker.
// Default is chunker.Default().
func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) error {
		if c != nil {
			p.splitter = c
		}
		return nil
	}
}

// WithEmbeddingCache enables the embedding cache. Cached vectors are keyed
// by model name and chunk content hash; pass the embedding model the
// provider is configured with.
func WithEmbeddingCache(cache *embedcache.Cache, model string) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		p.cacheModel = model
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunks storage.ChunkStore,
	corpus storage.DocumentStore,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if chunks == nil {
		return nil, ErrChunkStoreRequired
	}
	if corpus == nil {
		return nil, ErrDocumentStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunks:   chunks,
		corpus:   corpus,
		embedder: provider.Embedder(),
		splitter: chunker.Default(),
		pool:     pool,
		logger:   slog.Default().With("component", "ingestion"),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Report summarizes one IngestAll run.
type Report struct {
	Documents int // documents successfully ingested
	Chunks    int // chunks written across all documents
	Failed    int // documents that errored
}

// IngestAll ingests every section in the corpus. Documents are processed
// concurrently; per-document failures are logged and counted in the
// report but do not abort the run.
func (p *Pipeline) IngestAll(ctx context.Context) (*Report, error) {
	refs, err := p.corpus.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing corpus: %w", err)
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report Report
	)

	for _, ref := range refs {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			count, err := p.IngestDocument(ctx, ref)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				p.logger.Error("failed to ingest section", "section", ref, "err", err)
				return
			}
			report.Documents++
			report.Chunks += count
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.Failed++
			mu.Unlock()
			p.logger.Error("failed to submit section", "section", ref, "err", submitErr)
		}
	}

	wg.Wait()

	p.logger.Info("ingestion complete",
		"documents", report.Documents,
		"chunks", report.Chunks,
		"failed", report.Failed)
	return &report, nil
}

// IngestDocument ingests one section: chunk, embed, replace its points.
// Returns the number of chunks written.
func (p *Pipeline) IngestDocument(ctx context.Context, ref core.SectionRef) (int, error) {
	doc, err := p.corpus.Read(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("reading section %s: %w", ref, err)
	}

	texts := p.splitter.Split(doc.Text)
	if len(texts) == 0 {
		p.logger.Warn("section produced no chunks", "section", ref)
		return 0, nil
	}

	vectors, err := p.embedChunks(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding section %s: %w", ref, err)
	}

	points := make([]storage.Point, len(texts))
	for i, text := range texts {
		points[i] = storage.Point{
			ID: uuid.New(),
			Chunk: core.Chunk{
				Text:       text,
				Index:      i,
				Chapter:    doc.Chapter,
				Section:    doc.Section.String(),
				SourceFile: doc.SourceFile,
			},
			Vector: vectors[i],
		}
	}

	// Replace-on-reingest: drop the section's old points first so edits
	// that shrink a document never leave orphans.
	if err := p.chunks.DeleteChunksBySection(ctx, doc.Section.String()); err != nil {
		return 0, fmt.Errorf("clearing section %s: %w", ref, err)
	}
	if err := p.chunks.UpsertChunks(ctx, points); err != nil {
		return 0, fmt.Errorf("upserting section %s: %w", ref, err)
	}

	p.logger.Debug("section ingested", "section", ref, "chunks", len(points))
	return len(points), nil
}

// embedChunks returns one vector per text, consulting the cache when
// configured and embedding only the misses.
func (p *Pipeline) embedChunks(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var (
		missTexts   []string
		missIndexes []int
	)
	for i, text := range texts {
		if p.cache != nil {
			vector, err := p.cache.Get(p.cacheModel, core.IDFromContent(text))
			if err == nil {
				vectors[i] = vector
				continue
			}
			if !errors.Is(err, storage.ErrNotFound) {
				p.logger.Warn("embedding cache read failed", "err", err)
			}
		}
		missTexts = append(missTexts, text)
		missIndexes = append(missIndexes, i)
	}

	if len(missTexts) > 0 {
		embedded, err := p.embedder.EmbedTexts(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		if len(embedded) != len(missTexts) {
			return nil, fmt.Errorf("%w: got %d vectors for %d texts",
				ErrEmbeddingCountMismatch, len(embedded), len(missTexts))
		}
		for j, i := range missIndexes {
			vectors[i] = embedded[j]
			if p.cache != nil {
				if err := p.cache.Put(p.cacheModel, core.IDFromContent(missTexts[j]), embedded[j]); err != nil {
					p.logger.Warn("embedding cache write failed", "err", err)
				}
			}
		}
	}

	return vectors, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
