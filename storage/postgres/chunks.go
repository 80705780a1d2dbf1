package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/storage"
	"github.com/pgvector/pgvector-go"
)

// ChunkStore implements storage.ChunkStore on a pgvector table.
type ChunkStore struct {
	backend *Backend
	logger  *slog.Logger
}

// NewChunkStore creates a chunk store over the backend.
func NewChunkStore(backend *Backend) (storage.ChunkStore, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &ChunkStore{
		backend: backend,
		logger:  slog.Default().With("component", "postgres-chunks"),
	}, nil
}

// UpsertChunks inserts or replaces points by ID.
func (s *ChunkStore) UpsertChunks(ctx context.Context, points []storage.Point) error {
	query := `
	INSERT INTO far_chunks (id, chapter, section, chunk_index, source_file, content, embedding)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		chapter = EXCLUDED.chapter,
		section = EXCLUDED.section,
		chunk_index = EXCLUDED.chunk_index,
		source_file = EXCLUDED.source_file,
		content = EXCLUDED.content,
		embedding = EXCLUDED.embedding
	`
	for _, p := range points {
		_, err := s.backend.pool.Exec(ctx, query,
			p.ID,
			p.Chunk.Chapter,
			p.Chunk.Section,
			p.Chunk.Index,
			p.Chunk.SourceFile,
			p.Chunk.Text,
			pgvector.NewVector(p.Vector),
		)
		if err != nil {
			return fmt.Errorf("upserting chunk %s: %w", p.ID, err)
		}
	}
	s.logger.Debug("upserted chunks", "count", len(points))
	return nil
}

// DeleteChunksBySection removes every point belonging to the section.
func (s *ChunkStore) DeleteChunksBySection(ctx context.Context, section string) error {
	_, err := s.backend.pool.Exec(ctx,
		"DELETE FROM far_chunks WHERE section = $1", section)
	return err
}

// Search finds chunks similar to the query vector, ordered by cosine
// similarity descending. Score is 1 - cosine distance.
func (s *ChunkStore) Search(ctx context.Context, query storage.ChunkQuery) ([]core.ScoredChunk, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	vector := pgvector.NewVector(query.Vector)
	args := []any{vector}
	conds := []string{"embedding IS NOT NULL"}

	if query.Chapter != 0 {
		args = append(args, query.Chapter)
		conds = append(conds, fmt.Sprintf("chapter = $%d", len(args)))
	}
	if query.Section != "" {
		args = append(args, query.Section)
		conds = append(conds, fmt.Sprintf("section = $%d", len(args)))
	}
	if query.MinScore > 0 {
		args = append(args, query.MinScore)
		conds = append(conds, fmt.Sprintf("1-(embedding <=> $1) >= $%d", len(args)))
	}
	args = append(args, query.Limit)

	sql := fmt.Sprintf(`
	SELECT id, chapter, section, chunk_index, source_file, content,
	       1-(embedding <=> $1) AS score
	FROM far_chunks
	WHERE %s
	ORDER BY embedding <=> $1
	LIMIT $%d
	`, strings.Join(conds, " AND "), len(args))

	rows, err := s.backend.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []core.ScoredChunk
	for rows.Next() {
		var (
			sc         core.ScoredChunk
			sourceFile *string
			score      float64
		)
		if err := rows.Scan(
			&sc.ID,
			&sc.Chunk.Chapter,
			&sc.Chunk.Section,
			&sc.Chunk.Index,
			&sourceFile,
			&sc.Chunk.Text,
			&score,
		); err != nil {
			return nil, err
		}
		if sourceFile != nil {
			sc.Chunk.SourceFile = *sourceFile
		}
		sc.Score = float32(score)
		results = append(results, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("search complete",
		"results", len(results),
		"section", query.Section,
		"chapter", query.Chapter,
		"min_score", query.MinScore)
	return results, nil
}

// Count reports the number of stored points.
func (s *ChunkStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.backend.pool.QueryRow(ctx, "SELECT count(*) FROM far_chunks").Scan(&count)
	return count, err
}

// Close is a no-op; the shared backend owns the pool.
func (s *ChunkStore) Close() error {
	return nil
}
