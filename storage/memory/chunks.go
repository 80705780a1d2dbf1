package memory

import (
	"context"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/storage"
)

// ChunkStore is an in-memory storage.ChunkStore with exact cosine search.
type ChunkStore struct {
	mu     sync.RWMutex
	points map[uuid.UUID]storage.Point
	closed bool
}

// NewChunkStore creates an empty in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		points: make(map[uuid.UUID]storage.Point),
	}
}

// UpsertChunks inserts or replaces points by ID.
func (s *ChunkStore) UpsertChunks(ctx context.Context, points []storage.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}
	for _, p := range points {
		s.points[p.ID] = p
	}
	return nil
}

// DeleteChunksBySection removes every point belonging to the section.
func (s *ChunkStore) DeleteChunksBySection(ctx context.Context, section string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}
	for id, p := range s.points {
		if p.Chunk.Section == section {
			delete(s.points, id)
		}
	}
	return nil
}

// Search scans all points, scoring by cosine similarity.
func (s *ChunkStore) Search(ctx context.Context, query storage.ChunkQuery) ([]core.ScoredChunk, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	var results []core.ScoredChunk
	for id, p := range s.points {
		if query.Chapter != 0 && p.Chunk.Chapter != query.Chapter {
			continue
		}
		if query.Section != "" && p.Chunk.Section != query.Section {
			continue
		}
		score := cosineSimilarity(query.Vector, p.Vector)
		if score < query.MinScore {
			continue
		}
		results = append(results, core.ScoredChunk{
			ID:    id,
			Chunk: p.Chunk,
			Score: score,
		})
	}

	slices.SortFunc(results, func(a, b core.ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results, nil
}

// Count reports the number of stored points.
func (s *ChunkStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, storage.ErrStorageClosed
	}
	return len(s.points), nil
}

// Close marks the store closed; further operations fail.
func (s *ChunkStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
