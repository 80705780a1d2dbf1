package memory

import (
	"context"
	"sync"

	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/storage"
)

// DocumentStore is an in-memory storage.DocumentStore.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*core.Document
	refs []core.SectionRef
}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]*core.Document),
	}
}

// Add inserts or replaces a document, keyed by its section reference.
func (s *DocumentStore) Add(doc core.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := doc.Section.String()
	if _, exists := s.docs[key]; !exists {
		s.refs = append(s.refs, doc.Section)
	}
	s.docs[key] = &doc
}

// Read returns the document for the section reference.
func (s *DocumentStore) Read(ctx context.Context, ref core.SectionRef) (*core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[ref.String()]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

// List returns the section references in insertion order.
func (s *DocumentStore) List(ctx context.Context) ([]core.SectionRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make([]core.SectionRef, len(s.refs))
	copy(refs, s.refs)
	return refs, nil
}
