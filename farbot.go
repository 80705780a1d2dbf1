// Copyright 2025 The farbot Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package farbot

import (
	"context"
	"log/slog"

	"github.com/openfar/farbot/ai"
	"github.com/openfar/farbot/ai/openai"
	"github.com/openfar/farbot/chat"
	"github.com/openfar/farbot/ingestion"
	"github.com/openfar/farbot/retrieval"
	"github.com/openfar/farbot/storage"
	"github.com/openfar/farbot/storage/corpus"
	"github.com/openfar/farbot/storage/embedcache"
	"github.com/openfar/farbot/storage/postgres"
)

// System wires the storage backends and AI provider into one handle the
// commands build everything else from.
type System struct {
	backend       *postgres.Backend
	chunks        storage.ChunkStore
	conversations storage.ConversationRepository
	corpus        storage.DocumentStore
	cache         *embedcache.Cache
	provider      ai.Provider
	config        *ai.Config
	logger        *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig  *ai.Config
	corpusDir string
	cachePath string
}

// WithAIConfig sets the AI provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithCorpusDir sets the directory of FAR section markdown files.
func WithCorpusDir(dir string) SystemOption {
	return func(o *systemOptions) {
		o.corpusDir = dir
	}
}

// WithEmbeddingCachePath enables the badger embedding cache at the path.
func WithEmbeddingCachePath(path string) SystemOption {
	return func(o *systemOptions) {
		o.cachePath = path
	}
}

// NewSystem opens the postgres backend and builds the stores and the AI
// provider. The corpus and embedding cache are optional; commands that
// don't ingest can leave them unset.
func NewSystem(ctx context.Context, connStr string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := postgres.Open(ctx, connStr)
	if err != nil {
		return nil, err
	}

	chunks, err := postgres.NewChunkStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	conversations, err := postgres.NewConversationRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	var documents storage.DocumentStore
	if options.corpusDir != "" {
		documents, err = corpus.New(options.corpusDir)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	var cache *embedcache.Cache
	if options.cachePath != "" {
		cache, err = embedcache.Open(options.cachePath)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		backend.Close()
		return nil, err
	}

	return &System{
		backend:       backend,
		chunks:        chunks,
		conversations: conversations,
		corpus:        documents,
		cache:         cache,
		provider:      provider,
		config:        options.aiConfig,
		logger:        slog.Default(),
	}, nil
}

// InitSchema creates the tables, indexes and the pgvector extension.
func (s *System) InitSchema(ctx context.Context) error {
	return s.backend.Init(ctx)
}

func (s *System) ChunkStore() storage.ChunkStore {
	return s.chunks
}

func (s *System) ConversationRepository() storage.ConversationRepository {
	return s.conversations
}

// NewIngestionPipeline builds a pipeline over the system's stores. The
// embedding cache is wired in when the system was opened with one.
func (s *System) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	if s.cache != nil {
		opts = append([]ingestion.Option{
			ingestion.WithEmbeddingCache(s.cache, s.config.EmbeddingModel),
		}, opts...)
	}
	return ingestion.NewPipeline(s.chunks, s.corpus, s.provider, opts...)
}

func (s *System) NewRetriever(opts ...retrieval.Option) (*retrieval.Retriever, error) {
	return retrieval.NewRetriever(s.chunks, s.corpus, s.provider, opts...)
}

// NewChatService builds the answering service over a fresh retriever.
func (s *System) NewChatService(opts ...chat.Option) (*chat.Service, error) {
	retriever, err := s.NewRetriever()
	if err != nil {
		return nil, err
	}
	return chat.NewService(retriever, s.provider, opts...)
}

// Close releases the AI provider, the embedding cache and the backend.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Error("error closing embedding cache", "err", err)
		}
	}
	return s.backend.Close()
}
