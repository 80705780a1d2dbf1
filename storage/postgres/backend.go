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


package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// VectorDim is the dimensionality of stored embeddings. It must match the
// embedding model configured for ingestion.
const VectorDim = 768

// Backend wraps a pgx connection pool shared by the stores in this package.
type Backend struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, connStr string) (*Backend, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Backend{
		pool:   pool,
		logger: slog.Default().With("component", "postgres"),
	}, nil
}

// Init creates the schema if it does not exist: the pgvector extension,
// the chunk index with its similarity and filter indexes, and the
// conversation tables.
func (b *Backend) Init(ctx context.Context) error {
	query := `
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS far_chunks (
		id UUID PRIMARY KEY,
		chapter INT NOT NULL,
		section TEXT NOT NULL,
		chunk_index INT NOT NULL,
		source_file TEXT,
		content TEXT NOT NULL,
		embedding vector(768)
	);

	CREATE INDEX IF NOT EXISTS idx_far_chunks_embedding ON far_chunks
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
	CREATE INDEX IF NOT EXISTS idx_far_chunks_section ON far_chunks(section);
	CREATE INDEX IF NOT EXISTS idx_far_chunks_chapter ON far_chunks(chapter);

	CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
		metadata JSONB
	);

	CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		conversation_id UUID NOT NULL REFERENCES conversations(id),
		role TEXT NOT NULL CHECK (role IN ('user','assistant')),
		content TEXT NOT NULL,
		selected_text TEXT,
		sources JSONB,
		token_count INT NOT NULL DEFAULT 0,
		processing_time_ms INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_conversation
		ON messages(conversation_id, created_at);
	`
	if _, err := b.pool.Exec(ctx, query); err != nil {
		return err
	}
	b.logger.Info("schema initialized")
	return nil
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	if b.pool != nil {
		b.pool.Close()
		b.logger.Debug("connection pool closed")
	}
	return nil
}
