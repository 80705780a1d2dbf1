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


// Package storage defines the persistence interfaces for farbot.
//
// Three concerns are separated:
//
//   - ChunkStore: the vector index of embedded regulation chunks
//   - DocumentStore: the source corpus of regulation section documents
//   - ConversationRepository: conversation and message history
//
// Implementations live in sub-packages: storage/postgres (pgvector-backed
// ChunkStore plus ConversationRepository), storage/corpus (filesystem
// DocumentStore), storage/memory (in-memory doubles for tests) and
// storage/embedcache (badger-backed embedding cache used by ingestion).
//
// All implementations must be safe for concurrent use.
package storage
