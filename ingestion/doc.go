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


// Package ingestion loads the FAR corpus into the vector store.
//
// The pipeline reads section documents, splits them with the chunker,
// embeds each chunk and upserts the resulting points. Ingestion replaces:
// all existing points for a section are deleted before the new ones are
// written, so re-running ingestion after a corpus update never leaves
// stale chunks behind.
//
// Documents are processed concurrently on a worker pool. An optional
// embedding cache short-circuits the embedding call for chunks whose
// content hash was seen in a previous run.
package ingestion
