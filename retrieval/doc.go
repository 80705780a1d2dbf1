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


// Package retrieval selects FAR context for a user query.
//
// Retrieval runs up to three steps, stopping at the first that yields
// results:
//
//  1. Section short-circuit. If the query names section references
//     ("52.219-9"), each is tried in order: a section-filtered vector
//     search, then a direct corpus read chunked on the fly. An explicit
//     citation beats semantic similarity.
//  2. Primary search. Similarity search over all chunks at the score
//     threshold, optionally filtered by chapter.
//  3. Fallback search. The same search with the threshold dropped to
//     zero, flagged on the result so callers can tell the user the
//     context is weak.
//
// An empty result after all three steps is a valid outcome, not an error.
package retrieval
