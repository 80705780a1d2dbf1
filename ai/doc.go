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


// Package ai provides abstractions for the AI services used in farbot.
//
// The retrieval and chat layers depend on two capabilities: turning text
// into embedding vectors and generating chat completions. Both are defined
// here as interfaces so the core pipeline never couples to a concrete
// vendor API.
//
//   - Embedder: text -> embedding vector (single and order-preserving batch)
//   - Completer: system prompt + history + user message -> completion
//   - Provider: aggregates both for initialization and lifecycle management
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation for OpenAI-compatible endpoints
//   - ai/mock: deterministic test doubles with function-field injection
//
// Public constructors in the implementation packages return the interface
// types to enforce abstraction; mock constructors return concrete types so
// tests can inject behavior and assert call counts.
package ai
