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


// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP endpoints (OpenAI itself, Ollama, LocalAI, vLLM) via langchaingo.
//
// Embedding and chat may target different hosts and models; both are
// configured through ai.Config. Constructors validate the configuration
// and return the ai interface types.
package openai
