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


package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openfar/farbot/ai"
	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/retrieval"
)

const (
	// historyLimit is how many trailing history messages are forwarded to
	// the model (three exchanges).
	historyLimit = 6

	// excerptLength is the number of characters of chunk text quoted in a
	// source citation.
	excerptLength = 200
)

// Service answers FAR questions over retrieved context.
type Service struct {
	retriever *retrieval.Retriever
	completer ai.Completer
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a chat service.
func NewService(retriever *retrieval.Retriever, provider ai.Provider, opts ...Option) (*Service, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Service{
		retriever: retriever,
		completer: provider.Completer(),
		logger:    slog.Default().With("component", "chat"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Answer is one answered turn with its citations and accounting.
type Answer struct {
	Content          string
	Sources          []core.Source
	TokenCount       int
	ProcessingTimeMS int
	FallbackUsed     bool
}

// Answer runs the full pipeline for one question: retrieve, prompt,
// complete, cite. History is trimmed to the most recent exchanges;
// selectedText is optional FAR text the user highlighted.
func (s *Service) Answer(ctx context.Context, query string, history []ai.Message, selectedText string, opts ...retrieval.QueryOption) (*Answer, error) {
	start := time.Now()

	result, err := s.retriever.Retrieve(ctx, query, opts...)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	contextBlock := retrieval.FormatContext(result)
	userMessage := buildUserMessage(query, contextBlock, selectedText)

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	s.logger.Debug("prompting model",
		"chunks", len(result.Chunks),
		"fallback", result.FallbackUsed,
		"history", len(history),
		"prompt_tokens", CountTokens(userMessage))

	completion, err := s.completer.Complete(ctx, ai.CompletionRequest{
		SystemPrompt: systemPrompt,
		History:      history,
		UserMessage:  userMessage,
	})
	if err != nil {
		return nil, fmt.Errorf("generating completion: %w", err)
	}

	content := completion.Text
	if result.FallbackUsed {
		note := fallbackNoteEmpty
		if len(result.Chunks) > 0 {
			note = fallbackNoteDegraded
		}
		content = note + "\n\n" + content
	}

	answer := &Answer{
		Content:          content,
		Sources:          buildSources(result.Chunks),
		TokenCount:       completion.TokenCount,
		ProcessingTimeMS: int(time.Since(start).Milliseconds()),
		FallbackUsed:     result.FallbackUsed,
	}

	s.logger.Info("answered query",
		"sources", len(answer.Sources),
		"tokens", answer.TokenCount,
		"processing_ms", answer.ProcessingTimeMS,
		"fallback", answer.FallbackUsed)
	return answer, nil
}

// buildSources converts retrieved chunks into citation records.
func buildSources(chunks []core.ScoredChunk) []core.Source {
	sources := make([]core.Source, len(chunks))
	for i, sc := range chunks {
		sources[i] = core.Source{
			ChunkID:        sc.ID.String(),
			Chapter:        sc.Chunk.Chapter,
			Section:        sc.Chunk.Section,
			RelevanceScore: sc.Score,
			Excerpt:        excerpt(sc.Chunk.Text),
		}
	}
	return sources
}

// excerpt returns the leading characters of text without splitting a rune.
func excerpt(text string) string {
	if len(text) <= excerptLength {
		return text
	}
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}
	return string(runes[:excerptLength])
}
