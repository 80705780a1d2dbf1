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


package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/openfar/farbot/ai"
	"github.com/openfar/farbot/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client      llms.Model
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(apiToken(config)),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:      client,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		logger:      slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new chat completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete generates a chat completion for the request. Request-level
// temperature and max tokens override the configured defaults when set.
func (c *Completer) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	content := make([]llms.MessageContent, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.SystemPrompt)},
		})
	}
	for _, msg := range req.History {
		role := llms.ChatMessageTypeHuman
		if msg.Role == string(core.RoleAssistant) {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(req.UserMessage)},
	})

	temperature := c.temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	maxTokens := c.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	c.logger.Debug("generating completion",
		"messages", len(content),
		"temperature", temperature,
		"max_tokens", maxTokens)

	response, err := c.client.GenerateContent(ctx, content,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens))
	if err != nil {
		c.logger.Error("failed to generate completion", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		c.logger.Warn("no choices returned from model")
		return nil, errors.New("openai: completion returned no choices")
	}

	choice := response.Choices[0]
	return &ai.Completion{
		Text:       choice.Content,
		TokenCount: completionTokens(choice),
	}, nil
}

// completionTokens reads the reported completion token usage, falling back
// to a whitespace-token estimate when the backend omits it.
func completionTokens(choice *llms.ContentChoice) int {
	if choice.GenerationInfo != nil {
		switch v := choice.GenerationInfo["CompletionTokens"].(type) {
		case int:
			if v > 0 {
				return v
			}
		case float64:
			if v > 0 {
				return int(v)
			}
		}
	}
	return len(strings.Fields(choice.Content))
}
