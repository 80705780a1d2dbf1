package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/openfar/farbot/ai"
	"github.com/openfar/farbot/ai/mock"
	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/retrieval"
	"github.com/openfar/farbot/storage"
	"github.com/openfar/farbot/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedChunk(t *testing.T, store *memory.ChunkStore, section string, chapter int, text string) {
	t.Helper()
	err := store.UpsertChunks(context.Background(), []storage.Point{{
		ID: uuid.New(),
		Chunk: core.Chunk{
			Text:    text,
			Chapter: chapter,
			Section: section,
		},
		Vector: mock.DeterministicVector(text, mock.DefaultVectorDim),
	}})
	require.NoError(t, err)
}

func newService(t *testing.T, store *memory.ChunkStore, provider ai.Provider) *Service {
	t.Helper()
	r, err := retrieval.NewRetriever(store, memory.NewDocumentStore(), provider)
	require.NoError(t, err)
	s, err := NewService(r, provider)
	require.NoError(t, err)
	return s
}

func TestNewService(t *testing.T) {
	provider := mock.NewMockProvider()
	r, err := retrieval.NewRetriever(memory.NewChunkStore(), memory.NewDocumentStore(), provider)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		_, err := NewService(r, provider)
		require.NoError(t, err)
	})

	t.Run("missing retriever", func(t *testing.T) {
		_, err := NewService(nil, provider)
		assert.ErrorIs(t, err, ErrRetrieverRequired)
	})

	t.Run("missing provider", func(t *testing.T) {
		_, err := NewService(r, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})
}

func TestAnswer_IncludesContextAndSources(t *testing.T) {
	store := memory.NewChunkStore()
	query := "What are the subcontracting plan requirements?"
	seedChunk(t, store, "19.702", 19, query)

	provider := mock.NewMockProvider()
	s := newService(t, store, provider)

	answer, err := s.Answer(context.Background(), query, nil, "")
	require.NoError(t, err)

	assert.False(t, answer.FallbackUsed)
	assert.NotEmpty(t, answer.Content)
	assert.Greater(t, answer.TokenCount, 0)
	assert.GreaterOrEqual(t, answer.ProcessingTimeMS, 0)

	require.Len(t, answer.Sources, 1)
	src := answer.Sources[0]
	assert.Equal(t, "19.702", src.Section)
	assert.Equal(t, 19, src.Chapter)
	assert.NotEmpty(t, src.ChunkID)
	assert.InDelta(t, 1.0, src.RelevanceScore, 1e-5)

	// The model saw the retrieved context inside the fences.
	completer := provider.(*mock.MockProvider).GetMockCompleter()
	req := completer.LastRequest()
	require.NotNil(t, req)
	assert.Contains(t, req.UserMessage, "===FAR CONTEXT===")
	assert.Contains(t, req.UserMessage, "[Source 1] FAR Section 19.702")
	assert.Contains(t, req.SystemPrompt, "Federal Acquisition Regulation")
}

func TestAnswer_SelectedText(t *testing.T) {
	store := memory.NewChunkStore()
	query := "what does this mean"
	seedChunk(t, store, "52.219-9", 52, query)

	provider := mock.NewMockProvider()
	s := newService(t, store, provider)

	_, err := s.Answer(context.Background(), query, nil, "The Contractor shall submit a plan")
	require.NoError(t, err)

	req := provider.(*mock.MockProvider).GetMockCompleter().LastRequest()
	require.NotNil(t, req)
	assert.Contains(t, req.UserMessage, "I've selected this text from the FAR:")
	assert.Contains(t, req.UserMessage, `"The Contractor shall submit a plan"`)
}

func TestAnswer_HistoryTrimmedToLastSix(t *testing.T) {
	store := memory.NewChunkStore()
	query := "follow-up question"
	seedChunk(t, store, "1.101", 1, query)

	provider := mock.NewMockProvider()
	s := newService(t, store, provider)

	history := make([]ai.Message, 10)
	for i := range history {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history[i] = ai.Message{Role: role, Content: strings.Repeat("x", i+1)}
	}

	_, err := s.Answer(context.Background(), query, history, "")
	require.NoError(t, err)

	req := provider.(*mock.MockProvider).GetMockCompleter().LastRequest()
	require.NotNil(t, req)
	require.Len(t, req.History, 6)
	assert.Equal(t, history[4], req.History[0])
	assert.Equal(t, history[9], req.History[5])
}

func TestAnswer_FallbackNotes(t *testing.T) {
	t.Run("degraded results", func(t *testing.T) {
		store := memory.NewChunkStore()
		// Orthogonal seed: only the relaxed pass returns it.
		err := store.UpsertChunks(context.Background(), []storage.Point{{
			ID:     uuid.New(),
			Chunk:  core.Chunk{Text: "unrelated", Chapter: 1, Section: "1.101"},
			Vector: []float32{0, 1},
		}})
		require.NoError(t, err)

		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0}, nil
		}
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockCompleter())
		s := newService(t, store, provider)

		answer, err := s.Answer(context.Background(), "no good match", nil, "")
		require.NoError(t, err)
		assert.True(t, answer.FallbackUsed)
		assert.True(t, strings.HasPrefix(answer.Content,
			"I couldn't find an exact FAR passage matching that question"))
		assert.NotEmpty(t, answer.Sources)
	})

	t.Run("nothing found", func(t *testing.T) {
		provider := mock.NewMockProvider()
		s := newService(t, memory.NewChunkStore(), provider)

		answer, err := s.Answer(context.Background(), "question with no corpus", nil, "")
		require.NoError(t, err)
		assert.True(t, answer.FallbackUsed)
		assert.True(t, strings.HasPrefix(answer.Content,
			"I couldn't find any FAR passages that match that question"))
		assert.Empty(t, answer.Sources)

		// The model still gets the explicit no-context marker.
		req := provider.(*mock.MockProvider).GetMockCompleter().LastRequest()
		require.NotNil(t, req)
		assert.Contains(t, req.UserMessage, retrieval.NoContextMessage)
	})
}

func TestAnswer_CompleterErrorPropagates(t *testing.T) {
	store := memory.NewChunkStore()
	query := "a question"
	seedChunk(t, store, "1.101", 1, query)

	completer := mock.NewMockCompleter()
	wantErr := errors.New("model unavailable")
	completer.CompleteFunc = func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		return nil, wantErr
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), completer)
	s := newService(t, store, provider)

	_, err := s.Answer(context.Background(), query, nil, "")
	assert.ErrorIs(t, err, wantErr)
}

func TestAnswer_ExcerptCapped(t *testing.T) {
	store := memory.NewChunkStore()
	longText := strings.Repeat("regulation text ", 30) // well over 200 chars
	query := longText
	seedChunk(t, store, "19.702", 19, longText)

	s := newService(t, store, mock.NewMockProvider())

	answer, err := s.Answer(context.Background(), query, nil, "")
	require.NoError(t, err)
	require.NotEmpty(t, answer.Sources)
	assert.Len(t, answer.Sources[0].Excerpt, 200)
}

func TestBuildUserMessage(t *testing.T) {
	msg := buildUserMessage("the question", "the context", "")
	assert.Contains(t, msg, "Question: the question\n")
	assert.Contains(t, msg, "===FAR CONTEXT===\nthe context\n===END CONTEXT===")
	assert.NotContains(t, msg, "selected")
}

func TestCountTokens(t *testing.T) {
	assert.Greater(t, CountTokens("The contracting officer shall insert the clause."), 4)
	assert.Equal(t, 0, CountTokens(""))
}
