package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("the quick brown fox")
		id2 := IDFromContent("the quick brown fox")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different ID", func(t *testing.T) {
		id1 := IDFromContent("content A")
		id2 := IDFromContent("content B")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content", func(t *testing.T) {
		assert.NotZero(t, IDFromContent(""))
	})
}

func TestDocumentContentID(t *testing.T) {
	doc := &Document{Text: "some section text"}
	assert.Equal(t, IDFromContent("some section text"), doc.ContentID())
}

func TestValidateChunk(t *testing.T) {
	valid := func() *Chunk {
		return &Chunk{Text: "An offeror must submit a subcontracting plan.", Index: 0, Chapter: 52, Section: "52.219-9"}
	}

	t.Run("valid chunk", func(t *testing.T) {
		require.NoError(t, ValidateChunk(valid()))
	})

	t.Run("nil chunk", func(t *testing.T) {
		assert.ErrorIs(t, ValidateChunk(nil), ErrInvalidChunk)
	})

	t.Run("whitespace-only text", func(t *testing.T) {
		c := valid()
		c.Text = "  \n\t "
		err := ValidateChunk(c)
		assert.ErrorIs(t, err, ErrInvalidChunk)
		assert.ErrorIs(t, err, ErrEmptyChunkText)
	})

	t.Run("negative index", func(t *testing.T) {
		c := valid()
		c.Index = -1
		assert.ErrorIs(t, ValidateChunk(c), ErrInvalidChunk)
	})

	t.Run("chapter out of range", func(t *testing.T) {
		c := valid()
		c.Chapter = 54
		assert.ErrorIs(t, ValidateChunk(c), ErrPartOutOfRange)
	})
}

func TestValidateDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc := &Document{
			Section: SectionRef{Part: 15, Section: "404"},
			Chapter: 15,
			Text:    "Proposal analysis techniques.",
		}
		require.NoError(t, ValidateDocument(doc))
	})

	t.Run("empty text", func(t *testing.T) {
		doc := &Document{Chapter: 15}
		assert.ErrorIs(t, ValidateDocument(doc), ErrEmptyDocumentText)
	})

	t.Run("nil document", func(t *testing.T) {
		assert.ErrorIs(t, ValidateDocument(nil), ErrInvalidDocument)
	})
}

func TestValidateMessage(t *testing.T) {
	t.Run("valid roles", func(t *testing.T) {
		for _, role := range []Role{RoleUser, RoleAssistant} {
			msg := &Message{Role: role, Content: "hello"}
			require.NoError(t, ValidateMessage(msg))
		}
	})

	t.Run("empty content", func(t *testing.T) {
		msg := &Message{Role: RoleUser}
		err := ValidateMessage(msg)
		assert.ErrorIs(t, err, ErrInvalidMessage)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("unknown role", func(t *testing.T) {
		msg := &Message{Role: Role("system"), Content: "hello"}
		err := ValidateMessage(msg)
		assert.ErrorIs(t, err, ErrInvalidRole)
		assert.True(t, strings.Contains(err.Error(), "system"))
	})
}
