package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectBounded drains the chunk sequence but fails the test if it does
// not terminate within limit iterations. Guards against the historical
// stalled-cursor regression without hanging the test run.
func collectBounded(t *testing.T, c *Chunker, text string, limit int) []string {
	t.Helper()
	var chunks []string
	for chunk := range c.Chunks(text) {
		chunks = append(chunks, chunk)
		require.LessOrEqual(t, len(chunks), limit, "chunker did not terminate")
	}
	return chunks
}

func TestNew(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		c, err := New(600, 150)
		require.NoError(t, err)
		assert.Equal(t, 600, c.Size())
		assert.Equal(t, 150, c.Overlap())
	})

	t.Run("zero overlap", func(t *testing.T) {
		_, err := New(100, 0)
		require.NoError(t, err)
	})

	t.Run("zero size", func(t *testing.T) {
		_, err := New(0, 0)
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
	})

	t.Run("negative size", func(t *testing.T) {
		_, err := New(-10, 0)
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
	})

	t.Run("negative overlap", func(t *testing.T) {
		_, err := New(100, -1)
		assert.ErrorIs(t, err, ErrInvalidOverlap)
	})

	t.Run("overlap equal to size", func(t *testing.T) {
		_, err := New(100, 100)
		assert.ErrorIs(t, err, ErrInvalidOverlap)
	})

	t.Run("overlap larger than size", func(t *testing.T) {
		_, err := New(100, 150)
		assert.ErrorIs(t, err, ErrInvalidOverlap)
	})
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, DefaultChunkSize, c.Size())
	assert.Equal(t, DefaultChunkOverlap, c.Overlap())
}

func TestChunks_EmptyText(t *testing.T) {
	c := Default()
	assert.Empty(t, c.Split(""))
}

func TestChunks_ShortDocument(t *testing.T) {
	// A document shorter than the chunk size yields exactly one chunk
	// equal to the trimmed input.
	c, err := New(600, 150)
	require.NoError(t, err)

	chunks := c.Split("short text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestChunks_TrimsWhitespace(t *testing.T) {
	c, err := New(600, 150)
	require.NoError(t, err)

	chunks := c.Split("  padded text \n")
	require.Len(t, chunks, 1)
	assert.Equal(t, "padded text", chunks[0])
}

func TestChunks_WhitespaceOnly(t *testing.T) {
	c, err := New(20, 5)
	require.NoError(t, err)
	assert.Empty(t, c.Split("   \n\t  "))
}

func TestChunks_SentenceBoundary(t *testing.T) {
	c, err := New(30, 0)
	require.NoError(t, err)

	text := "First sentence here. Second sentence is a bit longer than that."
	chunks := c.Split(text)
	require.NotEmpty(t, chunks)
	// The window covers past the first sentence; the cut snaps back to
	// the terminator, keeping the period and dropping the space.
	assert.Equal(t, "First sentence here.", chunks[0])
}

func TestChunks_WordBoundary(t *testing.T) {
	c, err := New(20, 0)
	require.NoError(t, err)

	text := "alpha bravo charlie delta echo foxtrot"
	chunks := collectBounded(t, c, text, len(text))
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.False(t, strings.HasSuffix(chunk, " "))
		// No chunk cuts a word when spaces are available in the window.
		for _, word := range strings.Fields(chunk) {
			assert.Contains(t, text, word)
		}
	}
}

func TestChunks_OneLongWord(t *testing.T) {
	// No spaces, no sentence punctuation: degrades to raw fixed-size
	// slicing where only the plain overlap carries between chunks.
	c, err := New(10, 4)
	require.NoError(t, err)

	text := strings.Repeat("x", 35)
	chunks := collectBounded(t, c, text, 35)
	// Cursor strides size-overlap=6 bytes: starts 0,6,12,18,24,30.
	require.Len(t, chunks, 6)
	assert.Equal(t, strings.Repeat("x", 10), chunks[0])
	assert.Equal(t, strings.Repeat("x", 5), chunks[5])
}

func TestChunks_NoEmptyChunks(t *testing.T) {
	c, err := New(10, 3)
	require.NoError(t, err)

	text := "a.  b.  c.  d.  e.  f.  g.  h.  i.  j.  k."
	for chunk := range c.Chunks(text) {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunks_AdversarialShortSentences(t *testing.T) {
	// Ten five-byte "sentences" with an overlap nearly as large as the
	// window: the naive advance (end - overlap) stalls here and loops
	// forever. The guard must discard the overlap and keep moving.
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("ab")
		b.WriteByte(byte('0' + i))
		b.WriteString(". ")
	}
	text := b.String()
	require.Len(t, text, 50)

	c, err := New(20, 15)
	require.NoError(t, err)

	chunks := collectBounded(t, c, text, 10)
	assert.NotEmpty(t, chunks)

	// Every sentence survives somewhere in the output.
	joined := strings.Join(chunks, " ")
	for i := 0; i < 10; i++ {
		assert.Contains(t, joined, "ab"+string(byte('0'+i))+".")
	}
}

func TestChunks_Coverage(t *testing.T) {
	// Every word of the input appears in at least one chunk: boundary
	// snapping never silently drops content.
	text := "The contracting officer shall insert the clause at 52.219-9 in solicitations. " +
		"Small business subcontracting plans are required for contracts above the threshold. " +
		"Each plan must include separate percentage goals. Failure to submit is a material breach."
	c, err := New(60, 20)
	require.NoError(t, err)

	chunks := collectBounded(t, c, text, len(text))
	joined := strings.Join(chunks, " ")
	for _, word := range strings.Fields(text) {
		assert.Contains(t, joined, word)
	}
}

func TestChunks_Deterministic(t *testing.T) {
	text := "One. Two. Three. Four. Five. Six. Seven. Eight. Nine. Ten. " +
		strings.Repeat("filler words to stretch the document out a little further. ", 5)
	c, err := New(48, 16)
	require.NoError(t, err)

	first := c.Split(text)
	second := c.Split(text)
	assert.Equal(t, first, second)
}

func TestChunks_Restartable(t *testing.T) {
	c, err := New(25, 5)
	require.NoError(t, err)
	text := "Alpha one. Bravo two. Charlie three. Delta four. Echo five."

	seq := c.Chunks(text)

	// Partial first pass, then a full pass over the same sequence value.
	var partial []string
	for chunk := range seq {
		partial = append(partial, chunk)
		if len(partial) == 1 {
			break
		}
	}
	full := make([]string, 0)
	for chunk := range seq {
		full = append(full, chunk)
	}

	require.NotEmpty(t, full)
	assert.Equal(t, partial[0], full[0])
}

func TestChunks_TerminationBound(t *testing.T) {
	// The advance guard bounds iteration count by the text length no
	// matter how pathological the boundary layout is.
	inputs := []string{
		strings.Repeat(". ", 40),
		strings.Repeat("a. ", 40),
		strings.Repeat(" ", 30) + "tail",
		"no-boundaries-at-all-just-one-very-long-hyphenated-token",
	}
	c, err := New(12, 9)
	require.NoError(t, err)

	for _, text := range inputs {
		collectBounded(t, c, text, len(text)+1)
	}
}

func TestSnapToBoundary(t *testing.T) {
	t.Run("prefers right-most sentence terminator", func(t *testing.T) {
		text := "One. Two! Three? Four"
		end := snapToBoundary(text, 0, 18)
		// "Three?" ends at offset 15; cut lands just after the '?'.
		assert.Equal(t, 16, end)
	})

	t.Run("falls back to space", func(t *testing.T) {
		text := "alpha bravo charlie"
		end := snapToBoundary(text, 0, 14)
		assert.Equal(t, 11, end)
	})

	t.Run("raw cut when no boundary", func(t *testing.T) {
		text := "abcdefghijklmnop"
		assert.Equal(t, 8, snapToBoundary(text, 0, 8))
	})

	t.Run("boundary at window start not used", func(t *testing.T) {
		// A space at relative offset 0 must not produce an empty advance.
		text := " abcdefghijklm"
		assert.Equal(t, 8, snapToBoundary(text, 0, 8))
	})
}
