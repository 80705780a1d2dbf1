package retrieval

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openfar/farbot/core"
)

// NoContextMessage is the prompt block used when retrieval found nothing.
const NoContextMessage = "No relevant FAR content found."

// farTagPattern matches a leading "[FAR 52.219-9]" provenance tag some
// corpus files carry at the top of each section.
var farTagPattern = regexp.MustCompile(`^\[FAR [^\]]*\]\s*`)

// FormatContext renders a retrieval result as the context block of the
// model prompt. Each chunk is labeled with its ordinal, section and
// relevance so the model can cite sources.
func FormatContext(result *core.RetrievalResult) string {
	if result == nil || len(result.Chunks) == 0 {
		return NoContextMessage
	}

	blocks := make([]string, len(result.Chunks))
	for i, sc := range result.Chunks {
		text := farTagPattern.ReplaceAllString(sc.Chunk.Text, "")
		blocks[i] = fmt.Sprintf("[Source %d] FAR Section %s (Relevance: %.2f)\n%s\n",
			i+1, sc.Chunk.Section, sc.Score, text)
	}
	return strings.Join(blocks, "\n---\n\n")
}
