package chat

import (
	"fmt"
	"strings"
)

// systemPrompt instructs the model to answer strictly from retrieved FAR
// content and to cite sections.
const systemPrompt = `You are an expert AI assistant specializing in the Federal Acquisition Regulation (FAR).

Your role is to:
1. Answer questions accurately based on the provided FAR content
2. Cite specific FAR sections when providing information
3. Explain complex procurement regulations in clear, accessible language
4. Acknowledge when information is not in the provided context

Guidelines:
- Only use information from the provided FAR sections
- Always cite section numbers when referencing regulations
- If the context contains any FAR excerpts, you must answer using them.
- Only say that no relevant information exists when the context literally says "No relevant FAR content found."
- Be concise but complete in your explanations
- Use professional but friendly tone`

// Fallback notes prepended to the answer when the primary retrieval
// threshold produced nothing.
const (
	fallbackNoteDegraded = "I couldn't find an exact FAR passage matching that question, " +
		"so I'm sharing the closest related sections."
	fallbackNoteEmpty = "I couldn't find any FAR passages that match that question, " +
		"even after broadening the search."
)

// buildUserMessage combines the question, any user-selected FAR text and
// the retrieved context into one fenced prompt message.
func buildUserMessage(query, context, selectedText string) string {
	var parts []string
	if selectedText != "" {
		parts = append(parts, fmt.Sprintf("I've selected this text from the FAR:\n\"%s\"\n", selectedText))
	}
	parts = append(parts, fmt.Sprintf("Question: %s\n", query))
	parts = append(parts, fmt.Sprintf("\n===FAR CONTEXT===\n%s\n===END CONTEXT===", context))
	return strings.Join(parts, "\n")
}
