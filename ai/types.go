package ai

// Message is one prior turn of a conversation, passed as model context.
type Message struct {
	// Role is "user" or "assistant".
	Role    string
	Content string
}

// CompletionRequest carries everything the model needs for one turn.
type CompletionRequest struct {
	// SystemPrompt sets the model's instructions for the whole turn.
	SystemPrompt string

	// History holds prior conversation turns, oldest first.
	History []Message

	// UserMessage is the current question, already combined with any
	// retrieved context by the caller.
	UserMessage string

	// Temperature controls sampling randomness. Zero means model default.
	Temperature float64

	// MaxTokens caps the completion length. Zero means model default.
	MaxTokens int
}

// Completion is the model's answer to a CompletionRequest.
type Completion struct {
	Text string

	// TokenCount is the completion token usage as reported by the model,
	// or a whitespace-token estimate when the backend does not report it.
	TokenCount int
}
