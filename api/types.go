package api

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/openfar/farbot/core"
)

var validate = validator.New()

// validateParams runs struct validation and maps failures to field errors.
func validateParams(params any) map[string]string {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": err.Error()}
	}
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return fields
}

// CreateConversationParams is the body of POST /conversations.
type CreateConversationParams struct {
	Source   string            `json:"source"`
	Metadata map[string]string `json:"metadata"`
}

// SendMessageParams is the body of POST /conversations/:id/messages.
type SendMessageParams struct {
	Content      string `json:"content" validate:"required,min=1,max=4000"`
	SelectedText string `json:"selected_text" validate:"omitempty,max=4000"`
	Chapter      int    `json:"chapter" validate:"omitempty,min=1,max=53"`
}

// ConversationResponse is the JSON shape of a conversation.
type ConversationResponse struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// MessageResponse is the JSON shape of a message.
type MessageResponse struct {
	ID               string        `json:"id"`
	ConversationID   string        `json:"conversation_id"`
	Role             string        `json:"role"`
	Content          string        `json:"content"`
	SelectedText     string        `json:"selected_text,omitempty"`
	Sources          []core.Source `json:"sources"`
	TokenCount       int           `json:"token_count"`
	ProcessingTimeMS int           `json:"processing_time_ms"`
	CreatedAt        time.Time     `json:"created_at"`
}

// ChatResponse is the body of a successful message turn: the stored user
// message and the generated assistant message.
type ChatResponse struct {
	UserMessage      MessageResponse `json:"user_message"`
	AssistantMessage MessageResponse `json:"assistant_message"`
}

// HealthResponse is the body of GET /check/healthy.
type HealthResponse struct {
	Status string `json:"status"`
}

func toConversationResponse(conv *core.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        conv.ID.String(),
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Metadata:  conv.Metadata,
	}
}

func toMessageResponse(msg *core.Message) MessageResponse {
	sources := msg.Sources
	if sources == nil {
		sources = []core.Source{}
	}
	return MessageResponse{
		ID:               msg.ID.String(),
		ConversationID:   msg.ConversationID.String(),
		Role:             string(msg.Role),
		Content:          msg.Content,
		SelectedText:     msg.SelectedText,
		Sources:          sources,
		TokenCount:       msg.TokenCount,
		ProcessingTimeMS: msg.ProcessingTimeMS,
		CreatedAt:        msg.CreatedAt,
	}
}
