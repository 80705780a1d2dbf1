package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/openfar/farbot/ai"
	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/retrieval"
	"github.com/openfar/farbot/storage"
)

// historyLimit is how many stored messages are replayed to the model
// when answering a new question.
const historyLimit = 6

func (s *Server) handleHealthy(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok"})
}

func (s *Server) handleCreateConversation(c *fiber.Ctx) error {
	var params CreateConversationParams
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&params); err != nil {
			return ErrBadRequest()
		}
	}

	metadata := params.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	source := params.Source
	if source == "" {
		source = "web"
	}
	metadata["source"] = source

	conv, err := s.conversations.CreateConversation(c.Context(), &core.Conversation{Metadata: metadata})
	if err != nil {
		return err
	}

	s.logger.Info("conversation created", "id", conv.ID)
	return c.Status(fiber.StatusCreated).JSON(toConversationResponse(conv))
}

func (s *Server) handleGetConversation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrInvalidID()
	}

	conv, err := s.conversations.GetConversation(c.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrResourceNotFound("conversation")
		}
		return err
	}
	return c.JSON(toConversationResponse(conv))
}

func (s *Server) handleGetMessages(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrInvalidID()
	}

	if _, err := s.conversations.GetConversation(c.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrResourceNotFound("conversation")
		}
		return err
	}

	limit := c.QueryInt("limit", 0)
	var messages []*core.Message
	if limit > 0 {
		messages, err = s.conversations.GetRecentMessages(c.Context(), id, limit)
	} else {
		messages, err = s.conversations.GetMessages(c.Context(), id)
	}
	if err != nil {
		return err
	}

	out := make([]MessageResponse, len(messages))
	for i, msg := range messages {
		out[i] = toMessageResponse(msg)
	}
	return c.JSON(out)
}

func (s *Server) handleSendMessage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrInvalidID()
	}

	var params SendMessageParams
	if err := c.BodyParser(&params); err != nil {
		return ErrBadRequest()
	}
	if fields := validateParams(params); fields != nil {
		return NewValidationError(fields)
	}

	if _, err := s.conversations.GetConversation(c.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrResourceNotFound("conversation")
		}
		return err
	}

	// History is fetched before the new user message is stored so the
	// model never sees the question twice.
	recent, err := s.conversations.GetRecentMessages(c.Context(), id, historyLimit)
	if err != nil {
		return err
	}
	history := make([]ai.Message, len(recent))
	for i, msg := range recent {
		history[i] = ai.Message{Role: string(msg.Role), Content: msg.Content}
	}

	userMsg, err := s.conversations.AddMessage(c.Context(), &core.Message{
		ID:             uuid.New(),
		ConversationID: id,
		Role:           core.RoleUser,
		Content:        params.Content,
		SelectedText:   params.SelectedText,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	var queryOpts []retrieval.QueryOption
	if params.Chapter > 0 {
		queryOpts = append(queryOpts, retrieval.WithChapter(params.Chapter))
	}

	answer, err := s.chat.Answer(c.Context(), params.Content, history, params.SelectedText, queryOpts...)
	if err != nil {
		s.logger.Error("chat turn failed", "conversation", id, "err", err)
		return err
	}

	assistantMsg, err := s.conversations.AddMessage(c.Context(), &core.Message{
		ID:               uuid.New(),
		ConversationID:   id,
		Role:             core.RoleAssistant,
		Content:          answer.Content,
		Sources:          answer.Sources,
		TokenCount:       answer.TokenCount,
		ProcessingTimeMS: answer.ProcessingTimeMS,
		CreatedAt:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(ChatResponse{
		UserMessage:      toMessageResponse(userMsg),
		AssistantMessage: toMessageResponse(assistantMsg),
	})
}
