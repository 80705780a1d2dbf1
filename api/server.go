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


package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/openfar/farbot/chat"
	"github.com/openfar/farbot/storage"
)

// Server is the HTTP surface of the FAR chatbot.
type Server struct {
	app           *fiber.App
	conversations storage.ConversationRepository
	chat          *chat.Service
	listenAddr    string
	logger        *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer wires the API routes over the conversation repository and
// chat service.
func NewServer(
	listenAddr string,
	conversations storage.ConversationRepository,
	chatService *chat.Service,
	opts ...Option,
) (*Server, error) {
	if conversations == nil {
		return nil, ErrConversationRepoRequired
	}
	if chatService == nil {
		return nil, ErrChatServiceRequired
	}

	s := &Server{
		conversations: conversations,
		chat:          chatService,
		listenAddr:    listenAddr,
		logger:        slog.Default().With("component", "api"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	check := app.Group("/check")
	check.Get("/healthy", s.handleHealthy)

	apiv1 := app.Group("/api/v1")
	apiv1.Post("/conversations", s.handleCreateConversation)
	apiv1.Get("/conversations/:id", s.handleGetConversation)
	apiv1.Get("/conversations/:id/messages", s.handleGetMessages)
	apiv1.Post("/conversations/:id/messages", s.handleSendMessage)

	s.app = app
	return s, nil
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves requests until Shutdown is called.
func (s *Server) Listen() error {
	s.logger.Info("api listening", "addr", s.listenAddr)
	return s.app.Listen(s.listenAddr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.logger.Info("api shutting down")
	return s.app.Shutdown()
}
