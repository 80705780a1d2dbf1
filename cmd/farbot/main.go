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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/openfar/farbot"
	"github.com/openfar/farbot/ai"
	"github.com/openfar/farbot/api"
	"github.com/openfar/farbot/ingestion"
	"github.com/openfar/farbot/retrieval"
	"github.com/urfave/cli/v2"
)

func main() {
	// Missing .env is fine; flags and real env still apply.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "farbot",
		Usage: "Retrieval-augmented chatbot for the Federal Acquisition Regulation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Postgres connection string",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				EnvVars: []string{"EMBEDDING_HOST"},
				Value:   "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"EMBEDDING_MODEL"},
				Value:   "nomic-embed-text",
			},
			&cli.StringFlag{
				Name:    "chat-host",
				Usage:   "Chat completion service host URL",
				EnvVars: []string{"CHAT_HOST"},
				Value:   "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:    "chat-model",
				Usage:   "Chat completion model name",
				EnvVars: []string{"CHAT_MODEL"},
				Value:   "llama3.1:8b",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the AI endpoints",
				EnvVars: []string{"AI_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "listen",
						Usage:   "Address to listen on",
						EnvVars: []string{"LISTEN_ADDR"},
						Value:   ":8000",
					},
					&cli.StringFlag{
						Name:    "corpus",
						Usage:   "Directory of FAR section markdown files",
						EnvVars: []string{"CORPUS_DIR"},
						Value:   "./corpus",
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Chunk, embed and index the FAR corpus",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "corpus",
						Usage:    "Directory of FAR section markdown files",
						EnvVars:  []string{"CORPUS_DIR"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "cache",
						Usage:   "Path to the embedding cache directory",
						EnvVars: []string{"EMBED_CACHE_DIR"},
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of documents processed concurrently",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run one retrieval against the index and print the chunks",
				Action:    searchCommand,
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "corpus",
						Usage:   "Directory of FAR section markdown files",
						EnvVars: []string{"CORPUS_DIR"},
						Value:   "./corpus",
					},
					&cli.IntFlag{
						Name:  "max-chunks",
						Usage: "Maximum number of chunks to return",
						Value: retrieval.DefaultMaxChunks,
					},
					&cli.IntFlag{
						Name:  "chapter",
						Usage: "Restrict the search to one FAR chapter",
					},
				},
			},
			{
				Name:   "init-db",
				Usage:  "Create the database schema and the pgvector extension",
				Action: initDBCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func aiConfig(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(c.String("chat-host")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
}

func openSystem(c *cli.Context, opts ...farbot.SystemOption) (*farbot.System, error) {
	connStr := c.String("db")
	if connStr == "" {
		return nil, fmt.Errorf("database connection string is required (--db or DATABASE_URL)")
	}

	config := aiConfig(c)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts = append(opts, farbot.WithAIConfig(config))
	return farbot.NewSystem(c.Context, connStr, opts...)
}

func serveCommand(c *cli.Context) error {
	system, err := openSystem(c, farbot.WithCorpusDir(c.String("corpus")))
	if err != nil {
		return err
	}
	defer system.Close()

	chatService, err := system.NewChatService()
	if err != nil {
		return err
	}

	server, err := api.NewServer(c.String("listen"), system.ConversationRepository(), chatService)
	if err != nil {
		return err
	}

	// Serve until interrupted, then drain in-flight requests.
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig)
		return server.Shutdown()
	}
}

func ingestCommand(c *cli.Context) error {
	opts := []farbot.SystemOption{farbot.WithCorpusDir(c.String("corpus"))}
	if cachePath := c.String("cache"); cachePath != "" {
		opts = append(opts, farbot.WithEmbeddingCachePath(cachePath))
	}

	system, err := openSystem(c, opts...)
	if err != nil {
		return err
	}
	defer system.Close()

	var pipelineOpts []ingestion.Option
	if size := c.Int("pool-size"); size > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(size))
	}

	pipeline, err := system.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report, err := pipeline.IngestAll(c.Context)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Ingested %d documents (%d chunks, %d failed)\n",
		report.Documents, report.Chunks, report.Failed)
	if report.Failed > 0 {
		return fmt.Errorf("%d documents failed to ingest", report.Failed)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	system, err := openSystem(c, farbot.WithCorpusDir(c.String("corpus")))
	if err != nil {
		return err
	}
	defer system.Close()

	retriever, err := system.NewRetriever()
	if err != nil {
		return err
	}

	queryOpts := []retrieval.QueryOption{
		retrieval.WithMaxChunks(c.Int("max-chunks")),
	}
	if chapter := c.Int("chapter"); chapter > 0 {
		queryOpts = append(queryOpts, retrieval.WithChapter(chapter))
	}

	result, err := retriever.Retrieve(c.Context, query, queryOpts...)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d chunks (fallback=%v)\n", len(result.Chunks), result.FallbackUsed)
	for i, sc := range result.Chunks {
		fmt.Printf("%d: %s [%0.3f]\n%s\n\n", i, sc.Chunk.Section, sc.Score, sc.Chunk.Text)
	}
	return nil
}

func initDBCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	if err := system.InitSchema(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Schema initialized")
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
