package main

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"lemur/adapters/llm"
	"lemur/adapters/memory"
	"lemur/adapters/postgres"
	"lemur/api"
	"lemur/app"
	"lemur/internal/blob"
	"lemur/internal/chat"
	"lemur/internal/config"
	"lemur/internal/logger"
	"lemur/ports"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLog := logger.NewDefault()

	var (
		projects ports.ProjectRepository
		files    ports.FileRepository
		contexts ports.ContextRepository
		history  ports.ChatRepository
	)

	if cfg.Database.URL != "" {
		db, err := connectDatabase(cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		migrator := postgres.NewMigrationRunner()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := migrator.Run(ctx, db); err != nil {
			cancel()
			log.Fatalf("failed to run migrations: %v", err)
		}
		cancel()
		appLog.Info("database ready (migrations at version %s)", migrator.Version())

		projects = postgres.NewProjectRepository(db)
		files = postgres.NewFileRepository(db)
		contexts = postgres.NewContextRepository(db)
		history = postgres.NewChatRepository(db)
	} else {
		appLog.Warn("DATABASE_URL not set, using in-memory repositories")
		projects = memory.NewProjectRepository()
		files = memory.NewFileRepository()
		contexts = memory.NewContextRepository()
		history = memory.NewChatRepository()
	}

	var llmClient ports.LLMClient
	if cfg.AI.MockMode || cfg.AI.OpenAIKey == "" {
		if !cfg.AI.MockMode {
			appLog.Warn("OPENAI_API_KEY not set, chat runs in mock mode")
		}
		llmClient = &llm.MockLLMClient{}
	} else {
		client, err := llm.NewOpenAIClient(cfg.AI.OpenAIKey, cfg.AI.BaseURL, cfg.AI.Temperature)
		if err != nil {
			log.Fatalf("failed to create LLM client: %v", err)
		}
		llmClient = client
	}

	storage := blob.NewLocalFileStorage(cfg.Storage.BasePath)

	service := app.NewService(projects, files, contexts, storage, appLog, app.Options{
		MaxConcurrentProfiles: cfg.Profile.MaxConcurrent,
		MaxFileSize:           cfg.Storage.MaxFileSize,
		PreviewRowLimit:       cfg.Profile.PreviewRowLimit,
		MaxSuggestions:        cfg.Profile.MaxSuggestions,
	})
	chatService := chat.NewService(llmClient, files, contexts, history, service,
		cfg.AI.OpenAIModel, cfg.AI.MaxTokens, appLog)

	server := api.NewServer(service, chatService, appLog, cfg.Server.GinMode)
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func connectDatabase(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}
