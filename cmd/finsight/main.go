package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finsight/internal/amqp"
	"finsight/internal/assistant"
	"finsight/internal/bank"
	"finsight/internal/bank/memory"
	"finsight/internal/config"
	"finsight/internal/core"
	"finsight/internal/feed"
	apphttp "finsight/internal/http"
	"finsight/internal/log"
	"finsight/internal/services"
	"finsight/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		reader  bank.StatementReader
		repo    *storage.SQLiteRepository
		fixture *memory.Store
	)

	switch cfg.DataBackend {
	case "sqlite":
		var err error
		repo, err = storage.NewSQLiteRepository(cfg.SQLiteDBPath, logger)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		reader = repo
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		var err error
		fixture, err = memory.NewFromFile(cfg.FixturePath)
		if err != nil {
			logger.Error("Failed to load banking fixture", "error", err, "path", cfg.FixturePath)
			os.Exit(1)
		}
		reader = fixture
		logger.Info("Initialized memory backend", "fixture", cfg.FixturePath)
	}

	summaries := services.NewSummaryService(reader)

	completer := assistant.NewClient(assistant.ClientConfig{
		APIURL:      cfg.OpenAIAPIURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		MaxTokens:   cfg.OpenAIMaxTokens,
		Temperature: cfg.OpenAITemperature,
		Timeout:     cfg.OpenAITimeout,
	})
	chat := assistant.NewService(completer, summaries)

	// The export pipeline needs both SQLite and a broker; without them
	// the endpoint degrades to 503.
	var exporter apphttp.Exporter
	if repo != nil && cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		exporter = services.NewStatementService(repo, amqpClient, summaries)
		logger.Info("Export pipeline enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Export pipeline disabled")
	}

	feedStore := feed.NewStore()
	feed.Seed(feedStore, time.Now())

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Summaries:  summaries,
		Chat:       chat,
		Reader:     reader,
		Exporter:   exporter,
		Feed:       feedStore,
		DefaultRef: func() core.Date { return cfg.Reference(time.Now()) },
		Logger:     logger,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting finsight server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
