// Package main provides the MEE assistant server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mee-advisor/mee-assistant-go/internal/buildinfo"
	"github.com/mee-advisor/mee-assistant-go/internal/config"
	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	"github.com/mee-advisor/mee-assistant-go/internal/genai"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
	"github.com/mee-advisor/mee-assistant-go/internal/metrics"
	"github.com/mee-advisor/mee-assistant-go/internal/rag"
	"github.com/mee-advisor/mee-assistant-go/internal/sentry"
	"github.com/mee-advisor/mee-assistant-go/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.Info("Starting MEE Assistant Server")

	// Initialize error tracking
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     buildinfo.Release(),
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error tracking disabled")
	}
	defer sentry.Flush(2 * time.Second)

	// Create Prometheus registry with runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Load the corpus
	docs, err := corpus.Load(cfg.DataDir, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load corpus")
	}
	log.WithField("docs", len(docs)).Info("Corpus loaded")

	// Create LLM client for categorization and answer generation
	llm, err := genai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel)
	if err != nil {
		log.WithError(err).Fatal("Failed to create LLM client")
	}
	log.WithField("model", cfg.ChatModel).Info("LLM client created")

	// Create embedding client and vector database
	embedClient := genai.NewEmbeddingClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, cfg.EmbeddingRPM)
	vectorDB, err := rag.NewVectorDB(cfg.ChromemPath(), genai.NewEmbeddingFunc(embedClient), log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create vector database")
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 15*time.Minute)
	if err := vectorDB.Initialize(initCtx, cfg.CollectionName, docs); err != nil {
		initCancel()
		log.WithError(err).Fatal("Failed to initialize vector database")
	}
	initCancel()
	log.WithField("docs", vectorDB.Count()).Info("Vector database ready")

	// Build the BM25 index
	bm25Index := rag.NewBM25Index(log)
	if err := bm25Index.Initialize(docs); err != nil {
		log.WithError(err).Fatal("Failed to initialize BM25 index")
	}
	log.WithField("docs", bm25Index.Count()).Info("BM25 index ready")

	// Assemble the pipeline
	classifier := rag.NewClassifier(llm, m, log)
	retriever := rag.NewHybridRetriever(vectorDB, bm25Index, cfg.Retrieval, nil, m, log)
	generator := rag.NewGenerator(llm, m, log)
	system := rag.NewSystem(classifier, retriever, generator, m, log)
	log.Info("Query pipeline assembled")

	// Create the Telegram bot
	bot, err := telegram.New(cfg.TelegramToken, system, cfg.Bot, m, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Telegram bot")
	}

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, cfg, registry, vectorDB, bm25Index)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run the bot until shutdown
	botDone := make(chan error, 1)
	go func() {
		botDone <- bot.Run(ctx)
	}()

	// Start HTTP server
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel()

	// Wait for the bot to finish in-flight answers
	select {
	case err := <-botDone:
		if err != nil {
			log.WithError(err).Error("Bot stopped with error")
		} else {
			log.Info("Bot stopped")
		}
	case <-time.After(cfg.ShutdownTimeout):
		log.Warn("Timeout waiting for bot to stop")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}
