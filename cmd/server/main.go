package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/quokkaworks/go-suburb-recommender/internal/adapter/ai"
	"github.com/quokkaworks/go-suburb-recommender/internal/adapter/store"
	"github.com/quokkaworks/go-suburb-recommender/internal/domain"
	"github.com/quokkaworks/go-suburb-recommender/internal/handler"
	"github.com/quokkaworks/go-suburb-recommender/internal/port"
	"github.com/quokkaworks/go-suburb-recommender/internal/service"
	"github.com/quokkaworks/go-suburb-recommender/pkg/config"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting Suburb Recommender",
		"port", cfg.Port,
		"ollama_embed", cfg.OllamaEmbedURL,
		"embed_model", cfg.OllamaEmbedModel,
		"embedding_disabled", cfg.EmbeddingDisabled,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	scoreStore := store.NewScoreStore(pgStore)

	// ── Adapters ─────────────────────────────────────────────────────────
	var embedder port.Embedder
	if !cfg.EmbeddingDisabled {
		embedder = ai.NewOllamaEmbedder(ai.OllamaConfig{
			BaseURL: cfg.OllamaEmbedURL,
			Model:   cfg.OllamaEmbedModel,
			Token:   cfg.OllamaEmbedToken,
		})
	}

	// ── Services ─────────────────────────────────────────────────────────
	inferenceService := service.NewInferenceService(embedder, domain.ExampleCatalog(), service.InferenceConfig{
		TopK:            cfg.InferTopK,
		SimilarityFloor: cfg.SimilarityFloor,
		Timeout:         cfg.InferTimeout,
	})
	recommendService := service.NewRecommendService(pgStore)
	scoringService := service.NewScoringService(pgStore, scoreStore)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api/v1")

	queryHandler := handler.NewQueryHandler(inferenceService, recommendService, pgStore)
	queryHandler.Register(api)

	scoreHandler := handler.NewScoreHandler(scoringService)
	scoreHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
