package main

import (
	"context"
	"log"

	"snaplaw-backend/config"
	"snaplaw-backend/extraction"
	"snaplaw-backend/handlers"
	"snaplaw-backend/inference"
	"snaplaw-backend/models"
	"snaplaw-backend/repository"
	"snaplaw-backend/service"
	"snaplaw-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize storage
	fileStorage, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Println("Storage initialized")

	// Load the risk pattern catalog. Postgres is the source of truth when
	// DATABASE_URL is set; otherwise the built-in catalog is used.
	catalog := loadCatalog(cfg)

	// Initialize Gemini client
	var generator inference.Generator
	var vision inference.VisionGenerator
	if cfg.AI.APIKey != "" {
		geminiClient, err := initGemini(cfg.AI.APIKey)
		if err != nil {
			log.Fatal("Failed to initialize Gemini:", err)
		}
		gemini := inference.NewGemini(geminiClient, cfg.AI.Model, cfg.AI.RequestTimeout)
		generator = gemini
		vision = gemini
	} else {
		log.Println("Warning: GEMINI_API_KEY not set, explanations fall back to templates and image uploads are rejected")
	}

	// Initialize services
	analysisService := service.NewAnalysisService(
		service.AnalysisWithCatalog(catalog),
		service.AnalysisWithGenerator(generator),
		service.AnalysisWithSaturationK(cfg.Analysis.SaturationK),
		service.AnalysisWithMaxDocumentLength(cfg.Analysis.MaxDocumentLength),
		service.AnalysisWithMaxTurnHistory(cfg.QA.MaxTurnHistory),
		service.AnalysisWithMatchWorkers(cfg.Analysis.MatchWorkers),
	)

	extractor := extraction.NewExtractor(vision)

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(analysisService, extractor, fileStorage, cfg.Server.MaxUploadBytes)
	sessionHandler := handlers.NewSessionHandler(analysisService)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":         "ok",
			"api_configured": cfg.AI.APIKey != "",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Document endpoints
		api.POST("/documents/analyze", analysisHandler.Analyze)

		// Session endpoints
		api.POST("/sessions", sessionHandler.Open)
		api.POST("/sessions/:id/ask", sessionHandler.Ask)
		api.DELETE("/sessions/:id", sessionHandler.Close)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func loadCatalog(cfg *config.Config) models.Catalog {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, using built-in risk pattern catalog")
		return models.DefaultCatalog()
	}

	db, err := initPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Postgres, using built-in catalog: %v", err)
		return models.DefaultCatalog()
	}
	defer db.Close()

	catalogRepo := repository.NewCatalogRepository(db)
	catalog, err := catalogRepo.LoadCatalog(context.Background())
	if err != nil {
		log.Printf("Warning: Failed to load catalog from Postgres, using built-in catalog: %v", err)
		return models.DefaultCatalog()
	}
	if len(catalog.Patterns) == 0 {
		log.Println("Warning: risk_patterns table is empty, using built-in catalog")
		return models.DefaultCatalog()
	}

	log.Printf("Loaded %d risk patterns from Postgres", len(catalog.Patterns))
	return catalog
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("Postgres connection established")
	return pool, nil
}

func initGemini(apiKey string) (*genai.Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	log.Println("Gemini client initialized")
	return client, nil
}
