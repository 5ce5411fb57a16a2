package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"phonestore/internal/config"
	"phonestore/internal/handler"
	"phonestore/internal/logger"
	"phonestore/internal/repository"
	"phonestore/internal/service"
	"phonestore/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Phone Store Assistant")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zlog.Sync()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")

	// Initialize the intent classifier
	var classifier service.Classifier
	if cfg.Wit.Enabled {
		classifier = service.NewWitClient(&cfg.Wit, zlog)
		log.Printf("✅ Wit.ai classifier initialized")
		log.Printf("   - API Base: %s", cfg.Wit.APIBase)
		log.Printf("   - API Version: %s", cfg.Wit.APIVersion)
	} else {
		log.Println("⚠️  Wit.ai is disabled - intent resolution will degrade to fallback replies")
		log.Println("   Set WIT_AI_ACCESS_TOKEN environment variable to enable it")
	}

	// Initialize the reply generator
	var gemini *service.GeminiClient
	if cfg.Gemini.Enabled {
		gemini = service.NewGeminiClient(&cfg.Gemini, zlog)
		log.Printf("✅ Gemini client initialized")
		log.Printf("   - API Base: %s", cfg.Gemini.APIBase)
		log.Printf("   - Model: %s", cfg.Gemini.Model)
		log.Printf("   - Embedding model: %s", cfg.Gemini.EmbeddingModel)
	} else {
		log.Println("⚠️  Gemini is disabled - every reply will be the generic fallback")
		log.Println("   Set GEMINI_API_KEY environment variable to enable it")
	}

	// Initialize services
	resolver := service.NewIntentResolver(classifier, zlog)
	ranker := service.NewRanker(cfg.Ranking.WeightPrice, cfg.Ranking.WeightRecency)
	var generator service.TextGenerator
	if gemini != nil {
		generator = gemini
	}
	composer := service.NewResponseComposer(generator, zlog)
	dialogue := service.NewDialogueController(resolver, repo, composer, ranker, zlog)
	if gemini != nil {
		dialogue = dialogue.WithSimilarity(gemini, repo)
	}

	// Session store with background sweeping
	store := session.NewStore(cfg.Session.MaxSessions, cfg.Session.IdleTTL)
	stopSweep := session.StartSweeper(store, cfg.Session.SweepInterval, zlog)
	defer stopSweep()

	log.Println("✅ Services initialized")

	// Initialize handlers
	chatHandler := handler.NewChatHandler(dialogue, store, repo, zlog)
	productHandler := handler.NewProductHandler(repo, &cfg.Catalog, zlog)
	sessionHandler := handler.NewSessionHandler(zlog)
	feedbackHandler := handler.NewFeedbackHandler(repo, zlog)
	var embedder service.Embedder
	if gemini != nil {
		embedder = gemini
	}
	embeddingHandler := handler.NewEmbeddingHandler(repo, embedder, zlog)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "session-id"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "phone-store-assistant",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Chatbot endpoint (storefront widget posts here)
	router.POST("/chatbot", chatHandler.Chat)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/products", productHandler.List)
		apiV1.GET("/products/:id", productHandler.Get)

		apiV1.POST("/session", sessionHandler.Create)
		apiV1.POST("/feedback", feedbackHandler.Create)

		apiV1.POST("/embeddings/rebuild", embeddingHandler.Rebuild)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API: http://localhost:%d/api/v1", cfg.Server.Port)
	log.Printf("💬 Chatbot: http://localhost:%d/chatbot", cfg.Server.Port)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
