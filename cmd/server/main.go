package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/releasewizard/api/internal/client"
	"github.com/releasewizard/api/internal/config"
	"github.com/releasewizard/api/internal/dialogue"
	"github.com/releasewizard/api/internal/handler"
	"github.com/releasewizard/api/internal/intent"
	"github.com/releasewizard/api/internal/knowledge"
	"github.com/releasewizard/api/internal/middleware"
	"github.com/releasewizard/api/internal/provider"
	"github.com/releasewizard/api/internal/service"
	"github.com/releasewizard/api/internal/session"
	"github.com/releasewizard/api/internal/worker"
	ws "github.com/releasewizard/api/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Build the provider chain in configured priority order
	chain := buildProviderChain(cfg)

	// Rule-based routing is always available; the LLM classifier is only
	// worth the round trip when at least one provider has credentials.
	var classifier intent.Classifier = intent.NewRuleClassifier()
	if chain.Available() {
		classifier = intent.NewLLMClassifier(chain)
	}

	responder := knowledge.NewResponder(chain)
	controller := dialogue.New(classifier, responder, cfg.Wizard.HistoryLimit)
	sessions := session.NewStore()

	// Initialize services
	wizardService := service.NewWizardService(sessions, controller, hub)
	analysisService := service.NewAnalysisService(redisClient, asynqClient)

	// Initialize handlers
	wizardHandler := handler.NewWizardHandler(wizardService, analysisService, validate)
	analysisHandler := handler.NewAnalysisHandler(analysisService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    50 * 1024 * 1024, // 50MB
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"providers": chain.Available(),
		})
	})

	// API routes
	api := app.Group("/api", authMiddleware.Authenticate())

	// Wizard routes
	wizard := api.Group("/wizard")
	wizard.Post("/session", wizardHandler.StartSession)
	wizard.Get("/session/:sessionId", wizardHandler.GetState)
	wizard.Post("/session/:sessionId/message", rateLimiter.MessageLimit(cfg.RateLimit.MessagesPerMin), wizardHandler.Message)
	wizard.Post("/session/:sessionId/reset", wizardHandler.Reset)
	wizard.Post("/session/:sessionId/submit", wizardHandler.Submit)
	wizard.Post("/session/:sessionId/upload", rateLimiter.UploadLimit(cfg.RateLimit.UploadsPerHour), wizardHandler.Upload)

	// Analysis routes
	api.Get("/analysis/:jobId", analysisHandler.Status)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/sessions/:sessionId", websocket.New(func(c *websocket.Conn) {
		sessionID := c.Params("sessionId")
		// Note: In production, validate the token from query param
		hub.HandleConnection(c, sessionID)
	}))

	// Start Asynq worker server
	go startWorkerServer(cfg, redisClient, hub, sessions)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func buildProviderChain(cfg *config.Config) *provider.Chain {
	geminiClient := client.NewGeminiClient(&cfg.Providers.Gemini)
	groqClient := client.NewGroqClient(&cfg.Providers.Groq)

	var providers []provider.Provider
	for _, name := range cfg.Providers.Order {
		switch name {
		case "gemini":
			providers = append(providers, geminiClient)
		case "groq":
			providers = append(providers, groqClient)
		default:
			log.Printf("Unknown provider %q in providers.order, skipping", name)
		}
	}

	return provider.NewChain(providers, cfg.Providers.MaxAttempts, cfg.Providers.Backoff)
}

func startWorkerServer(cfg *config.Config, redisClient *redis.Client, hub *ws.Hub, sessions *session.Store) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"analysis": 10,
			},
		},
	)

	analysisWorker := worker.NewAnalysisWorker(redisClient, hub, sessions)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeAnalysis, analysisWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
