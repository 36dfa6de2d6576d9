package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chat-api/internal/auth"
	"chat-api/internal/config"
	"chat-api/internal/db"
	"chat-api/internal/handlers"
	"chat-api/internal/middleware"
	"chat-api/internal/observability"
	"chat-api/internal/rabbitmq"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing := telemetry.InitTracing(context.Background(), "chat-api", cfg.OTLPEndpoint)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, "chat-api", cfg.Environment)

	userRepo := repositories.NewUserRepo(database)
	apiKeyRepo := repositories.NewAPIKeyRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	fileRepo := repositories.NewFileRepo(database)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	authHandler := handlers.NewAuthHandler(userRepo, tokens, audit)
	userHandler := handlers.NewUserHandler(userRepo)
	apiKeyHandler := handlers.NewAPIKeyHandler(apiKeyRepo, audit)
	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, audit)
	messageHandler := handlers.NewMessageHandler(chatRepo, messageRepo, audit)
	fileHandler := handlers.NewFileHandler(fileRepo, audit)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
	}))
	router.Use(otelgin.Middleware("chat-api"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Chat API. Visit /docs for documentation."})
	})
	router.GET("/healthz", func(c *gin.Context) {
		if err := database.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/docs", handlers.Docs)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, audit, cfg.EnableDebugRoutes)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	authRequired := middleware.AuthMiddleware(apiKeyRepo, userRepo, tokens)
	protected := v1.Group("", authRequired)

	protected.GET("/users/me", userHandler.Me)
	protected.PUT("/users/me", userHandler.UpdateMe)
	protected.GET("/users", userHandler.List)
	protected.GET("/users/:user_id", userHandler.Get)

	protected.POST("/api-keys", apiKeyHandler.Create)
	protected.GET("/api-keys", apiKeyHandler.List)
	protected.DELETE("/api-keys/:key_id", apiKeyHandler.Delete)

	protected.POST("/chats", chatHandler.Create)
	protected.GET("/chats", chatHandler.List)
	protected.GET("/chats/:chat_id", chatHandler.Get)
	protected.PUT("/chats/:chat_id", chatHandler.Update)
	protected.DELETE("/chats/:chat_id", chatHandler.Delete)
	protected.POST("/chats/:chat_id/members/:user_id", chatHandler.AddMember)
	protected.DELETE("/chats/:chat_id/members/:user_id", chatHandler.RemoveMember)

	protected.POST("/chats/:chat_id/messages", messageHandler.Create)
	protected.GET("/chats/:chat_id/messages", messageHandler.List)
	protected.GET("/chats/:chat_id/messages/:message_id", messageHandler.Get)
	protected.PUT("/chats/:chat_id/messages/:message_id", messageHandler.Update)
	protected.DELETE("/chats/:chat_id/messages/:message_id", messageHandler.Delete)
	protected.PUT("/chats/:chat_id/messages/:message_id/status", messageHandler.UpdateStatus)

	protected.POST("/files", fileHandler.Upload)
	protected.GET("/files", fileHandler.List)
	protected.GET("/files/:file_id", fileHandler.Get)
	protected.GET("/files/:file_id/download", fileHandler.Download)
	protected.DELETE("/files/:file_id", fileHandler.Delete)

	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
