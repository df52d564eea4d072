package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"chatter-service/internal/auth"
	"chatter-service/internal/config"
	"chatter-service/internal/db"
	"chatter-service/internal/friends"
	"chatter-service/internal/handlers"
	"chatter-service/internal/logger"
	"chatter-service/internal/middleware"
	"chatter-service/internal/observability"
	"chatter-service/internal/rabbitmq"
	"chatter-service/internal/repositories"
	"chatter-service/internal/telemetry"
	"chatter-service/internal/ws"
)

const serviceName = "chatter-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log, cfg.Environment); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zap.L().Sync()

	ctx := context.Background()
	shutdownTracing, err := telemetry.InitTracing(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		zap.L().Fatal("failed to init tracing", zap.Error(err))
	}
	defer shutdownTracing(ctx)

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		zap.L().Fatal("failed to connect to db", zap.Error(err))
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	zap.L().Info("event publisher ready", zap.String("mode", rabbitmq.PublisherMode(publisher)))

	audit := telemetry.NewAuditEmitter(publisher, "audit.chatter", serviceName, cfg.Environment)

	messageRepo := repositories.NewMessageRepo(database)
	friendRepo := repositories.NewFriendRepo(database)
	userRepo := repositories.NewUserRepo(database)

	tokens := auth.NewTokenService(cfg.JWTSecret)
	identity := auth.NewGoogleProvider(cfg.GoogleClientID)

	registry := ws.NewRegistry()
	coordinator := ws.NewCoordinator(registry, messageRepo, cfg.HistoryLimit)
	wsHandler := ws.NewHandler(coordinator, tokens)

	friendService := friends.NewService(friendRepo)
	friendHandler := handlers.NewFriendHandler(friendService, audit)
	authHandler := handlers.NewAuthHandler(identity, tokens, userRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(tokens)

	router.POST("/api/auth/google", authHandler.GoogleAuth)

	api := router.Group("/api/friends", authMiddleware)
	api.POST("/request", friendHandler.SendRequest)
	api.PUT("/request/:request_id", friendHandler.Respond)
	api.GET("/pending", friendHandler.ListPending)
	api.GET("/accepted", friendHandler.ListAccepted)
	api.DELETE("/:friend_id", friendHandler.Remove)
	api.GET("/status/:friend_id", friendHandler.Status)

	router.GET("/ws", wsHandler.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	zap.L().Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zap.L().Fatal("server error", zap.Error(err))
	}
}
