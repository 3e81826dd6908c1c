package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"whisper-service/internal/config"
	"whisper-service/internal/db"
	"whisper-service/internal/handlers"
	"whisper-service/internal/lifecycle"
	"whisper-service/internal/memstore"
	"whisper-service/internal/observability"
	"whisper-service/internal/query"
	"whisper-service/internal/rabbitmq"
	"whisper-service/internal/repositories"
	"whisper-service/internal/retention"
	"whisper-service/internal/sharecode"
	"whisper-service/internal/telemetry"
	"whisper-service/internal/ws"
)

const serviceName = "whisper-service"

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		userRepo    repositories.UserRepository
		whisperRepo repositories.WhisperRepository
		shareRepo   repositories.ShareRepository
	)
	if cfg.DBDSN != "" {
		database, err := db.Connect(cfg.DBDSN)
		if err != nil {
			log.Fatalf("failed to connect to db: %v", err)
		}
		userRepo = repositories.NewUserRepo(database)
		whisperRepo = repositories.NewWhisperRepo(database)
		shareRepo = repositories.NewShareRepo(database)
	} else {
		store := memstore.New()
		if err := store.Seed(ctx); err != nil {
			log.Fatalf("failed to seed store: %v", err)
		}
		userRepo, whisperRepo, shareRepo = store, store, store
		log.Println("no DB_DSN configured, using in-memory store")
	}

	shutdownTracing, err := observability.SetupTracing(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown error: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(publisher))

	emitter := telemetry.NewAuditEmitter(publisher, "audit.whisper", serviceName, cfg.Environment)

	codes := sharecode.NewGenerator(shareRepo.CodeExists)
	manager := lifecycle.NewManager(whisperRepo, shareRepo, codes, lifecycle.Options{
		ShareTTL:  cfg.ShareTTL,
		SingleUse: cfg.ShareSingleUse,
	})
	queries := query.NewService(whisperRepo, shareRepo)

	hub := ws.NewHub()
	feedWS := ws.NewFeedHandler(hub)

	whisperHandler := handlers.NewWhisperHandler(manager, queries, hub, emitter)
	userHandler := handlers.NewUserHandler(userRepo, emitter)

	sweeper := retention.NewSweeper(shareRepo, cfg.SweepInterval, cfg.ShareRetention)
	go sweeper.Run(ctx)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/api/whispers", whisperHandler.ListWhispers)
	router.POST("/api/whispers", whisperHandler.CreateWhisper)
	router.PATCH("/api/whispers/:id/viewed", whisperHandler.MarkViewed)
	router.GET("/api/whispers/shared", whisperHandler.ListSharedWhispers)
	router.POST("/api/whispers/:id/share", whisperHandler.ShareWhisper)
	router.GET("/api/share/:shareCode", whisperHandler.ResolveShare)

	router.POST("/api/users", userHandler.Register)

	router.GET("/ws/whispers", feedWS.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, emitter, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
