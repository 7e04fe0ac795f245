package main

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/theo45530/commerceai-pro/api_analysis/internal/handlers"
	"github.com/theo45530/commerceai-pro/pkg/auth"
	"github.com/theo45530/commerceai-pro/pkg/config"
	"github.com/theo45530/commerceai-pro/pkg/database"
	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/logging"
	"github.com/theo45530/commerceai-pro/pkg/monitoring"
	"github.com/theo45530/commerceai-pro/pkg/redis"
	"github.com/theo45530/commerceai-pro/pkg/server"
	"github.com/theo45530/commerceai-pro/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("lookout")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Lookout (Store Analysis API)")

	// Connect to MongoDB
	dbConfig := database.DefaultConfig()
	dbConfig.URI = config.GetEnv("MONGODB_URI", "")
	dbConfig.Database = config.GetEnv("MONGODB_DATABASE", "commerceai")
	client, db := database.MustConnect(dbConfig, logger)
	defer func() { _ = client.Disconnect(context.Background()) }()

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db, logger); err != nil {
		logger.WithError(err).Warn("Failed to ensure indexes")
	}
	indexCancel()

	// Connect to Redis (optional, analysis caching degrades without it)
	var redisClient goredis.UniversalClient
	if redisURL := config.GetEnv("REDIS_URL", ""); redisURL != "" {
		rc, err := redis.NewClientFromURL(context.Background(), redisURL)
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to Redis, caching disabled")
		} else {
			redisClient = rc
			defer func() { _ = rc.Close() }()
		}
	}

	// Connect Kafka producer (optional, events degrade without it)
	var producer *kafka.Producer
	if brokers := config.GetEnv("KAFKA_BROKERS", ""); brokers != "" {
		p, err := kafka.NewProducer(strings.Split(brokers, ","), "lookout", logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to Kafka, events disabled")
		} else {
			producer = p
			defer func() { _ = p.Close() }()
		}
	}

	// Build the LLM provider
	provider, err := llm.NewProvider(llm.LoadConfig())
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure LLM provider")
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("lookout", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("lookout", version.Version, version.GitCommit)

	// Add health checks
	healthChecker.AddCheck("mongodb", monitoring.MongoHealthCheck(client))
	if redisClient != nil {
		healthChecker.AddCheck("redis", monitoring.RedisHealthCheck(redisClient))
	}
	if producer != nil {
		healthChecker.AddCheck("kafka", monitoring.KafkaProducerHealthCheck(producer.GetClient()))
	}
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"MONGODB_URI":   config.GetEnv("MONGODB_URI", ""),
		"LLM_API_KEY":   config.GetEnv("LLM_API_KEY", ""),
		"SERVICE_TOKEN": config.GetEnv("SERVICE_TOKEN", ""),
	}))

	// Create analysis metrics
	llmRequests, llmDuration, parseFallbacks := metricsCollector.CreateGenerationMetrics()
	dbQueries, dbDuration := metricsCollector.CreateDatabaseMetrics()

	// TODO: Wire these metrics into handlers
	_ = llmRequests
	_ = llmDuration
	_ = parseFallbacks
	_ = dbQueries
	_ = dbDuration

	// Initialize handlers
	handlers.Init(handlers.NewStore(db), provider, redisClient, producer, logger)

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "lookout", healthChecker, metricsCollector)

	// Protected routes (require service token authentication)
	protected := router.Group("/api")
	protected.Use(auth.ServiceAuthMiddleware(config.GetEnv("SERVICE_TOKEN", "default-service-token")))
	{
		protected.POST("/analyze/product", handlers.AnalyzeProduct)
		protected.POST("/analyze/checkout", handlers.AnalyzeCheckout)
		protected.POST("/analyze/website", handlers.AnalyzeWebsite)

		protected.GET("/analyses/:type", handlers.ListAnalyses)
		protected.GET("/analyses/:type/:id", handlers.GetAnalysis)
	}

	// Start server with graceful shutdown
	serverConfig := server.DefaultConfig("lookout", "18004")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
