package main

import (
	"context"
	"strings"
	"time"

	"github.com/theo45530/commerceai-pro/api_pages/internal/handlers"
	"github.com/theo45530/commerceai-pro/pkg/auth"
	"github.com/theo45530/commerceai-pro/pkg/config"
	"github.com/theo45530/commerceai-pro/pkg/database"
	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/logging"
	"github.com/theo45530/commerceai-pro/pkg/monitoring"
	"github.com/theo45530/commerceai-pro/pkg/server"
	"github.com/theo45530/commerceai-pro/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("shipwright")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Shipwright (Page Generation API)")

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

	// Connect Kafka producer (optional, events degrade without it)
	var producer *kafka.Producer
	if brokers := config.GetEnv("KAFKA_BROKERS", ""); brokers != "" {
		p, err := kafka.NewProducer(strings.Split(brokers, ","), "shipwright", logger)
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
	healthChecker := monitoring.NewHealthChecker("shipwright", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("shipwright", version.Version, version.GitCommit)

	// Add health checks
	healthChecker.AddCheck("mongodb", monitoring.MongoHealthCheck(client))
	if producer != nil {
		healthChecker.AddCheck("kafka", monitoring.KafkaProducerHealthCheck(producer.GetClient()))
	}
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"MONGODB_URI":   config.GetEnv("MONGODB_URI", ""),
		"LLM_API_KEY":   config.GetEnv("LLM_API_KEY", ""),
		"SERVICE_TOKEN": config.GetEnv("SERVICE_TOKEN", ""),
	}))

	// Create page generation metrics
	llmRequests, llmDuration, parseFallbacks := metricsCollector.CreateGenerationMetrics()
	dbQueries, dbDuration := metricsCollector.CreateDatabaseMetrics()

	// TODO: Wire these metrics into handlers
	_ = llmRequests
	_ = llmDuration
	_ = parseFallbacks
	_ = dbQueries
	_ = dbDuration

	// Initialize handlers
	handlers.Init(handlers.NewStore(db), provider, producer, logger)

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "shipwright", healthChecker, metricsCollector)

	// Protected routes (require service token authentication)
	protected := router.Group("/api")
	protected.Use(auth.ServiceAuthMiddleware(config.GetEnv("SERVICE_TOKEN", "default-service-token")))
	{
		protected.POST("/generate/page", handlers.GeneratePage)

		protected.GET("/pages", handlers.ListPages)
		protected.GET("/pages/:id", handlers.GetPage)
		protected.GET("/pages/:id/preview", handlers.PreviewPage)
		protected.DELETE("/pages/:id", handlers.DeletePage)

		protected.GET("/templates", handlers.ListTemplates)
		protected.GET("/templates/:id", handlers.GetTemplate)
	}

	// Start server with graceful shutdown
	serverConfig := server.DefaultConfig("shipwright", "18005")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
