package main

import (
	"context"
	"strings"
	"time"

	"github.com/theo45530/commerceai-pro/api_content/internal/handlers"
	"github.com/theo45530/commerceai-pro/pkg/auth"
	"github.com/theo45530/commerceai-pro/pkg/clients/gateway"
	"github.com/theo45530/commerceai-pro/pkg/config"
	"github.com/theo45530/commerceai-pro/pkg/crypto"
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
	logger := logging.NewLoggerWithService("scribe")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Scribe (Content Generation API)")

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
		p, err := kafka.NewProducer(strings.Split(brokers, ","), "scribe", logger)
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

	// Derive the credential encryptor
	masterKey := config.GetEnv("CREDENTIALS_MASTER_KEY", "")
	if masterKey == "" {
		logger.Fatal("CREDENTIALS_MASTER_KEY is required")
	}
	encryptor, err := crypto.DeriveFieldEncryptor([]byte(masterKey), "platform-credentials")
	if err != nil {
		logger.WithError(err).Fatal("Failed to derive credential encryptor")
	}

	// Platform gateway client
	gatewayURL := config.GetEnv("GATEWAY_URL", gateway.DefaultBaseURL)
	gw := gateway.NewClient(gatewayURL)

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("scribe", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("scribe", version.Version, version.GitCommit)

	// Add health checks
	healthChecker.AddCheck("mongodb", monitoring.MongoHealthCheck(client))
	if producer != nil {
		healthChecker.AddCheck("kafka", monitoring.KafkaProducerHealthCheck(producer.GetClient()))
	}
	healthChecker.AddCheck("gateway", monitoring.HTTPServiceHealthCheck("gateway", gatewayURL+"/health"))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"MONGODB_URI":   config.GetEnv("MONGODB_URI", ""),
		"LLM_API_KEY":   config.GetEnv("LLM_API_KEY", ""),
		"SERVICE_TOKEN": config.GetEnv("SERVICE_TOKEN", ""),
	}))

	// Create content metrics
	llmRequests, llmDuration, parseFallbacks := metricsCollector.CreateGenerationMetrics()
	publishRequests, publishDuration := metricsCollector.CreatePublishMetrics()

	// TODO: Wire these metrics into handlers
	_ = llmRequests
	_ = llmDuration
	_ = parseFallbacks
	_ = publishRequests
	_ = publishDuration

	// Initialize handlers
	handlers.Init(handlers.NewStore(db), provider, gw, encryptor, producer, logger)

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "scribe", healthChecker, metricsCollector)

	// Protected routes (require service token authentication)
	protected := router.Group("/api")
	protected.Use(auth.ServiceAuthMiddleware(config.GetEnv("SERVICE_TOKEN", "default-service-token")))
	{
		// Generation
		protected.POST("/generate/blog", handlers.GenerateBlog)
		protected.POST("/generate/product-description", handlers.GenerateProductDescription)
		protected.POST("/generate/social", handlers.GenerateSocial)
		protected.POST("/generate/email", handlers.GenerateEmail)

		// Content lifecycle
		protected.GET("/content", handlers.ListContent)
		protected.GET("/content/:id", handlers.GetContent)
		protected.POST("/content/:id/publish", handlers.PublishContent)
		protected.POST("/content/:id/schedule", handlers.ScheduleContent)
		protected.POST("/content/:id/sync", handlers.SyncContent)
		protected.GET("/content/:id/insights", handlers.GetContentInsights)
		protected.DELETE("/content/:id/platform", handlers.DeleteContentFromPlatform)

		// Account-level platform metrics
		protected.GET("/analytics/:platform", handlers.GetPlatformAnalytics)

		// Platform credentials
		protected.POST("/credentials/:platform", handlers.SetCredentials)
		protected.GET("/credentials/:platform", handlers.GetCredentials)
	}

	// Start server with graceful shutdown
	serverConfig := server.DefaultConfig("scribe", "18003")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
