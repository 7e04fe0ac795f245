package main

import (
	"context"
	"strings"
	"time"

	"github.com/theo45530/commerceai-pro/api_ads/internal/handlers"
	"github.com/theo45530/commerceai-pro/pkg/auth"
	"github.com/theo45530/commerceai-pro/pkg/cache"
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
	logger := logging.NewLoggerWithService("herald")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Herald (Advertising API)")

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
		p, err := kafka.NewProducer(strings.Split(brokers, ","), "herald", logger)
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
	healthChecker := monitoring.NewHealthChecker("herald", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("herald", version.Version, version.GitCommit)

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

	// Create advertising metrics
	llmRequests, llmDuration, parseFallbacks := metricsCollector.CreateGenerationMetrics()
	platformRequests, platformDuration := metricsCollector.CreatePublishMetrics()

	// TODO: Wire these metrics into handlers
	_ = llmRequests
	_ = llmDuration
	_ = parseFallbacks
	_ = platformRequests
	_ = platformDuration

	// Performance summaries are cached so dashboards polling the same
	// campaign do not hammer the platform APIs
	cacheHits := metricsCollector.NewCounter("perf_cache_hits_total", "Performance cache hits", []string{})
	cacheMisses := metricsCollector.NewCounter("perf_cache_misses_total", "Performance cache misses", []string{})
	perfCache := cache.New(cache.Options{
		TTL:                  5 * time.Minute,
		StaleWhileRevalidate: time.Minute,
		NegativeTTL:          15 * time.Second,
		MaxEntries:           512,
	}, cache.Hooks{
		OnHit:  func(string) { cacheHits.WithLabelValues().Inc() },
		OnMiss: func(string) { cacheMisses.WithLabelValues().Inc() },
	})

	// Initialize handlers
	handlers.Init(handlers.NewStore(db), provider, gw, encryptor, perfCache, producer, logger)

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "herald", healthChecker, metricsCollector)

	// Protected routes (require service token authentication)
	protected := router.Group("/api")
	protected.Use(auth.ServiceAuthMiddleware(config.GetEnv("SERVICE_TOKEN", "default-service-token")))
	{
		// Campaign lifecycle
		protected.POST("/campaigns", handlers.CreateCampaign)
		protected.GET("/campaigns", handlers.ListCampaigns)
		protected.POST("/campaigns/ab-test", handlers.CreateABTest)
		protected.GET("/campaigns/:id", handlers.GetCampaign)
		protected.PUT("/campaigns/:id", handlers.UpdateCampaign)
		protected.POST("/campaigns/:id/sync", handlers.SyncCampaign)

		// Performance and optimization
		protected.GET("/campaigns/:id/performance", handlers.GetCampaignPerformance)
		protected.POST("/campaigns/:id/optimize", handlers.OptimizeCampaign)

		// Platform credentials
		protected.POST("/credentials/:platform", handlers.SetCredentials)
		protected.GET("/credentials/:platform", handlers.GetCredentials)
	}

	// Start server with graceful shutdown
	serverConfig := server.DefaultConfig("herald", "18002")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
