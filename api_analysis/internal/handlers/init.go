package handlers

import (
	goredis "github.com/redis/go-redis/v9"

	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/logging"
)

var (
	store    Store
	provider llm.Provider
	rdb      goredis.UniversalClient
	events   *kafka.Producer
	logger   logging.Logger
)

// Init initializes the handlers with their dependencies. The Redis client and
// Kafka producer may be nil, in which case caching and event emission are
// skipped.
func Init(s Store, p llm.Provider, cache goredis.UniversalClient, producer *kafka.Producer, log logging.Logger) {
	store = s
	provider = p
	rdb = cache
	events = producer
	logger = log
}
