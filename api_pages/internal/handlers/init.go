package handlers

import (
	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/logging"
)

var (
	store    Store
	provider llm.Provider
	events   *kafka.Producer
	logger   logging.Logger
)

// Init initializes the handlers with their dependencies. The Kafka producer
// may be nil, in which case event emission is skipped.
func Init(s Store, p llm.Provider, producer *kafka.Producer, log logging.Logger) {
	store = s
	provider = p
	events = producer
	logger = log
}
