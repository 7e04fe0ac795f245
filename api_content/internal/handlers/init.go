package handlers

import (
	"context"

	"github.com/theo45530/commerceai-pro/pkg/clients/gateway"
	"github.com/theo45530/commerceai-pro/pkg/crypto"
	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/logging"
)

// Gateway is the slice of the platform gateway client the content
// handlers use
type Gateway interface {
	InitializeConnector(ctx context.Context, platform string, credentials map[string]interface{}) (string, error)
	PublishContent(ctx context.Context, platform, connectorID string, content interface{}) (*gateway.PublishResult, error)
	UpdateContent(ctx context.Context, platform, connectorID, postID string, content interface{}) (map[string]interface{}, error)
	GetContentPerformance(ctx context.Context, platform, connectorID, postID string) (map[string]interface{}, error)
	GetPlatformAnalytics(ctx context.Context, platform, connectorID, startDate, endDate string) (map[string]interface{}, error)
	DeleteContent(ctx context.Context, platform, connectorID, postID string) error
}

var (
	store     Store
	provider  llm.Provider
	gw        Gateway
	encryptor *crypto.FieldEncryptor
	events    *kafka.Producer
	logger    logging.Logger
)

// Init initializes the handlers with their dependencies. The Kafka producer
// may be nil, in which case event emission is skipped.
func Init(s Store, p llm.Provider, g Gateway, enc *crypto.FieldEncryptor, producer *kafka.Producer, log logging.Logger) {
	store = s
	provider = p
	gw = g
	encryptor = enc
	events = producer
	logger = log
}
