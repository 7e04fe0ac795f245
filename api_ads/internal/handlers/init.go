package handlers

import (
	"context"

	"github.com/theo45530/commerceai-pro/pkg/cache"
	"github.com/theo45530/commerceai-pro/pkg/clients/gateway"
	"github.com/theo45530/commerceai-pro/pkg/crypto"
	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/logging"
)

// Gateway is the slice of the platform gateway client the campaign
// handlers use
type Gateway interface {
	InitializeConnector(ctx context.Context, platform string, credentials map[string]interface{}) (string, error)
	CreateCampaign(ctx context.Context, platform, connectorID string, campaign interface{}) (*gateway.CampaignResult, error)
	UpdateCampaign(ctx context.Context, platform, connectorID, campaignID string, update interface{}) (map[string]interface{}, error)
	GetCampaignInsights(ctx context.Context, platform, connectorID, campaignID string) (map[string]interface{}, error)
}

var (
	store     Store
	provider  llm.Provider
	gw        Gateway
	encryptor *crypto.FieldEncryptor
	perfCache *cache.Cache
	events    *kafka.Producer
	logger    logging.Logger
)

// Init initializes the handlers with their dependencies. The Kafka producer
// may be nil, in which case event emission is skipped. The performance cache
// may be nil, in which case every performance read hits the gateway.
func Init(s Store, p llm.Provider, g Gateway, enc *crypto.FieldEncryptor, pc *cache.Cache, producer *kafka.Producer, log logging.Logger) {
	store = s
	provider = p
	gw = g
	encryptor = enc
	perfCache = pc
	events = producer
	logger = log
}
