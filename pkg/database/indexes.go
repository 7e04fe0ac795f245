package database

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/theo45530/commerceai-pro/pkg/logging"
)

type indexConfig struct {
	Collection string
	Model      mongo.IndexModel
}

var requiredIndexes = []indexConfig{
	{
		Collection: "product_analyses",
		Model: mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_product_analyses_time"),
		},
	},
	{
		Collection: "checkout_analyses",
		Model: mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_checkout_analyses_time"),
		},
	},
	{
		Collection: "website_analyses",
		Model: mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_website_analyses_time"),
		},
	},
	{
		Collection: "generated_content",
		Model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "content_type", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_content_type_time"),
		},
	},
	{
		Collection: "generated_content",
		Model: mongo.IndexModel{
			Keys:    bson.D{{Key: "platform_post_id", Value: 1}},
			Options: options.Index().SetName("idx_content_platform_post").SetSparse(true),
		},
	},
	{
		Collection: "generated_pages",
		Model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "page_type", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_pages_type_time"),
		},
	},
	{
		Collection: "ad_campaigns",
		Model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "platform", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_campaigns_platform_time"),
		},
	},
	{
		Collection: "ad_performance",
		Model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "campaign_id", Value: 1},
				{Key: "fetched_at", Value: -1},
			},
			Options: options.Index().SetName("idx_performance_campaign_time"),
		},
	},
	{
		Collection: "content_insights",
		Model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "content_id", Value: 1},
				{Key: "fetched_at", Value: -1},
			},
			Options: options.Index().SetName("idx_insights_content_time"),
		},
	},
	{
		Collection: "content_performance",
		Model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "content_id", Value: 1},
				{Key: "platform", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_performance_content_platform_unique"),
		},
	},
	{
		Collection: "platform_analytics",
		Model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "platform", Value: 1},
				{Key: "start_date", Value: 1},
				{Key: "end_date", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_analytics_platform_range_unique"),
		},
	},
	{
		Collection: "platform_credentials",
		Model: mongo.IndexModel{
			Keys:    bson.D{{Key: "platform", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_credentials_platform_unique"),
		},
	},
}

// EnsureIndexes creates the collection indexes every service relies on.
// CreateOne is a no-op for indexes that already exist.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger logging.Logger) error {
	for _, idx := range requiredIndexes {
		name, err := db.Collection(idx.Collection).Indexes().CreateOne(ctx, idx.Model)
		if err != nil {
			return err
		}
		logger.WithFields(logging.Fields{
			"collection": idx.Collection,
			"index":      name,
		}).Debug("Index ensured")
	}
	return nil
}
