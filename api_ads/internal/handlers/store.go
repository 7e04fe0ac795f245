package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/theo45530/commerceai-pro/pkg/models"
)

const defaultListLimit = 50

// Store is the persistence surface the campaign handlers need
type Store interface {
	InsertCampaign(ctx context.Context, rec models.AdCampaign) error
	GetCampaign(ctx context.Context, id string) (models.AdCampaign, error)
	ListCampaigns(ctx context.Context, platform string, limit int64) ([]models.AdCampaign, error)
	UpdateCampaign(ctx context.Context, id string, set bson.M) error
	InsertPerformance(ctx context.Context, perf models.AdPerformance) error
	ListPerformance(ctx context.Context, campaignID string, limit int64) ([]models.AdPerformance, error)
	UpsertCredentials(ctx context.Context, creds models.PlatformCredentials) error
	GetCredentials(ctx context.Context, platform string) (models.PlatformCredentials, error)
}

type mongoStore struct {
	db *mongo.Database
}

// NewStore returns a Store backed by the given MongoDB database
func NewStore(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) InsertCampaign(ctx context.Context, rec models.AdCampaign) error {
	_, err := s.db.Collection("ad_campaigns").InsertOne(ctx, rec)
	return err
}

func (s *mongoStore) GetCampaign(ctx context.Context, id string) (models.AdCampaign, error) {
	var rec models.AdCampaign
	err := s.db.Collection("ad_campaigns").FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	return rec, err
}

func (s *mongoStore) ListCampaigns(ctx context.Context, platform string, limit int64) ([]models.AdCampaign, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	filter := bson.M{}
	if platform != "" {
		filter["platform"] = platform
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.db.Collection("ad_campaigns").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	campaigns := []models.AdCampaign{}
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (s *mongoStore) UpdateCampaign(ctx context.Context, id string, set bson.M) error {
	result, err := s.db.Collection("ad_campaigns").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *mongoStore) InsertPerformance(ctx context.Context, perf models.AdPerformance) error {
	_, err := s.db.Collection("ad_performance").InsertOne(ctx, perf)
	return err
}

func (s *mongoStore) ListPerformance(ctx context.Context, campaignID string, limit int64) ([]models.AdPerformance, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "fetched_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.db.Collection("ad_performance").Find(ctx, bson.M{"campaign_id": campaignID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	snapshots := []models.AdPerformance{}
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (s *mongoStore) UpsertCredentials(ctx context.Context, creds models.PlatformCredentials) error {
	opts := options.UpdateOne().SetUpsert(true)
	_, err := s.db.Collection("platform_credentials").UpdateOne(ctx,
		bson.M{"platform": creds.Platform},
		bson.M{"$set": bson.M{
			"credentials": creds.Credentials,
			"updated_at":  creds.UpdatedAt,
		}, "$setOnInsert": bson.M{"_id": creds.ID}},
		opts)
	return err
}

func (s *mongoStore) GetCredentials(ctx context.Context, platform string) (models.PlatformCredentials, error) {
	var creds models.PlatformCredentials
	err := s.db.Collection("platform_credentials").FindOne(ctx, bson.M{"platform": platform}).Decode(&creds)
	return creds, err
}
