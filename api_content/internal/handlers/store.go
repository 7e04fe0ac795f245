package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/theo45530/commerceai-pro/pkg/models"
)

const defaultListLimit = 50

// Store is the persistence surface the content handlers need
type Store interface {
	InsertContent(ctx context.Context, rec models.ContentRecord) error
	GetContent(ctx context.Context, id string) (models.ContentRecord, error)
	ListContent(ctx context.Context, contentType string, limit int64) ([]models.ContentRecord, error)
	UpdateContent(ctx context.Context, id string, set bson.M) error
	InsertInsights(ctx context.Context, ins models.ContentInsights) error
	UpsertContentPerformance(ctx context.Context, perf models.ContentPerformance) error
	UpsertPlatformAnalytics(ctx context.Context, snap models.PlatformAnalytics) error
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

func (s *mongoStore) InsertContent(ctx context.Context, rec models.ContentRecord) error {
	_, err := s.db.Collection("generated_content").InsertOne(ctx, rec)
	return err
}

func (s *mongoStore) GetContent(ctx context.Context, id string) (models.ContentRecord, error) {
	var rec models.ContentRecord
	err := s.db.Collection("generated_content").FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	return rec, err
}

func (s *mongoStore) ListContent(ctx context.Context, contentType string, limit int64) ([]models.ContentRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	filter := bson.M{}
	if contentType != "" {
		filter["content_type"] = contentType
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.db.Collection("generated_content").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	records := []models.ContentRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *mongoStore) UpdateContent(ctx context.Context, id string, set bson.M) error {
	result, err := s.db.Collection("generated_content").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *mongoStore) InsertInsights(ctx context.Context, ins models.ContentInsights) error {
	_, err := s.db.Collection("content_insights").InsertOne(ctx, ins)
	return err
}

func (s *mongoStore) UpsertContentPerformance(ctx context.Context, perf models.ContentPerformance) error {
	opts := options.UpdateOne().SetUpsert(true)
	_, err := s.db.Collection("content_performance").UpdateOne(ctx,
		bson.M{"content_id": perf.ContentID, "platform": perf.Platform},
		bson.M{"$set": bson.M{
			"platform_post_id": perf.PlatformPostID,
			"metrics":          perf.Metrics,
			"fetched_at":       perf.FetchedAt,
		}, "$setOnInsert": bson.M{"_id": perf.ID}},
		opts)
	return err
}

func (s *mongoStore) UpsertPlatformAnalytics(ctx context.Context, snap models.PlatformAnalytics) error {
	opts := options.UpdateOne().SetUpsert(true)
	_, err := s.db.Collection("platform_analytics").UpdateOne(ctx,
		bson.M{"platform": snap.Platform, "start_date": snap.StartDate, "end_date": snap.EndDate},
		bson.M{"$set": bson.M{
			"analytics":  snap.Analytics,
			"fetched_at": snap.FetchedAt,
		}, "$setOnInsert": bson.M{"_id": snap.ID}},
		opts)
	return err
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
