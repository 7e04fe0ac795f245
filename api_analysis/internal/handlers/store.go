package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/theo45530/commerceai-pro/pkg/models"
)

const defaultListLimit = 50

// analysisCollections maps the URL analysis type segment to its collection
var analysisCollections = map[string]string{
	"product":  "product_analyses",
	"checkout": "checkout_analyses",
	"website":  "website_analyses",
}

// Store is the persistence surface the analysis handlers need
type Store interface {
	InsertProductAnalysis(ctx context.Context, a models.ProductAnalysis) error
	InsertCheckoutAnalysis(ctx context.Context, a models.CheckoutAnalysis) error
	InsertWebsiteAnalysis(ctx context.Context, a models.WebsiteAnalysis) error
	ListAnalyses(ctx context.Context, collection string, limit int64) ([]bson.M, error)
	GetAnalysis(ctx context.Context, collection, id string) (bson.M, error)
}

type mongoStore struct {
	db *mongo.Database
}

// NewStore returns a Store backed by the given MongoDB database
func NewStore(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) InsertProductAnalysis(ctx context.Context, a models.ProductAnalysis) error {
	_, err := s.db.Collection("product_analyses").InsertOne(ctx, a)
	return err
}

func (s *mongoStore) InsertCheckoutAnalysis(ctx context.Context, a models.CheckoutAnalysis) error {
	_, err := s.db.Collection("checkout_analyses").InsertOne(ctx, a)
	return err
}

func (s *mongoStore) InsertWebsiteAnalysis(ctx context.Context, a models.WebsiteAnalysis) error {
	_, err := s.db.Collection("website_analyses").InsertOne(ctx, a)
	return err
}

func (s *mongoStore) ListAnalyses(ctx context.Context, collection string, limit int64) ([]bson.M, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	results := []bson.M{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *mongoStore) GetAnalysis(ctx context.Context, collection, id string) (bson.M, error) {
	var result bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		return nil, err
	}
	return result, nil
}
