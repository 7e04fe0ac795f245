package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/theo45530/commerceai-pro/pkg/models"
)

const defaultListLimit = 50

// Store is the persistence surface the page handlers need
type Store interface {
	InsertPage(ctx context.Context, page models.GeneratedPage) error
	GetPage(ctx context.Context, id string) (models.GeneratedPage, error)
	ListPages(ctx context.Context, pageType string, limit int64) ([]models.GeneratedPage, error)
	DeletePage(ctx context.Context, id string) error
}

type mongoStore struct {
	db *mongo.Database
}

// NewStore returns a Store backed by the given MongoDB database
func NewStore(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) InsertPage(ctx context.Context, page models.GeneratedPage) error {
	_, err := s.db.Collection("generated_pages").InsertOne(ctx, page)
	return err
}

func (s *mongoStore) GetPage(ctx context.Context, id string) (models.GeneratedPage, error) {
	var page models.GeneratedPage
	err := s.db.Collection("generated_pages").FindOne(ctx, bson.M{"_id": id}).Decode(&page)
	return page, err
}

func (s *mongoStore) ListPages(ctx context.Context, pageType string, limit int64) ([]models.GeneratedPage, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	filter := bson.M{}
	if pageType != "" {
		filter["page_type"] = pageType
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.db.Collection("generated_pages").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	pages := []models.GeneratedPage{}
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *mongoStore) DeletePage(ctx context.Context, id string) error {
	result, err := s.db.Collection("generated_pages").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
