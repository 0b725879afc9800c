package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AI2HU/geolens/internal/models"
)

// ListResults returns a run's results in their original order
func (m *MongoDB) ListResults(ctx context.Context, runID string) ([]models.Result, error) {
	return m.findResults(ctx, bson.M{"run_id": runID}, 0)
}

// SearchResults finds results whose response text contains keyword, case-insensitively
func (m *MongoDB) SearchResults(ctx context.Context, runID, keyword string, limit int) ([]models.Result, error) {
	query := bson.M{
		"run_id":        runID,
		"response_text": bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"},
	}
	return m.findResults(ctx, query, limit)
}

func (m *MongoDB) findResults(ctx context.Context, query bson.M, limit int) ([]models.Result, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "position", Value: 1}}).
		SetProjection(bson.M{"_id": 0})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := m.database.Collection(collResults).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Result{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return results, nil
}
