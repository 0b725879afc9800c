package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AI2HU/geolens/internal/models"
)

// MongoDB implements the result store on MongoDB
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	config   *models.Config
}

const (
	collRuns    = "runs"
	collResults = "results"
)

// New creates a new MongoDB store instance
func New(config *models.Config) (*MongoDB, error) {
	return &MongoDB{
		config: config,
	}, nil
}

// Connect establishes connection to MongoDB
func (m *MongoDB) Connect(ctx context.Context) error {
	clientOptions := options.Client().ApplyURI(m.config.URI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.client = client
	m.database = client.Database(m.databaseName())

	if err := m.createIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func (m *MongoDB) databaseName() string {
	if m.config.Database != "" {
		return m.config.Database
	}
	return "geolens"
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Ping checks the database connection
func (m *MongoDB) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("not connected to database")
	}
	return m.client.Ping(ctx, nil)
}

// createIndexes creates the indexes the run and result queries rely on
func (m *MongoDB) createIndexes(ctx context.Context) error {
	resultIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "run_id", Value: 1},
				{Key: "position", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "run_id", Value: 1},
				{Key: "provider", Value: 1},
			},
		},
	}
	if _, err := m.database.Collection(collResults).Indexes().CreateMany(ctx, resultIndexes); err != nil {
		return fmt.Errorf("failed to create result indexes: %w", err)
	}

	runIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}
	if _, err := m.database.Collection(collRuns).Indexes().CreateOne(ctx, runIndex); err != nil {
		return fmt.Errorf("failed to create run indexes: %w", err)
	}

	return nil
}

// SaveRun replaces a run and all of its results
func (m *MongoDB) SaveRun(ctx context.Context, run *models.Run, results []models.Result) error {
	run.CreatedAt = run.CreatedAt.UTC()

	_, err := m.database.Collection(collRuns).ReplaceOne(ctx,
		bson.M{"_id": run.ID},
		run,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := m.database.Collection(collResults).DeleteMany(ctx, bson.M{"run_id": run.ID}); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}

	if len(results) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(results))
	for i := range results {
		r := results[i]
		r.RunID = run.ID
		r.Position = i
		docs = append(docs, r)
	}

	if _, err := m.database.Collection(collResults).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID
func (m *MongoDB) GetRun(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := m.database.Collection(collRuns).FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// LatestRun returns the most recently created run
func (m *MongoDB) LatestRun(ctx context.Context) (*models.Run, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

	var run models.Run
	err := m.database.Collection(collRuns).FindOne(ctx, bson.M{}, opts).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("no runs found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return &run, nil
}

// ListRuns lists runs, newest first; limit <= 0 means no limit
func (m *MongoDB) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := m.database.Collection(collRuns).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []*models.Run
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode runs: %w", err)
	}
	return runs, nil
}

// DeleteRun deletes a run and its results
func (m *MongoDB) DeleteRun(ctx context.Context, id string) error {
	if _, err := m.database.Collection(collResults).DeleteMany(ctx, bson.M{"run_id": id}); err != nil {
		return fmt.Errorf("failed to delete results: %w", err)
	}

	res, err := m.database.Collection(collRuns).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetDatabase returns the underlying MongoDB database instance
func (m *MongoDB) GetDatabase() *mongo.Database {
	return m.database
}
