package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository"
)

const collectionName = "app_state"

// stateDocument is the single document stored under the storage key.
type stateDocument struct {
	ID        string    `bson:"_id"`
	Blob      string    `bson:"blob"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoDBRepository implements repository.StateRepository for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: collectionName,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// Load fetches the state document.
func (r *MongoDBRepository) Load(ctx context.Context) (*models.AppData, error) {
	var doc stateDocument
	err := r.collection().FindOne(ctx, bson.M{"_id": repository.StorageKey}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find app state: %w", err)
	}
	return repository.Decode([]byte(doc.Blob))
}

// Save replaces the state document, creating it on first write.
func (r *MongoDBRepository) Save(ctx context.Context, data *models.AppData) error {
	blob, err := repository.Encode(data)
	if err != nil {
		return err
	}

	doc := stateDocument{ID: repository.StorageKey, Blob: string(blob), UpdatedAt: time.Now().UTC()}
	_, err = r.collection().ReplaceOne(ctx, bson.M{"_id": repository.StorageKey}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save app state: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
