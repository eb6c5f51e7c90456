package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names shared by the Mongo repository and the index bootstrap.
const (
	ClientsCollection = "clients"
	AlbumsCollection  = "albums"
	PhotosCollection  = "photos"
)

// ConnectMongo opens a client, pings the primary and returns the named database.
func ConnectMongo(ctx context.Context, uri, name string, log *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Info("connected to mongo", zap.String("database", name))
	return client, client.Database(name), nil
}

// EnsureMongoIndexes creates the indexes the repository relies on. The unique
// index on clients.email is what makes concurrent registrations safe.
func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{ClientsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("clients_email_key"),
		}},
		{ClientsCollection, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}}},
		{AlbumsCollection, mongo.IndexModel{Keys: bson.D{{Key: "client_name", Value: 1}}}},
		{AlbumsCollection, mongo.IndexModel{Keys: bson.D{{Key: "tags", Value: 1}}}},
		{PhotosCollection, mongo.IndexModel{Keys: bson.D{{Key: "album_id", Value: 1}}}},
		{PhotosCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "storage_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("photos_storage_key_key"),
		}},
	}
	for _, s := range specs {
		if _, err := database.Collection(s.collection).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("create index on %s: %w", s.collection, err)
		}
	}
	return nil
}
