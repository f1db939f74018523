// Package mongo implements the chat, message, and permission repositories on
// MongoDB. Documents carry UUIDs as strings; conversion to and from the
// domain entities is a total mapping done in this package.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	chatsCollection       = "chats"
	messagesCollection    = "messages"
	permissionsCollection = "chat_permissions"
)

// Connect opens a client, verifies it with a ping, and returns the database
// handle.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the collection indexes; all creations are idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	chatIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "member_ids", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	msgIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "chat_id", Value: 1}}},
		{Keys: bson.D{{Key: "sender_id", Value: 1}}},
		{Keys: bson.D{{Key: "chat_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}
	permIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "chat_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "chat_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := db.Collection(chatsCollection).Indexes().CreateMany(ctx, chatIdx); err != nil {
		return fmt.Errorf("create chat indexes: %w", err)
	}
	if _, err := db.Collection(messagesCollection).Indexes().CreateMany(ctx, msgIdx); err != nil {
		return fmt.Errorf("create message indexes: %w", err)
	}
	if _, err := db.Collection(permissionsCollection).Indexes().CreateMany(ctx, permIdx); err != nil {
		return fmt.Errorf("create permission indexes: %w", err)
	}
	return nil
}
