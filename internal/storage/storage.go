// Package storage is the record-access layer over the mongo document
// store and the gridfs blob store. Every operation follows the same
// verify-then-act shape: mutating calls verify the record exists first
// and fail with an apperr kind the handlers translate to a status code.
package storage

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 10 * time.Second

const (
	usersCollection    = "users"
	projectsCollection = "projects"
	filesCollection    = "files"
)

// Store holds the process-wide mongo client, database handle and gridfs
// bucket. Constructed once in main and injected into every consumer.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	bucket *gridfs.Bucket
}

// Connect establishes the mongo connection, verifies it with a ping and
// ensures the unique indexes that back the create-time conflict checks.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, err
	}

	s := &Store{client: client, db: db, bucket: bucket}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	log.Println("[Storage] Connected to MongoDB")
	return s, nil
}

// Disconnect tears down the mongo connection at process exit.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ensureIndexes creates the persistent unique indexes. These are the
// source of truth for uniqueness; the find-before-insert checks in the
// create paths are an optimization on top of them.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.db.Collection(projectsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

func objectIDHex(id interface{}) string {
	oid, ok := id.(primitive.ObjectID)
	if !ok {
		return ""
	}
	return oid.Hex()
}
