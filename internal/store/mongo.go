// Package store holds the MongoDB catalog repository and the GridFS blob
// store adapter.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	booksCollection = "books"
	uploadsBucket   = "uploads"
)

// Client wraps the Mongo connection plus the handles the rest of the app
// needs: the books collection and the uploads bucket.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	bucket *gridfs.Bucket
}

// Open connects and pings the database. Callers treat failure as fatal; no
// request can be served without the catalog store.
func Open(ctx context.Context, uri, dbName string) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := client.Database(dbName)
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(uploadsBucket))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Client{client: client, db: db, bucket: bucket}, nil
}

// EnsureIndexes creates the unique index on bookId. This index is the actual
// uniqueness guarantee behind the allocator's advisory existence check.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.Books().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "bookId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (c *Client) Books() *mongo.Collection { return c.db.Collection(booksCollection) }

func (c *Client) Bucket() *gridfs.Bucket { return c.bucket }

func (c *Client) Ping(ctx context.Context) error { return c.client.Ping(ctx, nil) }

func (c *Client) Close(ctx context.Context) error { return c.client.Disconnect(ctx) }
