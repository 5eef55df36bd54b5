package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	apperrors "github.com/fumen-tools/fumetree/pkg/errors"
)

// MongoStore keeps records in a MongoDB collection, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the MongoDB instance at uri and verifies the
// connection with a ping. Records live in database/collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnreached, err, "connect to %s", uri)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnreached, err, "ping %s", uri)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Save upserts the record by name, stamping CreatedAt on first save.
func (s *MongoStore) Save(ctx context.Context, rec Record) error {
	if err := apperrors.ValidateTreeName(rec.Name); err != nil {
		return err
	}

	now := time.Now().UTC()
	rec.UpdatedAt = now
	if prev, err := s.Load(ctx, rec.Name); err == nil {
		rec.CreatedAt = prev.CreatedAt
	} else {
		rec.CreatedAt = now
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.Name}, rec, opts); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStore, err, "save record %q", rec.Name)
	}
	return nil
}

// Load reads a record by name.
func (s *MongoStore) Load(ctx context.Context, name string) (Record, error) {
	if err := apperrors.ValidateTreeName(name); err != nil {
		return Record{}, err
	}

	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, notFound(name)
	}
	if err != nil {
		return Record{}, apperrors.Wrap(apperrors.ErrCodeStore, err, "load record %q", name)
	}
	return rec, nil
}

// List returns all stored names, sorted server-side.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.M{"_id": 1})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "list records")
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "decode record name")
		}
		names = append(names, doc.Name)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "iterate records")
	}
	return names, nil
}

// Delete removes a record; a missing name is not an error.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := apperrors.ValidateTreeName(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStore, err, "delete record %q", name)
	}
	return nil
}

// Close disconnects from the server.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
