package store

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/qmap/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "qmap"
	DefaultMongoCollection = "allocations"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps records in a MongoDB collection, one document per
// record keyed by ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects, pings the server and ensures the indexes used by
// List.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "ping mongodb")
	}

	s := &MongoStore{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}
	_, err = s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "arch", Value: 1}, {Key: "allocator", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "create indexes")
	}
	return s, nil
}

func (s *MongoStore) Put(ctx context.Context, r *Record) error {
	if r == nil || r.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record needs an id")
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, err, "store record")
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var r Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "allocation %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "load record")
	}
	return &r, nil
}

func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	cur, err := s.coll.Find(ctx, listFilter(opts), listFindOptions(opts))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "list records")
	}
	defer cur.Close(ctx)

	var out []*Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "decode records")
	}
	return out, nil
}

func listFilter(opts ListOptions) bson.D {
	filter := bson.D{}
	if opts.Allocator != "" {
		filter = append(filter, bson.E{Key: "allocator", Value: opts.Allocator})
	}
	if opts.Arch != "" {
		filter = append(filter, bson.E{Key: "arch", Value: opts.Arch})
	}
	return filter
}

func listFindOptions(opts ListOptions) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(opts.limit()))
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, err, "delete record")
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
