package mongo

import (
	"context"
	"regexp"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/docstore"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Engine type constant for this storage engine
const Type = "MONGO"

// Store implements docstore.Store on a MongoDB database
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger zerolog.Logger
}

// NewStore connects to MongoDB and verifies the connection with a ping
func NewStore(ctx context.Context, uri, database string, logger zerolog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.New(docstore.ErrConnectFailed, "failed to connect to mongodb", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.New(docstore.ErrPingFailed, "mongodb ping failed", err).AddContext("uri", uri)
	}

	logger.Info().Str("database", database).Msg("Connected to MongoDB")

	return &Store{
		client: client,
		db:     client.Database(database),
		logger: logger.With().Str("component", "docstore-mongo").Logger(),
	}, nil
}

func (s *Store) Collection(name string) docstore.Collection {
	return &collection{coll: s.db.Collection(name)}
}

func (s *Store) CreateCollection(ctx context.Context, name string) error {
	if err := s.db.CreateCollection(ctx, name); err != nil {
		// Creating an existing collection is not an error for callers
		if cmdErr, ok := err.(mongo.CommandError); ok && cmdErr.Name == "NamespaceExists" {
			return nil
		}
		return errors.New(docstore.ErrCollectionFailed, "failed to create collection", err).AddContext("collection", name)
	}
	return nil
}

func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, errors.New(docstore.ErrCollectionFailed, "failed to list collections", err)
	}
	return names, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return errors.New(docstore.ErrPingFailed, "mongodb ping failed", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// collection implements docstore.Collection on a mongo collection
type collection struct {
	coll *mongo.Collection
}

func (c *collection) Name() string {
	return c.coll.Name()
}

func (c *collection) InsertOne(ctx context.Context, doc docstore.Document) (string, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", errors.New(docstore.ErrInsertFailed, "insert failed", err).AddContext("collection", c.Name())
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Newf(docstore.ErrInsertFailed, "unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (c *collection) InsertMany(ctx context.Context, docs []docstore.Document, ordered bool) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	payload := make([]interface{}, len(docs))
	for i, d := range docs {
		payload[i] = d
	}

	res, err := c.coll.InsertMany(ctx, payload, options.InsertMany().SetOrdered(ordered))

	var inserted int64
	if res != nil {
		inserted = int64(len(res.InsertedIDs))
	}
	if err != nil {
		// Unordered inserts keep going past individual failures; a partial
		// success still reports how many documents made it in.
		if !ordered && inserted > 0 {
			return inserted, nil
		}
		return inserted, errors.New(docstore.ErrInsertFailed, "bulk insert failed", err).AddContext("collection", c.Name())
	}
	return inserted, nil
}

func (c *collection) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc bson.M
	if err := c.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, errors.New(docstore.ErrFindFailed, "find by id failed", err).AddContext("collection", c.Name())
	}

	return normalizeID(doc), nil
}

func (c *collection) Find(ctx context.Context, filter docstore.Filter, skip, limit int64) ([]docstore.Document, error) {
	opts := options.Find().SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := c.coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, errors.New(docstore.ErrFindFailed, "find failed", err).AddContext("collection", c.Name())
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, errors.New(docstore.ErrFindFailed, "cursor decode failed", err).AddContext("collection", c.Name())
	}

	docs := make([]docstore.Document, len(raw))
	for i, d := range raw {
		docs[i] = normalizeID(d)
	}
	return docs, nil
}

func (c *collection) UpdateByID(ctx context.Context, id string, fields docstore.Document) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return false, errors.New(docstore.ErrUpdateFailed, "update failed", err).AddContext("collection", c.Name())
	}
	return res.MatchedCount > 0, nil
}

func (c *collection) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, errors.New(docstore.ErrDeleteFailed, "delete failed", err).AddContext("collection", c.Name())
	}
	return res.DeletedCount > 0, nil
}

func (c *collection) Count(ctx context.Context) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.New(docstore.ErrCountFailed, "count failed", err).AddContext("collection", c.Name())
	}
	return n, nil
}

func (c *collection) Drop(ctx context.Context) error {
	return c.coll.Drop(ctx)
}

// buildFilter translates the engine-neutral filter to a mongo query
func buildFilter(filter docstore.Filter) bson.M {
	if len(filter.Contains) == 0 {
		return bson.M{}
	}

	var or []bson.M
	for field, substr := range filter.Contains {
		or = append(or, bson.M{field: bson.M{
			"$regex":   regexp.QuoteMeta(substr),
			"$options": "i",
		}})
	}
	return bson.M{"$or": or}
}

// normalizeID rewrites the _id field to its hex string form so callers
// never see driver types
func normalizeID(doc bson.M) docstore.Document {
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		doc["_id"] = oid.Hex()
	}
	return docstore.Document(doc)
}
