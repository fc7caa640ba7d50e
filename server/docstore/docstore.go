// Package docstore defines the collection-oriented document store the
// dataset catalog runs on. Engines live in subpackages (mongo, memory)
// behind one interface; callers never see driver types.
package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is one schemaless record: column/field name to scalar value.
type Document = map[string]interface{}

// Filter selects documents for Find. A zero Filter matches everything.
// Contains is OR-combined: a document matches when any listed field
// contains its substring, case-insensitively.
type Filter struct {
	Contains map[string]string
}

// Store is a handle on one logical database of named collections.
// It is constructed once at startup and passed by reference into every
// component that needs it.
type Store interface {
	// Collection returns a handle on a named collection. The collection
	// does not need to exist yet; engines create it lazily on first write.
	Collection(name string) Collection

	// CreateCollection explicitly creates a named collection.
	CreateCollection(ctx context.Context, name string) error

	// ListCollections returns the names of all collections in the database.
	ListCollections(ctx context.Context) ([]string, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// Collection is a handle on one named collection.
//
// Documents returned by reads always carry their identifier under "_id"
// as a 24-char hex string, regardless of engine.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// InsertOne inserts a document and returns its store-assigned id.
	InsertOne(ctx context.Context, doc Document) (string, error)

	// InsertMany bulk-inserts documents and returns how many made it in.
	// When ordered is false the insert continues past individual failures.
	InsertMany(ctx context.Context, docs []Document, ordered bool) (int64, error)

	// FindByID returns the document with the given id, or nil when absent.
	FindByID(ctx context.Context, id string) (Document, error)

	// Find returns documents matching the filter in insertion order,
	// applying the given offset and limit (limit <= 0 means no limit).
	Find(ctx context.Context, filter Filter, skip, limit int64) ([]Document, error)

	// UpdateByID merges the given fields into the identified document
	// ($set semantics, untouched fields survive). Reports whether a
	// document matched.
	UpdateByID(ctx context.Context, id string, fields Document) (bool, error)

	// DeleteByID removes the identified document, reporting whether one existed.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int64, error)

	// Drop removes the collection and all its documents.
	Drop(ctx context.Context) error
}

// IsValidID reports whether s is a well-formed store identifier
// (24-char hex, ObjectID-shaped). Both engines assign ids of this shape.
func IsValidID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// NewID mints a fresh store identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
