// Package memory is the in-process docstore engine. It mirrors the mongo
// engine's observable behavior (store-assigned hex ids, insertion order,
// $set merge updates) so the rest of the server can be exercised without
// a running MongoDB.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/docstore"
)

// Engine type constant for this storage engine
const Type = "MEMORY"

// Store implements docstore.Store in process memory
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*collection),
	}
}

func (s *Store) Collection(name string) docstore.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreate(name)
}

func (s *Store) CreateCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(name)
	return nil
}

func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	return names, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

// getOrCreate must be called with the store lock held
func (s *Store) getOrCreate(name string) *collection {
	if c, ok := s.collections[name]; ok {
		return c
	}
	c := &collection{name: name, store: s}
	s.collections[name] = c
	return c
}

// collection implements docstore.Collection over an ordered document slice
type collection struct {
	name  string
	store *Store

	mu   sync.RWMutex
	docs []docstore.Document
}

func (c *collection) Name() string {
	return c.name
}

func (c *collection) InsertOne(ctx context.Context, doc docstore.Document) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := cloneDoc(doc)
	id, ok := stored["_id"].(string)
	if !ok || id == "" {
		id = docstore.NewID()
		stored["_id"] = id
	}
	if c.hasID(id) {
		return "", errors.New(docstore.ErrInsertFailed, "duplicate document id", nil).
			AddContext("collection", c.name).
			AddContext("id", id)
	}
	c.docs = append(c.docs, stored)
	return id, nil
}

// InsertMany enforces _id uniqueness the way mongo does: ordered inserts
// stop at the first duplicate and report the error, unordered inserts
// skip duplicates and keep going.
func (c *collection) InsertMany(ctx context.Context, docs []docstore.Document, ordered bool) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var inserted int64
	for _, doc := range docs {
		stored := cloneDoc(doc)
		id, ok := stored["_id"].(string)
		if !ok || id == "" {
			id = docstore.NewID()
			stored["_id"] = id
		}
		if c.hasID(id) {
			if ordered {
				return inserted, errors.New(docstore.ErrInsertFailed, "duplicate document id", nil).
					AddContext("collection", c.name).
					AddContext("id", id)
			}
			continue
		}
		c.docs = append(c.docs, stored)
		inserted++
	}
	return inserted, nil
}

// hasID must be called with the collection lock held
func (c *collection) hasID(id string) bool {
	for _, doc := range c.docs {
		if doc["_id"] == id {
			return true
		}
	}
	return false
}

func (c *collection) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, doc := range c.docs {
		if doc["_id"] == id {
			return cloneDoc(doc), nil
		}
	}
	return nil, nil
}

func (c *collection) Find(ctx context.Context, filter docstore.Filter, skip, limit int64) ([]docstore.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []docstore.Document
	var seen int64
	for _, doc := range c.docs {
		if !matches(doc, filter) {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		out = append(out, cloneDoc(doc))
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (c *collection) UpdateByID(ctx context.Context, id string, fields docstore.Document) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range c.docs {
		if doc["_id"] == id {
			for k, v := range fields {
				doc[k] = v
			}
			return true, nil
		}
	}
	return false, nil
}

func (c *collection) DeleteByID(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, doc := range c.docs {
		if doc["_id"] == id {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (c *collection) Count(ctx context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.docs)), nil
}

func (c *collection) Drop(ctx context.Context) error {
	c.mu.Lock()
	c.docs = nil
	c.mu.Unlock()

	c.store.mu.Lock()
	delete(c.store.collections, c.name)
	c.store.mu.Unlock()
	return nil
}

func matches(doc docstore.Document, filter docstore.Filter) bool {
	if len(filter.Contains) == 0 {
		return true
	}
	for field, substr := range filter.Contains {
		val, ok := doc[field].(string)
		if ok && strings.Contains(strings.ToLower(val), strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

func cloneDoc(doc docstore.Document) docstore.Document {
	out := make(docstore.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
