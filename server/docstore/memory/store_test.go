package memory

import (
	"context"
	"testing"

	"github.com/gear6io/sift/server/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndFindByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	coll := store.Collection("things")

	id, err := coll.InsertOne(ctx, docstore.Document{"name": "first"})
	require.NoError(t, err)
	require.True(t, docstore.IsValidID(id), "store-assigned id should be ObjectID-shaped, got %q", id)

	doc, err := coll.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "first", doc["name"])
	assert.Equal(t, id, doc["_id"])

	// Absent and malformed ids both come back nil without error
	doc, err = coll.FindByID(ctx, docstore.NewID())
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestInsertManyAndCount(t *testing.T) {
	ctx := context.Background()
	coll := NewStore().Collection("rows")

	docs := []docstore.Document{
		{"a": int64(1)},
		{"a": int64(2)},
		{"a": int64(3)},
	}
	n, err := coll.InsertMany(ctx, docs, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	count, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestInsertDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	coll := NewStore().Collection("patients")

	docs := []docstore.Document{
		{"_id": "PAT-1", "name": "Ada"},
		{"_id": "PAT-2", "name": "Grace"},
	}
	n, err := coll.InsertMany(ctx, docs, false)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	// Unordered: duplicates are skipped, the rest goes in
	n, err = coll.InsertMany(ctx, []docstore.Document{
		{"_id": "PAT-1", "name": "Ada again"},
		{"_id": "PAT-3", "name": "Alan"},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// The first write wins
	doc, err := coll.FindByID(ctx, "PAT-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc["name"])

	// Ordered: the first duplicate stops the batch
	n, err = coll.InsertMany(ctx, []docstore.Document{
		{"_id": "PAT-4", "name": "Edsger"},
		{"_id": "PAT-2", "name": "Grace again"},
		{"_id": "PAT-5", "name": "Barbara"},
	}, true)
	require.Error(t, err)
	assert.Equal(t, int64(1), n)

	_, err = coll.InsertOne(ctx, docstore.Document{"_id": "PAT-3"})
	assert.Error(t, err)
}

func TestFindPagination(t *testing.T) {
	ctx := context.Background()
	coll := NewStore().Collection("rows")

	for i := 0; i < 5; i++ {
		_, err := coll.InsertOne(ctx, docstore.Document{"idx": int64(i)})
		require.NoError(t, err)
	}

	page, err := coll.Find(ctx, docstore.Filter{}, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0]["idx"])
	assert.Equal(t, int64(2), page[1]["idx"])

	// limit <= 0 means no limit
	all, err := coll.Find(ctx, docstore.Filter{}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestFindContainsFilter(t *testing.T) {
	ctx := context.Background()
	coll := NewStore().Collection("datasets")

	_, err := coll.InsertOne(ctx, docstore.Document{"name": "Sales Q1", "description": "quarterly"})
	require.NoError(t, err)
	_, err = coll.InsertOne(ctx, docstore.Document{"name": "Inventory", "description": "warehouse sales data"})
	require.NoError(t, err)
	_, err = coll.InsertOne(ctx, docstore.Document{"name": "HR", "description": "people"})
	require.NoError(t, err)

	// OR-combined, case-insensitive substring across both fields
	found, err := coll.Find(ctx, docstore.Filter{Contains: map[string]string{
		"name":        "SALES",
		"description": "sales",
	}}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestUpdateByIDMergesFields(t *testing.T) {
	ctx := context.Background()
	coll := NewStore().Collection("datasets")

	id, err := coll.InsertOne(ctx, docstore.Document{"name": "x", "total_rows": int64(3)})
	require.NoError(t, err)

	matched, err := coll.UpdateByID(ctx, id, docstore.Document{"total_rows": int64(7)})
	require.NoError(t, err)
	assert.True(t, matched)

	doc, err := coll.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), doc["total_rows"])
	assert.Equal(t, "x", doc["name"], "untouched fields must survive a partial update")

	matched, err = coll.UpdateByID(ctx, docstore.NewID(), docstore.Document{"name": "y"})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	coll := NewStore().Collection("datasets")

	id, err := coll.InsertOne(ctx, docstore.Document{"name": "x"})
	require.NoError(t, err)

	deleted, err := coll.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = coll.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	doc, err := coll.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDropAndListCollections(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.CreateCollection(ctx, "a"))
	require.NoError(t, store.CreateCollection(ctx, "b"))

	names, err := store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 2)

	require.NoError(t, store.Collection("a").Drop(ctx))

	names, err = store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)
}
