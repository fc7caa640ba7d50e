package dataset

import (
	"time"

	"github.com/gear6io/sift/server/docstore"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toDocument flattens a Dataset into a store document. The _id field is
// never included; it is store-assigned.
func toDocument(ds *Dataset) docstore.Document {
	return docstore.Document{
		"name":            ds.Name,
		"description":     ds.Description,
		"source":          ds.Source,
		"columns":         ds.Columns,
		"data_sample":     ds.DataSample,
		"total_rows":      ds.TotalRows,
		"file_path":       ds.FilePath,
		"collection_name": ds.CollectionName,
		"created_at":      ds.CreatedAt,
		"updated_at":      ds.UpdatedAt,
	}
}

// fromDocument rebuilds a Dataset from a store document. Field types are
// read tolerantly because the mongo driver decodes into its own scalar
// types (primitive.A, primitive.DateTime, int32) while the memory engine
// hands values back unchanged.
func fromDocument(doc docstore.Document) *Dataset {
	return &Dataset{
		ID:             asString(doc["_id"]),
		Name:           asString(doc["name"]),
		Description:    asString(doc["description"]),
		Source:         asString(doc["source"]),
		Columns:        asStringSlice(doc["columns"]),
		DataSample:     asRowSlice(doc["data_sample"]),
		TotalRows:      asInt64(doc["total_rows"]),
		FilePath:       asString(doc["file_path"]),
		CollectionName: asString(doc["collection_name"]),
		CreatedAt:      asTime(doc["created_at"]),
		UpdatedAt:      asTime(doc["updated_at"]),
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	default:
		return time.Time{}
	}
}

func asStringSlice(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		return stringSlice(vals)
	case primitive.A:
		return stringSlice(vals)
	default:
		return nil
	}
}

func stringSlice(vals []interface{}) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, asString(v))
	}
	return out
}

func asRowSlice(v interface{}) []map[string]interface{} {
	switch vals := v.(type) {
	case []map[string]interface{}:
		return vals
	case []interface{}:
		return rowSlice(vals)
	case primitive.A:
		return rowSlice(vals)
	default:
		return nil
	}
}

func rowSlice(vals []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(vals))
	for _, v := range vals {
		switch row := v.(type) {
		case map[string]interface{}:
			out = append(out, row)
		case primitive.M:
			out = append(out, map[string]interface{}(row))
		}
	}
	return out
}
