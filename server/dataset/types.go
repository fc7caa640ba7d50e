// Package dataset owns the catalog metadata entity and its repository.
// One Dataset document describes one uploaded tabular source; its rows
// live in a dynamically named companion collection.
package dataset

import "time"

// Dataset is the catalog record for one uploaded tabular source.
//
// CollectionName is empty until ingestion completes the row-store step;
// a record without it is observable as an incomplete dataset (the
// two-tier create is not transactional).
type Dataset struct {
	ID             string                   `bson:"_id,omitempty" json:"id"`
	Name           string                   `bson:"name" json:"name"`
	Description    string                   `bson:"description,omitempty" json:"description,omitempty"`
	Source         string                   `bson:"source,omitempty" json:"source,omitempty"`
	Columns        []string                 `bson:"columns" json:"columns"`
	DataSample     []map[string]interface{} `bson:"data_sample" json:"data_sample"`
	TotalRows      int64                    `bson:"total_rows" json:"total_rows"`
	FilePath       string                   `bson:"file_path,omitempty" json:"file_path,omitempty"`
	CollectionName string                   `bson:"collection_name,omitempty" json:"collection_name,omitempty"`
	CreatedAt      time.Time                `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time                `bson:"updated_at" json:"updated_at"`
}

// Update is a partial patch: only set (non-nil) fields are applied,
// everything else is left untouched.
type Update struct {
	Name           *string                   `json:"name,omitempty"`
	Description    *string                   `json:"description,omitempty"`
	Source         *string                   `json:"source,omitempty"`
	Columns        *[]string                 `json:"columns,omitempty"`
	DataSample     *[]map[string]interface{} `json:"data_sample,omitempty"`
	TotalRows      *int64                    `json:"total_rows,omitempty"`
	FilePath       *string                   `json:"file_path,omitempty"`
	CollectionName *string                   `json:"collection_name,omitempty"`
	UpdatedAt      *time.Time                `json:"updated_at,omitempty"`
}
