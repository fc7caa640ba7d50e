// Package naming derives collection-safe names for dataset row stores.
//
// Every ingested dataset gets one dynamically created row collection whose
// name must be unique across the whole store. The name is derived from the
// dataset's human label plus a short prefix of its store-assigned identifier,
// so no existence pre-check is needed.
package naming

import (
	"fmt"
	"regexp"
	"strings"
)

// CollectionPrefix is the fixed prefix of every dataset row collection.
const CollectionPrefix = "ds"

// DefaultSlug is used when a name slugifies to nothing.
const DefaultSlug = "dataset"

// suffixLen is how many leading characters of the dataset id are appended.
const suffixLen = 8

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases a human-supplied name and collapses every run of
// non-alphanumeric characters to a single underscore. An empty result
// falls back to DefaultSlug.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnum.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return DefaultSlug
	}
	return s
}

// CollectionName builds the row collection name for a dataset:
// <prefix>_<slug>_<first 8 chars of id>. The id is store-assigned and
// unique, so its prefix makes the name collision-resistant.
func CollectionName(name, id string) string {
	suffix := id
	if len(suffix) > suffixLen {
		suffix = suffix[:suffixLen]
	}
	return fmt.Sprintf("%s_%s_%s", CollectionPrefix, Slugify(name), suffix)
}
