package pipeline

// Operation is one named directive in a transformation request: a tag
// plus tag-specific arguments. Operations are ephemeral input, applied
// in the order given and never persisted.
type Operation struct {
	Type       string            `json:"type"`
	Columns    []string          `json:"columns,omitempty"`
	Value      interface{}       `json:"value,omitempty"`
	RenameDict map[string]string `json:"rename_dict,omitempty"`
}

// Known operation tags. Unknown tags are skipped with a warning, never
// an error.
const (
	OpDropNA        = "drop_na"
	OpFillNA        = "fill_na"
	OpDropColumns   = "drop_columns"
	OpRenameColumns = "rename_columns"
)
