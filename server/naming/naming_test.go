package naming

import (
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "sales", "sales"},
		{"spaces", "Sales Q1", "sales_q1"},
		{"mixed separators", "  My--Data set!  ", "my_data_set"},
		{"unicode and symbols", "café & crème", "caf_cr_me"},
		{"leading trailing runs", "___hello___", "hello"},
		{"empty", "", "dataset"},
		{"only symbols", "!!!", "dataset"},
		{"digits", "2024 report", "2024_report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCollectionName(t *testing.T) {
	id := "64b1e0d9a3c4b5f6a7d8e9f0"
	got := CollectionName("Sales Q1", id)

	if got != "ds_sales_q1_64b1e0d9" {
		t.Errorf("CollectionName = %q, want 'ds_sales_q1_64b1e0d9'", got)
	}

	pattern := regexp.MustCompile(`^ds_sales_q1_[0-9a-f]{8}$`)
	if !pattern.MatchString(got) {
		t.Errorf("CollectionName %q does not match pattern %s", got, pattern)
	}
}

func TestCollectionNameShortID(t *testing.T) {
	// Shorter-than-suffix ids are used whole
	if got := CollectionName("x", "abc"); got != "ds_x_abc" {
		t.Errorf("CollectionName = %q, want 'ds_x_abc'", got)
	}
}
