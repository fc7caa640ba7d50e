package migrator

import (
	"context"
	"strings"
	"testing"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/docstore"
	"github.com/gear6io/sift/server/docstore/memory"
	"github.com/rs/zerolog"
)

const patientsCSV = `Patient ID,Name,AGE,Sex,Blood Group
7,Ada,34,F,A+
8,Grace,41,F,O-
9,Alan,29,M,AB+
`

func patientOptions() Options {
	return Options{
		Collection: "patients",
		Aliases: map[string][]string{
			"patient_id": {"patient_id", "patientid", "id"},
			"name":       {"name", "patient_name", "full_name"},
			"age":        {"age", "patient_age"},
			"gender":     {"gender", "sex"},
			"blood_type": {"blood_type", "blood group", "blood_group"},
			"diagnosis":  {"diagnosis", "condition"},
		},
		IDColumn:        "patient_id",
		IDPrefix:        "PAT",
		SourceTag:       "healthcare_dataset_v1",
		RequiredColumns: []string{"name", "age", "gender"},
	}
}

func TestRunResolvesAliasesAndInserts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := New(store, zerolog.Nop())

	report, err := m.Run(ctx, strings.NewReader(patientsCSV), patientOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Total != 3 || report.Inserted != 3 || report.Failed != 0 {
		t.Errorf("Expected 3/3 inserted, got total=%d inserted=%d failed=%d", report.Total, report.Inserted, report.Failed)
	}
	if len(report.RunID) != 26 {
		t.Errorf("Expected ULID run id, got %q", report.RunID)
	}
	if report.Resolved["gender"] != "Sex" {
		t.Errorf("Expected 'gender' resolved from 'Sex', got %q", report.Resolved["gender"])
	}
	if report.Resolved["blood_type"] != "Blood Group" {
		t.Errorf("Expected 'blood_type' resolved from 'Blood Group', got %q", report.Resolved["blood_type"])
	}
	if report.Resolved["diagnosis"] != "" {
		t.Errorf("Expected 'diagnosis' unresolved, got %q", report.Resolved["diagnosis"])
	}

	docs, err := store.Collection("patients").Find(ctx, docstore.Filter{}, 0, 0)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(docs))
	}

	first := docs[0]
	if first["_id"] != "PAT-7" {
		t.Errorf("Expected _id PAT-7, got %v", first["_id"])
	}
	if first["name"] != "Ada" {
		t.Errorf("Expected name Ada, got %v", first["name"])
	}
	if first["age"] != int64(34) {
		t.Errorf("Expected age 34, got %v (%T)", first["age"], first["age"])
	}
	if first["diagnosis"] != nil {
		t.Errorf("Expected unresolved field null, got %v", first["diagnosis"])
	}
	if first["source"] != "healthcare_dataset_v1" {
		t.Errorf("Expected source tag, got %v", first["source"])
	}
	if first["migration_id"] != report.RunID {
		t.Errorf("Expected run id stamped on documents, got %v", first["migration_id"])
	}
}

func TestRunFallsBackToRowIndexIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := New(store, zerolog.Nop())

	opts := patientOptions()
	csv := "Name,AGE,Sex\nAda,34,F\nGrace,41,F\n"
	report, err := m.Run(ctx, strings.NewReader(csv), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Inserted != 2 {
		t.Fatalf("Expected 2 inserted, got %d", report.Inserted)
	}

	docs, err := store.Collection("patients").Find(ctx, docstore.Filter{}, 0, 0)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if docs[0]["_id"] != "PAT-0" || docs[1]["_id"] != "PAT-1" {
		t.Errorf("Expected index-seeded ids PAT-0/PAT-1, got %v and %v", docs[0]["_id"], docs[1]["_id"])
	}
}

func TestRunBatches(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := New(store, zerolog.Nop())

	var sb strings.Builder
	sb.WriteString("id,name\n")
	for i := 0; i < 7; i++ {
		sb.WriteString("r,x\n")
	}
	opts := Options{
		Collection: "things",
		Aliases:    map[string][]string{"name": {"name"}},
		BatchSize:  3,
	}

	report, err := m.Run(ctx, strings.NewReader(sb.String()), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Inserted != 7 {
		t.Errorf("Expected all 7 rows inserted across batches, got %d", report.Inserted)
	}

	count, err := store.Collection("things").Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 7 {
		t.Errorf("Expected 7 documents, got %d", count)
	}
}

func TestRunRerunSkipsLoadedRows(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := New(store, zerolog.Nop())

	first, err := m.Run(ctx, strings.NewReader(patientsCSV), patientOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if first.Inserted != 3 {
		t.Fatalf("Expected 3 inserted on first run, got %d", first.Inserted)
	}

	// Same data again: derived ids collide, nothing is doubled
	second, err := m.Run(ctx, strings.NewReader(patientsCSV), patientOptions())
	if err != nil {
		t.Fatalf("Rerun failed: %v", err)
	}
	if second.Inserted != 0 || second.Failed != 3 {
		t.Errorf("Expected rerun to skip all rows, got inserted=%d failed=%d", second.Inserted, second.Failed)
	}

	count, err := store.Collection("patients").Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 documents after rerun, got %d", count)
	}
}

func TestRunIdentityAliases(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := New(store, zerolog.Nop())

	csv := "Patient ID,Name\n7,Ada\n"
	report, err := m.Run(ctx, strings.NewReader(csv), Options{Collection: "patients"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Resolved["patient_id"] != "Patient ID" {
		t.Errorf("Expected normalized identity mapping, got %v", report.Resolved)
	}

	docs, err := store.Collection("patients").Find(ctx, docstore.Filter{}, 0, 0)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if docs[0]["name"] != "Ada" || docs[0]["patient_id"] != int64(7) {
		t.Errorf("Expected normalized column keys, got %v", docs[0])
	}
}

func TestRunValidation(t *testing.T) {
	ctx := context.Background()
	m := New(memory.NewStore(), zerolog.Nop())

	_, err := m.Run(ctx, strings.NewReader("a\n1\n"), Options{})
	if !errors.IsCode(err, ErrMissingCollection) {
		t.Errorf("Expected migrator.missing_collection, got %s", errors.GetCode(err))
	}

	_, err = m.Run(ctx, strings.NewReader("a,b\n\"broken,1\n"), Options{Collection: "x"})
	if !errors.IsCode(err, ErrReadFailed) {
		t.Errorf("Expected migrator.read_failed, got %s", errors.GetCode(err))
	}
}
