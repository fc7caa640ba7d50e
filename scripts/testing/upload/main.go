// Smoke test script for a running sift server: generates a random CSV,
// uploads it, runs a cleaning pass and verifies the row counts.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"mime/multipart"
	"net/http"
	"strings"
)

type datasetResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Columns    []string `json:"columns"`
	TotalRows  int64    `json:"total_rows"`
	Collection string   `json:"collection_name"`
}

func main() {
	base := flag.String("addr", "http://127.0.0.1:2852", "sift server base URL")
	rows := flag.Int("rows", 1000, "rows to generate")
	flag.Parse()

	csv, missing := generateCSV(*rows)
	log.Printf("Generated %d rows (%d with missing ages)", *rows, missing)

	ds, err := upload(*base, csv)
	if err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	log.Printf("Created dataset %s in collection %s with %d rows", ds.ID, ds.Collection, ds.TotalRows)
	if ds.TotalRows != int64(*rows) {
		log.Fatalf("Expected %d rows, server reports %d", *rows, ds.TotalRows)
	}

	cleaned, err := process(*base, ds.ID)
	if err != nil {
		log.Fatalf("Process failed: %v", err)
	}
	log.Printf("After drop_na: %d rows, columns %v", cleaned.TotalRows, cleaned.Columns)
	if cleaned.TotalRows != int64(*rows-missing) {
		log.Fatalf("Expected %d rows after drop_na, server reports %d", *rows-missing, cleaned.TotalRows)
	}

	log.Print("Smoke test passed")
}

func generateCSV(rows int) (string, int) {
	cities := []string{"Paris", "Lyon", "Nantes", "Lille", "Toulouse"}
	var sb strings.Builder
	sb.WriteString("id,name,age,city,score\n")

	missing := 0
	for i := 0; i < rows; i++ {
		age := fmt.Sprintf("%d", 18+rand.Intn(60))
		if rand.Intn(10) == 0 {
			age = "NA"
			missing++
		}
		fmt.Fprintf(&sb, "%d,user_%d,%s,%s,%.2f\n", i, i, age, cities[rand.Intn(len(cities))], rand.Float64()*100)
	}
	return sb.String(), missing
}

func upload(base, csv string) (*datasetResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "smoke.csv")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(csv)); err != nil {
		return nil, err
	}
	if err := w.WriteField("name", "smoke test"); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	resp, err := http.Post(base+"/api/v1/datasets/upload", w.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	return decode(resp, http.StatusCreated)
}

func process(base, id string) (*datasetResponse, error) {
	payload := `{"operations":[{"type":"drop_na","columns":["age"]}]}`
	resp, err := http.Post(base+"/api/v1/datasets/"+id+"/process", "application/json", strings.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return decode(resp, http.StatusOK)
}

func decode(resp *http.Response, want int) (*datasetResponse, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != want {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
	var ds datasetResponse
	if err := json.Unmarshal(body, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}
