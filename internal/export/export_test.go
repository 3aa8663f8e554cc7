package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/DaniarKamaev/Tasks/internal/storage"
)

type fakeLister struct {
	records []*storage.TaskRecord
}

func (f *fakeLister) ListAll(ctx context.Context) []*storage.TaskRecord {
	return f.records
}

func testRecords() []*storage.TaskRecord {
	created := time.Date(2025, 9, 27, 10, 0, 0, 0, time.UTC)
	return []*storage.TaskRecord{
		{ID: 2, Title: "newer", Description: "second", CreatedAt: created.Add(time.Hour), IsCompleted: true, OwnerTag: 1},
		{ID: 1, Title: "older", Description: "first", CreatedAt: created, OwnerTag: 1},
	}
}

func TestExportJSON(t *testing.T) {
	e := NewExporter(&fakeLister{records: testRecords()})

	data, err := e.Export(context.Background(), "json")
	if err != nil {
		t.Fatalf("Export(json) failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Export(json) produced invalid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d entries, want 2", len(decoded))
	}
	if decoded[0]["title"] != "newer" || decoded[0]["is_completed"] != true {
		t.Errorf("first entry mismatch: %v", decoded[0])
	}
}

func TestExportCSV(t *testing.T) {
	e := NewExporter(&fakeLister{records: testRecords()})

	data, err := e.Export(context.Background(), "csv")
	if err != nil {
		t.Fatalf("Export(csv) failed: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Export(csv) produced invalid CSV: %v", err)
	}
	if len(rows) != 3 { // header + 2 records
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "id" || rows[0][1] != "title" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "2" || rows[1][4] != "true" {
		t.Errorf("unexpected first record row: %v", rows[1])
	}
}

func TestExportPDF(t *testing.T) {
	e := NewExporter(&fakeLister{records: testRecords()})

	data, err := e.Export(context.Background(), "pdf")
	if err != nil {
		t.Fatalf("Export(pdf) failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Export(pdf) output does not start with a PDF header")
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	e := NewExporter(&fakeLister{records: nil})

	_, err := e.Export(context.Background(), "xml")
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("Export(xml) returned %v, want unsupported-format error", err)
	}
}
