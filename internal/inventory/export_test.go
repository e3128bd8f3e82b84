package inventory

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stockbook/internal"
)

func day(value string) time.Time {
	parsed, err := time.Parse(internal.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestSnapshotCollapsesDuplicateTuples(t *testing.T) {
	db := openTestDB(t)

	// Inserting directly bypasses reconciliation, simulating a catalog
	// where the one-record-per-name rule was violated upstream.
	records := []internal.ItemRecord{
		{Name: "Widget", Quantity: 10, PriceCents: 100, UpdatedAt: day("2022-01-01")},
		{Name: "Widget", Quantity: 10, PriceCents: 100, UpdatedAt: day("2022-01-01")},
		{Name: "Widget", Quantity: 5, PriceCents: 100, UpdatedAt: day("2022-01-01")},
		{Name: "Gadget", Quantity: 3, PriceCents: 50, UpdatedAt: day("2021-06-15")},
	}
	for _, record := range records {
		if _, err := db.InsertItem(record); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := Snapshot(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 distinct rows, got %d", len(rows))
	}

	// Order is not significant, so compare as a set.
	got := map[internal.ExportRow]struct{}{}
	for _, row := range rows {
		got[row] = struct{}{}
	}
	want := []internal.ExportRow{
		{Name: "Widget", Quantity: 10, PriceCents: 100, UpdatedAt: "2022-01-01"},
		{Name: "Widget", Quantity: 5, PriceCents: 100, UpdatedAt: "2022-01-01"},
		{Name: "Gadget", Quantity: 3, PriceCents: 50, UpdatedAt: "2021-06-15"},
	}
	for _, row := range want {
		if _, ok := got[row]; !ok {
			t.Fatalf("missing row %+v", row)
		}
	}
}

func TestSnapshotEmptyCatalog(t *testing.T) {
	db := openTestDB(t)
	rows, err := Snapshot(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []internal.ExportRow{
		{Name: "Widget", Quantity: 10, PriceCents: 100, UpdatedAt: "2022-01-01"},
		{Name: "Gadget", Quantity: 3, PriceCents: 50, UpdatedAt: "2021-06-15"},
	}

	outputPath := filepath.Join(t.TempDir(), "backup.csv")
	if err := WriteCSV(rows, outputPath); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}

	header := records[0]
	want := []string{"id", "name", "quantity", "price_cents", "updated_at"}
	for i, column := range want {
		if header[i] != column {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], column)
		}
	}

	for _, record := range records[1:] {
		if record[0] != "" {
			t.Fatalf("id column must be empty, got %q", record[0])
		}
	}
	if records[1][1] != "Widget" || records[1][4] != "2022-01-01" {
		t.Fatalf("unexpected first row: %v", records[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	rows := []internal.ExportRow{
		{Name: "Widget", Quantity: 10, PriceCents: 100, UpdatedAt: "2022-01-01"},
	}

	outputPath := filepath.Join(t.TempDir(), "backup.xlsx")
	if err := WriteXLSX(rows, outputPath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatal(err)
	}
}
