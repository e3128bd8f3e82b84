package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"stockbook/internal/config"
	"stockbook/internal/storage"
)

func TestSmokeFeedToBackup(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "inventory.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	svc := NewImportService(db, config.Config{})
	summary, err := svc.ImportFile(filepath.Join("testdata", "sample_feed.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if summary.Created == 0 {
		t.Fatal("no records created")
	}
	if len(summary.Skipped) == 0 {
		t.Fatal("fixture's malformed row was not skipped")
	}

	rows, err := Snapshot(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != summary.Created {
		t.Fatalf("snapshot rows=%d created=%d", len(rows), summary.Created)
	}

	out := filepath.Join(tmp, "backup.csv")
	if err := WriteCSV(rows, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}
