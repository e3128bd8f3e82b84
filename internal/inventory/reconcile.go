package inventory

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"stockbook/internal"
	"stockbook/internal/config"
	"stockbook/internal/storage"
)

type ImportService struct {
	db  *storage.DB
	cfg config.Config
}

func NewImportService(db *storage.DB, cfg config.Config) *ImportService {
	return &ImportService{db: db, cfg: cfg}
}

func (s *ImportService) ImportFile(path string) (internal.ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return internal.ImportSummary{}, err
	}
	defer f.Close()

	return s.ImportReader(f, filepath.Base(path))
}

// ImportReader reconciles a whole feed against the catalog inside one
// transaction, committed after the last record. Records are applied in feed
// order: when a feed repeats a name, later rows reconcile against whatever
// the earlier rows left behind.
//
// A row that fails normalization is skipped and counted, never aborting the
// rest of the batch. A store error aborts and rolls the batch back.
func (s *ImportService) ImportReader(r io.Reader, source string) (internal.ImportSummary, error) {
	rows, err := ReadFeed(r)
	if err != nil {
		return internal.ImportSummary{}, err
	}

	var summary internal.ImportSummary
	tx, err := s.db.Begin()
	if err != nil {
		return internal.ImportSummary{}, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		item, err := NormalizeRow(row)
		if err != nil {
			summary.Skipped = append(summary.Skipped, internal.SkippedRow{LineNo: row.LineNo, Reason: err.Error()})
			continue
		}

		action, err := Reconcile(tx, item)
		if err != nil {
			return internal.ImportSummary{}, err
		}
		switch action {
		case internal.ActionCreate:
			summary.Created++
		case internal.ActionOverwrite:
			summary.Overwritten++
		case internal.ActionDiscard:
			summary.Discarded++
		}
	}

	if err := tx.Commit(); err != nil {
		return internal.ImportSummary{}, err
	}

	_ = s.db.InsertRun(uuid.NewString(), source, map[string]int{
		"created":     summary.Created,
		"overwritten": summary.Overwritten,
		"discarded":   summary.Discarded,
		"skipped":     len(summary.Skipped),
	})
	_ = s.db.SetMetadata("feed.last_import", time.Now().UTC().Format(time.RFC3339))

	return summary, nil
}

// Reconcile decides what one incoming record does to the catalog:
//
//   - no record with that name yet: create it, the store assigns the id;
//   - a stored record exists with a strictly older date: overwrite its
//     quantity, price and date, keeping its id;
//   - a stored record exists with an equal or newer date: discard the
//     incoming record, the catalog is unchanged.
//
// Each branch is a single conditional statement against the store, so the
// decision and the write cannot be split by another writer.
func Reconcile(tx *storage.Tx, incoming internal.ItemRecord) (internal.Action, error) {
	overwritten, err := tx.UpdateItemIfNewer(incoming)
	if err != nil {
		return "", err
	}
	if overwritten {
		return internal.ActionOverwrite, nil
	}

	created, err := tx.InsertItemIfAbsent(incoming)
	if err != nil {
		return "", err
	}
	if created {
		return internal.ActionCreate, nil
	}

	return internal.ActionDiscard, nil
}
