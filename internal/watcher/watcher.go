// Package watcher keeps the catalog current against a directory of feed
// files: every new or changed CSV in the watched directory is imported
// through the reconciliation path.
package watcher

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"stockbook/internal/config"
	"stockbook/internal/inventory"
	"stockbook/internal/storage"
)

const (
	statusPending  = "pending"
	statusImported = "imported"
	statusFailed   = "failed"
)

type Service struct {
	db       *storage.DB
	cfg      config.Config
	importer *inventory.ImportService
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg, importer: inventory.NewImportService(db, cfg)}
}

// Run watches the feed directory until the context is cancelled. Filesystem
// events drive imports; a periodic rescan catches anything the events
// missed.
func (s *Service) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.WatchDir, 0o755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.cfg.WatchDir); err != nil {
		return err
	}

	if err := s.scan(); err != nil {
		fmt.Printf("watcher scan error: %v\n", err)
	}

	ticker := time.NewTicker(time.Duration(s.cfg.WatchIntervalSec) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isFeedFile(event.Name) {
				continue
			}
			if err := s.importFile(event.Name); err != nil {
				fmt.Printf("watcher import error path=%s: %v\n", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("watcher error: %v\n", err)
		case <-ticker.C:
			if err := s.scan(); err != nil {
				fmt.Printf("watcher scan error: %v\n", err)
			}
		}
	}
}

func (s *Service) scan() error {
	entries, err := os.ReadDir(s.cfg.WatchDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !isFeedFile(entry.Name()) {
			continue
		}
		path := filepath.Join(s.cfg.WatchDir, entry.Name())
		if err := s.importFile(path); err != nil {
			fmt.Printf("watcher import error path=%s: %v\n", path, err)
		}
	}
	return nil
}

// importFile imports one feed file unless its content hash matches a
// previous successful import of the same path.
func (s *Service) importFile(path string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(blob)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.db.GetFeedFileByPath(path)
	if err != nil {
		return err
	}
	if existing != nil && existing.Hash == hash && existing.Status == statusImported {
		return nil
	}

	feed, err := s.db.UpsertFeedFile(path, hash, statusPending)
	if err != nil {
		return err
	}

	summary, err := s.importer.ImportReader(bytes.NewReader(blob), filepath.Base(path))
	if err != nil {
		_ = s.db.UpdateFeedFileStatus(feed.ID, statusFailed)
		return err
	}
	if err := s.db.UpdateFeedFileStatus(feed.ID, statusImported); err != nil {
		return err
	}

	fmt.Printf("imported feed path=%s created=%d overwritten=%d discarded=%d skipped=%d\n",
		path, summary.Created, summary.Overwritten, summary.Discarded, len(summary.Skipped))

	if s.cfg.WatchAutoBackup {
		if err := s.backup(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) backup() error {
	rows, err := inventory.Snapshot(s.db)
	if err != nil {
		return err
	}
	outputPath := filepath.Join(s.cfg.OutputDir, "watch", "backup.csv")
	if err := inventory.WriteCSV(rows, outputPath); err != nil {
		return err
	}
	fmt.Printf("backup written rows=%d output=%s\n", len(rows), outputPath)
	return nil
}

func isFeedFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
