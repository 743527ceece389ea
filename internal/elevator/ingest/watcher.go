// Package ingest feeds elevator events into the ingest service from the
// non-HTTP surfaces: a spool directory of CSV log files and a Kafka topic.
package ingest

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/rlongio/bridgetech-utility/internal/elevator/logfile"
	"github.com/rlongio/bridgetech-utility/internal/elevator/service"
)

// Watcher ingests CSV log files dropped into a spool directory. Files are
// renamed to *.done after successful ingest so a restart does not rescan
// them; event IDs make accidental replays harmless anyway.
type Watcher struct {
	dir    string
	svc    *service.IngestService
	logger *log.Logger
}

func NewWatcher(dir string, svc *service.IngestService, logger *log.Logger) *Watcher {
	return &Watcher{dir: dir, svc: svc, logger: logger}
}

// Run drains files already in the spool, then watches for new ones until
// ctx is cancelled. A file that fails to parse is logged and skipped as a
// whole batch; nothing from it is ingested.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	w.logger.Printf("spool: watching %s", w.dir)

	// Drain anything that arrived before we started watching.
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && isLogFile(e.Name()) {
			w.ingestFile(ctx, filepath.Join(w.dir, e.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Producers write elsewhere and rename into the spool (atomic
			// drop), which fsnotify reports as Create.
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isLogFile(event.Name) {
				continue
			}
			w.ingestFile(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("spool: watcher error: %v", err)
		}
	}
}

func isLogFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csv")
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	entries, err := logfile.ReadFile(path)
	if err != nil {
		w.logger.Printf("spool: skipping %s: %v", filepath.Base(path), err)
		return
	}

	if err := w.svc.RecordEntries(ctx, entries, "spool"); err != nil {
		w.logger.Printf("spool: ingest %s failed: %v", filepath.Base(path), err)
		return
	}

	if err := os.Rename(path, path+".done"); err != nil {
		w.logger.Printf("spool: could not mark %s done: %v", filepath.Base(path), err)
	}
	w.logger.Printf("spool: ingested %d events from %s", len(entries), filepath.Base(path))
}
