package sync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/takak2166/limitless2md/internal/config"
	"github.com/takak2166/limitless2md/internal/formatter"
	"github.com/takak2166/limitless2md/internal/logger"
)

// ErrSyncInProgress is returned when Run is entered while another run is
// still active. Callers that trigger syncs on a schedule should skip the
// tick rather than queue it.
var ErrSyncInProgress = errors.New("a sync run is already in progress")

// Options adjusts a single sync run
type Options struct {
	// Full ignores the sync cursor and starts from the configured start date
	Full bool
	// From overrides the start date entirely when non-zero
	From time.Time
}

// Syncer walks calendar days from the resume point to today, fetching each
// day's lifelogs and writing them to one markdown file per day. Days and
// pages are processed strictly sequentially.
type Syncer struct {
	fetcher  Fetcher
	storage  Storage
	notifier Notifier
	now      func() time.Time
	running  atomic.Bool
}

// New creates a Syncer over the given collaborators
func New(fetcher Fetcher, storage Storage, notifier Notifier) *Syncer {
	return &Syncer{
		fetcher:  fetcher,
		storage:  storage,
		notifier: notifier,
		now:      time.Now,
	}
}

// Run performs one sync. It aborts on the first fetch or write failure;
// days already written stay on disk, so the next run resumes from the
// cursor. Only one run may be active at a time.
func (s *Syncer) Run(ctx context.Context, settings config.Settings, opts Options) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer s.running.Store(false)

	if err := settings.Validate(); err != nil {
		s.notifier.Notify("Limitless sync failed: " + err.Error())
		return err
	}

	if !s.storage.FolderExists(settings.FolderPath) {
		if err := s.storage.CreateFolder(settings.FolderPath); err != nil {
			s.notifier.Notify("Limitless sync failed: " + err.Error())
			return fmt.Errorf("create output folder: %w", err)
		}
	}

	start := s.startDate(settings, opts)
	today := midnight(s.now(), settings.Location)

	logger.Info("Sync run starting", map[string]interface{}{
		"from":   start.Format(dayLayout),
		"to":     today.Format(dayLayout),
		"folder": settings.FolderPath,
	})
	s.notifier.Notify("Limitless sync started")

	format := formatter.New(settings.Location)
	days := 0
	entries := 0
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			s.notifier.Notify("Limitless sync cancelled")
			return err
		}

		count, err := s.syncDay(ctx, format, settings.FolderPath, day)
		if err != nil {
			logger.Error("Sync run aborted", err, map[string]interface{}{
				"date": day.Format(dayLayout),
			})
			s.notifier.Notify("Limitless sync failed: " + err.Error())
			return err
		}
		days++
		entries += count
	}

	summary := fmt.Sprintf("Limitless sync complete: %d entries across %d days", entries, days)
	logger.Info("Sync run finished", map[string]interface{}{
		"days":    days,
		"entries": entries,
	})
	s.notifier.Notify(summary)

	return nil
}

// syncDay fetches, formats and writes a single day. Days without any
// renderable entry produce no file; an empty file would later read as a
// valid sync cursor for a day that holds nothing.
func (s *Syncer) syncDay(ctx context.Context, format *formatter.Formatter, folder string, day time.Time) (int, error) {
	date := day.Format(dayLayout)

	lifelogs, err := s.fetcher.FetchDay(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("fetch lifelogs for %s: %w", date, err)
	}

	var rendered []string
	for _, lifelog := range lifelogs {
		if md := format.Format(lifelog); md != "" {
			rendered = append(rendered, md)
		}
	}

	if len(rendered) == 0 {
		logger.Debug("No lifelogs for day", map[string]interface{}{
			"date": date,
		})
		return 0, nil
	}

	path := filepath.Join(folder, date+".md")
	content := strings.Join(rendered, "\n\n") + "\n"
	if err := s.storage.WriteFile(path, content); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("Synced day", map[string]interface{}{
		"date":    date,
		"entries": len(rendered),
	})
	return len(rendered), nil
}

// startDate resolves where this run begins. The last synced day is resynced
// rather than skipped: its file may have been written mid-day, and the
// per-day overwrite is idempotent.
func (s *Syncer) startDate(settings config.Settings, opts Options) time.Time {
	if !opts.From.IsZero() {
		return midnight(opts.From, settings.Location)
	}

	if !opts.Full {
		if last, ok := LastSyncedDate(s.storage, settings.FolderPath); ok {
			logger.Debug("Resuming from last synced day", map[string]interface{}{
				"date": last.Format(dayLayout),
			})
			return time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, settings.Location)
		}
	}

	return midnight(settings.StartDate, settings.Location)
}

// midnight truncates t to the start of its calendar day in loc
func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
