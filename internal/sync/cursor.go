package sync

import (
	"path/filepath"
	"regexp"
	"time"

	"github.com/takak2166/limitless2md/internal/logger"
)

// dayLayout is the date format used for filenames and API requests
const dayLayout = "2006-01-02"

// dayFilePattern matches output filenames like 2025-03-01.md
var dayFilePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\.md$`)

// LastSyncedDate scans the output folder and returns the latest calendar
// date for which a day file exists. The second return value is false when
// no day file is found, or when the scan itself fails; a scan failure is
// never fatal, it only means the sync restarts from the configured start
// date.
func LastSyncedDate(storage Storage, folder string) (time.Time, bool) {
	files, err := storage.ListFiles(folder)
	if err != nil {
		logger.Warn("Output folder scan failed, treating as no prior sync", map[string]interface{}{
			"folder": folder,
			"error":  err.Error(),
		})
		return time.Time{}, false
	}

	var last time.Time
	found := false
	for _, file := range files {
		m := dayFilePattern.FindStringSubmatch(filepath.Base(file))
		if m == nil {
			continue
		}
		day, err := time.Parse(dayLayout, m[1])
		if err != nil {
			// Pattern matched but not a real calendar date, e.g. 2025-13-40
			continue
		}
		if !found || day.After(last) {
			last = day
			found = true
		}
	}

	if !found {
		logger.Debug("No previously synced day files found", map[string]interface{}{
			"folder": folder,
		})
		return time.Time{}, false
	}

	return last, true
}
