package sync

import (
	"context"
	"time"

	"github.com/takak2166/limitless2md/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=mock_sync/mock_sync.go -package=mock_sync
type (
	// Fetcher retrieves all lifelogs recorded on one calendar day
	Fetcher interface {
		FetchDay(ctx context.Context, day time.Time) ([]models.Lifelog, error)
	}

	// Storage is the file backend the sync output is written to
	Storage interface {
		FolderExists(path string) bool
		CreateFolder(path string) error
		WriteFile(path string, content string) error
		ListFiles(path string) ([]string, error)
	}

	// Notifier surfaces progress and errors to the user. Fire-and-forget;
	// no control flow depends on it.
	Notifier interface {
		Notify(message string)
	}
)
