package storage

import (
	"github.com/takak2166/limitless2md/internal/logger"
)

// LogNotifier surfaces sync progress through the application log. A
// desktop front end could substitute a Notifier that shows real
// notifications; the sync core never depends on the outcome.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the message at info level
func (n *LogNotifier) Notify(message string) {
	logger.Info(message)
}
