package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultFolderPath = "Limitless Lifelogs"
	DefaultStartDate  = "2025-02-09"
	DefaultBaseURL    = "https://api.limitless.ai"
)

// ErrMissingAPIKey is returned by Validate when no API key is configured.
// Sync must abort on it before any network or disk I/O.
var ErrMissingAPIKey = errors.New("LIMITLESS_API_KEY is not set")

// Settings holds all configuration for a sync run. It is built once at
// startup and passed down explicitly; nothing mutates it mid-run.
type Settings struct {
	APIKey     string
	BaseURL    string
	FolderPath string
	StartDate  time.Time
	Location   *time.Location
}

// Load reads settings from the environment, applying defaults for
// everything except the API key.
func Load() (Settings, error) {
	s := Settings{
		APIKey:     os.Getenv("LIMITLESS_API_KEY"),
		BaseURL:    os.Getenv("LIMITLESS_API_URL"),
		FolderPath: os.Getenv("FOLDER_PATH"),
		Location:   time.Local,
	}

	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if s.FolderPath == "" {
		s.FolderPath = DefaultFolderPath
	}

	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}
		s.Location = loc
	}

	startDate := os.Getenv("START_DATE")
	if startDate == "" {
		startDate = DefaultStartDate
	}
	start, err := time.ParseInLocation("2006-01-02", startDate, s.Location)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid START_DATE %q: %w", startDate, err)
	}
	s.StartDate = start

	return s, nil
}

// Validate checks that the settings are usable for a sync run
func (s Settings) Validate() error {
	if s.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Timezone returns the IANA name of the configured location, as sent to
// the API's timezone query parameter.
func (s Settings) Timezone() string {
	return s.Location.String()
}
