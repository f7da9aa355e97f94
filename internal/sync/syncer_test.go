package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/takak2166/limitless2md/internal/config"
	"github.com/takak2166/limitless2md/internal/models"
	"github.com/takak2166/limitless2md/internal/sync/mock_sync"
)

func testSettings() config.Settings {
	return config.Settings{
		APIKey:     "test_key",
		BaseURL:    "http://localhost",
		FolderPath: "journal",
		StartDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Location:   time.UTC,
	}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRunWritesOneFilePerDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock_sync.NewMockFetcher(ctrl)
	storage := mock_sync.NewMockStorage(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any()).AnyTimes()

	day1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	storage.EXPECT().FolderExists("journal").Return(true)
	storage.EXPECT().ListFiles("journal").Return(nil, nil)

	fetcher.EXPECT().FetchDay(gomock.Any(), day1).Return([]models.Lifelog{
		{ID: "a", Markdown: "morning entry"},
	}, nil)
	fetcher.EXPECT().FetchDay(gomock.Any(), day2).Return([]models.Lifelog{
		{ID: "b", Markdown: "first entry"},
		{ID: "c", Markdown: "second entry"},
	}, nil)

	storage.EXPECT().WriteFile("journal/2025-03-01.md", "morning entry\n").Return(nil)
	storage.EXPECT().WriteFile("journal/2025-03-02.md", "first entry\n\nsecond entry\n").Return(nil)

	syncer := New(fetcher, storage, notifier)
	syncer.now = fixedNow(time.Date(2025, 3, 2, 15, 30, 0, 0, time.UTC))

	if err := syncer.Run(context.Background(), testSettings(), Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunCreatesMissingFolder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock_sync.NewMockFetcher(ctrl)
	storage := mock_sync.NewMockStorage(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any()).AnyTimes()

	storage.EXPECT().FolderExists("journal").Return(false)
	storage.EXPECT().CreateFolder("journal").Return(nil)
	storage.EXPECT().ListFiles("journal").Return(nil, nil)
	fetcher.EXPECT().FetchDay(gomock.Any(), gomock.Any()).Return(nil, nil)

	syncer := New(fetcher, storage, notifier)
	syncer.now = fixedNow(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))

	if err := syncer.Run(context.Background(), testSettings(), Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunMissingAPIKeyAbortsBeforeIO(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock_sync.NewMockFetcher(ctrl)
	storage := mock_sync.NewMockStorage(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any())

	settings := testSettings()
	settings.APIKey = ""

	// No storage or fetcher expectations: the run must not touch them
	syncer := New(fetcher, storage, notifier)
	err := syncer.Run(context.Background(), settings, Options{})
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestRunAbortsOnFetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock_sync.NewMockFetcher(ctrl)
	storage := mock_sync.NewMockStorage(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any()).AnyTimes()

	day1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	fetchErr := errors.New("lifelogs API returned status 500")

	storage.EXPECT().FolderExists("journal").Return(true)
	storage.EXPECT().ListFiles("journal").Return(nil, nil)
	fetcher.EXPECT().FetchDay(gomock.Any(), day1).Return([]models.Lifelog{
		{ID: "a", Markdown: "kept on disk"},
	}, nil)
	storage.EXPECT().WriteFile("journal/2025-03-01.md", "kept on disk\n").Return(nil)
	fetcher.EXPECT().FetchDay(gomock.Any(), day2).Return(nil, fetchErr)

	syncer := New(fetcher, storage, notifier)
	syncer.now = fixedNow(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC))

	err := syncer.Run(context.Background(), testSettings(), Options{})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Expected wrapped fetch error, got %v", err)
	}
}

func TestRunResumesFromCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock_sync.NewMockFetcher(ctrl)
	storage := mock_sync.NewMockStorage(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any()).AnyTimes()

	storage.EXPECT().FolderExists("journal").Return(true)
	storage.EXPECT().ListFiles("journal").Return([]string{
		"journal/2025-03-01.md",
		"journal/2025-03-03.md",
		"journal/notes.md",
	}, nil)

	// The last synced day is resynced, then the remaining gap to today
	for _, date := range []string{"2025-03-03", "2025-03-04"} {
		day, _ := time.Parse("2006-01-02", date)
		fetcher.EXPECT().FetchDay(gomock.Any(), day.UTC()).Return(nil, nil)
	}

	syncer := New(fetcher, storage, notifier)
	syncer.now = fixedNow(time.Date(2025, 3, 4, 23, 0, 0, 0, time.UTC))

	if err := syncer.Run(context.Background(), testSettings(), Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunFullIgnoresCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock_sync.NewMockFetcher(ctrl)
	storage := mock_sync.NewMockStorage(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any()).AnyTimes()

	storage.EXPECT().FolderExists("journal").Return(true)
	// No ListFiles expectation: a full sync must not consult the cursor
	fetcher.EXPECT().FetchDay(gomock.Any(), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)).Return(nil, nil)

	syncer := New(fetcher, storage, notifier)
	syncer.now = fixedNow(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	if err := syncer.Run(context.Background(), testSettings(), Options{Full: true}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunFromOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock_sync.NewMockFetcher(ctrl)
	storage := mock_sync.NewMockStorage(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any()).AnyTimes()

	storage.EXPECT().FolderExists("journal").Return(true)
	fetcher.EXPECT().FetchDay(gomock.Any(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)).Return(nil, nil)

	syncer := New(fetcher, storage, notifier)
	syncer.now = fixedNow(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))

	opts := Options{From: time.Date(2025, 3, 10, 14, 45, 0, 0, time.UTC)}
	if err := syncer.Run(context.Background(), testSettings(), opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunRejectsOverlappingRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock_sync.NewMockFetcher(ctrl)
	storage := mock_sync.NewMockStorage(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)

	syncer := New(fetcher, storage, notifier)
	syncer.running.Store(true)

	err := syncer.Run(context.Background(), testSettings(), Options{})
	if !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("Expected ErrSyncInProgress, got %v", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock_sync.NewMockFetcher(ctrl)
	storage := mock_sync.NewMockStorage(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any()).AnyTimes()

	storage.EXPECT().FolderExists("journal").Return(true)
	storage.EXPECT().ListFiles("journal").Return(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	syncer := New(fetcher, storage, notifier)
	syncer.now = fixedNow(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	err := syncer.Run(ctx, testSettings(), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}
