package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/service"
)

// fakeTransferSource implements repository.TransferSource.
type fakeTransferSource struct {
	transfers []model.RawTransfer
	err       error
	wallet    string
}

func (f *fakeTransferSource) FetchIncomingTransfers(ctx context.Context, wallet string) ([]model.RawTransfer, error) {
	f.wallet = wallet
	return f.transfers, f.err
}

// fakeStorage implements repository.VolumePersistence.
type fakeStorage struct {
	saved  []model.VolumeRow
	stored []model.VolumeRow
	err    error
}

func (f *fakeStorage) SaveVolume(ctx context.Context, rows []model.VolumeRow) error {
	f.saved = rows
	return f.err
}

func (f *fakeStorage) GetAllVolume(ctx context.Context) ([]model.VolumeRow, error) {
	return f.stored, f.err
}

// fakeVolumeCache implements repository.VolumeCache.
type fakeVolumeCache struct {
	rows []model.VolumeRow
}

func (f *fakeVolumeCache) SaveVolumeRows(ctx context.Context, rows []model.VolumeRow) error {
	f.rows = rows
	return nil
}

func (f *fakeVolumeCache) GetVolumeRows(ctx context.Context) ([]model.VolumeRow, error) {
	return f.rows, nil
}

// fakePublisher implements repository.VolumePublisher.
type fakePublisher struct {
	runID string
	rows  []model.VolumeRow
}

func (f *fakePublisher) PublishVolumeRows(ctx context.Context, runID string, rows []model.VolumeRow) error {
	f.runID = runID
	f.rows = rows
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// mockBroadcaster records broadcasts for assertions.
type mockBroadcaster struct {
	mu         sync.Mutex
	broadcasts [][]model.VolumeRow
}

func (b *mockBroadcaster) BroadcastVolume(rows []model.VolumeRow) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broadcasts = append(b.broadcasts, rows)
}

func (b *mockBroadcaster) Handler() func(http.ResponseWriter, *http.Request) { return nil }

func (b *mockBroadcaster) GetBroadcasts() [][]model.VolumeRow {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.broadcasts
}

func TestRunBackfillPersistsAndFansOut(t *testing.T) {
	day := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	source := &fakeTransferSource{transfers: []model.RawTransfer{
		rawTransferAt(day, someToken, "100"),
	}}
	storage := &fakeStorage{}
	volCache := &fakeVolumeCache{}
	publisher := &fakePublisher{}
	broadcaster := &mockBroadcaster{}

	svc := service.NewWalletVolumeService(
		"0xWALLET",
		source,
		newAggregator(map[string]float64{someToken: 2.0}),
		storage,
		volCache,
		publisher,
		broadcaster,
		testLogger(),
	)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	buckets, err := svc.RunBackfill(context.Background(), start, end)
	if err != nil {
		t.Fatalf("backfill failed: %v", err)
	}

	if source.wallet != "0xWALLET" {
		t.Errorf("fetched transfers for wallet %q", source.wallet)
	}
	if got := buckets.Daily[model.DayStartUnix(day)]; got != 200.0 {
		t.Errorf("expected daily volume 200.0, got %f", got)
	}

	// Day, week and month starts of 2025-03-12 are three distinct dates.
	if len(storage.saved) != 3 {
		t.Fatalf("expected 3 persisted rows, got %d", len(storage.saved))
	}
	if len(volCache.rows) != 3 {
		t.Errorf("expected cache refresh with 3 rows, got %d", len(volCache.rows))
	}
	if publisher.runID == "" || len(publisher.rows) != 3 {
		t.Errorf("expected published rows with a run id, got id=%q rows=%d", publisher.runID, len(publisher.rows))
	}
	if got := broadcaster.GetBroadcasts(); len(got) != 1 || len(got[0]) != 3 {
		t.Errorf("expected one broadcast with 3 rows, got %v", got)
	}
}

func TestRunBackfillPropagatesFetchError(t *testing.T) {
	source := &fakeTransferSource{err: errors.New("status 500")}
	storage := &fakeStorage{}

	svc := service.NewWalletVolumeService(
		"0xWALLET", source, newAggregator(nil), storage, nil, nil, nil, testLogger(),
	)

	_, err := svc.RunBackfill(context.Background(),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
	if storage.saved != nil {
		t.Error("nothing should be persisted after a fetch failure")
	}
}

func TestRunSingleDayBoundsWindowToOneDay(t *testing.T) {
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	source := &fakeTransferSource{transfers: []model.RawTransfer{
		// Inside the target day.
		rawTransferAt(day.Add(10*time.Hour), someToken, "100"),
		// The previous day: triggers the range stop.
		rawTransferAt(day.Add(-2*time.Hour), someToken, "500"),
	}}
	storage := &fakeStorage{}

	svc := service.NewWalletVolumeService(
		"0xWALLET", source, newAggregator(map[string]float64{someToken: 2.0}),
		storage, nil, nil, nil, testLogger(),
	)

	buckets, err := svc.RunSingleDay(context.Background(), day)
	if err != nil {
		t.Fatalf("single day run failed: %v", err)
	}

	if got := buckets.Daily[model.DayStartUnix(day)]; got != 200.0 {
		t.Errorf("expected daily volume 200.0, got %f", got)
	}
	if len(buckets.Daily) != 1 {
		t.Errorf("expected a single daily bucket, got %d", len(buckets.Daily))
	}
}

func TestGetVolumeRowsPrefersCache(t *testing.T) {
	cached := []model.VolumeRow{{Date: 100, Daily: 1}}
	volCache := &fakeVolumeCache{rows: cached}
	storage := &fakeStorage{stored: []model.VolumeRow{{Date: 200, Daily: 2}}}

	svc := service.NewWalletVolumeService(
		"0xWALLET", &fakeTransferSource{}, newAggregator(nil),
		storage, volCache, nil, nil, testLogger(),
	)

	rows, err := svc.GetVolumeRows(context.Background())
	if err != nil {
		t.Fatalf("get volume rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Date != 100 {
		t.Errorf("expected cached rows, got %+v", rows)
	}
}

func TestGetVolumeRowsFallsBackToStorage(t *testing.T) {
	volCache := &fakeVolumeCache{}
	stored := []model.VolumeRow{{Date: 200, Daily: 2}}
	storage := &fakeStorage{stored: stored}

	svc := service.NewWalletVolumeService(
		"0xWALLET", &fakeTransferSource{}, newAggregator(nil),
		storage, volCache, nil, nil, testLogger(),
	)

	rows, err := svc.GetVolumeRows(context.Background())
	if err != nil {
		t.Fatalf("get volume rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Date != 200 {
		t.Errorf("expected stored rows, got %+v", rows)
	}
	if len(volCache.rows) != 1 {
		t.Error("expected cache to be refreshed from storage")
	}
}
