package marketdata

import (
	"context"
	"fmt"
	"time"
)

// RefreshDays is the window the scheduled refresh fetches per ticker. Wide
// enough that risk statistics never wait on the provider mid-request.
const RefreshDays = 400

// DefaultPriceRetention keeps a year of daily bars plus slack for the
// analytics windows that look back twelve months.
const DefaultPriceRetention = 400 * 24 * time.Hour

// RefreshJob refetches daily bars for every tracked ticker on a schedule,
// typically weekdays after market close.
type RefreshJob struct {
	svc  *Service
	days int
}

func NewRefreshJob(svc *Service, days int) *RefreshJob {
	if days <= 0 {
		days = RefreshDays
	}
	return &RefreshJob{svc: svc, days: days}
}

func (j *RefreshJob) Name() string { return "history_cache_refresh" }

func (j *RefreshJob) Run() error {
	return j.svc.RefreshTracked(context.Background(), j.days)
}

// CleanupJob drops expired quote blobs and daily bars older than the
// retention window.
type CleanupJob struct {
	store     *Store
	retention time.Duration
}

func NewCleanupJob(store *Store, retention time.Duration) *CleanupJob {
	if retention <= 0 {
		retention = DefaultPriceRetention
	}
	return &CleanupJob{store: store, retention: retention}
}

func (j *CleanupJob) Name() string { return "market_cache_cleanup" }

func (j *CleanupJob) Run() error {
	if _, err := j.store.DeleteExpiredQuotes(); err != nil {
		return fmt.Errorf("failed to delete expired quotes: %w", err)
	}

	cutoff := time.Now().UTC().Add(-j.retention)
	if _, err := j.store.DeleteStalePrices(cutoff); err != nil {
		return fmt.Errorf("failed to delete stale prices: %w", err)
	}
	return nil
}
