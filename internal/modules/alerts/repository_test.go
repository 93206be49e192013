package alerts

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshak/niveshak/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	_, err = db.Exec(`
		CREATE TABLE price_alerts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			ticker TEXT NOT NULL,
			target_price REAL NOT NULL,
			alert_type TEXT NOT NULL,
			phone_number TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			is_triggered INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			triggered_at INTEGER
		);
	`)
	require.NoError(t, err)

	return db
}

func newTestRepository(t *testing.T) (*Repository, *sql.DB) {
	db := setupTestDB(t)
	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewRepository(db, log), db
}

func TestCreateAndGetAlert(t *testing.T) {
	repo, db := newTestRepository(t)
	defer db.Close()

	a := &domain.PriceAlert{
		UserID:      "user-1",
		Ticker:      " INFY.NS ",
		TargetPrice: 1600,
		Condition:   domain.AlertAbove,
		PhoneNumber: "+15551234567",
	}
	require.NoError(t, repo.Create(a))

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "INFY.NS", a.Ticker)
	assert.True(t, a.IsActive)
	assert.False(t, a.IsTriggered)

	got, err := repo.Get(a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "INFY.NS", got.Ticker)
	assert.Equal(t, 1600.0, got.TargetPrice)
	assert.Equal(t, domain.AlertAbove, got.Condition)
	assert.Equal(t, "+15551234567", got.PhoneNumber)
	assert.Nil(t, got.TriggeredAt)
}

func TestCreateAlert_Validation(t *testing.T) {
	repo, db := newTestRepository(t)
	defer db.Close()

	cases := []struct {
		name  string
		alert domain.PriceAlert
	}{
		{"missing ticker", domain.PriceAlert{UserID: "u", TargetPrice: 10, Condition: domain.AlertAbove}},
		{"zero target", domain.PriceAlert{UserID: "u", Ticker: "AAPL", Condition: domain.AlertBelow}},
		{"bad condition", domain.PriceAlert{UserID: "u", Ticker: "AAPL", TargetPrice: 10, Condition: "near"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := tc.alert
			err := repo.Create(&a)
			var invalid *domain.InvalidInputError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestGetAlert_NotFound(t *testing.T) {
	repo, db := newTestRepository(t)
	defer db.Close()

	got, err := repo.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListForUser(t *testing.T) {
	repo, db := newTestRepository(t)
	defer db.Close()

	a1 := &domain.PriceAlert{UserID: "user-1", Ticker: "AAPL", TargetPrice: 150, Condition: domain.AlertAbove}
	a2 := &domain.PriceAlert{UserID: "user-1", Ticker: "TCS.NS", TargetPrice: 3500, Condition: domain.AlertBelow}
	a3 := &domain.PriceAlert{UserID: "user-2", Ticker: "AAPL", TargetPrice: 120, Condition: domain.AlertBelow}
	require.NoError(t, repo.Create(a1))
	require.NoError(t, repo.Create(a2))
	require.NoError(t, repo.Create(a3))
	require.NoError(t, repo.Delete(a2.ID))

	active, err := repo.ListForUser("user-1", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a1.ID, active[0].ID)

	all, err := repo.ListForUser("user-1", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListActiveUntriggered(t *testing.T) {
	repo, db := newTestRepository(t)
	defer db.Close()

	watched := &domain.PriceAlert{UserID: "u", Ticker: "AAPL", TargetPrice: 150, Condition: domain.AlertAbove}
	fired := &domain.PriceAlert{UserID: "u", Ticker: "MSFT", TargetPrice: 300, Condition: domain.AlertAbove}
	deleted := &domain.PriceAlert{UserID: "u", Ticker: "GOOG", TargetPrice: 100, Condition: domain.AlertBelow}
	require.NoError(t, repo.Create(watched))
	require.NoError(t, repo.Create(fired))
	require.NoError(t, repo.Create(deleted))

	require.NoError(t, repo.MarkTriggered(fired.ID, time.Now().UTC()))
	require.NoError(t, repo.Delete(deleted.ID))

	pending, err := repo.ListActiveUntriggered()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, watched.ID, pending[0].ID)
}

func TestMarkTriggered(t *testing.T) {
	repo, db := newTestRepository(t)
	defer db.Close()

	a := &domain.PriceAlert{UserID: "u", Ticker: "AAPL", TargetPrice: 150, Condition: domain.AlertAbove}
	require.NoError(t, repo.Create(a))

	at := time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC)
	require.NoError(t, repo.MarkTriggered(a.ID, at))

	got, err := repo.Get(a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsTriggered)
	require.NotNil(t, got.TriggeredAt)
	assert.Equal(t, at, *got.TriggeredAt)
	// Triggered alerts stay active until the user deletes them.
	assert.True(t, got.IsActive)

	assert.ErrorIs(t, repo.MarkTriggered("missing", at), domain.ErrNotFound)
}

func TestDeleteAlert(t *testing.T) {
	repo, db := newTestRepository(t)
	defer db.Close()

	a := &domain.PriceAlert{UserID: "u", Ticker: "AAPL", TargetPrice: 150, Condition: domain.AlertAbove}
	require.NoError(t, repo.Create(a))
	require.NoError(t, repo.Delete(a.ID))

	got, err := repo.Get(a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, repo.Delete("missing"), domain.ErrNotFound)
}
