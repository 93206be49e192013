package marketdata

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Store caches quotes and daily price bars in the history database.
// Everything in it is rebuildable from the quote provider.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a market data store on the history database
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("component", "marketdata_store").Logger(),
	}
}

// UpsertDailyPrices writes daily bars for a ticker in a single transaction.
// Existing rows for the same (ticker, date) are replaced.
func (s *Store) UpsertDailyPrices(ticker string, prices []DailyPrice) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be no-op if Commit succeeds

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO daily_prices
		(ticker, date, open, high, low, close, volume, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	fetchedAt := time.Now().Unix()

	for _, price := range prices {
		volume := sql.NullInt64{}
		if price.Volume != nil {
			volume.Int64 = *price.Volume
			volume.Valid = true
		}

		dateUnix, err := dateToUnix(price.Date)
		if err != nil {
			return fmt.Errorf("failed to parse date %s: %w", price.Date, err)
		}

		_, err = stmt.Exec(
			ticker,
			dateUnix,
			price.Open,
			price.High,
			price.Low,
			price.Close,
			volume,
			fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert daily price for %s: %w", price.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Debug().
		Str("ticker", ticker).
		Int("count", len(prices)).
		Msg("Upserted daily prices")

	return nil
}

// RecentPrices fetches daily bars from the last N days, oldest first
func (s *Store) RecentPrices(ticker string, days int) ([]DailyPrice, error) {
	if days <= 0 {
		return []DailyPrice{}, nil
	}

	cutoffUnix := time.Now().AddDate(0, 0, -days).Unix()

	query := `
		SELECT date, open, high, low, close, volume
		FROM daily_prices
		WHERE ticker = ? AND date >= ?
		ORDER BY date ASC
	`

	rows, err := s.db.Query(query, ticker, cutoffUnix)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent prices: %w", err)
	}
	defer rows.Close()

	var prices []DailyPrice
	for rows.Next() {
		var p DailyPrice
		var dateUnix int64
		var volume sql.NullInt64

		if err := rows.Scan(&dateUnix, &p.Open, &p.High, &p.Low, &p.Close, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}

		p.Date = time.Unix(dateUnix, 0).UTC().Format("2006-01-02")
		if volume.Valid {
			p.Volume = &volume.Int64
		}

		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent prices: %w", err)
	}

	return prices, nil
}

// PriceCoverage returns the oldest and newest stored bar dates for a ticker.
// Both are zero when the ticker has no bars.
func (s *Store) PriceCoverage(ticker string) (first, last time.Time, err error) {
	var minUnix, maxUnix sql.NullInt64
	err = s.db.QueryRow(
		"SELECT MIN(date), MAX(date) FROM daily_prices WHERE ticker = ?", ticker,
	).Scan(&minUnix, &maxUnix)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to query price coverage: %w", err)
	}

	if !minUnix.Valid || !maxUnix.Valid {
		return time.Time{}, time.Time{}, nil
	}
	return time.Unix(minUnix.Int64, 0).UTC(), time.Unix(maxUnix.Int64, 0).UTC(), nil
}

// StoreQuote caches a quote as a msgpack blob with expiration = now + ttl
func (s *Store) StoreQuote(q *Quote, ttl time.Duration) error {
	blob, err := msgpack.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	expiresAt := time.Now().Add(ttl).Unix()

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO quote_cache (ticker, data, expires_at) VALUES (?, ?, ?)",
		q.Ticker, blob, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store quote for %s: %w", q.Ticker, err)
	}

	return nil
}

// FreshQuote returns a cached quote only if it has not expired.
// Returns nil, nil on a miss. Use StaleQuote as a fallback when the
// provider is unreachable.
func (s *Store) FreshQuote(ticker string) (*Quote, error) {
	return s.readQuote(ticker, true)
}

// StaleQuote returns a cached quote regardless of expiration.
// Stale data is better than no data when the provider is down.
func (s *Store) StaleQuote(ticker string) (*Quote, error) {
	return s.readQuote(ticker, false)
}

func (s *Store) readQuote(ticker string, freshOnly bool) (*Quote, error) {
	query := "SELECT data FROM quote_cache WHERE ticker = ?"
	args := []interface{}{ticker}
	if freshOnly {
		query += " AND expires_at > ?"
		args = append(args, time.Now().Unix())
	}

	var blob []byte
	err := s.db.QueryRow(query, args...).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read quote cache for %s: %w", ticker, err)
	}

	var q Quote
	if err := msgpack.Unmarshal(blob, &q); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached quote for %s: %w", ticker, err)
	}

	return &q, nil
}

// DeleteExpiredQuotes removes quote blobs past their expiration.
// Returns the number of rows deleted.
func (s *Store) DeleteExpiredQuotes() (int64, error) {
	result, err := s.db.Exec(
		"DELETE FROM quote_cache WHERE expires_at < ?", time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired quotes: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// DeleteStalePrices removes daily bars older than the threshold.
// Used by the cleanup job to keep the cache bounded.
func (s *Store) DeleteStalePrices(olderThan time.Time) (int64, error) {
	result, err := s.db.Exec(
		"DELETE FROM daily_prices WHERE date < ?", olderThan.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale prices: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if deleted > 0 {
		s.log.Info().
			Int64("rows_deleted", deleted).
			Time("older_than", olderThan).
			Msg("Deleted stale daily prices")
	}

	return deleted, nil
}

// TrackedTickers lists every ticker that has bars in the store
func (s *Store) TrackedTickers() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT ticker FROM daily_prices ORDER BY ticker")
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickers: %w", err)
	}

	return tickers, nil
}

// dateToUnix converts a YYYY-MM-DD string to a UTC midnight Unix timestamp
func dateToUnix(date string) (int64, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
