package advice

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Record is one persisted advice generation. Source names the generator
// that produced it.
type Record struct {
	GeneratedAt time.Time `json:"generated_at"`
	ID          string    `json:"id"`
	PortfolioID string    `json:"portfolio_id"`
	Source      string    `json:"source"`
	Advice      Advice    `json:"advice"`
}

// HistoryRepository persists generated advice per portfolio. The advice body
// is stored as a JSON text column.
type HistoryRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryRepository creates an advice history repository
func NewHistoryRepository(db *sql.DB, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: log.With().Str("component", "advice_history").Logger(),
	}
}

// Save stores a generated advice record, assigning ID and timestamp
func (r *HistoryRepository) Save(rec *Record) error {
	rec.ID = uuid.New().String()
	rec.GeneratedAt = time.Now().UTC()

	body, err := json.Marshal(rec.Advice)
	if err != nil {
		return fmt.Errorf("failed to marshal advice: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO advice_history (id, portfolio_id, generated_at, source, advice)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.PortfolioID, rec.GeneratedAt.Unix(), rec.Source, string(body))
	if err != nil {
		return fmt.Errorf("failed to insert advice history: %w", err)
	}

	r.log.Debug().Str("portfolio_id", rec.PortfolioID).Str("source", rec.Source).Msg("Saved advice")
	return nil
}

// List returns the most recent advice for a portfolio, newest first. A
// non-positive limit falls back to 20.
func (r *HistoryRepository) List(portfolioID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, portfolio_id, generated_at, source, advice
		FROM advice_history
		WHERE portfolio_id = ?
		ORDER BY generated_at DESC, rowid DESC
		LIMIT ?
	`, portfolioID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list advice history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var generatedAt int64
		var body string

		if err := rows.Scan(&rec.ID, &rec.PortfolioID, &generatedAt, &rec.Source, &body); err != nil {
			return nil, fmt.Errorf("failed to scan advice history: %w", err)
		}

		rec.GeneratedAt = time.Unix(generatedAt, 0).UTC()
		if err := json.Unmarshal([]byte(body), &rec.Advice); err != nil {
			return nil, fmt.Errorf("failed to unmarshal advice: %w", err)
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating advice history: %w", err)
	}

	return records, nil
}
