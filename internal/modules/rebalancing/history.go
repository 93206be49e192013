package rebalancing

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
)

// HistoryEntry is one stored rebalancing recommendation, kept so users can
// see how their allocation drifted over time.
type HistoryEntry struct {
	RecommendedAt     time.Time                   `json:"recommended_at"`
	ID                string                      `json:"id"`
	PortfolioID       string                      `json:"portfolio_id"`
	CurrentAllocation map[domain.Category]float64 `json:"current_allocation"`
	TargetAllocation  map[domain.Category]float64 `json:"target_allocation"`
	Actions           []Action                    `json:"actions"`
}

// HistoryRepository persists recommendation snapshots.
// Allocation maps and actions are stored as JSON text columns.
type HistoryRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryRepository creates a recommendation history repository
func NewHistoryRepository(db *sql.DB, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: log.With().Str("component", "rebalancing_history").Logger(),
	}
}

// Save stores a recommendation snapshot, assigning ID and timestamp
func (r *HistoryRepository) Save(e *HistoryEntry) error {
	e.ID = uuid.New().String()
	e.RecommendedAt = time.Now().UTC()

	current, err := json.Marshal(e.CurrentAllocation)
	if err != nil {
		return fmt.Errorf("failed to marshal current allocation: %w", err)
	}
	target, err := json.Marshal(e.TargetAllocation)
	if err != nil {
		return fmt.Errorf("failed to marshal target allocation: %w", err)
	}
	actions, err := json.Marshal(e.Actions)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO recommendation_history (id, portfolio_id, recommended_at, current_allocation, target_allocation, actions)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.PortfolioID, e.RecommendedAt.Unix(), string(current), string(target), string(actions))
	if err != nil {
		return fmt.Errorf("failed to insert recommendation history: %w", err)
	}

	r.log.Debug().Str("portfolio_id", e.PortfolioID).Int("actions", len(e.Actions)).Msg("Saved recommendation")
	return nil
}

// List returns the most recent recommendations for a portfolio, newest
// first. A non-positive limit falls back to 20.
func (r *HistoryRepository) List(portfolioID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, portfolio_id, recommended_at, current_allocation, target_allocation, actions
		FROM recommendation_history
		WHERE portfolio_id = ?
		ORDER BY recommended_at DESC, rowid DESC
		LIMIT ?
	`, portfolioID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var recommendedAt int64
		var current, target, actions string

		if err := rows.Scan(&e.ID, &e.PortfolioID, &recommendedAt, &current, &target, &actions); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation history: %w", err)
		}

		e.RecommendedAt = time.Unix(recommendedAt, 0).UTC()
		if err := json.Unmarshal([]byte(current), &e.CurrentAllocation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal current allocation: %w", err)
		}
		if err := json.Unmarshal([]byte(target), &e.TargetAllocation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal target allocation: %w", err)
		}
		if err := json.Unmarshal([]byte(actions), &e.Actions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal actions: %w", err)
		}

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendation history: %w", err)
	}

	return entries, nil
}
