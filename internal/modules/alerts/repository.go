package alerts

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
)

// Repository persists price alerts in the app database
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates an alert repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "alert_repository").Logger(),
	}
}

// Create validates and inserts a new alert, assigning its ID and creation
// time. Tickers are stored exactly as the quote provider knows them.
func (r *Repository) Create(a *domain.PriceAlert) error {
	a.Ticker = strings.TrimSpace(a.Ticker)
	if a.Ticker == "" {
		return &domain.InvalidInputError{Field: "ticker", Reason: "is required"}
	}
	if a.TargetPrice <= 0 {
		return &domain.InvalidInputError{Field: "target_price", Reason: "must be positive"}
	}
	if a.Condition != domain.AlertAbove && a.Condition != domain.AlertBelow {
		return &domain.InvalidInputError{Field: "alert_type", Reason: "must be 'above' or 'below'"}
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.IsActive = true
	a.IsTriggered = false
	a.TriggeredAt = nil

	_, err := r.db.Exec(`
		INSERT INTO price_alerts (id, user_id, ticker, target_price, alert_type,
		                          phone_number, is_active, is_triggered, created_at, triggered_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, 0, ?, NULL)
	`, a.ID, a.UserID, a.Ticker, a.TargetPrice, string(a.Condition),
		nullString(a.PhoneNumber), now.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	r.log.Info().
		Str("alert_id", a.ID).
		Str("ticker", a.Ticker).
		Str("condition", string(a.Condition)).
		Float64("target_price", a.TargetPrice).
		Msg("Created price alert")
	return nil
}

// Get fetches an alert by ID.
// Returns nil if not found (not an error).
func (r *Repository) Get(id string) (*domain.PriceAlert, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, ticker, target_price, alert_type,
		       phone_number, is_active, is_triggered, created_at, triggered_at
		FROM price_alerts
		WHERE id = ?
	`, id)

	a, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return a, nil
}

// ListForUser returns a user's alerts in creation order. With activeOnly set
// it hides deactivated alerts; triggered alerts stay visible either way.
func (r *Repository) ListForUser(userID string, activeOnly bool) ([]domain.PriceAlert, error) {
	query := `
		SELECT id, user_id, ticker, target_price, alert_type,
		       phone_number, is_active, is_triggered, created_at, triggered_at
		FROM price_alerts
		WHERE user_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

// ListActiveUntriggered returns every alert the checker still has to watch
func (r *Repository) ListActiveUntriggered() ([]domain.PriceAlert, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, ticker, target_price, alert_type,
		       phone_number, is_active, is_triggered, created_at, triggered_at
		FROM price_alerts
		WHERE is_active = 1 AND is_triggered = 0
		ORDER BY ticker, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

// MarkTriggered records that an alert fired at the given time
func (r *Repository) MarkTriggered(id string, at time.Time) error {
	result, err := r.db.Exec(`
		UPDATE price_alerts SET is_triggered = 1, triggered_at = ? WHERE id = ?
	`, at.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark alert triggered: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete marks an alert inactive (soft delete)
func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE price_alerts SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("alert_id", id).Msg("Deactivated price alert")
	return nil
}

func collectAlerts(rows *sql.Rows) ([]domain.PriceAlert, error) {
	var alerts []domain.PriceAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}
	return alerts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*domain.PriceAlert, error) {
	var a domain.PriceAlert
	var condition string
	var phone sql.NullString
	var isActive, isTriggered int
	var createdAt int64
	var triggeredAt sql.NullInt64

	err := row.Scan(&a.ID, &a.UserID, &a.Ticker, &a.TargetPrice, &condition,
		&phone, &isActive, &isTriggered, &createdAt, &triggeredAt)
	if err != nil {
		return nil, err
	}

	a.Condition = domain.AlertCondition(condition)
	if phone.Valid {
		a.PhoneNumber = phone.String
	}
	a.IsActive = isActive != 0
	a.IsTriggered = isTriggered != 0
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	if triggeredAt.Valid {
		at := time.Unix(triggeredAt.Int64, 0).UTC()
		a.TriggeredAt = &at
	}
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
