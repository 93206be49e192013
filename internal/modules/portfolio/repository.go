package portfolio

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/database"
	"github.com/niveshak/niveshak/internal/domain"
)

// Repository persists portfolios and their holdings in the app database
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a portfolio repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "portfolio_repository").Logger(),
	}
}

// CreatePortfolio inserts a new portfolio, assigning its ID and timestamps
func (r *Repository) CreatePortfolio(p *domain.Portfolio) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Market == "" {
		p.Market = domain.MarketIndia
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.LastUpdated = now
	p.IsActive = true

	_, err := r.db.Exec(`
		INSERT INTO portfolios (id, user_id, name, description, market, is_active, created_at, last_updated)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?)
	`, p.ID, p.UserID, p.Name, p.Description, string(p.Market), now.Unix(), now.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	r.log.Info().Str("portfolio_id", p.ID).Str("user_id", p.UserID).Msg("Created portfolio")
	return nil
}

// CreatePortfolioWithHoldings inserts a portfolio and its initial holdings in
// a single transaction.
func (r *Repository) CreatePortfolioWithHoldings(p *domain.Portfolio, holdings []domain.Holding) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Market == "" {
		p.Market = domain.MarketIndia
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.LastUpdated = now
	p.IsActive = true

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO portfolios (id, user_id, name, description, market, is_active, created_at, last_updated)
			VALUES (?, ?, ?, ?, ?, 1, ?, ?)
		`, p.ID, p.UserID, p.Name, p.Description, string(p.Market), now.Unix(), now.Unix())
		if err != nil {
			return fmt.Errorf("failed to insert portfolio: %w", err)
		}

		for i := range holdings {
			h := &holdings[i]
			h.PortfolioID = p.ID
			if err := normalizeHolding(h, i); err != nil {
				return err
			}
			h.ID = uuid.New().String()
			h.CreatedAt = now
			h.LastUpdated = now
			if err := insertHolding(tx, h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info().
		Str("portfolio_id", p.ID).
		Int("holdings", len(holdings)).
		Msg("Created portfolio with holdings")
	return nil
}

// GetPortfolio fetches a portfolio by ID.
// Returns nil if not found (not an error).
func (r *Repository) GetPortfolio(id string) (*domain.Portfolio, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, name, description, market, is_active, created_at, last_updated
		FROM portfolios
		WHERE id = ?
	`, id)

	p, err := scanPortfolio(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return p, nil
}

// ListPortfolios returns all active portfolios for a user, newest first
func (r *Repository) ListPortfolios(userID string) ([]domain.Portfolio, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, name, description, market, is_active, created_at, last_updated
		FROM portfolios
		WHERE user_id = ? AND is_active = 1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []domain.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}

	return portfolios, nil
}

// UpdatePortfolio updates name, description and market of a portfolio
func (r *Repository) UpdatePortfolio(p *domain.Portfolio) error {
	now := time.Now().UTC()
	result, err := r.db.Exec(`
		UPDATE portfolios
		SET name = ?, description = ?, market = ?, last_updated = ?
		WHERE id = ? AND is_active = 1
	`, p.Name, p.Description, string(p.Market), now.Unix(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}
	p.LastUpdated = now
	return nil
}

// DeletePortfolio marks a portfolio inactive (soft delete)
func (r *Repository) DeletePortfolio(id string) error {
	result, err := r.db.Exec(`
		UPDATE portfolios SET is_active = 0, last_updated = ? WHERE id = ? AND is_active = 1
	`, time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("portfolio_id", id).Msg("Deactivated portfolio")
	return nil
}

// AddHolding inserts a holding into a portfolio, assigning ID and timestamps.
// SIP holdings have their amount derived from monthly amount and months.
func (r *Repository) AddHolding(h *domain.Holding) error {
	if err := normalizeHolding(h, 0); err != nil {
		return err
	}

	h.ID = uuid.New().String()
	now := time.Now().UTC()
	h.CreatedAt = now
	h.LastUpdated = now

	if err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if err := insertHolding(tx, h); err != nil {
			return err
		}
		return touchPortfolio(tx, h.PortfolioID, now)
	}); err != nil {
		return err
	}

	r.log.Info().
		Str("holding_id", h.ID).
		Str("portfolio_id", h.PortfolioID).
		Float64("amount", h.Amount).
		Msg("Added holding")
	return nil
}

// UpdateHolding rewrites a holding row in place
func (r *Repository) UpdateHolding(h *domain.Holding) error {
	if err := normalizeHolding(h, 0); err != nil {
		return err
	}
	now := time.Now().UTC()

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE holdings
			SET name = ?, ticker = ?, category = ?, investment_type = ?,
			    amount = ?, monthly_amount = ?, months_invested = ?, last_updated = ?
			WHERE id = ?
		`, h.Name, nullString(h.Ticker), string(h.Category), string(h.Type),
			h.Amount, nullFloat(h.MonthlyAmount), nullInt(h.MonthsInvested), now.Unix(), h.ID)
		if err != nil {
			return fmt.Errorf("failed to update holding: %w", err)
		}
		affected, _ := result.RowsAffected()
		if affected == 0 {
			return domain.ErrNotFound
		}
		h.LastUpdated = now
		return touchPortfolio(tx, h.PortfolioID, now)
	})
}

// DeleteHolding removes a holding permanently
func (r *Repository) DeleteHolding(id string) error {
	result, err := r.db.Exec(`DELETE FROM holdings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListHoldings returns all holdings of a portfolio in insertion order
func (r *Repository) ListHoldings(portfolioID string) ([]domain.Holding, error) {
	rows, err := r.db.Query(`
		SELECT id, portfolio_id, name, ticker, category, investment_type,
		       amount, monthly_amount, months_invested, created_at, last_updated
		FROM holdings
		WHERE portfolio_id = ?
		ORDER BY created_at, rowid
	`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		var ticker sql.NullString
		var monthlyAmount sql.NullFloat64
		var monthsInvested sql.NullInt64
		var createdAt, lastUpdated int64

		err := rows.Scan(&h.ID, &h.PortfolioID, &h.Name, &ticker, &h.Category, &h.Type,
			&h.Amount, &monthlyAmount, &monthsInvested, &createdAt, &lastUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}

		if ticker.Valid {
			h.Ticker = ticker.String
		}
		if monthlyAmount.Valid {
			h.MonthlyAmount = monthlyAmount.Float64
		}
		if monthsInvested.Valid {
			h.MonthsInvested = int(monthsInvested.Int64)
		}
		h.CreatedAt = time.Unix(createdAt, 0).UTC()
		h.LastUpdated = time.Unix(lastUpdated, 0).UTC()

		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// normalizeHolding validates a holding and derives the SIP amount.
// Index is only used to make error messages traceable in batch inserts.
func normalizeHolding(h *domain.Holding, index int) error {
	if h.Name == "" {
		return &domain.InvalidHoldingError{Name: h.Name, Index: index, Reason: "name is required"}
	}
	if !domain.ValidCategory(h.Category) {
		return &domain.InvalidHoldingError{Name: h.Name, Index: index, Reason: fmt.Sprintf("unknown category %q", h.Category)}
	}
	if h.Type == "" {
		h.Type = domain.InvestmentStock
	}
	if h.Type == domain.InvestmentSIP && h.MonthlyAmount > 0 && h.MonthsInvested > 0 {
		h.Amount = h.MonthlyAmount * float64(h.MonthsInvested)
	}
	if h.Amount <= 0 {
		return &domain.InvalidHoldingError{Name: h.Name, Index: index, Reason: "amount must be positive"}
	}
	return nil
}

func insertHolding(tx *sql.Tx, h *domain.Holding) error {
	_, err := tx.Exec(`
		INSERT INTO holdings (id, portfolio_id, name, ticker, category, investment_type,
		                      amount, monthly_amount, months_invested, created_at, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, h.ID, h.PortfolioID, h.Name, nullString(h.Ticker), string(h.Category), string(h.Type),
		h.Amount, nullFloat(h.MonthlyAmount), nullInt(h.MonthsInvested),
		h.CreatedAt.Unix(), h.LastUpdated.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert holding %q: %w", h.Name, err)
	}
	return nil
}

func touchPortfolio(tx *sql.Tx, portfolioID string, now time.Time) error {
	if _, err := tx.Exec(`UPDATE portfolios SET last_updated = ? WHERE id = ?`, now.Unix(), portfolioID); err != nil {
		return fmt.Errorf("failed to touch portfolio: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPortfolio(row rowScanner) (*domain.Portfolio, error) {
	var p domain.Portfolio
	var description sql.NullString
	var market string
	var isActive int
	var createdAt, lastUpdated int64

	err := row.Scan(&p.ID, &p.UserID, &p.Name, &description, &market, &isActive, &createdAt, &lastUpdated)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		p.Description = description.String
	}
	p.Market = domain.Market(market)
	p.IsActive = isActive != 0
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.LastUpdated = time.Unix(lastUpdated, 0).UTC()
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}
