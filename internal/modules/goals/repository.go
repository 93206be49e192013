package goals

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
)

// Repository persists financial goals in the app database
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a goal repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "goal_repository").Logger(),
	}
}

// Create inserts a new goal, assigning its ID, creation time and the target
// date derived from the timeline.
func (r *Repository) Create(g *domain.Goal) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.TargetDate = now.AddDate(0, 0, 365*g.TimelineYears)
	g.IsActive = true

	_, err := r.db.Exec(`
		INSERT INTO goals (id, user_id, name, description, target_amount, current_amount,
		                   timeline_years, risk_level, is_active, created_at, target_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, g.ID, g.UserID, g.Name, g.Description, g.TargetAmount, g.CurrentAmount,
		g.TimelineYears, string(g.RiskLevel), now.Unix(), g.TargetDate.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	r.log.Info().
		Str("goal_id", g.ID).
		Str("user_id", g.UserID).
		Float64("target", g.TargetAmount).
		Msg("Created goal")
	return nil
}

// Get fetches a goal by ID, active or not.
// Returns nil if not found (not an error).
func (r *Repository) Get(id string) (*domain.Goal, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, name, description, target_amount, current_amount,
		       timeline_years, risk_level, is_active, created_at, target_date
		FROM goals
		WHERE id = ?
	`, id)

	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

// ListForUser returns the user's active goals in creation order
func (r *Repository) ListForUser(userID string) ([]domain.Goal, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, name, description, target_amount, current_amount,
		       timeline_years, risk_level, is_active, created_at, target_date
		FROM goals
		WHERE user_id = ? AND is_active = 1
		ORDER BY created_at, rowid
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// UpdateProgress records the amount saved so far toward a goal
func (r *Repository) UpdateProgress(id string, currentAmount float64) error {
	result, err := r.db.Exec(`UPDATE goals SET current_amount = ? WHERE id = ?`, currentAmount, id)
	if err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateRiskLevel changes the risk level a goal is planned with
func (r *Repository) UpdateRiskLevel(id string, risk domain.RiskProfile) error {
	result, err := r.db.Exec(`UPDATE goals SET risk_level = ? WHERE id = ?`, string(risk), id)
	if err != nil {
		return fmt.Errorf("failed to update goal risk level: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete marks a goal inactive (soft delete)
func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE goals SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("goal_id", id).Msg("Deactivated goal")
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var g domain.Goal
	var description sql.NullString
	var risk string
	var isActive int
	var createdAt, targetDate int64

	err := row.Scan(&g.ID, &g.UserID, &g.Name, &description, &g.TargetAmount, &g.CurrentAmount,
		&g.TimelineYears, &risk, &isActive, &createdAt, &targetDate)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		g.Description = description.String
	}
	g.RiskLevel = domain.RiskProfile(risk)
	g.IsActive = isActive != 0
	g.CreatedAt = time.Unix(createdAt, 0).UTC()
	g.TargetDate = time.Unix(targetDate, 0).UTC()
	return &g, nil
}
