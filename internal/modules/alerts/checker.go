// Package alerts watches user price alerts and fires notifications when a
// live quote crosses the alert threshold.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/notify"
)

// QuoteSource provides current prices keyed by ticker symbol
type QuoteSource interface {
	Prices(ctx context.Context, tickers []string) (map[string]float64, error)
}

// TriggeredAlert pairs a fired alert with the price that fired it
type TriggeredAlert struct {
	Alert        domain.PriceAlert `json:"alert"`
	CurrentPrice float64           `json:"current_price"`
}

// Checker evaluates active alerts against live quotes
type Checker struct {
	repo     *Repository
	quotes   QuoteSource
	notifier notify.Notifier
	log      zerolog.Logger
}

// NewChecker creates an alert checker
func NewChecker(repo *Repository, quotes QuoteSource, notifier notify.Notifier, log zerolog.Logger) *Checker {
	return &Checker{
		repo:     repo,
		quotes:   quotes,
		notifier: notifier,
		log:      log.With().Str("service", "alert_checker").Logger(),
	}
}

// Check fetches quotes for every active untriggered alert and fires the ones
// whose threshold the current price has reached. Both comparisons are
// inclusive: an above alert fires at or over the target, a below alert at or
// under it. Alerts are marked triggered before notification, so a failed
// send does not re-arm them.
func (c *Checker) Check(ctx context.Context) ([]TriggeredAlert, error) {
	alerts, err := c.repo.ListActiveUntriggered()
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return nil, nil
	}

	tickers := make([]string, 0, len(alerts))
	seen := make(map[string]bool)
	for _, a := range alerts {
		if !seen[a.Ticker] {
			seen[a.Ticker] = true
			tickers = append(tickers, a.Ticker)
		}
	}

	prices, err := c.quotes.Prices(ctx, tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alert quotes: %w", err)
	}

	var triggered []TriggeredAlert
	for _, a := range alerts {
		price, ok := prices[a.Ticker]
		if !ok {
			continue
		}
		if !crossed(a, price) {
			continue
		}

		now := time.Now().UTC()
		if err := c.repo.MarkTriggered(a.ID, now); err != nil {
			c.log.Error().Err(err).Str("alert_id", a.ID).Msg("Failed to mark alert triggered")
			continue
		}
		a.IsTriggered = true
		a.TriggeredAt = &now

		c.send(ctx, a, price)
		triggered = append(triggered, TriggeredAlert{Alert: a, CurrentPrice: price})
	}

	if len(triggered) > 0 {
		c.log.Info().
			Int("triggered", len(triggered)).
			Int("checked", len(alerts)).
			Msg("Price alerts fired")
	}
	return triggered, nil
}

// crossed reports whether the current price satisfies the alert condition
func crossed(a domain.PriceAlert, price float64) bool {
	switch a.Condition {
	case domain.AlertAbove:
		return price >= a.TargetPrice
	case domain.AlertBelow:
		return price <= a.TargetPrice
	}
	return false
}

// send formats and delivers the alert message when a phone number is
// present. Delivery failures are logged, not returned: the alert is already
// marked triggered.
func (c *Checker) send(ctx context.Context, a domain.PriceAlert, price float64) {
	if a.PhoneNumber == "" {
		return
	}

	direction := "risen above"
	if a.Condition == domain.AlertBelow {
		direction = "fallen below"
	}
	message := fmt.Sprintf("Price Alert: %s has %s your target price of $%.2f. Current price: $%.2f",
		a.Ticker, direction, a.TargetPrice, price)

	if err := c.notifier.Send(ctx, a.PhoneNumber, message); err != nil {
		c.log.Error().Err(err).Str("ticker", a.Ticker).Msg("Failed to send alert SMS")
	}
}

// Job adapts the checker to the scheduler
type Job struct {
	checker *Checker
}

// NewJob creates the scheduled alert check job
func NewJob(checker *Checker) *Job {
	return &Job{checker: checker}
}

// Name implements scheduler.Job
func (j *Job) Name() string {
	return "price_alerts_check"
}

// Run implements scheduler.Job
func (j *Job) Run() error {
	_, err := j.checker.Check(context.Background())
	return err
}
