// Package domain provides core domain models and types.
package domain

import (
	"strings"
	"time"
)

// Category represents an asset-class bucket
type Category string

const (
	CategoryLargeCap         Category = "Large Cap"
	CategoryMidCap           Category = "Mid Cap"
	CategorySmallCap         Category = "Small Cap"
	CategoryGold             Category = "Gold"
	CategoryETFsCrypto       Category = "ETFs/Crypto"
	CategoryOther            Category = "Other"
	CategoryBondsFixedIncome Category = "Bonds/Fixed Income"
)

// DefaultCategory is the fallback for any per-category lookup that has no
// entry for the requested category. Scenario and return tables only cover the
// core buckets, so unmapped categories are priced at the large-cap rate.
const DefaultCategory = CategoryLargeCap

// KnownCategories lists every category in display order
var KnownCategories = []Category{
	CategoryLargeCap,
	CategoryMidCap,
	CategorySmallCap,
	CategoryGold,
	CategoryETFsCrypto,
	CategoryOther,
	CategoryBondsFixedIncome,
}

// ValidCategory reports whether c is one of the known categories
func ValidCategory(c Category) bool {
	for _, known := range KnownCategories {
		if c == known {
			return true
		}
	}
	return false
}

// RiskProfile selects rows from the allocation lookup tables
type RiskProfile string

const (
	RiskLow    RiskProfile = "Low"
	RiskMedium RiskProfile = "Medium"
	RiskHigh   RiskProfile = "High"
)

// DefaultRiskProfile is used when a profile string is not recognized
const DefaultRiskProfile = RiskMedium

// ParseRiskProfile maps user-facing labels such as "Medium Risk (Balanced)"
// onto the closed profile set. Unrecognized input falls back to RiskMedium so
// a stale or misspelled profile degrades instead of failing the request.
func ParseRiskProfile(s string) RiskProfile {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "low"):
		return RiskLow
	case strings.Contains(lower, "high"):
		return RiskHigh
	case strings.Contains(lower, "medium"):
		return RiskMedium
	}
	return DefaultRiskProfile
}

// Market identifies which exchange universe tickers belong to
type Market string

const (
	MarketIndia Market = "INDIA"
	MarketUS    Market = "US"
)

// ParseMarket normalizes a market string, defaulting to MarketIndia
func ParseMarket(s string) Market {
	if strings.EqualFold(s, string(MarketUS)) {
		return MarketUS
	}
	return MarketIndia
}

// InvestmentType distinguishes lump-sum positions from recurring contributions
type InvestmentType string

const (
	// InvestmentStock represents a one-time stock or fund purchase
	InvestmentStock InvestmentType = "Stock/ETF"
	// InvestmentSIP represents a systematic investment plan with monthly contributions
	InvestmentSIP InvestmentType = "SIP"
)

// Holding is one portfolio line item. Amount is the basis for all weight
// calculations; for SIP holdings it must equal MonthlyAmount * MonthsInvested
// when both are set.
type Holding struct {
	CreatedAt      time.Time      `json:"created_at"`
	LastUpdated    time.Time      `json:"last_updated"`
	ID             string         `json:"id,omitempty"`
	PortfolioID    string         `json:"portfolio_id,omitempty"`
	Name           string         `json:"name"`
	Ticker         string         `json:"ticker,omitempty"`
	Category       Category       `json:"category"`
	Type           InvestmentType `json:"type,omitempty"`
	Amount         float64        `json:"amount"`
	MonthlyAmount  float64        `json:"monthly_amount,omitempty"`
	MonthsInvested int            `json:"months_invested,omitempty"`
}

// Portfolio is a named collection of holdings owned by a user
type Portfolio struct {
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Market      Market    `json:"market"`
	IsActive    bool      `json:"is_active"`
}

// Goal is a financial target with a timeline and risk level
type Goal struct {
	CreatedAt     time.Time   `json:"created_at"`
	TargetDate    time.Time   `json:"target_date"`
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	RiskLevel     RiskProfile `json:"risk_level"`
	TargetAmount  float64     `json:"target_amount"`
	CurrentAmount float64     `json:"current_amount"`
	TimelineYears int         `json:"timeline_years"`
	IsActive      bool        `json:"is_active"`
}

// AlertCondition says which side of the target price triggers an alert
type AlertCondition string

const (
	AlertAbove AlertCondition = "above"
	AlertBelow AlertCondition = "below"
)

// PriceAlert is a user-defined price threshold watched by the scheduler
type PriceAlert struct {
	CreatedAt   time.Time      `json:"created_at"`
	TriggeredAt *time.Time     `json:"triggered_at,omitempty"`
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Ticker      string         `json:"ticker"`
	PhoneNumber string         `json:"phone_number,omitempty"`
	Condition   AlertCondition `json:"condition"`
	TargetPrice float64        `json:"target_price"`
	IsActive    bool           `json:"is_active"`
	IsTriggered bool           `json:"is_triggered"`
}

// DefaultUserID stands in when a request names no user. Single-user
// deployments never send one; multi-user callers pass user_id explicitly.
const DefaultUserID = "default"

// SessionContext carries per-request user settings through the analysis stack
type SessionContext struct {
	UserID      string      `json:"user_id"`
	Market      Market      `json:"market"`
	RiskProfile RiskProfile `json:"risk_profile"`
}

// UserOrDefault returns the session's user ID, falling back to DefaultUserID
func (s SessionContext) UserOrDefault() string {
	if s.UserID == "" {
		return DefaultUserID
	}
	return s.UserID
}
