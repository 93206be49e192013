package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/marketdata"
	"github.com/niveshak/niveshak/internal/modules/suggestions"
)

type stubMarketData struct {
	quotes map[string]*marketdata.Quote
}

func (s *stubMarketData) GetQuotes(_ context.Context, _ []string, _ domain.Market) (map[string]*marketdata.Quote, error) {
	if s.quotes == nil {
		return nil, errors.New("quotes unavailable")
	}
	return s.quotes, nil
}

func (s *stubMarketData) History(_ context.Context, _ string, _ domain.Market, _ int) ([]marketdata.DailyPrice, error) {
	return nil, errors.New("no cached history")
}

func newTestRouter(data suggestions.MarketData) chi.Router {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	h := NewHandler(suggestions.NewService(data, log), log)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func get(t *testing.T, r chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type suggestResponse struct {
	Data struct {
		Category    string                   `json:"category"`
		Market      string                   `json:"market"`
		Suggestions []suggestions.Suggestion `json:"suggestions"`
	} `json:"data"`
	Metadata struct {
		Timestamp string `json:"timestamp"`
	} `json:"metadata"`
}

func TestHandleSuggest(t *testing.T) {
	r := newTestRouter(&stubMarketData{quotes: map[string]*marketdata.Quote{
		"AAPL": {Ticker: "AAPL", Price: 250, ChangePercent: 1.2},
	}})

	rec := get(t, r, "/suggestions?category=Large+Cap&market=US")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Large Cap", resp.Data.Category)
	assert.Equal(t, "US", resp.Data.Market)
	require.NotEmpty(t, resp.Data.Suggestions)
	assert.Equal(t, "AAPL", resp.Data.Suggestions[0].Ticker)
	assert.Equal(t, 250.0, resp.Data.Suggestions[0].Price)
	assert.NotEmpty(t, resp.Metadata.Timestamp)
}

func TestHandleSuggest_DefaultsToLargeCapIndia(t *testing.T) {
	r := newTestRouter(&stubMarketData{})

	rec := get(t, r, "/suggestions")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, string(domain.DefaultCategory), resp.Data.Category)
	assert.Equal(t, string(domain.MarketIndia), resp.Data.Market)
	require.NotEmpty(t, resp.Data.Suggestions)
	// Quote failures degrade to the plain catalog
	assert.Zero(t, resp.Data.Suggestions[0].Price)
}

func TestHandleSuggest_UnknownCategory(t *testing.T) {
	r := newTestRouter(&stubMarketData{})

	rec := get(t, r, "/suggestions?category=Moonshots")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
