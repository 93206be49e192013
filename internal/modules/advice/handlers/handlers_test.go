package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshak/niveshak/internal/modules/advice"

	_ "modernc.org/sqlite"
)

type stubGenerator struct {
	advice *advice.Advice
	err    error
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Generate(_ context.Context, _ advice.Request) (*advice.Advice, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.advice, nil
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE advice_history (
			id TEXT PRIMARY KEY,
			portfolio_id TEXT NOT NULL,
			generated_at INTEGER NOT NULL,
			source TEXT NOT NULL,
			advice TEXT NOT NULL
		);
	`)
	require.NoError(t, err)

	return db
}

func newTestRouter(t *testing.T, gen advice.Generator) chi.Router {
	t.Helper()

	db := setupTestDB(t)
	log := zerolog.New(nil).Level(zerolog.Disabled)
	h := NewHandler(advice.NewService(gen, advice.NewHistoryRepository(db, log), log), log)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleAdvise_RecordsHistory(t *testing.T) {
	gen := &stubGenerator{advice: &advice.Advice{
		Assessment:       "Well diversified.",
		Recommendations:  []string{"Keep contributing monthly."},
		LongTermStrategy: "Stay the course.",
		RiskWarning:      "Markets can fall.",
	}}
	r := newTestRouter(t, gen)

	rec := doJSON(t, r, http.MethodPost, "/advice", map[string]interface{}{
		"holdings": []map[string]interface{}{
			{"name": "Infosys", "ticker": "INFY.NS", "category": "Large Cap", "amount": 10000},
		},
		"session":      map[string]string{"risk_profile": "High"},
		"portfolio_id": "pf-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data advice.Advice `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Well diversified.", resp.Data.Assessment)

	rec = doJSON(t, r, http.MethodGet, "/advice/history?portfolio_id=pf-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []advice.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "stub", records[0].Source)
	assert.Equal(t, "Well diversified.", records[0].Advice.Assessment)
}

func TestHandleAdvise_GeneratorFailureDegrades(t *testing.T) {
	r := newTestRouter(t, &stubGenerator{err: errors.New("model offline")})

	rec := doJSON(t, r, http.MethodPost, "/advice", map[string]interface{}{
		"holdings": []map[string]interface{}{
			{"name": "Infosys", "category": "Large Cap", "amount": 10000},
		},
		"portfolio_id": "pf-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data advice.Advice `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.Assessment, "Unable to provide")
	assert.Contains(t, resp.Data.RiskWarning, "model offline")

	// The degraded answer is still filed, under the unavailable source
	rec = doJSON(t, r, http.MethodGet, "/advice/history?portfolio_id=pf-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []advice.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "unavailable", records[0].Source)
}

func TestHandleHistory_RequiresPortfolioID(t *testing.T) {
	r := newTestRouter(t, &stubGenerator{})

	rec := doJSON(t, r, http.MethodGet, "/advice/history", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHistory_EmptyIsNotAnError(t *testing.T) {
	r := newTestRouter(t, &stubGenerator{})

	rec := doJSON(t, r, http.MethodGet, "/advice/history?portfolio_id=pf-none", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
