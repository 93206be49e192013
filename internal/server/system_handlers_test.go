package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshak/niveshak/internal/database"
	"github.com/niveshak/niveshak/internal/reliability"
	"github.com/niveshak/niveshak/internal/scheduler"
)

type stubObjectStore struct {
	uploads map[string][]byte
}

func (s *stubObjectStore) Upload(_ context.Context, key string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if s.uploads == nil {
		s.uploads = map[string][]byte{}
	}
	s.uploads[key] = data
	return nil
}

func (s *stubObjectStore) List(_ context.Context, prefix string) ([]types.Object, error) {
	var out []types.Object
	for key, data := range s.uploads {
		if strings.HasPrefix(key, prefix) {
			out = append(out, types.Object{
				Key:  aws.String(key),
				Size: aws.Int64(int64(len(data))),
			})
		}
	}
	return out, nil
}

func (s *stubObjectStore) Delete(_ context.Context, key string) error {
	delete(s.uploads, key)
	return nil
}

func newTestDB(t *testing.T, dir, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(dir, name+".db"),
		Name: name,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	return db
}

func newSystemRouter(dataDir string, databases map[string]*database.DB, backups *reliability.Service, jobs ...scheduler.Job) chi.Router {
	log := zerolog.Nop()
	h := NewSystemHandlers(log, dataDir, databases, backups, scheduler.New(log), jobs)

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})
	return r
}

func doRequest(t *testing.T, r chi.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleHealth(t *testing.T) {
	dir := t.TempDir()
	databases := map[string]*database.DB{
		"app":     newTestDB(t, dir, "app"),
		"history": newTestDB(t, dir, "history"),
	}
	r := newSystemRouter(dir, databases, nil)

	rec := doRequest(t, r, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "niveshak", body["service"])

	checks := body["databases"].(map[string]interface{})
	assert.Equal(t, "ok", checks["app"])
	assert.Equal(t, "ok", checks["history"])
}

func TestHandleHealth_DatabaseDown(t *testing.T) {
	dir := t.TempDir()
	db := newTestDB(t, dir, "app")
	r := newSystemRouter(dir, map[string]*database.DB{"app": db}, nil)

	require.NoError(t, db.Close())

	rec := doRequest(t, r, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, "unhealthy", body["status"])
	checks := body["databases"].(map[string]interface{})
	assert.Contains(t, checks["app"], "error")
}

func TestHandleSystemInfo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed.bin"), make([]byte, 4096), 0o644))
	r := newSystemRouter(dir, nil, nil)

	rec := doRequest(t, r, http.MethodGet, "/api/system/info")
	require.Equal(t, http.StatusOK, rec.Code)

	var info SystemInfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))

	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Greater(t, info.Goroutines, 0)
	assert.Greater(t, info.HeapAllocMB, 0.0)
	assert.Greater(t, info.DataDirMB, 0.0)
	assert.GreaterOrEqual(t, info.UptimeHours, 0.0)
}

func TestHandleDatabaseStats(t *testing.T) {
	dir := t.TempDir()
	databases := map[string]*database.DB{
		"app":     newTestDB(t, dir, "app"),
		"history": newTestDB(t, dir, "history"),
	}
	// Flush the WAL so the main files reflect the schema pages
	for _, db := range databases {
		require.NoError(t, db.WALCheckpoint("TRUNCATE"))
	}
	r := newSystemRouter(dir, databases, nil)

	rec := doRequest(t, r, http.MethodGet, "/api/system/database/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats DatabaseStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats.Databases, 2)

	assert.Equal(t, "app", stats.Databases[0].Name)
	assert.Equal(t, "history", stats.Databases[1].Name)
	for _, db := range stats.Databases {
		assert.Greater(t, db.SizeMB, 0.0)
		assert.Greater(t, db.PageCount, int64(0))
	}
	assert.InDelta(t, stats.Databases[0].SizeMB+stats.Databases[1].SizeMB, stats.TotalSizeMB, 1e-9)

	_, err := time.Parse(time.RFC3339, stats.LastChecked)
	assert.NoError(t, err)
}

func TestJobEndpoints(t *testing.T) {
	ran := false
	ok := scheduler.NewFuncJob("touch", func() error {
		ran = true
		return nil
	})
	failing := scheduler.NewFuncJob("failing", func() error {
		return errors.New("boom")
	})
	r := newSystemRouter(t.TempDir(), nil, nil, ok, failing)

	rec := doRequest(t, r, http.MethodGet, "/api/system/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.EqualValues(t, 2, body["count"])
	assert.Equal(t, []interface{}{"failing", "touch"}, body["jobs"])

	rec = doRequest(t, r, http.MethodPost, "/api/system/jobs/touch/run")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decodeMap(t, rec)["status"])
	assert.True(t, ran)

	rec = doRequest(t, r, http.MethodPost, "/api/system/jobs/failing/run")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeMap(t, rec)["error"], "boom")

	rec = doRequest(t, r, http.MethodPost, "/api/system/jobs/unknown/run")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackupEndpoints_Unconfigured(t *testing.T) {
	r := newSystemRouter(t.TempDir(), nil, nil)

	rec := doRequest(t, r, http.MethodPost, "/api/backup")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decodeMap(t, rec)["error"], "not configured")

	rec = doRequest(t, r, http.MethodGet, "/api/backups")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBackupEndpoints(t *testing.T) {
	dir := t.TempDir()
	databases := map[string]*database.DB{"app": newTestDB(t, dir, "app")}
	store := &stubObjectStore{}
	svc := reliability.NewService(store, databases, dir, "backups", 30, zerolog.Nop())
	r := newSystemRouter(dir, databases, svc)

	rec := doRequest(t, r, http.MethodGet, "/api/backups")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = doRequest(t, r, http.MethodPost, "/api/backup")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "completed", body["status"])
	filename := body["filename"].(string)
	assert.Contains(t, filename, ".tar.gz")
	require.Len(t, store.uploads, 1)

	rec = doRequest(t, r, http.MethodGet, "/api/backups")
	require.Equal(t, http.StatusOK, rec.Code)
	var backups []reliability.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &backups))
	require.Len(t, backups, 1)
	assert.Equal(t, filename, backups[0].Filename)
	assert.Greater(t, backups[0].SizeBytes, int64(0))
}
