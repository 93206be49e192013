package reliability

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshak/niveshak/internal/database"
)

func TestMaintenanceJob(t *testing.T) {
	dir := t.TempDir()

	cache, err := database.New(database.Config{
		Path:    filepath.Join(dir, "history.db"),
		Profile: database.ProfileCache,
		Name:    "history",
	})
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	standard, err := database.New(database.Config{
		Path: filepath.Join(dir, "app.db"),
		Name: "app",
	})
	require.NoError(t, err)
	t.Cleanup(func() { standard.Close() })

	_, err = cache.Exec("CREATE TABLE bars (id INTEGER PRIMARY KEY, payload TEXT)")
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		_, err = cache.Exec("INSERT INTO bars (payload) VALUES ('0123456789abcdef')")
		require.NoError(t, err)
	}

	job := NewMaintenanceJob(map[string]*database.DB{
		"history": cache,
		"app":     standard,
	}, zerolog.Nop())

	assert.Equal(t, "database_maintenance", job.Name())
	require.NoError(t, job.Run())

	// Databases stay usable after checkpoint and vacuum
	var count int
	require.NoError(t, cache.QueryRow("SELECT COUNT(*) FROM bars").Scan(&count))
	assert.Equal(t, 50, count)
	require.NoError(t, standard.QuickCheck(context.Background()))
}
