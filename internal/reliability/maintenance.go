package reliability

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/database"
)

// MaintenanceJob keeps the SQLite files compact: WAL checkpoints on every
// database, then VACUUM on rebuildable cache databases.
type MaintenanceJob struct {
	databases map[string]*database.DB
	log       zerolog.Logger
}

// NewMaintenanceJob creates the weekly database maintenance job
func NewMaintenanceJob(databases map[string]*database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		databases: databases,
		log:       log.With().Str("job", "database_maintenance").Logger(),
	}
}

// Name implements scheduler.Job
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run implements scheduler.Job
func (j *MaintenanceJob) Run() error {
	startTime := time.Now()

	names := make([]string, 0, len(j.databases))
	for name := range j.databases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		db := j.databases[name]

		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", name).Msg("WAL checkpoint failed")
		}

		// Cache databases churn the most and their contents can always
		// be refetched. User data relies on incremental auto-vacuum.
		if db.Profile() != database.ProfileCache {
			continue
		}

		if err := j.vacuum(name, db); err != nil {
			j.log.Error().Err(err).Str("database", name).Msg("VACUUM failed")
		}
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Msg("Database maintenance completed")

	return nil
}

// vacuum runs VACUUM and logs the space reclaimed
func (j *MaintenanceJob) vacuum(name string, db *database.DB) error {
	before, err := db.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read stats before vacuum: %w", err)
	}

	if err := db.Vacuum(); err != nil {
		return err
	}

	after, err := db.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read stats after vacuum: %w", err)
	}

	sizeBefore := before.PageCount * before.PageSize
	sizeAfter := after.PageCount * after.PageSize

	j.log.Info().
		Str("database", name).
		Float64("size_before_mb", float64(sizeBefore)/1024/1024).
		Float64("size_after_mb", float64(sizeAfter)/1024/1024).
		Float64("space_reclaimed_mb", float64(sizeBefore-sizeAfter)/1024/1024).
		Msg("VACUUM completed")

	return nil
}
