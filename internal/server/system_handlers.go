package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/niveshak/niveshak/internal/database"
	"github.com/niveshak/niveshak/internal/reliability"
	"github.com/niveshak/niveshak/internal/scheduler"
	"github.com/niveshak/niveshak/internal/version"
)

// healthCheckTimeout caps how long one health probe may hold a connection
const healthCheckTimeout = 2 * time.Second

// SystemHandlers serves operational endpoints: health, system info,
// database stats, manual job runs and backups.
type SystemHandlers struct {
	startupTime time.Time
	log         zerolog.Logger
	dataDir     string
	databases   map[string]*database.DB
	backups     *reliability.Service // nil when no object storage is configured
	sched       *scheduler.Scheduler
	jobs        map[string]scheduler.Job
}

// NewSystemHandlers creates the system handler set. Jobs become triggerable
// by name via the jobs endpoints; a nil backups service turns the backup
// endpoints into 503s.
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	databases map[string]*database.DB,
	backups *reliability.Service,
	sched *scheduler.Scheduler,
	jobs []scheduler.Job,
) *SystemHandlers {
	byName := make(map[string]scheduler.Job, len(jobs))
	for _, job := range jobs {
		byName[job.Name()] = job
	}

	return &SystemHandlers{
		startupTime: time.Now(),
		log:         log.With().Str("handler", "system").Logger(),
		dataDir:     dataDir,
		databases:   databases,
		backups:     backups,
		sched:       sched,
		jobs:        byName,
	}
}

// RegisterRoutes registers the system routes
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Route("/system", func(r chi.Router) {
		r.Get("/info", h.HandleSystemInfo)
		r.Get("/database/stats", h.HandleDatabaseStats)
		r.Get("/jobs", h.HandleListJobs)
		r.Post("/jobs/{jobName}/run", h.HandleRunJob)
	})
	r.Post("/backup", h.HandleCreateBackup)
	r.Get("/backups", h.HandleListBackups)
}

// HandleHealth handles GET /api/health. Each database is pinged; any
// failure degrades the whole report to 503.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := "healthy"
	checks := make(map[string]string, len(h.databases))
	for name, db := range h.databases {
		if err := db.QuickCheck(ctx); err != nil {
			h.log.Error().Err(err).Str("database", name).Msg("Database health check failed")
			checks[name] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks[name] = "ok"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	h.writeJSON(w, code, map[string]interface{}{
		"status":       status,
		"service":      "niveshak",
		"version":      version.Version,
		"uptime_hours": time.Since(h.startupTime).Hours(),
		"databases":    checks,
	})
}

// SystemInfoResponse is the system info payload
type SystemInfoResponse struct {
	Version       string  `json:"version"`
	GoVersion     string  `json:"go_version"`
	OS            string  `json:"os"`
	Arch          string  `json:"arch"`
	UptimeHours   float64 `json:"uptime_hours"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	DataDirMB     float64 `json:"data_dir_mb"`
}

// HandleSystemInfo handles GET /api/system/info
func (h *SystemHandlers) HandleSystemInfo(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.getSystemStats()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.writeJSON(w, http.StatusOK, SystemInfoResponse{
		Version:       version.Version,
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
		UptimeHours:   time.Since(h.startupTime).Hours(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(memStats.HeapAlloc) / 1024 / 1024,
		DataDirMB:     h.getDirSize(h.dataDir),
	})
}

// DBStatsInfo is one database's stats in the stats payload
type DBStatsInfo struct {
	Name          string  `json:"name"`
	Path          string  `json:"path"`
	SizeMB        float64 `json:"size_mb"`
	WALSizeMB     float64 `json:"wal_size_mb"`
	PageCount     int64   `json:"page_count"`
	FreelistCount int64   `json:"freelist_count"`
}

// DatabaseStatsResponse is the database stats payload
type DatabaseStatsResponse struct {
	Databases   []DBStatsInfo `json:"databases"`
	TotalSizeMB float64       `json:"total_size_mb"`
	LastChecked string        `json:"last_checked"`
}

// HandleDatabaseStats handles GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.databases))
	for name := range h.databases {
		names = append(names, name)
	}
	sort.Strings(names)

	response := DatabaseStatsResponse{
		Databases:   []DBStatsInfo{},
		LastChecked: time.Now().Format(time.RFC3339),
	}
	for _, name := range names {
		db := h.databases[name]
		stats, err := db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Str("database", name).Msg("Failed to collect database stats")
			continue
		}

		sizeMB := float64(stats.SizeBytes) / 1024 / 1024
		response.TotalSizeMB += sizeMB
		response.Databases = append(response.Databases, DBStatsInfo{
			Name:          name,
			Path:          db.Path(),
			SizeMB:        sizeMB,
			WALSizeMB:     float64(stats.WALSizeBytes) / 1024 / 1024,
			PageCount:     stats.PageCount,
			FreelistCount: stats.FreelistCount,
		})
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleListJobs handles GET /api/system/jobs
func (h *SystemHandlers) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.jobs))
	for name := range h.jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  names,
		"count": len(names),
	})
}

// HandleRunJob handles POST /api/system/jobs/{jobName}/run. The job runs
// synchronously; the response reports its outcome.
func (h *SystemHandlers) HandleRunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "jobName")

	job, ok := h.jobs[name]
	if !ok {
		h.writeError(w, http.StatusNotFound, "Unknown job: "+name)
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job run triggered")
	if err := h.sched.RunNow(job); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "completed",
		"job":    name,
	})
}

// HandleCreateBackup handles POST /api/backup
func (h *SystemHandlers) HandleCreateBackup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		h.writeError(w, http.StatusServiceUnavailable, "Backups are not configured")
		return
	}

	filename, err := h.backups.CreateAndUpload(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Manual backup failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":   "completed",
		"filename": filename,
	})
}

// HandleListBackups handles GET /api/backups
func (h *SystemHandlers) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		h.writeError(w, http.StatusServiceUnavailable, "Backups are not configured")
		return
	}

	backups, err := h.backups.ListBackups(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list backups")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if backups == nil {
		backups = []reliability.Info{}
	}

	h.writeJSON(w, http.StatusOK, backups)
}

// getSystemStats samples CPU and RAM usage. The CPU read uses a 100ms
// window so the endpoint stays fast enough for dashboard polling.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *SystemHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
