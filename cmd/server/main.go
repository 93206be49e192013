// Package main is the entry point for the Niveshak portfolio analytics service.
// It wires configuration, the SQLite databases, the market data pipeline and
// the analytics modules into the HTTP server, then runs until interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/niveshak/niveshak/internal/config"
	"github.com/niveshak/niveshak/internal/database"
	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/marketdata"
	"github.com/niveshak/niveshak/internal/modules/advice"
	advicehandlers "github.com/niveshak/niveshak/internal/modules/advice/handlers"
	"github.com/niveshak/niveshak/internal/modules/alerts"
	alertshandlers "github.com/niveshak/niveshak/internal/modules/alerts/handlers"
	"github.com/niveshak/niveshak/internal/modules/allocation"
	"github.com/niveshak/niveshak/internal/modules/goals"
	goalshandlers "github.com/niveshak/niveshak/internal/modules/goals/handlers"
	"github.com/niveshak/niveshak/internal/modules/portfolio"
	portfoliohandlers "github.com/niveshak/niveshak/internal/modules/portfolio/handlers"
	"github.com/niveshak/niveshak/internal/modules/projection"
	projectionhandlers "github.com/niveshak/niveshak/internal/modules/projection/handlers"
	"github.com/niveshak/niveshak/internal/modules/rebalancing"
	rebalancinghandlers "github.com/niveshak/niveshak/internal/modules/rebalancing/handlers"
	"github.com/niveshak/niveshak/internal/modules/riskstats"
	riskstatshandlers "github.com/niveshak/niveshak/internal/modules/riskstats/handlers"
	"github.com/niveshak/niveshak/internal/modules/scenarios"
	scenarioshandlers "github.com/niveshak/niveshak/internal/modules/scenarios/handlers"
	"github.com/niveshak/niveshak/internal/modules/suggestions"
	suggestionshandlers "github.com/niveshak/niveshak/internal/modules/suggestions/handlers"
	"github.com/niveshak/niveshak/internal/notify"
	"github.com/niveshak/niveshak/internal/reliability"
	"github.com/niveshak/niveshak/internal/scheduler"
	"github.com/niveshak/niveshak/internal/server"
	"github.com/niveshak/niveshak/pkg/logger"
)

func main() {
	// Load configuration first to get the log level
	cfg, err := config.Load()
	if err != nil {
		// Use a fallback logger so the configuration error is still visible
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Niveshak")

	// User data lives on the standard profile; the market data cache is
	// rebuildable, so it runs on the fast cache profile.
	appDB, err := database.New(database.Config{
		Path:    cfg.AppDBPath(),
		Profile: database.ProfileStandard,
		Name:    "app",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open app database")
	}
	defer appDB.Close()

	historyDB, err := database.New(database.Config{
		Path:    cfg.HistoryDBPath(),
		Profile: database.ProfileCache,
		Name:    "history",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer historyDB.Close()

	databases := map[string]*database.DB{
		"app":     appDB,
		"history": historyDB,
	}
	for _, db := range databases {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to migrate database")
		}
	}

	// Market data pipeline: Yahoo-compatible client backed by the SQLite cache
	mdClient := marketdata.NewClient(cfg.MarketDataBaseURL, log)
	mdStore := marketdata.NewStore(historyDB.Conn(), log)
	mdService := marketdata.NewService(mdClient, mdStore, log)

	// The analytics modules share one allocation model
	model := allocation.NewModel()
	sectors := suggestions.NewLookup()

	portfolioRepo := portfolio.NewRepository(appDB.Conn(), log)
	portfolioSvc := portfolio.NewService(model, log)
	rebalanceSvc := rebalancing.NewService(model, log)
	rebalanceHistory := rebalancing.NewHistoryRepository(appDB.Conn(), log)
	projectionSvc := projection.NewService(model, log)
	scenarioSvc := scenarios.NewService(log)
	goalsSvc := goals.NewService(goals.NewRepository(appDB.Conn(), log), log)
	alertsRepo := alerts.NewRepository(appDB.Conn(), log)
	suggestionsSvc := suggestions.NewService(mdService, log)

	// One risk service per market: the benchmark index and the symbol
	// conventions differ between NSE and US listings.
	riskByMarket := map[domain.Market]*riskstats.Service{
		domain.MarketIndia: riskstats.NewService(
			marketdata.NewMarketSource(mdService, domain.MarketIndia),
			cfg.BenchmarkTicker, cfg.RiskFreeRate, log),
		domain.MarketUS: riskstats.NewService(
			marketdata.NewMarketSource(mdService, domain.MarketUS),
			cfg.BenchmarkTickerUS, cfg.RiskFreeRate, log),
	}

	// Advice runs against Gemini when an API key is configured; otherwise
	// the rule-based generator answers locally.
	var generator advice.Generator = advice.NewRuleBasedGenerator(model, log)
	if cfg.Advice.Enabled() {
		gemini, err := advice.NewGeminiGenerator(context.Background(), cfg.Advice.APIKey, cfg.Advice.Model, log)
		if err != nil {
			log.Warn().Err(err).Msg("Gemini unavailable, falling back to rule-based advice")
		} else {
			generator = gemini
			log.Info().Str("model", cfg.Advice.Model).Msg("AI advice enabled")
		}
	}
	adviceSvc := advice.NewService(generator, advice.NewHistoryRepository(appDB.Conn(), log), log)

	// Alert delivery goes out via Twilio when configured, log-only otherwise
	var notifier notify.Notifier = notify.NewLogNotifier(log)
	if cfg.SMS.Enabled() {
		notifier = notify.NewTwilioNotifier(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber, log)
		log.Info().Msg("SMS notifications enabled")
	}
	checker := alerts.NewChecker(alertsRepo, marketdata.NewPriceSource(mdService), notifier, log)

	// Backups need object storage credentials; without them the backup
	// endpoints report 503 and no backup job is scheduled.
	var backupSvc *reliability.Service
	if cfg.Backup.Enabled() {
		s3Client, err := reliability.NewS3Client(context.Background(),
			cfg.Backup.Endpoint, cfg.Backup.Region, cfg.Backup.AccessKey, cfg.Backup.SecretKey, cfg.Backup.Bucket, log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize S3 client, backups disabled")
		} else {
			backupSvc = reliability.NewService(s3Client, databases, cfg.DataDir, cfg.Backup.Prefix, cfg.Backup.KeepDays, log)
			log.Info().Str("bucket", cfg.Backup.Bucket).Msg("Backups enabled")
		}
	}

	// Background jobs on cron schedules. Every scheduled job is also
	// triggerable by name through the system API.
	sched := scheduler.New(log)
	var jobs []scheduler.Job
	addJob := func(spec string, job scheduler.Job) {
		if err := sched.AddJob(spec, job); err != nil {
			log.Fatal().Err(err).Str("job", job.Name()).Msg("Failed to schedule job")
		}
		jobs = append(jobs, job)
	}

	addJob(cfg.AlertsCheckSchedule, alerts.NewJob(checker))
	addJob(cfg.CacheRefreshSchedule, marketdata.NewRefreshJob(mdService, marketdata.RefreshDays))
	addJob(cfg.CleanupSchedule, marketdata.NewCleanupJob(mdStore, marketdata.DefaultPriceRetention))
	addJob(cfg.CleanupSchedule, reliability.NewMaintenanceJob(databases, log))
	if backupSvc != nil {
		addJob(cfg.BackupSchedule, reliability.NewBackupJob(backupSvc))
	}

	srv := server.New(server.Config{
		Log:       log,
		Cfg:       cfg,
		Databases: databases,
		Backups:   backupSvc,
		Scheduler: sched,
		Jobs:      jobs,
		Modules: []server.RouteRegistrar{
			portfoliohandlers.NewHandler(portfolioRepo, portfolioSvc, sectors, log),
			rebalancinghandlers.NewHandler(rebalanceSvc, rebalanceHistory, log),
			projectionhandlers.NewHandler(projectionSvc, log),
			scenarioshandlers.NewHandler(scenarioSvc, log),
			riskstatshandlers.NewHandler(riskByMarket, log),
			goalshandlers.NewHandler(goalsSvc, log),
			alertshandlers.NewHandler(alertsRepo, log),
			suggestionshandlers.NewHandler(suggestionsSvc, log),
			advicehandlers.NewHandler(adviceSvc, log),
		},
	})

	// Start server in a goroutine so the scheduler and signal handling run
	// on the main one
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	sched.Start()
	log.Info().Int("jobs", len(jobs)).Msg("Scheduler started")
	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	// Give in-flight requests up to 10 seconds to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
