package app

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pickemhq/schedule-sync/external/espn"
	"github.com/pickemhq/schedule-sync/internal/config"
	"github.com/pickemhq/schedule-sync/internal/infrastructure/repository/postgres"
	idgen "github.com/pickemhq/schedule-sync/internal/platform/id"
	"github.com/pickemhq/schedule-sync/internal/platform/logging"
	"github.com/pickemhq/schedule-sync/internal/platform/resilience"
	"github.com/pickemhq/schedule-sync/internal/usecase"
)

// App bundles the wired sync services and the database handle behind them.
type App struct {
	DB *sqlx.DB

	SeasonSync  *usecase.SeasonSyncService
	TeamSync    *usecase.TeamSyncService
	PhaseReseed *usecase.PhaseReseedService
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	txStore := postgres.NewTxStore(db)
	provider := espn.NewClient(espn.ClientConfig{
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})

	syncCfg := usecase.SyncConfig{
		Enabled:    cfg.SyncEnabled,
		SourceName: cfg.SyncSource,
	}
	ids := idgen.NewRandomGenerator()

	return &App{
		DB:          db,
		SeasonSync:  usecase.NewSeasonSyncService(txStore, provider, ids, syncCfg, logger),
		TeamSync:    usecase.NewTeamSyncService(txStore, provider, ids, syncCfg, logger),
		PhaseReseed: usecase.NewPhaseReseedService(txStore, cfg.ReseedMaxWorkers, logger),
	}, nil
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
