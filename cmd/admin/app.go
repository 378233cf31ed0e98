package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ClinicBoxService/internal/config"
	directoryRepo "github.com/m04kA/SMC-ClinicBoxService/internal/infra/storage/directory"
	maintenanceRepo "github.com/m04kA/SMC-ClinicBoxService/internal/infra/storage/maintenance"
	reservationRepo "github.com/m04kA/SMC-ClinicBoxService/internal/infra/storage/reservation"
	directoryService "github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
	importDataUC "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/import_data"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/metrics"
)

// app зависимости одной команды
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *sql.DB
	importer *importDataUC.UseCase
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		_ = log.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Метрики в CLI не экспортируются
	wrapped := dbmetrics.Wrap(db, nil)
	var noMetrics *metrics.Metrics

	importer := importDataUC.NewUseCase(
		reservationRepo.NewRepository(wrapped),
		maintenanceRepo.NewRepository(wrapped),
		directoryService.NewService(directoryRepo.NewRepository(wrapped), log),
		noMetrics,
		importDataUC.Options{
			BatchSize:       cfg.Import.BatchSize,
			BatchPause:      cfg.BatchPause(),
			RescueBatchSize: cfg.Import.RescueBatchSize,
			RescuePause:     cfg.RescuePause(),
		},
		log,
	)

	return &app{cfg: cfg, log: log, db: db, importer: importer}, nil
}

func (a *app) close() {
	_ = a.db.Close()
	_ = a.log.Close()
}
