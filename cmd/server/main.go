package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	adminHandler "github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers/admin"
	cancelReservationHandler "github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers/cancel_reservation"
	cancelReservationRangeHandler "github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers/cancel_reservation_range"
	createReservationHandler "github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers/create_reservation"
	directoryHandler "github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers/directory"
	getDayScheduleHandler "github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers/get_day_schedule"
	getOccupancyReportHandler "github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers/get_occupancy_report"
	getReservationHandler "github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers/get_reservation"
	updateReservationNoteHandler "github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers/update_reservation_note"
	"github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBoxService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBoxService/internal/config"
	"github.com/m04kA/SMC-ClinicBoxService/internal/infra/lock"
	directoryRepo "github.com/m04kA/SMC-ClinicBoxService/internal/infra/storage/directory"
	maintenanceRepo "github.com/m04kA/SMC-ClinicBoxService/internal/infra/storage/maintenance"
	reservationRepo "github.com/m04kA/SMC-ClinicBoxService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ClinicBoxService/internal/integrations/events"
	directoryService "github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
	reservationsService "github.com/m04kA/SMC-ClinicBoxService/internal/service/reservations"
	createReservationUC "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/create_reservation"
	getDayScheduleUC "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/get_day_schedule"
	getOccupancyReportUC "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/get_occupancy_report"
	importDataUC "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/import_data"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/metrics"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/txmanager"
)

// eventPublisher публикатор событий для use case создания и сервиса отмены
type eventPublisher interface {
	createReservationUC.EventPublisher
	reservationsService.EventPublisher
}

func main() {
	// Загружаем конфигурацию
	configPath := config.Path()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ClinicBoxService...")
	log.Info("Configuration loaded from %s (timezone=%s)", configPath, cfg.Schedule.Timezone)

	// Инициализируем метрики (если включены); nil коллектор ничего не пишет
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории и менеджер транзакций
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	directoryRepository := directoryRepo.NewRepository(wrappedDB)
	maintenanceRepository := maintenanceRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Строгая проверка конфликтов: блокировки слотов в Redis
	var slotLocker createReservationUC.SlotLocker
	if cfg.Redis.Enabled && cfg.Schedule.StrictConflictCheck {
		redisClient, err := lock.NewRedisClient(context.Background(),
			cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		slotLocker = lock.NewSlotLocker(redisClient, cfg.LockTTL())
		log.Info("Strict conflict check enabled (redis=%s, lock ttl=%s)", cfg.Redis.Addr, cfg.LockTTL())
	} else {
		log.Info("Optimistic conflict check: first target date only")
	}

	// Публикация событий
	var publisher eventPublisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewPublisher(cfg.Events.URL, cfg.Events.Queue, log)
		log.Info("Events enabled (queue=%s)", cfg.Events.Queue)
	}

	zone := cfg.Zone()
	dayStart, dayEnd := cfg.DayWindow()

	// Инициализируем сервисы
	directorySvc := directoryService.NewService(directoryRepository, log)
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		txMgr,
		publisher,
		metricsCollector,
		zone,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		directorySvc,
		slotLocker,
		publisher,
		metricsCollector,
		zone,
		cfg.Schedule.MaxRecurrenceDays,
		log,
	)
	getDayScheduleUseCase := getDayScheduleUC.NewUseCase(
		reservationRepository,
		directorySvc,
		zone,
		dayStart,
		dayEnd,
		cfg.Schedule.SlotDurationMinutes,
		log,
	)
	getOccupancyReportUseCase := getOccupancyReportUC.NewUseCase(
		reservationRepository,
		directoryRepository,
		cfg.Hours(),
		zone,
		cfg.Schedule.SlotDurationMinutes,
		cfg.Schedule.MaxRecurrenceDays,
		log,
	)
	importDataUseCase := importDataUC.NewUseCase(
		reservationRepository,
		maintenanceRepository,
		directorySvc,
		metricsCollector,
		importDataUC.Options{
			BatchSize:       cfg.Import.BatchSize,
			BatchPause:      cfg.BatchPause(),
			RescueBatchSize: cfg.Import.RescueBatchSize,
			RescuePause:     cfg.RescuePause(),
		},
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservationRange := cancelReservationRangeHandler.NewHandler(reservationsSvc, log)
	updateReservationNote := updateReservationNoteHandler.NewHandler(reservationsSvc, log)
	getDaySchedule := getDayScheduleHandler.NewHandler(getDayScheduleUseCase, log)
	getOccupancyReport := getOccupancyReportHandler.NewHandler(getOccupancyReportUseCase, log)
	directory := directoryHandler.NewHandler(directorySvc, log)
	admin := adminHandler.NewHandler(importDataUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health check (публичный)
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			log.Error("GET /health - Database unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "база данных недоступна")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// ============================================================
	// API (требуют X-User-ID и X-Org-ID)
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Справочники ---
	api.HandleFunc("/centers", directory.ListCenters).Methods(http.MethodGet)
	api.HandleFunc("/centers", directory.CreateCenter).Methods(http.MethodPost)
	api.HandleFunc("/centers/{centerId}/boxes", directory.ListBoxes).Methods(http.MethodGet)
	api.HandleFunc("/centers/{centerId}/boxes", directory.CreateBox).Methods(http.MethodPost)
	api.HandleFunc("/centers/{centerId}/doctors", directory.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/centers/{centerId}/doctors", directory.CreateDoctor).Methods(http.MethodPost)

	// --- Сетка дня ---
	api.HandleFunc("/centers/{centerId}/schedule", getDaySchedule.Handle).Methods(http.MethodGet)

	// --- Брони ---
	// cancel-range регистрируется раньше {reservationId}
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/cancel-range", cancelReservationRange.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{reservationId}/note", updateReservationNote.Handle).Methods(http.MethodPatch)

	// --- Аналитика ---
	api.HandleFunc("/analytics/occupancy", getOccupancyReport.Handle).Methods(http.MethodGet)

	// --- Администрирование ---
	api.HandleFunc("/admin/import/{kind}", admin.Import).Methods(http.MethodPost)
	api.HandleFunc("/admin/rescue", admin.Rescue).Methods(http.MethodPost)
	api.HandleFunc("/admin/reservations/count", admin.Count).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
