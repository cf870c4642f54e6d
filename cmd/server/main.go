package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"driveops/internal/admin/device"
	"driveops/internal/audit"
	auditHandler "driveops/internal/audit/handler"
	compHandler "driveops/internal/compliance/handler"
	compMetrics "driveops/internal/compliance/metrics"
	compService "driveops/internal/compliance/service"
	compStore "driveops/internal/compliance/store"
	driverHandler "driveops/internal/drivers/handler"
	driverService "driveops/internal/drivers/service"
	driverStore "driveops/internal/drivers/store"
	"driveops/internal/jwttoken"
	"driveops/internal/notify"
	"driveops/internal/objstore"
	"driveops/internal/platform/config"
	"driveops/internal/platform/httpserver"
	"driveops/internal/platform/logger"
	"driveops/internal/platform/postgres"
	platformredis "driveops/internal/platform/redis"
	httptransport "driveops/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	checks := make(map[string]httptransport.HealthChecker)

	// Storage. Without DATABASE_URL everything runs in memory, which is
	// enough for local development against the dashboard.
	var (
		db           *sql.DB
		driversStore driverStore.Store
		driverDocs   compStore.CategoryStore
		vehicleDocs  compStore.CategoryStore
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		driversStore = driverStore.NewPostgres(db)
		driverDocs = compStore.NewPostgresDriver(db)
		vehicleDocs = compStore.NewPostgresVehicle(db)
		checks["postgres"] = dbHealth{db}
		log.Info("using postgres storage")
	} else {
		memDrivers := driverStore.NewInMemory()
		driversStore = memDrivers
		driverDocs = compStore.NewInMemory("driver", memDrivers)
		vehicleDocs = compStore.NewInMemory("vehicle", memDrivers)
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}
	documents := compStore.NewDual(driverDocs, vehicleDocs)

	// Object storage for uploaded files.
	var objects objstore.Store
	if cfg.S3.Bucket != "" {
		s3Store, err := objstore.NewS3(ctx, cfg.S3)
		if err != nil {
			return err
		}
		objects = s3Store
		log.Info("using s3 object storage", "bucket", cfg.S3.Bucket)
	} else {
		objects = objstore.NewInMemory()
		log.Warn("S3_BUCKET not set, using in-memory object storage")
	}

	// Redis backs the notification dead letter queue when available.
	var deadLetter notify.DeadLetter = notify.NewMemoryDeadLetter()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, dead letters stay in memory", "error", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		deadLetter = notify.NewRedisDeadLetter(redisClient)
		checks["redis"] = redisClient
	}

	// Owner notifications ride Kafka when brokers are configured; without
	// them reviews still work, deliveries just land in the dead letter.
	var dispatcher notify.Dispatcher = notify.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := notify.NewKafkaPublisher(ctx, cfg.Kafka)
		if err != nil {
			return err
		}
		defer kafkaPublisher.Close()
		dispatcher = kafkaPublisher
		log.Info("using kafka notifications", "topic", cfg.Kafka.NotificationsTopic)
	} else {
		log.Warn("KAFKA_BROKERS not set, owner notifications disabled")
	}
	notifier := notify.NewBestEffort(dispatcher,
		notify.WithLogger(log),
		notify.WithMetrics(notify.NewMetrics()),
		notify.WithDeadLetter(deadLetter),
	)

	jwtService := jwttoken.NewService(cfg.JWTSigningKey, "driveops", "driveops-admin")

	// Admin actions land in the audit trail through a background worker so
	// the review path never blocks on it. Events carry the acting admin's
	// device identity when fingerprinting is enabled.
	var auditStore audit.Store = audit.NewInMemory()
	if db != nil {
		auditStore = audit.NewPostgres(db)
	}
	devices := device.NewService(cfg.DeviceFingerprinting)
	recorder := audit.NewRecorder(256, devices, log)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go func() {
		_ = audit.NewWorker(auditStore, recorder.Inbox(), devices, log).Run(workerCtx)
	}()

	compliance, err := compService.New(documents, objects, driversStore,
		compService.WithLogger(log),
		compService.WithMetrics(compMetrics.New()),
		compService.WithNotifier(notifier),
		compService.WithAuditor(recorder),
	)
	if err != nil {
		return err
	}

	drivers, err := driverService.New(driversStore, compliance,
		driverService.WithLogger(log),
		driverService.WithAuditor(recorder),
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(checks,
		compHandler.New(compliance, log, jwtService),
		driverHandler.New(drivers, log, jwtService),
		auditHandler.New(auditStore, log, jwtService),
	)
	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting driveops", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
