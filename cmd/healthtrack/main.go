package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/config"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/filestore"
	v1 "github.com/dmehra2102/prod-golang-projects/healthtrack/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/service"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/tracer"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "run migrations and exit")
	seedCount := flag.Int("seed", 0, "seed N development patients and exit (implies -migrate)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("connecting to database", zap.Error(err))
	}

	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("running migrations", zap.Error(err))
	}

	if *seedCount > 0 {
		if err := database.Seed(db, *seedCount, zlog); err != nil {
			zlog.Fatal("seeding database", zap.Error(err))
		}
		return
	}
	if *migrateOnly {
		return
	}

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("initializing tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			zlog.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	files, err := filestore.New(cfg.Storage.UploadDir)
	if err != nil {
		zlog.Fatal("initializing file store", zap.Error(err))
	}

	col := metrics.NewCollector("healthtrack")

	// Repositories share one pool; the TxManager scopes multi-write units.
	patientRepo := repository.NewPatientRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	txm := repository.NewTxManager(db)

	patientSvc := service.NewPatientService(patientRepo, metricRepo, recordRepo, activityRepo, files, txm, zlog)
	metricSvc := service.NewMetricService(metricRepo, patientRepo, activityRepo, txm, zlog)
	recordSvc := service.NewRecordService(recordRepo, patientRepo, activityRepo, files, txm, zlog)
	activitySvc := service.NewActivityService(activityRepo, zlog)
	analyticsSvc := service.NewAnalyticsService(patientRepo, metricRepo, recordRepo, activityRepo, files, zlog)

	router := v1.NewRouter(v1.Handlers{
		Patients:  v1.NewPatientHandler(patientSvc, col, zlog),
		Metrics:   v1.NewMetricHandler(metricSvc, col, zlog),
		Records:   v1.NewRecordHandler(recordSvc, col, zlog),
		Activity:  v1.NewActivityHandler(activitySvc, zlog),
		Analytics: v1.NewAnalyticsHandler(analyticsSvc, zlog),
	}, col, zlog)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("http server", zap.Error(err))
		}
	}()

	// Track pool usage while the server runs.
	if sqlDB, err := db.DB(); err == nil {
		go func() {
			t := time.NewTicker(15 * time.Second)
			defer t.Stop()
			for range t.C {
				col.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing database: %v\n", err)
		}
	}
}
