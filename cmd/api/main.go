package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/config"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	appHTTP "github.com/cmlabs-hris/hris-timekeeping/internal/handler/http"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/blob"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/cache"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-timekeeping/internal/service/attendance"
	notificationService "github.com/cmlabs-hris/hris-timekeeping/internal/service/notification"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	version          = "v1.0.0"
	cronLedgerPrefix = "hris:cron"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *database.DB
	if cfg.UsesPostgres() {
		db, err = database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{})
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer db.Close()

		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("error applying schema: %w", err)
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = database.ConnectRedisWithRetry(ctx, database.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	directory := newEmployeeDirectory(cfg, db, rdb)

	repo, err := newAttendanceRepository(cfg, db, rdb)
	if err != nil {
		return err
	}

	// Notifications
	hub := sse.NewHub(32)
	sinks := notificationService.Fanout{
		notificationService.NewLogSink(slog.Default()),
		notificationService.NewHubSink(hub),
	}
	if cfg.Kafka.Enabled() {
		kafkaSink := notificationService.NewKafkaSink(
			notificationService.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic),
			notificationService.KafkaConfig{},
		)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}
	var sink notification.Sink = sinks

	// Attendance core
	store := attendanceService.NewStore(repo, directory, sink)
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("error loading attendance records: %w", err)
	}
	session := attendanceService.NewSession(store, cfg.Shift, cfg.App.Location)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       cfg.SlogLevel(),
	}, JWTService, hub, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(
			attendanceService.NewAttendanceService(store, directory),
			attendanceService.NewSessionService(session),
		),
		Employee:     appHTTP.NewEmployeeHandler(directory),
		Notification: appHTTP.NewNotificationHandler(hub, JWTService),
	})

	var jobOpts []cron.JobOption
	if rdb != nil {
		jobOpts = append(jobOpts, cron.WithDayLedger(cron.NewRedisLedger(rdb, cronLedgerPrefix)))
	}
	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(store, directory, sink, cfg.App.Location, jobOpts...).RegisterJobs(scheduler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server running", "port", cfg.App.Port, "env", cfg.App.Env,
			"attendance_backend", cfg.Attendance.Backend, "employee_directory", cfg.Attendance.EmployeeDirectory)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newEmployeeDirectory(cfg *config.Config, db *database.DB, rdb *redis.Client) employee.Directory {
	var directory employee.Directory
	switch cfg.Attendance.EmployeeDirectory {
	case config.DirectoryPostgres:
		directory = postgresql.NewEmployeeDirectory(db)
	default:
		directory = memory.NewEmployeeDirectory(memory.DemoEmployees)
	}

	if rdb != nil && cfg.Redis.EmployeeCacheTTL > 0 {
		directory = cache.NewEmployeeDirectory(directory, rdb, cfg.Redis.EmployeeCacheTTL)
	}
	return directory
}

func newAttendanceRepository(cfg *config.Config, db *database.DB, rdb *redis.Client) (attendance.Repository, error) {
	switch cfg.Attendance.Backend {
	case config.BackendPostgres:
		return postgresql.NewAttendanceRepository(db), nil
	case config.BackendRedis:
		return blob.NewAttendanceRepository(blob.NewRedisKV(rdb, cfg.Redis.AttendanceKey)), nil
	case config.BackendFile:
		fs, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return blob.NewAttendanceRepository(blob.NewFileKV(fs, blob.DefaultFilePath)), nil
	default:
		slog.Warn("Using in-memory attendance records seeded with demo data")
		return blob.NewAttendanceRepository(blob.NewMemoryKV(blob.DemoRecords())), nil
	}
}
