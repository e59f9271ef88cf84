package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinetick/booking-api/internal/booking"
	"github.com/cinetick/booking-api/internal/domain"
	"github.com/cinetick/booking-api/internal/mailer"
	"github.com/cinetick/booking-api/internal/repository"
	appvalidator "github.com/cinetick/booking-api/internal/validator"
	"github.com/cinetick/booking-api/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-co-op/gocron/v2"
	"github.com/go-playground/validator/v10"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate
	mailer    mailer.Mailer
	scheduler gocron.Scheduler

	catalogRepo domain.CatalogRepository
	ledgerRepo  domain.LedgerRepository
	auditRepo   domain.AuditRepository

	engine domain.ReservationEngine
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	SMTP             SMTPConfig
	Sweep            SweepConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
	LockTimeout  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type SweepConfig struct {
	Interval       time.Duration
	PendingTimeout time.Duration
	AuditInterval  time.Duration
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")
	flag.DurationVar(&cfg.DB.LockTimeout, "db-lock-timeout", 3*time.Second, "PostgreSQL lock wait timeout")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "CineTick <no-reply@cinetick.dev>", "SMTP sender")

	flag.DurationVar(&cfg.Sweep.Interval, "sweep-interval", time.Minute, "How often to sweep abandoned pending bookings")
	flag.DurationVar(&cfg.Sweep.PendingTimeout, "sweep-pending-timeout", 15*time.Minute, "Age after which a pending booking counts as abandoned")
	flag.DurationVar(&cfg.Sweep.AuditInterval, "audit-interval", time.Hour, "How often to run the consistency audit")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	app, err := New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.serve()
}

// New wires the application from its configuration. Callers own the returned
// Application and must Close it.
func New(cfg Config) (*Application, error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	catalogRepo := repository.NewPostgresCatalogRepository(db)
	ledgerRepo := repository.NewPostgresLedgerRepository(db)
	auditRepo := repository.NewPostgresAuditRepository(db)

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)

	engine := booking.NewEngine(catalogRepo, ledgerRepo, smtpMailer, logger)

	return NewApp(cfg, logger, db, redisClient, appvalidator.NewValidator(), smtpMailer,
		catalogRepo, ledgerRepo, auditRepo, engine)
}

// NewApp assembles an Application from pre-built dependencies.
func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validate *validator.Validate,
	appMailer mailer.Mailer,
	catalogRepo domain.CatalogRepository,
	ledgerRepo domain.LedgerRepository,
	auditRepo domain.AuditRepository,
	engine *booking.Engine) (*Application, error) {

	app := &Application{
		config:      cfg,
		logger:      logger,
		db:          db,
		redis:       redisClient,
		validator:   validate,
		mailer:      appMailer,
		catalogRepo: catalogRepo,
		ledgerRepo:  ledgerRepo,
		auditRepo:   auditRepo,
		engine:      engine,
	}

	scheduler, err := app.newScheduler(engine)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.scheduler = scheduler

	return app, nil
}

func (app *Application) Close() {
	if app.scheduler != nil {
		if err := app.scheduler.Shutdown(); err != nil {
			app.logger.Error("failed to shut down scheduler", "error", err)
		}
	}
	if app.redis != nil {
		app.redis.Close()
	}
	if app.db != nil {
		app.db.Close()
	}
}

// newScheduler registers the background jobs: the reconciliation sweep for
// abandoned pending bookings and the periodic consistency audit.
func (app *Application) newScheduler(engine *booking.Engine) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(app.config.Sweep.Interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			_, err := engine.SweepAbandoned(ctx, app.config.Sweep.PendingTimeout)
			if err != nil {
				app.logger.Error("sweep of abandoned bookings failed", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(app.config.Sweep.AuditInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			app.runScheduledAudit(ctx)
		}),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	// Ticket prices are numeric columns scanned into decimal.Decimal.
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	// Seat contention must fail in bounded time rather than queue behind a
	// long-lived lock.
	config.ConnConfig.RuntimeParams["lock_timeout"] = fmt.Sprintf("%d", cfg.DB.LockTimeout.Milliseconds())

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	app.scheduler.Start()

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
