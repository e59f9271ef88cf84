package integration_test

import (
	"io"
	"log/slog"

	"github.com/cinetick/booking-api/internal/app"
	"github.com/cinetick/booking-api/internal/booking"
	"github.com/cinetick/booking-api/internal/mailer"
	"github.com/cinetick/booking-api/internal/repository"
	appvalidator "github.com/cinetick/booking-api/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App    *app.Application
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Engine *booking.Engine
	Mailer *mailer.MockMailer
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := appvalidator.NewValidator()
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	catalogRepo := repository.NewPostgresCatalogRepository(db)
	ledgerRepo := repository.NewPostgresLedgerRepository(db)
	auditRepo := repository.NewPostgresAuditRepository(db)

	engine := booking.NewEngine(catalogRepo, ledgerRepo, mockMailer, logger)

	application, err := app.NewApp(cfg, logger, db, redisClient, validator, mockMailer,
		catalogRepo, ledgerRepo, auditRepo, engine)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	return &TestApp{
		App:    application,
		DB:     db,
		Redis:  redisClient,
		Engine: engine,
		Mailer: mockMailer,
	}, nil
}
