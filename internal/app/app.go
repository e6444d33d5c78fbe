package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"family-dues-go/internal/auth"
	"family-dues-go/internal/config"
	"family-dues-go/internal/db"
	actionlogdomain "family-dues-go/internal/domain/actionlog"
	authdomain "family-dues-go/internal/domain/auth"
	"family-dues-go/internal/domain/billing"
	cuotadomain "family-dues-go/internal/domain/cuota"
	familydomain "family-dues-go/internal/domain/family"
	folderdomain "family-dues-go/internal/domain/folder"
	paymentdomain "family-dues-go/internal/domain/payment"
	persondomain "family-dues-go/internal/domain/person"
	ramadomain "family-dues-go/internal/domain/rama"
	statsdomain "family-dues-go/internal/domain/stats"
	transactiondomain "family-dues-go/internal/domain/transaction"
	userdomain "family-dues-go/internal/domain/user"
	"family-dues-go/internal/repository/inmemory"
	actionlogrepo "family-dues-go/internal/repository/postgres/actionlog"
	cuotarepo "family-dues-go/internal/repository/postgres/cuota"
	familyrepo "family-dues-go/internal/repository/postgres/family"
	folderrepo "family-dues-go/internal/repository/postgres/folder"
	paymentrepo "family-dues-go/internal/repository/postgres/payment"
	personrepo "family-dues-go/internal/repository/postgres/person"
	ramarepo "family-dues-go/internal/repository/postgres/rama"
	transactionrepo "family-dues-go/internal/repository/postgres/transaction"
	userrepo "family-dues-go/internal/repository/postgres/user"
	redisrepo "family-dues-go/internal/repository/redis"
	"family-dues-go/internal/scheduler"
	"family-dues-go/internal/storage"
	"family-dues-go/internal/transport/httpserver"
	"family-dues-go/internal/transport/httpserver/handler"
	"family-dues-go/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	bootTimeout       = 15 * time.Second
	schedulerDrainMax = 30 * time.Second
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
	monthly    *scheduler.Scheduler
	log        logger.Logger
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, log); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return Build(cfg, dbConn, log)
}

// Build wires repositories, services, the monthly trigger and the HTTP server
// on top of an open, migrated database. The returned App owns dbConn.
func Build(cfg config.Config, dbConn *gorm.DB, log logger.Logger) (*App, error) {
	loc := cfg.Location()
	ctx, cancel := context.WithTimeout(context.Background(), bootTimeout)
	defer cancel()

	a := &App{cfg: cfg, db: dbConn, log: log}

	log.Info("app: initializing report cache")
	cache, err := a.newStatsCache(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	reports := statsdomain.NewInvalidator(cache)

	log.Info("app: initializing object storage")
	files, err := newStorage(ctx, cfg.Storage, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	passwords := auth.NewPasswordHasher(cfg.Auth.PasswordSalt)

	actionLogs := actionlogdomain.NewService(actionlogrepo.NewPostgres(dbConn), log)
	ramas := ramadomain.NewService(ramarepo.NewPostgres(dbConn))
	cuotas := cuotadomain.NewService(cuotarepo.NewPostgres(dbConn), actionLogs, reports)
	families := familydomain.NewService(familyrepo.NewPostgres(dbConn), actionLogs, reports)
	transactions := transactiondomain.NewService(transactionrepo.NewPostgres(dbConn), actionLogs, reports)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn), passwords, actionLogs)
	persons := persondomain.NewService(personrepo.NewPostgres(dbConn))
	payments := paymentdomain.NewService(paymentrepo.NewPostgres(dbConn), families, transactions, actionLogs, reports, log)
	folders := folderdomain.NewService(folderrepo.NewPostgres(dbConn), users, files, actionLogs, log)
	stats := statsdomain.NewService(ramas, cuotas, families, transactions, cache, log, loc)
	updater := billing.NewService(cuotas, families, actionLogs, reports, log, loc)
	login := authdomain.NewService(users, tokens, passwords, log)

	monthly, err := scheduler.New(updater, cfg.Monthly.Schedule, loc, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.monthly = monthly
	if cfg.Monthly.AutoStart {
		monthly.Start()
	}

	log.Info("app: initializing router")
	handlers := handler.New(handler.Services{
		Auth:         login,
		Ramas:        ramas,
		Families:     families,
		Users:        users,
		Persons:      persons,
		Cuotas:       cuotas,
		Transactions: transactions,
		Payments:     payments,
		ActionLogs:   actionLogs,
		Folders:      folders,
		Stats:        stats,
		Monthly:      monthly,
	}, loc, log)
	router := httpserver.NewRouter(cfg, handlers, tokens, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router, log)
	return a, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// Location is the timezone billing periods and reports are computed in.
func (a *App) Location() *time.Location {
	return a.cfg.Location()
}

// Close stops the monthly trigger, waiting a bounded time for a run in
// flight, and releases the cache and database connections.
func (a *App) Close() error {
	var errs []error

	if a.monthly != nil {
		_, done := a.monthly.Stop()
		select {
		case <-done.Done():
		case <-time.After(schedulerDrainMax):
			a.log.Warn("app: monthly update still running at shutdown")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) newStatsCache(ctx context.Context) (statsdomain.Cache, error) {
	if a.cfg.Stats.RedisAddr == "" {
		a.log.Info("app: REDIS_ADDR not set, using in-memory report cache")
		return inmemory.NewStatsCache(a.cfg.Stats.CacheTTL), nil
	}

	client := goredis.NewClient(&goredis.Options{Addr: a.cfg.Stats.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	a.redis = client
	return redisrepo.NewStatsCache(client, a.cfg.Stats.CacheTTL, a.log), nil
}

func newStorage(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (folderdomain.Storage, error) {
	if !cfg.Enabled() {
		log.Warn("app: S3_BUCKET not set, folder files are kept in memory")
		return storage.NewMemory("memory://family-dues"), nil
	}

	s3, err := storage.NewS3(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3, nil
}
