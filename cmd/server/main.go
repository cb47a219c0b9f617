package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/gymcore/gym-api/internal/api"
	"github.com/gymcore/gym-api/internal/api/handler"
	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/service"
	mongodb "github.com/gymcore/gym-api/internal/infrastructure/db/mongo"
	"github.com/gymcore/gym-api/internal/infrastructure/db/postgres"
	redisdb "github.com/gymcore/gym-api/internal/infrastructure/db/redis"
	"github.com/gymcore/gym-api/internal/infrastructure/queue"
	"github.com/gymcore/gym-api/internal/pkg/config"
	"github.com/gymcore/gym-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Postgres ---
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
	}, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := postgres.Migrate(db); err != nil {
		return err
	}

	// --- MongoDB ---
	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	events := mongodb.NewAccessEventRepository(mongoDB)
	if err := events.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Attendance recorder ---
	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	recorder := queue.NewRecorder(cfg.Access.RecorderWorkers, events, log.With().Str("component", "recorder").Logger())
	recorder.Start(recorderCtx)
	defer func() {
		stopRecorder()
		recorder.Wait()
	}()

	// --- Repositories ---
	users := postgres.NewUserRepository(db)
	centers := postgres.NewCenterRepository(db)

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	var accessOpts []service.AccessOption
	if cfg.Access.SingleUseQR {
		accessOpts = append(accessOpts, service.WithReplayGuard(redisdb.NewReplayGuard(rdb)))
	}

	svc := api.Services{
		Tokens:  tokens,
		Auth:    service.NewAuthService(users, centers, tokens, log),
		Users:   service.NewUserService(users, centers, log),
		Centers: service.NewCenterService(centers, log),
		Access:  service.NewAccessService(users, centers, events, recorder, log, accessOpts...),

		Classes: service.NewCatalogService[domain.Class, *domain.Class](
			postgres.NewCatalogRepository[domain.Class, *domain.Class](db), centers, service.ClassPolicy(), log),
		Machines: service.NewCatalogService[domain.Machine, *domain.Machine](
			postgres.NewCatalogRepository[domain.Machine, *domain.Machine](db), centers, service.MachinePolicy(), log),
		Tickets: service.NewCatalogService[domain.Ticket, *domain.Ticket](
			postgres.NewCatalogRepository[domain.Ticket, *domain.Ticket](db), centers, service.TicketPolicy(), log),
		Memberships: service.NewCatalogService[domain.Membership, *domain.Membership](
			postgres.NewCatalogRepository[domain.Membership, *domain.Membership](db), centers, service.MembershipPolicy(), log),

		Workouts: service.NewPlanService[domain.Workout, *domain.Workout](
			postgres.NewPlanRepository[domain.Workout, *domain.Workout](db, "Exercises"), users, "workout", log),
		Diets: service.NewPlanService[domain.Diet, *domain.Diet](
			postgres.NewPlanRepository[domain.Diet, *domain.Diet](db, "Meals"), users, "diet", log),

		Readiness: map[string]handler.Check{
			"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
			"mongodb":  func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	}

	e := api.NewRouter(svc, api.Options{
		CORSOrigins:    cfg.CORSAllowedOrigins,
		LoginRateLimit: cfg.Login.RateLimit,
		SecureCookie:   !cfg.IsDevelopment(),
	}, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("http server stopped")
	return nil
}
