package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"prlifecycle/internal/app/config"
	httpapi "prlifecycle/internal/app/http"
	"prlifecycle/internal/app/http/handler"
	"prlifecycle/internal/domain"
	"prlifecycle/internal/domain/directory"
	"prlifecycle/internal/domain/pr"
	"prlifecycle/internal/infrastructure/async"
	"prlifecycle/internal/infrastructure/db/pg"
	"prlifecycle/internal/infrastructure/logging"
	"prlifecycle/internal/infrastructure/memstore"
	"prlifecycle/migrations"
)

type backends struct {
	uow       domain.UnitOfWork
	store     pr.EventStore
	branches  directory.BranchRepository
	users     directory.UserRepository
	reviewers pr.ReviewerDirectory
	close     func()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var b backends
	switch cfg.EventStore {
	case config.StoreMemory:
		b = memoryBackends()
	default:
		b, err = postgresBackends(ctx, cfg, log)
		if err != nil {
			log.Fatal("postgres init error", zap.Error(err))
		}
	}
	defer b.close()
	log.Info("event store ready", zap.String("kind", cfg.EventStore))

	eventBus := async.NewAsyncEventBus(ctx, cfg.EventBusWorkers, log)
	defer eventBus.Close()

	prSvc := pr.NewService(b.uow, b.store, b.branches, b.reviewers, eventBus, log,
		pr.WithRetries(cfg.CommandRetries),
	)
	dirSvc := directory.NewService(b.uow, b.branches, b.users, eventBus)

	h := handler.New(prSvc, dirSvc, log)
	router := httpapi.NewRouter(h, log)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}

func memoryBackends() backends {
	users := memstore.NewUsers()
	return backends{
		uow:       memstore.NoTx{},
		store:     memstore.NewEventStore(),
		branches:  memstore.NewBranches(),
		users:     users,
		reviewers: users,
		close:     func() {},
	}
}

func postgresBackends(ctx context.Context, cfg config.Config, log *zap.Logger) (backends, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return backends{}, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return backends{}, err
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(zap.NewStdLog(log))
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return backends{}, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		db.Close()
		return backends{}, err
	}

	uow := pg.NewTxManager(db)
	users := pg.NewUserRepository(db)
	return backends{
		uow:       uow,
		store:     pg.NewEventStore(db, uow),
		branches:  pg.NewBranchRepository(db),
		users:     users,
		reviewers: users,
		close:     func() { db.Close() },
	}, nil
}
