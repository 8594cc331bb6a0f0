// Package storage selects the repository backend for the application.
package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/atmterminal/internal/config"
	"github.com/polkiloo/atmterminal/internal/domain/repository"
	"github.com/polkiloo/atmterminal/internal/storage/memory"
	"github.com/polkiloo/atmterminal/internal/storage/postgres"
)

// Backend is a repository factory owning releasable resources.
type Backend interface {
	repository.Factory
	Close()
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

var openPostgres = func(ctx context.Context, dsn string, logger *slog.Logger) (Backend, error) {
	return postgres.New(ctx, dsn, logger)
}

// Module wires the storage backend and repository adapters.
var Module = fx.Options(
	fx.Provide(newBackend),
	fx.Provide(
		func(b Backend) repository.Factory { return b },
		func(b Backend) repository.UserRepository { return b.Users() },
		func(b Backend) repository.AccountRepository { return b.Accounts() },
		func(b Backend) repository.TransactionRepository { return b.Transactions() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newBackend(p storageParams) (Backend, error) {
	if p.Config.UsesMemoryStorage() {
		p.Logger.Warn("database uri is empty, data lives in memory only")
		return memory.New(), nil
	}
	return openPostgres(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, backend Backend, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			hc, ok := backend.(healthChecker)
			if !ok {
				return nil
			}
			if err := hc.HealthCheck(ctx); err != nil {
				logger.ErrorContext(ctx, "storage health check failed", slog.Any("error", err))
				return err
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			backend.Close()
			return nil
		},
	})
}
