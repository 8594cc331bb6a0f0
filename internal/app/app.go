package app

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/atmterminal/internal/config"
	"github.com/polkiloo/atmterminal/internal/terminal"
)

// Module wires application services, the console session, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewATMFacade,
		func(f *ATMFacade) terminal.Facade { return f },
	),
	terminal.Module,
	fx.Invoke(registerLifecycle),
)

// Runner is a long-running foreground component such as the console session.
type Runner interface {
	Run(ctx context.Context) error
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Config     *config.Config
	Facade     *ATMFacade
	Session    *terminal.Session
}

func registerLifecycle(p lifecycleParams) {
	register(p.Lifecycle, p.Shutdowner, p.Logger, p.Config, p.Facade, p.Session)
}

func register(lc fx.Lifecycle, shutdowner fx.Shutdowner, logger *slog.Logger, cfg *config.Config, facade *ATMFacade, session Runner) {
	var (
		cancel context.CancelFunc = func() {}
		done                      = make(chan struct{})
	)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Admin.Enabled() {
				admin, err := facade.ProvisionAdministrator(ctx, cfg.Admin.Login, cfg.Admin.Pin, cfg.Admin.Name)
				if err != nil {
					logger.ErrorContext(ctx, "administrator provisioning failed", slog.String("login", cfg.Admin.Login), slog.Any("error", err))
					return err
				}
				logger.InfoContext(ctx, "administrator ready", slog.String("login", admin.Login))
			}

			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			logger.Info("starting atm terminal", slog.Bool("memory_storage", cfg.UsesMemoryStorage()))
			go func() {
				defer close(done)
				if err := session.Run(runCtx); err != nil {
					logger.Error("terminal session terminated", slog.String("error", err.Error()))
				}
				// The user left the terminal; stopping was not requested from outside.
				if runCtx.Err() == nil {
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			shutdownCtx := ctx
			stop := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, stop = context.WithTimeout(ctx, cfg.ShutdownTimeout)
			}
			defer stop()

			select {
			case <-done:
			case <-shutdownCtx.Done():
				logger.Warn("terminal session did not finish before shutdown timeout")
			}
			logger.Info("atm terminal stopped")
			return nil
		},
	})
}
