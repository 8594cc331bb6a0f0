package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/polkiloo/atmterminal/internal/di"
	"github.com/polkiloo/atmterminal/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := fx.New(
		fx.Provide(func() context.Context { return ctx }),
		fx.WithLogger(logger.NewEventLogger),
		di.Module(),
	)

	code := run(ctx, app)
	stop()
	os.Exit(code)
}
