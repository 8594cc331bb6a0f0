package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
)

func TestRunReturnsShutdownExitCode(t *testing.T) {
	app := fx.New(
		fx.NopLogger,
		fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner) {
			lc.Append(fx.Hook{OnStart: func(context.Context) error {
				go func() { _ = sd.Shutdown(fx.ExitCode(3)) }()
				return nil
			}})
		}),
	)

	assert.Equal(t, 3, run(context.Background(), app))
}

func TestRunStopsWhenContextIsDone(t *testing.T) {
	stopped := false
	app := fx.New(
		fx.NopLogger,
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{OnStop: func(context.Context) error {
				stopped = true
				return nil
			}})
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.Equal(t, 0, run(ctx, app))
	assert.True(t, stopped)
}

func TestRunReportsStartFailure(t *testing.T) {
	app := fx.New(
		fx.NopLogger,
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{OnStart: func(context.Context) error {
				return errors.New("boom")
			}})
		}),
	)

	assert.Equal(t, 1, run(context.Background(), app))
}
