package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/atmterminal/internal/app"
	"github.com/polkiloo/atmterminal/internal/config"
	"github.com/polkiloo/atmterminal/internal/logger"
	"github.com/polkiloo/atmterminal/internal/pkg/auth"
	"github.com/polkiloo/atmterminal/internal/storage"
	"github.com/polkiloo/atmterminal/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		usecase.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
