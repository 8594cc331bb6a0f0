package terminal

import (
	"log/slog"
	"os"

	"go.uber.org/fx"
)

// Module provides the console session bound to the process standard streams.
var Module = fx.Provide(newConsoleSession)

type sessionParams struct {
	fx.In

	Facade Facade
	Logger *slog.Logger
}

func newConsoleSession(p sessionParams) *Session {
	return New(p.Facade, os.Stdin, os.Stdout, p.Logger)
}
