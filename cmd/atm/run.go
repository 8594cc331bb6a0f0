package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run starts app and blocks until a signal arrives or the terminal session
// asks for shutdown. It returns the process exit code.
func run(ctx context.Context, app *fx.App) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start atm terminal: %v\n", err)
		return 1
	}

	code := 0
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		code = sig.ExitCode
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop atm terminal: %v\n", err)
		return 1
	}
	return code
}
