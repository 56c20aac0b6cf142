package main

import (
	"context"
	"os"

	"github.com/yndnr/brainscan-go/internal/cli/command"
	"github.com/yndnr/brainscan-go/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	args := os.Args
	if len(args) == 1 {
		args = append(args, "shell")
	}

	app := command.App()
	if err := app.RunContext(ctx, args); err != nil {
		command.HandleError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
