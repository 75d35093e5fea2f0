package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/naveenspark/uitam/cmd/uitam/internal/commands"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli commands.CLI
	cmd := kong.Parse(&cli,
		kong.Name("uitam"),
		kong.Description("Terminal client for the U-ITAM asset inventory."),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(cli.Globals(version))
	cmd.FatalIfErrorf(err)
}
