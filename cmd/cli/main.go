package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/artbook/internal/buildinfo"
	"github.com/dmitrijs2005/artbook/internal/client/cli"
	"github.com/dmitrijs2005/artbook/internal/client/config"
	"github.com/dmitrijs2005/artbook/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
