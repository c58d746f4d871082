/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/healthscore/cmd"
	"github.com/humaidq/healthscore/logging"
)

func main() {
	logger := logging.Logger(logging.SourceApp)

	app := &cli.Command{
		Name:  "healthscore",
		Usage: "Healthscore - lab report analysis",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdAnalyze,
			cmd.CmdMigrate,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
