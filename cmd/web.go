/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/healthscore/db"
	"github.com/humaidq/healthscore/routes"
	"github.com/humaidq/healthscore/static"
	"github.com/humaidq/healthscore/templates"
)

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "port",
			Value: "8080",
			Usage: "the web server port",
		},
		&cli.StringFlag{
			Name:    "database-url",
			Sources: cli.EnvVars("DATABASE_URL"),
			Usage:   "PostgreSQL connection string; history is disabled when empty",
		},
		&cli.StringFlag{
			Name:    "csrf-secret",
			Sources: cli.EnvVars("CSRF_SECRET"),
			Usage:   "secret used to sign CSRF tokens",
		},
		&cli.BoolFlag{
			Name:  "dev",
			Value: false,
			Usage: "enables development mode (templates are read from disk)",
		},
	}, pipelineFlags()...),
	Action: start,
}

type serverOptions struct {
	csrfSecret string
	dev        bool
}

func start(ctx context.Context, cmd *cli.Command) error {
	pipeline, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}

	if databaseURL := cmd.String("database-url"); databaseURL != "" {
		appLogger.Info("Connecting to database")

		if err := db.Init(ctx, databaseURL); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		appLogger.Info("Syncing database schema")

		if err := db.SyncSchema(ctx, pipeline.Analyzer.Registry()); err != nil {
			return fmt.Errorf("failed to sync schema: %w", err)
		}

		appLogger.Info("Database schema synced successfully")
	} else {
		appLogger.Warn("No database configured, analyses will not be stored")
	}

	secret, err := csrfSecret(cmd.String("csrf-secret"), cmd.Bool("dev"))
	if err != nil {
		return err
	}

	f, err := newServer(pipeline, serverOptions{csrfSecret: secret, dev: cmd.Bool("dev")})
	if err != nil {
		return err
	}

	port := cmd.String("port")

	appLogger.Info("Starting web server", "port", port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", port),
		Handler:      f,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		ErrorLog:     requestStdLogger,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	appLogger.Info("Shutting down web server")

	return srv.Shutdown(shutdownCtx)
}

// csrfSecret returns the configured secret. Development mode falls back to
// a random secret, which invalidates tokens on restart.
func csrfSecret(secret string, dev bool) (string, error) {
	if secret != "" {
		return secret, nil
	}

	if !dev {
		return "", errCSRFSecretRequired
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate CSRF secret: %w", err)
	}

	appLogger.Warn("Using a random CSRF secret for development")

	return hex.EncodeToString(buf), nil
}

// newServer wires middleware and routes around the pipeline.
func newServer(p *routes.Pipeline, opts serverOptions) (*flamego.Flame, error) {
	f := flamego.New()

	f.Use(routes.Recoverer())
	f.Use(routes.RequestLogger)

	templateOpts := template.Options{
		FuncMaps: routes.TemplateFuncs(),
	}

	if opts.dev {
		templateOpts.Directory = "templates"
	} else {
		fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
		if err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}

		templateOpts.FileSystem = fs
	}

	f.Use(session.Sessioner())
	f.Use(csrf.Csrfer(csrf.Options{Secret: opts.csrfSecret}))
	f.Use(template.Templater(templateOpts))
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
	}))
	f.Use(routes.NoCacheHeaders())
	f.Use(routes.CSRFInjector())
	f.Use(routes.FlashInjector())

	f.Map(p)

	limit := routes.LimitUploadSize(p.MaxUploadBytes)

	// JSON API
	f.Post("/analyze", limit, routes.Analyze)
	f.Get("/healthz", routes.Healthz)

	// HTML form flow
	f.Get("/", routes.Index)
	f.Post("/report", limit, routes.ParseReportUpload, csrf.Validate, routes.Report)

	f.Group("", func() {
		f.Get("/history", routes.History)
		f.Get("/history/{id}", routes.ViewHistory)
		f.Post("/history/{id}/delete", csrf.Validate, routes.DeleteHistory)
		f.Get("/biomarker/{key}", routes.BiomarkerTrend)
	}, routes.RequireHistory)

	f.NotFound(routes.NotFound)

	return f, nil
}
