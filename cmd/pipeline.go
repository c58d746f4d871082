/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/ingest"
	"github.com/humaidq/healthscore/registry"
	"github.com/humaidq/healthscore/routes"
)

const (
	ocrTesseract = "tesseract"
	ocrGemini    = "gemini"
	ocrNone      = "none"
)

// pipelineFlags returns the flags shared by every command that runs an
// analysis. A fresh slice is built per command since flags hold state.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "registry",
			Sources: cli.EnvVars("HEALTHSCORE_REGISTRY"),
			Usage:   "path to a YAML registry replacing the built-in one",
		},
		&cli.StringFlag{
			Name:  "ocr",
			Value: ocrTesseract,
			Usage: "image OCR backend: tesseract, gemini or none",
		},
		&cli.StringFlag{
			Name:  "tesseract-path",
			Value: "tesseract",
			Usage: "tesseract binary name or path",
		},
		&cli.StringFlag{
			Name:    "gemini-api-key",
			Sources: cli.EnvVars("GEMINI_API_KEY"),
			Usage:   "Gemini API key, required with --ocr gemini",
		},
		&cli.StringFlag{
			Name:  "gemini-model",
			Value: ingest.DefaultGeminiModel,
			Usage: "Gemini model used for OCR",
		},
		&cli.StringFlag{
			Name:    "unidoc-license-key",
			Sources: cli.EnvVars("UNIDOC_LICENSE_API_KEY"),
			Usage:   "unidoc metered license key for PDF extraction",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Value: ingest.DefaultConcurrency,
			Usage: "number of files processed at once",
		},
		&cli.IntFlag{
			Name:  "max-upload-mb",
			Value: 10,
			Usage: "maximum upload request size in megabytes",
		},
	}
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default()
	}

	reg, err := registry.LoadFile(path)
	if err != nil {
		return nil, err
	}

	appLogger.Info("Loaded registry", "path", path, "biomarkers", len(reg.Biomarkers()), "rules", len(reg.Rules()))

	return reg, nil
}

func newRecognizer(ctx context.Context, cmd *cli.Command) (ingest.Recognizer, error) {
	switch backend := cmd.String("ocr"); backend {
	case ocrTesseract:
		return ingest.NewTesseract(cmd.String("tesseract-path")), nil
	case ocrGemini:
		g, err := ingest.NewGemini(ctx, cmd.String("gemini-api-key"), cmd.String("gemini-model"))
		if err != nil {
			return nil, err
		}

		return g, nil
	case ocrNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", errInvalidOCRBackend, backend)
	}
}

// newPipeline builds the registry, analyzer, OCR backend and processor from
// the command's flags.
func newPipeline(ctx context.Context, cmd *cli.Command) (*routes.Pipeline, error) {
	reg, err := loadRegistry(cmd.String("registry"))
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	if err := ingest.SetPDFLicense(cmd.String("unidoc-license-key")); err != nil {
		return nil, err
	}

	ocr, err := newRecognizer(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to configure OCR: %w", err)
	}

	if ocr != nil {
		appLogger.Info("OCR enabled", "backend", ocr.Name())
	} else {
		appLogger.Warn("OCR disabled, images will not be analyzed")
	}

	analyzer := analysis.NewAnalyzer(reg)

	return &routes.Pipeline{
		Analyzer:       analyzer,
		Processor:      ingest.NewProcessor(analyzer, ocr, int(cmd.Int("concurrency"))),
		MaxUploadBytes: int64(cmd.Int("max-upload-mb")) << 20,
	}, nil
}
