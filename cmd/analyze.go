/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/ingest"
	"github.com/humaidq/healthscore/logging"
	"github.com/humaidq/healthscore/routes"
)

const (
	formatJSON = "json"
	formatText = "text"
)

var CmdAnalyze = &cli.Command{
	Name:      "analyze",
	Usage:     "Analyze lab report files and print the report",
	ArgsUsage: "<file>...",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Value: formatJSON,
			Usage: "output format: json or text",
		},
	}, pipelineFlags()...),
	Action: analyze,
}

func analyze(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the report only.
	logging.SetOutput(os.Stderr)

	format := cmd.String("format")
	if format != formatJSON && format != formatText {
		return fmt.Errorf("%w: %q", errInvalidFormat, format)
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return errNoInputFiles
	}

	files, err := readFiles(paths)
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, files)
	if err != nil {
		return err
	}

	return writeResult(os.Stdout, format, res)
}

func readFiles(paths []string) ([]ingest.File, error) {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}

	if err := ingest.CheckSelection(names); err != nil {
		return nil, err
	}

	files := make([]ingest.File, 0, len(paths))

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}

		f, err := ingest.NewFile(filepath.Base(p), data)
		if err != nil {
			return nil, err
		}

		files = append(files, f)
	}

	return files, nil
}

func writeResult(w io.Writer, format string, res *routes.AnalysisResult) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(res)
	}

	_, err := io.WriteString(w, formatReport(res))

	return err
}

// formatReport renders a plain text summary of an analysis.
func formatReport(res *routes.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyzed %d file(s)\n", res.FilesProcessed)

	for _, d := range res.FileDetails {
		fmt.Fprintf(&b, "  %s (%s): %d biomarker(s)\n", d.Filename, d.FileType, len(d.Biomarkers))

		for _, w := range d.Warnings {
			fmt.Fprintf(&b, "    warning: %s\n", w)
		}
	}

	b.WriteString("\nBiomarkers\n")

	if len(res.Biomarkers) == 0 {
		b.WriteString("  none found\n")
	}

	for _, m := range res.Biomarkers {
		fmt.Fprintf(&b, "  %s: %s %s [%s]", m.Name, formatNumber(m.Value), m.Unit, m.Status)

		if m.StatusCategory != analysis.CategoryUnknown {
			fmt.Fprintf(&b, " acceptable %s, optimal %s", m.AcceptableRange, m.OptimalRange)
		}

		b.WriteString("\n")
	}

	b.WriteString("\nPotential conditions\n")

	for _, c := range res.Conditions {
		fmt.Fprintf(&b, "  [%s] %s: %s\n", c.Priority, c.Name, c.Reasoning)
	}

	b.WriteString("\nSymptoms to watch\n")

	for _, s := range res.Symptoms {
		fmt.Fprintf(&b, "  - %s\n", s)
	}

	b.WriteString("\nRecommendations\n")
	writeBucket(&b, "Professional Consultation", res.Recommendations.ProfessionalConsultation)
	writeBucket(&b, "Dietary", res.Recommendations.Dietary)
	writeBucket(&b, "Lifestyle", res.Recommendations.Lifestyle)

	return b.String()
}

func writeBucket(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}

	fmt.Fprintf(b, "  %s\n", title)

	for _, item := range items {
		fmt.Fprintf(b, "    - %s\n", item)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
