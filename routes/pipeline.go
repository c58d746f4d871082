/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"fmt"
	"time"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/db"
	"github.com/humaidq/healthscore/ingest"
)

// Seams for tests.
var (
	persistenceEnabledFn = db.Enabled
	saveAnalysisFn       = db.SaveAnalysis
)

// Pipeline bundles what the upload handlers need. It is mapped into the
// flamego injector once at startup.
type Pipeline struct {
	Analyzer       *analysis.Analyzer
	Processor      *ingest.Processor
	MaxUploadBytes int64
}

// AnalysisResult is the JSON body of a successful analysis: the report
// fields at the top level plus per-file details.
type AnalysisResult struct {
	*analysis.Report
	AnalysisID     string          `json:"analysis_id,omitempty"`
	Timestamp      time.Time       `json:"analysis_timestamp"`
	FilesProcessed int             `json:"files_processed"`
	FileDetails    []ingest.Result `json:"file_details"`
	Collective     bool            `json:"collective_analysis"`
}

// Run processes the files, analyzes the merged readings and stores the
// result when persistence is enabled. Storage failures are logged and do
// not fail the analysis.
func (p *Pipeline) Run(ctx context.Context, files []ingest.File) (*AnalysisResult, error) {
	results, err := p.Processor.ProcessAll(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("failed to process uploads: %w", err)
	}

	report := p.Analyzer.Analyze(ingest.Readings(results)...)

	res := &AnalysisResult{
		Report:         report,
		Timestamp:      time.Now().UTC(),
		FilesProcessed: len(results),
		FileDetails:    results,
		Collective:     len(files) > 1,
	}

	logger.Info("Analysis complete",
		"files", len(files),
		"biomarkers", len(report.Biomarkers),
		"conditions", len(report.Conditions),
	)

	if !persistenceEnabledFn() {
		return res, nil
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}

	id, err := saveAnalysisFn(ctx, db.SaveAnalysisInput{Files: names, Report: report})
	if err != nil {
		logger.Error("Failed to save analysis", "error", err)
		return res, nil
	}

	res.AnalysisID = id.String()

	return res, nil
}
