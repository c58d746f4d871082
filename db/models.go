/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/healthscore/analysis"
)

// AnalysisSummary is one row of the history list.
type AnalysisSummary struct {
	ID             uuid.UUID `db:"id"`
	Files          []string  `db:"files"`
	SourceCount    int       `db:"source_count"`
	BiomarkerCount int       `db:"biomarker_count"`
	TopCondition   string    `db:"top_condition"`
	TopPriority    string    `db:"top_priority"`
	CreatedAt      time.Time `db:"created_at"`
}

// Analysis is a stored analysis with its full report.
type Analysis struct {
	AnalysisSummary
	Report analysis.Report
}

// SaveAnalysisInput represents input for storing an analysis
type SaveAnalysisInput struct {
	Files  []string
	Report *analysis.Report
}

// BiomarkerPoint is one stored value of a biomarker, used for trend charts.
type BiomarkerPoint struct {
	AnalysisID     uuid.UUID               `db:"analysis_id"`
	Value          float64                 `db:"value"`
	Samples        int                     `db:"samples"`
	StatusCategory analysis.StatusCategory `db:"status_category"`
	RecordedAt     time.Time               `db:"created_at"`
}

// TrackedBiomarker is a biomarker with at least one stored reading.
type TrackedBiomarker struct {
	Key   string
	Name  string
	Unit  string
	Count int
}

// BiomarkerDefinitionRow mirrors a registry definition as synced to the
// database, including the derived optimal band.
type BiomarkerDefinitionRow struct {
	Key             string
	Name            string
	Unit            string
	AcceptableRange string
	AcceptableMin   float64
	AcceptableMax   float64
	HighThreshold   float64
	OptimalMin      float64
	OptimalMax      float64
}
