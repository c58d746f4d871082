/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/humaidq/healthscore/analysis"
)

// DefaultHistoryLimit caps the history list when no limit is given.
const DefaultHistoryLimit = 50

// headline returns the first condition of a report, which is the most
// urgent since conditions are sorted by priority.
func headline(report *analysis.Report) (name, priority string) {
	if len(report.Conditions) == 0 {
		return "", ""
	}

	top := report.Conditions[0]

	return top.Name, top.Priority.String()
}

// SaveAnalysis stores a report and its merged readings in one transaction.
func SaveAnalysis(ctx context.Context, input SaveAnalysisInput) (uuid.UUID, error) {
	if pool == nil {
		return uuid.Nil, ErrDatabaseConnectionNotInitialized
	}

	if input.Report == nil {
		return uuid.Nil, ErrNilReport
	}

	reportJSON, err := json.Marshal(input.Report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode report: %w", err)
	}

	files := input.Files
	if files == nil {
		files = []string{}
	}

	topCondition, topPriority := headline(input.Report)
	id := uuid.New()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to start analysis transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("Failed to rollback analysis insert", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, `
		INSERT INTO analyses (id, files, source_count, biomarker_count, top_condition, top_priority, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, files, input.Report.SourceCount, len(input.Report.Biomarkers), topCondition, topPriority, reportJSON); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert analysis: %w", err)
	}

	batch := &pgx.Batch{}
	for _, b := range input.Report.Biomarkers {
		batch.Queue(`
			INSERT INTO analysis_readings (analysis_id, biomarker_key, value, samples, status_category)
			VALUES ($1, $2, $3, $4, $5)
		`, id, b.Key, b.Value, max(b.Samples, 1), string(b.StatusCategory))
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert analysis readings: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit analysis transaction: %w", err)
	}

	logger.Info("Saved analysis", "id", id, "biomarkers", len(input.Report.Biomarkers), "files", len(files))

	return id, nil
}

// GetAnalysis returns a stored analysis by ID.
func GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var (
		a          Analysis
		reportJSON []byte
	)

	err := pool.QueryRow(ctx, `
		SELECT id, files, source_count, biomarker_count, top_condition, top_priority, created_at, report
		FROM analyses
		WHERE id = $1
	`, id).Scan(
		&a.ID, &a.Files, &a.SourceCount, &a.BiomarkerCount,
		&a.TopCondition, &a.TopPriority, &a.CreatedAt, &reportJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnalysisNotFound
		}

		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(reportJSON, &a.Report); err != nil {
		return nil, fmt.Errorf("failed to decode stored report: %w", err)
	}

	return &a, nil
}

// ListAnalyses returns the newest analyses first.
func ListAnalyses(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := pool.Query(ctx, `
		SELECT id, files, source_count, biomarker_count, top_condition, top_priority, created_at
		FROM analyses
		ORDER BY created_at DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	summaries, err := pgx.CollectRows(rows, pgx.RowToStructByName[AnalysisSummary])
	if err != nil {
		return nil, fmt.Errorf("failed to scan analyses: %w", err)
	}

	return summaries, nil
}

// DeleteAnalysis removes an analysis and, by cascade, its readings.
func DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	command, err := pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	if command.RowsAffected() == 0 {
		return ErrAnalysisNotFound
	}

	return nil
}

// GetBiomarkerHistory returns every stored value of a biomarker, oldest
// first.
func GetBiomarkerHistory(ctx context.Context, key string) ([]BiomarkerPoint, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT r.analysis_id, r.value, r.samples, r.status_category, a.created_at
		FROM analysis_readings r
		INNER JOIN analyses a ON a.id = r.analysis_id
		WHERE r.biomarker_key = $1
		ORDER BY a.created_at ASC, a.id
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get biomarker history: %w", err)
	}

	points, err := pgx.CollectRows(rows, pgx.RowToStructByName[BiomarkerPoint])
	if err != nil {
		return nil, fmt.Errorf("failed to scan biomarker history: %w", err)
	}

	return points, nil
}
