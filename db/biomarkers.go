/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/registry"
)

// BiomarkerDefinitionRows converts registry definitions into the rows
// stored by SyncBiomarkerDefinitions.
func BiomarkerDefinitionRows(reg *registry.Registry) []BiomarkerDefinitionRow {
	defs := reg.Biomarkers()
	rows := make([]BiomarkerDefinitionRow, 0, len(defs))

	for _, def := range defs {
		lo, hi := analysis.OptimalRange(def)
		rows = append(rows, BiomarkerDefinitionRow{
			Key:             def.Key,
			Name:            def.DisplayName(),
			Unit:            def.Unit,
			AcceptableRange: def.AcceptableDisplay(),
			AcceptableMin:   def.AcceptableMin,
			AcceptableMax:   def.AcceptableMax,
			HighThreshold:   def.HighThreshold,
			OptimalMin:      lo,
			OptimalMax:      hi,
		})
	}

	return rows
}

// SyncBiomarkerDefinitions upserts the registry's biomarkers so stored
// readings can be joined against their current definition.
func SyncBiomarkerDefinitions(ctx context.Context, reg *registry.Registry) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	rows := BiomarkerDefinitionRows(reg)
	logger.Infof("Syncing %d biomarker definitions to database...", len(rows))

	query := `
		INSERT INTO biomarker_definitions (
			key, name, unit, acceptable_range, acceptable_min, acceptable_max,
			high_threshold, optimal_min, optimal_max
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (key)
		DO UPDATE SET
			name = EXCLUDED.name,
			unit = EXCLUDED.unit,
			acceptable_range = EXCLUDED.acceptable_range,
			acceptable_min = EXCLUDED.acceptable_min,
			acceptable_max = EXCLUDED.acceptable_max,
			high_threshold = EXCLUDED.high_threshold,
			optimal_min = EXCLUDED.optimal_min,
			optimal_max = EXCLUDED.optimal_max,
			updated_at = now()
	`

	for _, row := range rows {
		_, err := pool.Exec(ctx, query,
			row.Key, row.Name, row.Unit, row.AcceptableRange,
			row.AcceptableMin, row.AcceptableMax, row.HighThreshold,
			row.OptimalMin, row.OptimalMax,
		)
		if err != nil {
			return fmt.Errorf("failed to sync biomarker definition %s: %w", row.Key, err)
		}
	}

	logger.Infof("Successfully synced %d biomarker definitions", len(rows))

	return nil
}

// GetBiomarkerDefinition returns the synced definition of a biomarker, or
// nil when the key has never been synced.
func GetBiomarkerDefinition(ctx context.Context, key string) (*BiomarkerDefinitionRow, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var row BiomarkerDefinitionRow

	err := pool.QueryRow(ctx, `
		SELECT key, name, unit, acceptable_range, acceptable_min, acceptable_max,
		       high_threshold, optimal_min, optimal_max
		FROM biomarker_definitions
		WHERE key = $1
	`, key).Scan(
		&row.Key, &row.Name, &row.Unit, &row.AcceptableRange,
		&row.AcceptableMin, &row.AcceptableMax, &row.HighThreshold,
		&row.OptimalMin, &row.OptimalMax,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get biomarker definition: %w", err)
	}

	return &row, nil
}

// ListTrackedBiomarkers returns biomarkers with stored readings and how
// many analyses include them. Keys outside the registry are listed with
// their title-cased key as name.
func ListTrackedBiomarkers(ctx context.Context) ([]TrackedBiomarker, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT r.biomarker_key, COALESCE(d.name, ''), COALESCE(d.unit, ''), COUNT(*)
		FROM analysis_readings r
		LEFT JOIN biomarker_definitions d ON d.key = r.biomarker_key
		GROUP BY r.biomarker_key, d.name, d.unit
		ORDER BY r.biomarker_key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked biomarkers: %w", err)
	}
	defer rows.Close()

	var tracked []TrackedBiomarker

	for rows.Next() {
		var t TrackedBiomarker
		if err := rows.Scan(&t.Key, &t.Name, &t.Unit, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tracked biomarker: %w", err)
		}

		if t.Name == "" {
			t.Name = registry.TitleKey(t.Key)
		}

		tracked = append(tracked, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked biomarkers: %w", err)
	}

	return tracked, nil
}
