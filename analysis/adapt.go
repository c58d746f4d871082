/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"strings"

	"github.com/humaidq/healthscore/registry"
)

var nameReplacer = strings.NewReplacer(" ", "_", "-", "_")

// NormalizeName lowercases a column name and turns spaces and hyphens into
// underscores.
func NormalizeName(name string) string {
	return nameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// AdaptRows maps tabular rows to canonical keys through the registry alias
// table. Names without an alias are kept in normalized form so they surface
// as unknown biomarkers. When two rows resolve to the same key, the later
// value wins but keeps the position of the first.
func AdaptRows(reg *registry.Registry, source string, rows []Row) []Reading {
	readings := make([]Reading, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		name := NormalizeName(row.Name)
		if name == "" {
			continue
		}

		key := name
		if canonical, ok := reg.Alias(name); ok {
			key = canonical
		}

		if i, seen := index[key]; seen {
			readings[i].Value = row.Value

			continue
		}

		index[key] = len(readings)
		readings = append(readings, Reading{Key: key, Value: row.Value, Source: source})
	}

	return readings
}
