// SPDX-FileCopyrightText: 2026 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"math"
	"slices"
	"testing"

	"github.com/humaidq/healthscore/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("registry.Default failed: %v", err)
	}

	return reg
}

func mergedOf(readings ...Reading) *Merged {
	return Merge(readings)
}

func r(key string, value float64) Reading {
	return Reading{Key: key, Value: value, Source: "test"}
}

func assertFloatClose(t *testing.T, got, want float64) {
	t.Helper()

	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func conditionNames(conds []DetectedCondition) []string {
	names := make([]string, 0, len(conds))
	for _, c := range conds {
		names = append(names, c.Name)
	}

	return names
}

func readingKeys(readings []Reading) []string {
	keys := make([]string, 0, len(readings))
	for _, rd := range readings {
		keys = append(keys, rd.Key)
	}

	return keys
}

func assertContains(t *testing.T, items []string, want string) {
	t.Helper()

	if !slices.Contains(items, want) {
		t.Fatalf("expected %q in %v", want, items)
	}
}
