// SPDX-FileCopyrightText: 2026 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"slices"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" LDL Cholesterol ": "ldl_cholesterol",
		"Vitamin-B12":       "vitamin_b12",
		"systolic bp":       "systolic_bp",
	}

	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Fatalf("NormalizeName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestAdaptRows(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)
	rows := []Row{
		{Name: "LDL Cholesterol", Value: 130},
		{Name: "Ferritin", Value: 45},
		{Name: "ldl-cholesterol", Value: 140},
		{Name: "  ", Value: 1},
	}

	readings := AdaptRows(reg, "labs.csv", rows)

	want := []string{"ldl", "ferritin"}
	if got := readingKeys(readings); !slices.Equal(got, want) {
		t.Fatalf("expected keys %v, got %v", want, got)
	}

	assertFloatClose(t, readings[0].Value, 140)

	if readings[1].Source != "labs.csv" {
		t.Fatalf("expected source labs.csv, got %q", readings[1].Source)
	}
}

func TestMergeAveragesRepeatedKeys(t *testing.T) {
	t.Parallel()

	m := Merge(
		[]Reading{r("glucose", 90), r("tsh", 2)},
		[]Reading{r("glucose", 110)},
		nil,
	)

	value, ok := m.Value("glucose")
	if !ok {
		t.Fatalf("expected glucose value")
	}

	assertFloatClose(t, value, 100)

	if got := m.Samples("glucose"); !slices.Equal(got, []float64{90, 110}) {
		t.Fatalf("expected samples [90 110], got %v", got)
	}

	if m.SourceCount() != 3 {
		t.Fatalf("expected 3 sources, got %d", m.SourceCount())
	}

	if got := m.Keys(); !slices.Equal(got, []string{"glucose", "tsh"}) {
		t.Fatalf("expected first-seen key order, got %v", got)
	}

	if _, ok := m.Value("ldl"); ok {
		t.Fatalf("expected no ldl value")
	}
}

func TestMergeSingleton(t *testing.T) {
	t.Parallel()

	m := mergedOf(r("glucose", 100))

	value, _ := m.Value("glucose")
	if value != 100 {
		t.Fatalf("expected 100 unchanged, got %v", value)
	}

	if got := m.Values(); len(got) != 1 || got["glucose"] != 100 {
		t.Fatalf("expected values map with glucose, got %v", got)
	}
}
