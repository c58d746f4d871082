// SPDX-FileCopyrightText: 2026 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestAnalyzeTextAndRows(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(testRegistry(t))

	text := a.ReadText("report.pdf", "Fasting Glucose: 110 mg/dL\nTSH: 3.2 mIU/L\nHematocrit: 35 %\n")
	rows := a.ReadRows("labs.csv", []Row{
		{Name: "Glucose", Value: 90},
		{Name: "Ferritin", Value: 45},
	})

	report := a.Analyze(text, rows)

	if report.SourceCount != 2 {
		t.Fatalf("expected 2 sources, got %d", report.SourceCount)
	}

	keys := make([]string, 0, len(report.Biomarkers))
	for _, b := range report.Biomarkers {
		keys = append(keys, b.Key)
	}

	want := []string{"glucose", "hematocrit", "tsh", "ferritin"}
	if !slices.Equal(keys, want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}

	glucose := report.Biomarkers[0]
	assertFloatClose(t, glucose.Value, 100)

	if glucose.Samples != 2 {
		t.Fatalf("expected 2 glucose samples, got %d", glucose.Samples)
	}

	if glucose.StatusCategory != CategoryAboveOptimal {
		t.Fatalf("expected glucose above optimal, got %s", glucose.StatusCategory)
	}

	if report.Biomarkers[3].StatusCategory != CategoryUnknown {
		t.Fatalf("expected ferritin unknown, got %s", report.Biomarkers[3].StatusCategory)
	}

	names := conditionNames(report.Conditions)
	assertContains(t, names, "Prediabetes")
	assertContains(t, names, "Iron Deficiency Anemia")
	assertContains(t, names, "Borderline Hypothyroidism")

	if len(report.Symptoms) == 0 || len(report.Symptoms) > 15 {
		t.Fatalf("expected 1-15 symptoms, got %d", len(report.Symptoms))
	}

	if report.Recommendations.Len() == 0 {
		t.Fatalf("expected recommendations")
	}

	counts := report.Counts()
	if counts[CategoryUnknown] != 1 {
		t.Fatalf("expected one unknown biomarker, got %v", counts)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(testRegistry(t))
	report := a.Analyze(a.ReadText("blank.png", ""))

	if len(report.Biomarkers) != 0 {
		t.Fatalf("expected no biomarkers, got %v", report.Biomarkers)
	}

	if len(report.Conditions) != 1 || !report.Conditions[0].IsFallback() {
		t.Fatalf("expected single fallback condition, got %v", report.Conditions)
	}

	if len(report.Symptoms) == 0 {
		t.Fatalf("expected symptom list")
	}

	if report.SourceCount != 1 {
		t.Fatalf("expected source count 1, got %d", report.SourceCount)
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, field := range []string{`"biomarkers":[]`, `"potential_diseases":`, `"symptoms":`, `"recommendations":`, `"source_count":1`} {
		if !strings.Contains(string(data), field) {
			t.Fatalf("expected %s in %s", field, data)
		}
	}
}

func TestReportJSONRoundTripKeepsPriority(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(testRegistry(t))
	report := a.Analyze([]Reading{r("glucose", 130)})

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if !strings.Contains(string(data), `"priority":"High Risk"`) {
		t.Fatalf("expected priority label in JSON, got %s", data)
	}

	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Conditions[0].Priority != report.Conditions[0].Priority {
		t.Fatalf("expected priority %s, got %s", report.Conditions[0].Priority, decoded.Conditions[0].Priority)
	}
}
