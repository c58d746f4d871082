/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import "github.com/humaidq/healthscore/registry"

// Analyzer runs the full pipeline against one registry. It holds no
// per-run state and may be shared between goroutines.
type Analyzer struct {
	reg *registry.Registry
}

// NewAnalyzer returns an Analyzer bound to reg.
func NewAnalyzer(reg *registry.Registry) *Analyzer {
	return &Analyzer{reg: reg}
}

// Registry returns the registry the analyzer reads.
func (a *Analyzer) Registry() *registry.Registry {
	return a.reg
}

// ReadText extracts and matches biomarkers from free text.
func (a *Analyzer) ReadText(source, text string) []Reading {
	return MatchBiomarkers(a.reg, source, Candidates(text))
}

// ReadRows maps tabular rows to canonical readings.
func (a *Analyzer) ReadRows(source string, rows []Row) []Reading {
	return AdaptRows(a.reg, source, rows)
}

// Analyze merges the per-source readings and builds a report. Zero
// readings is not an error: the report then holds no biomarkers and a
// fallback condition.
func (a *Analyzer) Analyze(sources ...[]Reading) *Report {
	return a.AnalyzeMerged(Merge(sources...))
}

// AnalyzeMerged builds a report from already merged readings.
func (a *Analyzer) AnalyzeMerged(m *Merged) *Report {
	biomarkers := make([]ClassifiedBiomarker, 0, m.Len())

	for _, key := range m.Keys() {
		value, _ := m.Value(key)
		cb := Classify(a.reg, key, value)
		cb.Samples = len(m.Samples(key))
		biomarkers = append(biomarkers, cb)
	}

	conditions := DetectConditions(a.reg, m)

	return &Report{
		Biomarkers:      biomarkers,
		Conditions:      conditions,
		Symptoms:        AggregateSymptoms(a.reg, conditions, m),
		Recommendations: Recommend(a.reg, conditions),
		SourceCount:     m.SourceCount(),
	}
}

// Counts returns how many biomarkers fall into each status category.
func (r *Report) Counts() map[StatusCategory]int {
	counts := make(map[StatusCategory]int)
	for _, b := range r.Biomarkers {
		counts[b.StatusCategory]++
	}

	return counts
}
