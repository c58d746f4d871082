/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package analysis turns extracted text or tabular readings into a health
// report: biomarker matching, range classification, rule evaluation, and the
// derived symptom and recommendation lists. Everything here is synchronous
// and free of I/O; the registry passed in is only read.
package analysis

import "github.com/humaidq/healthscore/registry"

// Candidate is a (label, value, unit) triple mined from free text.
type Candidate struct {
	Label string
	Value float64
	Unit  string
}

// Reading is one canonical biomarker value observed in one source.
type Reading struct {
	Key    string  `json:"key"`
	Value  float64 `json:"value"`
	Source string  `json:"source"`
}

// Row is a name/value pair produced by a tabular reader.
type Row struct {
	Name  string
	Value float64
}

// StatusCategory is the closed set of classification outcomes.
type StatusCategory string

// Status categories, tightest band first.
const (
	CategoryOptimal           StatusCategory = "optimal"
	CategoryBelowOptimal      StatusCategory = "below_optimal"
	CategoryAboveOptimal      StatusCategory = "above_optimal"
	CategoryBelowAcceptable   StatusCategory = "below_acceptable"
	CategoryAboveAcceptable   StatusCategory = "above_acceptable"
	CategorySignificantlyHigh StatusCategory = "significantly_high"
	CategoryUnknown           StatusCategory = "unknown"
)

// Label returns the human readable status for the category.
func (c StatusCategory) Label() string {
	switch c {
	case CategoryOptimal:
		return "Optimal"
	case CategoryBelowOptimal:
		return "Below Optimal"
	case CategoryAboveOptimal:
		return "Above Optimal"
	case CategoryBelowAcceptable:
		return "Below Acceptable"
	case CategoryAboveAcceptable:
		return "Above Acceptable"
	case CategorySignificantlyHigh:
		return "Significantly High"
	default:
		return "Detected"
	}
}

// ClassifiedBiomarker is the per-biomarker line of a report.
type ClassifiedBiomarker struct {
	Key             string         `json:"key"`
	Name            string         `json:"name"`
	Value           float64        `json:"value"`
	Unit            string         `json:"unit"`
	AcceptableRange string         `json:"acceptable_range"`
	OptimalRange    string         `json:"optimal_range"`
	Status          string         `json:"status"`
	StatusCategory  StatusCategory `json:"status_category"`
	IsOptimal       bool           `json:"is_optimal"`
	Insight         string         `json:"insight"`
	Guidance        string         `json:"guidance,omitempty"`
	Samples         int            `json:"samples"`
}

// DetectedCondition is a fired disease rule or one of the two fallback
// pseudo-conditions. Fallbacks have an empty RuleKey.
type DetectedCondition struct {
	RuleKey   string            `json:"rule_key,omitempty"`
	Name      string            `json:"name"`
	Priority  registry.Priority `json:"priority"`
	Reasoning string            `json:"reasoning"`
}

// IsFallback reports whether the condition was emitted because no rule
// fired.
func (d DetectedCondition) IsFallback() bool {
	return d.RuleKey == ""
}

// Recommendations holds the three recommendation buckets.
type Recommendations struct {
	ProfessionalConsultation []string `json:"Professional Consultation"`
	Dietary                  []string `json:"Dietary"`
	Lifestyle                []string `json:"Lifestyle"`
}

// Len returns the total number of recommendations across buckets.
func (r Recommendations) Len() int {
	return len(r.ProfessionalConsultation) + len(r.Dietary) + len(r.Lifestyle)
}

// Report is the result of one analysis run.
type Report struct {
	Biomarkers      []ClassifiedBiomarker `json:"biomarkers"`
	Conditions      []DetectedCondition   `json:"potential_diseases"`
	Symptoms        []string              `json:"symptoms"`
	Recommendations Recommendations       `json:"recommendations"`
	SourceCount     int                   `json:"source_count"`
}
