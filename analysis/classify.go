/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"fmt"
	"strconv"

	"github.com/humaidq/healthscore/registry"
)

const (
	notDefined = "Not defined"

	// One-sided ranges have no symmetric margin, so the optimal display
	// bound is a fixed proportion of the open bound.
	upperOnlyOptimalFactor = 0.8
	lowerOnlyOptimalFactor = 1.25
)

// OptimalRange returns the optimal band of a definition: the acceptable
// range shrunk by a fifth of its span on each side.
func OptimalRange(def registry.BiomarkerDefinition) (lo, hi float64) {
	margin := (def.AcceptableMax - def.AcceptableMin) / 5

	return def.AcceptableMin + margin, def.AcceptableMax - margin
}

// OptimalDisplay formats the optimal band for display.
func OptimalDisplay(def registry.BiomarkerDefinition) string {
	switch def.RangeKind() {
	case registry.RangeUpperOnly:
		return fmt.Sprintf("<%.1f", def.AcceptableMax*upperOnlyOptimalFactor)
	case registry.RangeLowerOnly:
		return fmt.Sprintf(">%.1f", def.AcceptableMin*lowerOnlyOptimalFactor)
	default:
		lo, hi := OptimalRange(def)

		return fmt.Sprintf("%.1f-%.1f", lo, hi)
	}
}

// Categorize places value in the tightest band that contains it. Every
// boundary is inclusive.
func Categorize(def registry.BiomarkerDefinition, value float64) StatusCategory {
	lo, hi := OptimalRange(def)

	switch {
	case value >= lo && value <= hi:
		return CategoryOptimal
	case value >= def.AcceptableMin && value < lo:
		return CategoryBelowOptimal
	case value > hi && value <= def.AcceptableMax:
		return CategoryAboveOptimal
	case value < def.AcceptableMin:
		return CategoryBelowAcceptable
	case value >= def.HighThreshold:
		return CategorySignificantlyHigh
	default:
		return CategoryAboveAcceptable
	}
}

// Classify assigns a status to a canonical (key, value). Keys missing from
// the registry yield an unknown record carrying the raw value.
func Classify(reg *registry.Registry, key string, value float64) ClassifiedBiomarker {
	def, ok := reg.Biomarker(key)
	if !ok {
		return ClassifiedBiomarker{
			Key:             key,
			Name:            registry.TitleKey(key),
			Value:           value,
			AcceptableRange: notDefined,
			OptimalRange:    notDefined,
			Status:          CategoryUnknown.Label(),
			StatusCategory:  CategoryUnknown,
			Insight: fmt.Sprintf("Value detected: %s. Reference ranges not available for this parameter.",
				strconv.FormatFloat(value, 'f', -1, 64)),
			Samples: 1,
		}
	}

	category := Categorize(def, value)
	acceptable := def.AcceptableDisplay()

	return ClassifiedBiomarker{
		Key:             key,
		Name:            def.DisplayName(),
		Value:           value,
		Unit:            def.Unit,
		AcceptableRange: acceptable,
		OptimalRange:    OptimalDisplay(def),
		Status:          category.Label(),
		StatusCategory:  category,
		IsOptimal:       category == CategoryOptimal,
		Insight:         rangeInsight(category, acceptable),
		Guidance:        guidance(def.Insights, category),
		Samples:         1,
	}
}

func rangeInsight(category StatusCategory, acceptable string) string {
	switch category {
	case CategoryBelowOptimal:
		return "This is below optimal range; acceptable range is " + acceptable
	case CategoryAboveOptimal:
		return "This is above optimal range; acceptable range is " + acceptable
	case CategoryBelowAcceptable:
		return "This is below acceptable range; acceptable range is " + acceptable
	case CategoryAboveAcceptable:
		return "This is above acceptable range; acceptable range is " + acceptable
	case CategorySignificantlyHigh:
		return "This is significantly above acceptable range; acceptable range is " + acceptable
	default:
		return "This is within optimal range"
	}
}

func guidance(in registry.Insights, category StatusCategory) string {
	switch category {
	case CategoryOptimal:
		return in.Optimal
	case CategoryBelowOptimal, CategoryAboveOptimal:
		return in.Acceptable
	case CategoryBelowAcceptable:
		return in.Low
	case CategoryAboveAcceptable, CategorySignificantlyHigh:
		return in.High
	default:
		return ""
	}
}
