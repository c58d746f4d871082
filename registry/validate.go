/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package registry

import (
	"errors"
	"fmt"
)

// validate collects every problem in the document rather than stopping at
// the first one.
func validate(doc *document) error {
	var errs []error

	known := make(map[string]bool, len(doc.Biomarkers))

	if len(doc.Biomarkers) == 0 {
		errs = append(errs, fmt.Errorf("biomarkers: %w", errMissingField))
	}

	for i, b := range doc.Biomarkers {
		where := fmt.Sprintf("biomarkers[%d]", i)

		if b.Key == "" {
			errs = append(errs, fmt.Errorf("%s.key: %w", where, errMissingField))

			continue
		}

		where = fmt.Sprintf("biomarker %q", b.Key)

		if known[b.Key] {
			errs = append(errs, fmt.Errorf("%s: %w", where, errDuplicateKey))
		}

		known[b.Key] = true

		if b.AcceptableMax <= b.AcceptableMin {
			errs = append(errs, fmt.Errorf("%s: acceptable_max %g must exceed acceptable_min %g: %w",
				where, b.AcceptableMax, b.AcceptableMin, errInvalidRange))
		}

		if b.HighThreshold < b.AcceptableMax {
			errs = append(errs, fmt.Errorf("%s: high_threshold %g below acceptable_max %g: %w",
				where, b.HighThreshold, b.AcceptableMax, errInvalidRange))
		}

		if len(b.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("%s.keywords: %w", where, errMissingField))
		}

		for j, kw := range b.Keywords {
			if kw == "" {
				errs = append(errs, fmt.Errorf("%s.keywords[%d]: %w", where, j, errMissingField))
			}
		}
	}

	for name, key := range doc.Aliases {
		if !known[key] {
			errs = append(errs, fmt.Errorf("alias %q -> %q: %w", name, key, errUnknownBiomarker))
		}
	}

	for i, c := range doc.SymptomCarveOuts {
		where := fmt.Sprintf("symptom_carve_outs[%d]", i)
		errs = append(errs, validateCondition(where, c.Condition, known)...)

		switch c.Set {
		case SetHigh, SetBorderline, SetLow, SetBorderlineHigh, SetBorderlineLow:
		default:
			errs = append(errs, fmt.Errorf("%s.set %q: %w", where, c.Set, errUnknownSymptomSet))
		}
	}

	errs = append(errs, validateRules(doc.Rules, known)...)
	errs = append(errs, validateRecommendations(doc.Recommendations)...)
	errs = append(errs, validateMessages(doc.Messages)...)

	return errors.Join(errs...)
}

func validateRules(rules []DiseaseRule, known map[string]bool) []error {
	var errs []error

	seen := make(map[string]bool, len(rules))

	for i, r := range rules {
		where := fmt.Sprintf("rules[%d]", i)
		if r.Key != "" {
			where = fmt.Sprintf("rule %q", r.Key)
		}

		if r.Key == "" {
			errs = append(errs, fmt.Errorf("%s.key: %w", where, errMissingField))
		} else if seen[r.Key] {
			errs = append(errs, fmt.Errorf("%s: %w", where, errDuplicateKey))
		}

		seen[r.Key] = true

		if r.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name: %w", where, errMissingField))
		}

		if r.Logic == "" {
			errs = append(errs, fmt.Errorf("%s.logic: %w", where, errMissingField))
		}

		if !r.Priority.IsRisk() {
			errs = append(errs, fmt.Errorf("%s.priority %s: %w", where, r.Priority, errUnknownPriority))
		}

		if len(r.Conditions) == 0 {
			errs = append(errs, fmt.Errorf("%s.conditions: %w", where, errMissingField))
		}

		for j, c := range r.Conditions {
			errs = append(errs, validateCondition(fmt.Sprintf("%s.conditions[%d]", where, j), c, known)...)
		}
	}

	return errs
}

func validateCondition(where string, c Condition, known map[string]bool) []error {
	var errs []error

	if !known[c.Biomarker] {
		errs = append(errs, fmt.Errorf("%s: %q: %w", where, c.Biomarker, errUnknownBiomarker))
	}

	switch c.Operator {
	case "":
		errs = append(errs, fmt.Errorf("%s.operator: %w", where, errMissingField))
	case OpBetween:
		if len(c.Range) != 2 {
			errs = append(errs, fmt.Errorf("%s.range needs two bounds: %w", where, errInvalidRange))
		} else if c.Range[0] > c.Range[1] {
			errs = append(errs, fmt.Errorf("%s.range [%g, %g]: %w", where, c.Range[0], c.Range[1], errInvalidRange))
		}
	default:
		if c.Value == nil {
			errs = append(errs, fmt.Errorf("%s.value: %w", where, errMissingField))
		}
	}

	return errs
}

func validateRecommendations(cfg RecommendationConfig) []error {
	var errs []error

	for i, t := range cfg.Templates {
		if t.Key == "" {
			errs = append(errs, fmt.Errorf("recommendations.templates[%d].key: %w", i, errMissingField))
		}

		if t.Match == "" {
			errs = append(errs, fmt.Errorf("recommendations.templates[%d].match: %w", i, errMissingField))
		}
	}

	if cfg.GeneralLimit <= 0 {
		errs = append(errs, fmt.Errorf("recommendations.general_limit %d: %w", cfg.GeneralLimit, errInvalidLimit))
	}

	return errs
}

func validateMessages(m Messages) []error {
	var errs []error

	if m.SymptomLimit <= 0 {
		errs = append(errs, fmt.Errorf("messages.symptom_limit %d: %w", m.SymptomLimit, errInvalidLimit))
	}

	if m.MinSymptoms < 0 || m.MinSymptoms > m.SymptomLimit {
		errs = append(errs, fmt.Errorf("messages.min_symptoms %d: %w", m.MinSymptoms, errInvalidLimit))
	}

	if m.EverythingFine.Name == "" {
		errs = append(errs, fmt.Errorf("messages.everything_fine.name: %w", errMissingField))
	}

	if m.Monitoring.Name == "" {
		errs = append(errs, fmt.Errorf("messages.monitoring.name: %w", errMissingField))
	}

	return errs
}
