/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"iter"
	"slices"
	"strings"

	"github.com/humaidq/healthscore/registry"
)

// MatchBiomarkers maps text candidates to canonical biomarker keys.
//
// Scan order is registry order, then candidate order, then keyword order,
// then label variant order. The first candidate that satisfies any
// (keyword, variant) pair claims the value for that biomarker and is never
// overwritten. Readings are returned in registry order.
func MatchBiomarkers(reg *registry.Registry, source string, candidates iter.Seq[Candidate]) []Reading {
	labelled := make([]labelledCandidate, 0)
	for c := range candidates {
		labelled = append(labelled, labelledCandidate{Candidate: c, variants: labelVariants(c.Label)})
	}

	var readings []Reading

	for _, def := range reg.Biomarkers() {
		i := slices.IndexFunc(labelled, func(c labelledCandidate) bool {
			return keywordMatches(def.Keywords, c.variants)
		})
		if i < 0 {
			continue
		}

		readings = append(readings, Reading{Key: def.Key, Value: labelled[i].Value, Source: source})
	}

	return readings
}

type labelledCandidate struct {
	Candidate
	variants [5]string
}

// labelVariants returns the label with separators interchanged.
func labelVariants(label string) [5]string {
	label = strings.ToLower(label)

	return [5]string{
		label,
		strings.ReplaceAll(label, "_", " "),
		strings.ReplaceAll(label, " ", ""),
		strings.ReplaceAll(label, "-", " "),
		strings.ReplaceAll(label, "/", " "),
	}
}

// keywordMatches tests bidirectional containment between each keyword and
// each variant, plus the keyword with OCR-confusable letters swapped for
// digits (o→0, l→1).
func keywordMatches(keywords []string, variants [5]string) bool {
	for _, kw := range keywords {
		zeroed := strings.ReplaceAll(kw, "o", "0")
		oned := strings.ReplaceAll(kw, "l", "1")

		for _, v := range variants {
			if strings.Contains(v, kw) || strings.Contains(kw, v) ||
				strings.Contains(v, zeroed) || strings.Contains(v, oned) {
				return true
			}
		}
	}

	return false
}
