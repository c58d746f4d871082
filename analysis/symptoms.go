/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"github.com/humaidq/healthscore/registry"
)

// orderedSet is an insertion-ordered string set.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(items ...string) {
	for _, item := range items {
		if item == "" || s.seen[item] {
			continue
		}

		s.seen[item] = true
		s.items = append(s.items, item)
	}
}

func (s *orderedSet) list() []string {
	if s.items == nil {
		return []string{}
	}

	return s.items
}

// severitySet picks which symptom set applies to a reading. The carve-outs
// of the biomarker only apply while the reading is inside the acceptable
// range, and the first one that holds wins.
func severitySet(reg *registry.Registry, def registry.BiomarkerDefinition, value float64) (registry.SymptomSet, bool) {
	switch {
	case value >= def.HighThreshold:
		return registry.SetHigh, true
	case value > def.AcceptableMax:
		return registry.SetBorderline, true
	case value < def.AcceptableMin:
		return registry.SetLow, true
	}

	for _, co := range reg.CarveOutsFor(def.Key) {
		if conditionHolds(co.Condition, value) {
			return co.Set, true
		}
	}

	return "", false
}

// AggregateSymptoms unions the symptoms of every fired rule with the
// severity-specific symptoms of each reading. An empty union falls back to
// the positive message set when nothing is flagged, and to the monitoring
// set when a flagged reading has no symptoms of its own. Short lists are
// padded with generic guidance. The result never exceeds the configured
// limit.
func AggregateSymptoms(reg *registry.Registry, conditions []DetectedCondition, m *Merged) []string {
	msgs := reg.Messages()
	set := newOrderedSet()
	flagged := false

	for _, cond := range conditions {
		if cond.IsFallback() {
			continue
		}

		flagged = true

		if rule, ok := reg.Rule(cond.RuleKey); ok {
			set.add(rule.Symptoms...)
		}
	}

	for _, key := range m.Keys() {
		def, ok := reg.Biomarker(key)
		if !ok || def.Symptoms.Empty() {
			continue
		}

		value, _ := m.Value(key)

		name, ok := severitySet(reg, def, value)
		if !ok {
			continue
		}

		flagged = true

		set.add(def.Symptoms.Set(name)...)
	}

	if len(set.items) == 0 {
		if flagged {
			set.add(msgs.MonitoringSymptoms...)
		} else {
			set.add(msgs.PositiveSymptoms...)
		}
	}

	symptoms := capList(set.list(), msgs.SymptomLimit)

	if len(symptoms) < msgs.MinSymptoms {
		padded := newOrderedSet()
		padded.add(symptoms...)
		padded.add(msgs.GenericGuidance...)
		symptoms = capList(padded.list(), msgs.SymptomLimit)
	}

	return symptoms
}

func capList(items []string, limit int) []string {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}

	return items
}
