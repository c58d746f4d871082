/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"slices"

	"github.com/humaidq/healthscore/registry"
)

// conditionHolds compares value against a single condition. Between is
// inclusive on both ends.
func conditionHolds(c registry.Condition, value float64) bool {
	switch c.Operator {
	case registry.OpGreaterOrEqual:
		return value >= c.Threshold()
	case registry.OpLessOrEqual:
		return value <= c.Threshold()
	case registry.OpGreater:
		return value > c.Threshold()
	case registry.OpLess:
		return value < c.Threshold()
	case registry.OpEqual:
		return value == c.Threshold()
	case registry.OpBetween:
		lo, hi := c.Bounds()

		return value >= lo && value <= hi
	default:
		return false
	}
}

// EvaluateCondition reports whether the condition holds for the merged
// readings. A biomarker that was not observed evaluates false.
func EvaluateCondition(c registry.Condition, m *Merged) bool {
	value, ok := m.Value(c.Biomarker)
	if !ok {
		return false
	}

	return conditionHolds(c, value)
}

// RuleFires combines the condition results of a rule with its logic.
func RuleFires(rule registry.DiseaseRule, m *Merged) bool {
	eval := func(c registry.Condition) bool { return EvaluateCondition(c, m) }

	switch rule.Logic {
	case registry.LogicAnd:
		return len(rule.Conditions) > 0 && !slices.ContainsFunc(rule.Conditions, func(c registry.Condition) bool {
			return !eval(c)
		})
	case registry.LogicOr:
		return slices.ContainsFunc(rule.Conditions, eval)
	default:
		return false
	}
}

// DetectConditions evaluates every rule against the merged readings. All
// firing rules are reported. When none fire, a single fallback is reported:
// "everything fine" if every registered reading sits in its optimal band,
// otherwise "monitoring recommended". The result is stably sorted by
// priority rank.
func DetectConditions(reg *registry.Registry, m *Merged) []DetectedCondition {
	var detected []DetectedCondition

	for _, rule := range reg.Rules() {
		if !RuleFires(rule, m) {
			continue
		}

		detected = append(detected, DetectedCondition{
			RuleKey:   rule.Key,
			Name:      rule.Name,
			Priority:  rule.Priority,
			Reasoning: rule.Reasoning,
		})
	}

	if len(detected) == 0 {
		msgs := reg.Messages()
		if allOptimal(reg, m) {
			detected = append(detected, DetectedCondition{
				Name:      msgs.EverythingFine.Name,
				Priority:  registry.PriorityExcellentHealth,
				Reasoning: msgs.EverythingFine.Reasoning,
			})
		} else {
			detected = append(detected, DetectedCondition{
				Name:      msgs.Monitoring.Name,
				Priority:  registry.PriorityMonitor,
				Reasoning: msgs.Monitoring.Reasoning,
			})
		}
	}

	slices.SortStableFunc(detected, func(a, b DetectedCondition) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})

	return detected
}

// allOptimal reports whether every reading with a registry definition lies
// in its optimal band. Unregistered readings are ignored.
func allOptimal(reg *registry.Registry, m *Merged) bool {
	for _, key := range m.Keys() {
		def, ok := reg.Biomarker(key)
		if !ok {
			continue
		}

		value, _ := m.Value(key)
		if Categorize(def, value) != CategoryOptimal {
			return false
		}
	}

	return true
}
