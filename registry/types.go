/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package registry

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Priority is the clinical urgency of a detected condition. The numeric
// value is the sort rank: lower sorts first.
type Priority int

// Priority values in rank order.
const (
	PriorityHighRisk Priority = iota
	PriorityMediumRisk
	PriorityLowRisk
	PriorityMonitor
	PriorityExcellentHealth
	PriorityUnranked
)

var priorityLabels = map[Priority]string{
	PriorityHighRisk:        "High Risk",
	PriorityMediumRisk:      "Medium Risk",
	PriorityLowRisk:         "Low Risk",
	PriorityMonitor:         "Monitor",
	PriorityExcellentHealth: "Excellent Health",
}

// Rank returns the sort position of the priority. Values outside the known
// set rank after every known priority.
func (p Priority) Rank() int {
	if _, ok := priorityLabels[p]; !ok {
		return int(PriorityUnranked)
	}

	return int(p)
}

// IsRisk reports whether the priority may be assigned to a disease rule.
func (p Priority) IsRisk() bool {
	return p == PriorityHighRisk || p == PriorityMediumRisk || p == PriorityLowRisk
}

func (p Priority) String() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}

	return "Unranked"
}

// MarshalText encodes the priority as its display label.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a display label such as "High Risk".
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// ParsePriority maps a display label to a Priority.
func ParsePriority(label string) (Priority, error) {
	for p, l := range priorityLabels {
		if strings.EqualFold(l, strings.TrimSpace(label)) {
			return p, nil
		}
	}

	return PriorityUnranked, fmt.Errorf("%w: %q", errUnknownPriority, label)
}

// Operator compares a biomarker value against a threshold.
type Operator string

// Supported comparison operators.
const (
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
	OpEqual          Operator = "=="
	OpBetween        Operator = "between"
)

// UnmarshalText accepts the operator symbols, with "=" as a synonym of "==".
func (o *Operator) UnmarshalText(text []byte) error {
	switch op := Operator(strings.ToLower(strings.TrimSpace(string(text)))); op {
	case OpGreaterOrEqual, OpLessOrEqual, OpGreater, OpLess, OpEqual, OpBetween:
		*o = op
	case "=":
		*o = OpEqual
	default:
		return fmt.Errorf("%w: %q", errUnknownOperator, string(text))
	}

	return nil
}

// Logic combines the condition results of a rule.
type Logic string

// Supported rule combinators.
const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// UnmarshalText parses AND/OR case-insensitively.
func (l *Logic) UnmarshalText(text []byte) error {
	switch logic := Logic(strings.ToUpper(strings.TrimSpace(string(text)))); logic {
	case LogicAnd, LogicOr:
		*l = logic
	default:
		return fmt.Errorf("%w: %q", errUnknownLogic, string(text))
	}

	return nil
}

// RangeKind describes how an acceptable range is displayed.
type RangeKind int

// Range kinds.
const (
	RangeBounded   RangeKind = iota // "70-100"
	RangeUpperOnly                  // "<200"
	RangeLowerOnly                  // ">40"
)

// Insights holds per-status guidance text for a biomarker.
type Insights struct {
	Optimal    string `yaml:"optimal"`
	Acceptable string `yaml:"acceptable"`
	High       string `yaml:"high"`
	Low        string `yaml:"low"`
}

// SymptomSet names one list inside a SymptomTable.
type SymptomSet string

// Symptom set names.
const (
	SetHigh           SymptomSet = "high"
	SetBorderline     SymptomSet = "borderline"
	SetLow            SymptomSet = "low"
	SetBorderlineHigh SymptomSet = "borderline_high"
	SetBorderlineLow  SymptomSet = "borderline_low"
)

// SymptomTable lists symptoms associated with a biomarker by severity.
type SymptomTable struct {
	High           []string `yaml:"high"`
	Borderline     []string `yaml:"borderline"`
	Low            []string `yaml:"low"`
	BorderlineHigh []string `yaml:"borderline_high"`
	BorderlineLow  []string `yaml:"borderline_low"`
}

// Set returns the symptoms of the named set.
func (s SymptomTable) Set(name SymptomSet) []string {
	switch name {
	case SetHigh:
		return s.High
	case SetBorderline:
		return s.Borderline
	case SetLow:
		return s.Low
	case SetBorderlineHigh:
		return s.BorderlineHigh
	case SetBorderlineLow:
		return s.BorderlineLow
	default:
		return nil
	}
}

// Empty reports whether the table has no symptoms at all.
func (s SymptomTable) Empty() bool {
	return len(s.High) == 0 && len(s.Borderline) == 0 && len(s.Low) == 0 &&
		len(s.BorderlineHigh) == 0 && len(s.BorderlineLow) == 0
}

// BiomarkerDefinition is one registry entry describing a measurable quantity.
type BiomarkerDefinition struct {
	Key             string       `yaml:"key"`
	Name            string       `yaml:"name"`
	Unit            string       `yaml:"unit"`
	AcceptableRange string       `yaml:"acceptable_range"`
	AcceptableMin   float64      `yaml:"acceptable_min"`
	AcceptableMax   float64      `yaml:"acceptable_max"`
	HighThreshold   float64      `yaml:"high_threshold"`
	Keywords        []string     `yaml:"keywords"`
	Insights        Insights     `yaml:"insights"`
	Symptoms        SymptomTable `yaml:"symptoms"`
}

// RangeKind derives the display kind from the acceptable range label.
func (d BiomarkerDefinition) RangeKind() RangeKind {
	switch {
	case strings.HasPrefix(d.AcceptableRange, "<"):
		return RangeUpperOnly
	case strings.HasPrefix(d.AcceptableRange, ">"):
		return RangeLowerOnly
	default:
		return RangeBounded
	}
}

// AcceptableDisplay returns the acceptable range label, falling back to
// "min-max" when the registry does not provide one.
func (d BiomarkerDefinition) AcceptableDisplay() string {
	if d.AcceptableRange != "" {
		return d.AcceptableRange
	}

	return fmt.Sprintf("%g-%g", d.AcceptableMin, d.AcceptableMax)
}

// DisplayName returns the configured name or a title-cased key.
func (d BiomarkerDefinition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}

	return TitleKey(d.Key)
}

// TitleKey turns a canonical key such as "vitamin_b12" into "Vitamin B12".
func TitleKey(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// Condition is a single comparison inside a disease rule.
type Condition struct {
	Biomarker string    `yaml:"biomarker"`
	Operator  Operator  `yaml:"operator"`
	Value     *float64  `yaml:"value"`
	Range     []float64 `yaml:"range"`
}

// Threshold returns the scalar threshold, or zero for between conditions.
func (c Condition) Threshold() float64 {
	if c.Value == nil {
		return 0
	}

	return *c.Value
}

// Bounds returns the inclusive [lo, hi] of a between condition.
func (c Condition) Bounds() (lo, hi float64) {
	if len(c.Range) != 2 {
		return 0, 0
	}

	return c.Range[0], c.Range[1]
}

// DiseaseRule flags a potential condition when its conditions hold.
type DiseaseRule struct {
	Key        string      `yaml:"key"`
	Name       string      `yaml:"name"`
	Conditions []Condition `yaml:"conditions"`
	Logic      Logic       `yaml:"logic"`
	Priority   Priority    `yaml:"priority"`
	Reasoning  string      `yaml:"reasoning"`
	Symptoms   []string    `yaml:"symptoms"`
}

// CarveOut adds a symptom set for an in-range reading that still deserves
// attention, such as a TSH in the upper normal band.
type CarveOut struct {
	Condition `yaml:",inline"`
	Set       SymptomSet `yaml:"set"`
}

// RecommendationTemplate holds the three recommendation buckets for one
// family of conditions. Match is a lowercase substring of condition names.
type RecommendationTemplate struct {
	Key                      string   `yaml:"key"`
	Match                    string   `yaml:"match"`
	ProfessionalConsultation []string `yaml:"professional_consultation"`
	Dietary                  []string `yaml:"dietary"`
	Lifestyle                []string `yaml:"lifestyle"`
}

// RecommendationConfig groups condition templates and the general wellness
// fallback.
type RecommendationConfig struct {
	Templates    []RecommendationTemplate `yaml:"templates"`
	General      RecommendationTemplate   `yaml:"general"`
	GeneralLimit int                      `yaml:"general_limit"`
}

// FallbackCondition is the name and reasoning of a pseudo-condition emitted
// when no rule fires.
type FallbackCondition struct {
	Name      string `yaml:"name"`
	Reasoning string `yaml:"reasoning"`
}

// Messages holds the fixed text sets used by the symptom aggregator and the
// rule evaluator fallbacks.
type Messages struct {
	SymptomLimit       int               `yaml:"symptom_limit"`
	MinSymptoms        int               `yaml:"min_symptoms"`
	PositiveSymptoms   []string          `yaml:"positive_symptoms"`
	MonitoringSymptoms []string          `yaml:"monitoring_symptoms"`
	GenericGuidance    []string          `yaml:"generic_guidance"`
	EverythingFine     FallbackCondition `yaml:"everything_fine"`
	Monitoring         FallbackCondition `yaml:"monitoring"`
}
