/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package registry

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var defaultRegistry []byte

// Registry is the read-only set of biomarker definitions, disease rules,
// recommendation templates and fixed messages. It is safe for concurrent use
// once loaded.
type Registry struct {
	biomarkers      []BiomarkerDefinition
	byKey           map[string]int
	aliases         map[string]string
	carveOuts       []CarveOut
	carveOutsByKey  map[string][]CarveOut
	rules           []DiseaseRule
	rulesByKey      map[string]int
	recommendations RecommendationConfig
	messages        Messages
}

type document struct {
	Biomarkers       []BiomarkerDefinition `yaml:"biomarkers"`
	Aliases          map[string]string     `yaml:"aliases"`
	SymptomCarveOuts []CarveOut            `yaml:"symptom_carve_outs"`
	Rules            []DiseaseRule         `yaml:"rules"`
	Recommendations  RecommendationConfig  `yaml:"recommendations"`
	Messages         Messages              `yaml:"messages"`
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Load(defaultRegistry)
}

// MustDefault is like Default but panics if the built-in registry is
// invalid.
func MustDefault() *Registry {
	reg, err := Default()
	if err != nil {
		panic(err)
	}

	return reg
}

// DefaultSource returns the raw YAML of the built-in registry.
func DefaultSource() []byte {
	return bytes.Clone(defaultRegistry)
}

// LoadFile reads and validates a registry from a YAML file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}

	return Load(data)
}

// Load decodes and validates a registry document. Unknown fields are
// rejected.
func Load(data []byte) (*Registry, error) {
	var doc document

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}

	normalize(&doc)

	if err := validate(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegistry, err)
	}

	reg := &Registry{
		biomarkers:      doc.Biomarkers,
		byKey:           make(map[string]int, len(doc.Biomarkers)),
		aliases:         doc.Aliases,
		carveOuts:       doc.SymptomCarveOuts,
		carveOutsByKey:  make(map[string][]CarveOut),
		rules:           doc.Rules,
		rulesByKey:      make(map[string]int, len(doc.Rules)),
		recommendations: doc.Recommendations,
		messages:        doc.Messages,
	}

	for i, b := range reg.biomarkers {
		reg.byKey[b.Key] = i
	}

	for i, r := range reg.rules {
		reg.rulesByKey[r.Key] = i
	}

	for _, co := range reg.carveOuts {
		reg.carveOutsByKey[co.Biomarker] = append(reg.carveOutsByKey[co.Biomarker], co)
	}

	return reg, nil
}

// normalize lowercases keys and keywords so lookups are case-insensitive.
func normalize(doc *document) {
	for i := range doc.Biomarkers {
		b := &doc.Biomarkers[i]
		b.Key = strings.ToLower(strings.TrimSpace(b.Key))

		for j, kw := range b.Keywords {
			b.Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}

	aliases := make(map[string]string, len(doc.Aliases))
	for name, key := range doc.Aliases {
		aliases[strings.ToLower(strings.TrimSpace(name))] = strings.ToLower(strings.TrimSpace(key))
	}

	doc.Aliases = aliases

	for i := range doc.Recommendations.Templates {
		t := &doc.Recommendations.Templates[i]
		t.Match = strings.ToLower(t.Match)
	}
}

// Biomarkers returns a copy of the definitions in registry order. Nested
// slices are shared with the registry and must not be modified.
func (r *Registry) Biomarkers() []BiomarkerDefinition {
	return slices.Clone(r.biomarkers)
}

// Biomarker looks up a definition by canonical key.
func (r *Registry) Biomarker(key string) (BiomarkerDefinition, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return BiomarkerDefinition{}, false
	}

	return r.biomarkers[i], true
}

// Alias maps a normalized column name to its canonical biomarker key.
func (r *Registry) Alias(name string) (string, bool) {
	key, ok := r.aliases[name]

	return key, ok
}

// CarveOuts returns a copy of every in-range symptom carve-out in registry
// order.
func (r *Registry) CarveOuts() []CarveOut {
	return slices.Clone(r.carveOuts)
}

// CarveOutsFor returns a copy of the carve-outs of one biomarker in
// registry order.
func (r *Registry) CarveOutsFor(key string) []CarveOut {
	return slices.Clone(r.carveOutsByKey[key])
}

// Rules returns a copy of the disease rules in registry order. Nested
// slices are shared with the registry and must not be modified.
func (r *Registry) Rules() []DiseaseRule {
	return slices.Clone(r.rules)
}

// Rule looks up a disease rule by key.
func (r *Registry) Rule(key string) (DiseaseRule, bool) {
	i, ok := r.rulesByKey[key]
	if !ok {
		return DiseaseRule{}, false
	}

	return r.rules[i], true
}

// Recommendations returns the recommendation templates.
func (r *Registry) Recommendations() RecommendationConfig {
	return r.recommendations
}

// Messages returns the fixed message sets.
func (r *Registry) Messages() Messages {
	return r.messages
}
