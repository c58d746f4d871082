/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

// Merged holds every observed value per canonical key across sources, in
// first-seen key order.
type Merged struct {
	keys    []string
	samples map[string][]float64
	sources int
}

// Merge combines per-source readings. Each source counts toward
// SourceCount even when it contributed no readings.
func Merge(sources ...[]Reading) *Merged {
	m := &Merged{
		samples: make(map[string][]float64),
		sources: len(sources),
	}

	for _, readings := range sources {
		for _, r := range readings {
			if _, ok := m.samples[r.Key]; !ok {
				m.keys = append(m.keys, r.Key)
			}

			m.samples[r.Key] = append(m.samples[r.Key], r.Value)
		}
	}

	return m
}

// Keys returns the canonical keys in first-seen order.
func (m *Merged) Keys() []string {
	return m.keys
}

// Len returns the number of distinct keys.
func (m *Merged) Len() int {
	return len(m.keys)
}

// SourceCount returns how many sources were merged.
func (m *Merged) SourceCount() int {
	return m.sources
}

// Samples returns the observed values of key in source order.
func (m *Merged) Samples(key string) []float64 {
	return m.samples[key]
}

// Value returns the arithmetic mean of the observations of key.
func (m *Merged) Value(key string) (float64, bool) {
	samples, ok := m.samples[key]
	if !ok || len(samples) == 0 {
		return 0, false
	}

	if len(samples) == 1 {
		return samples[0], true
	}

	var sum float64
	for _, v := range samples {
		sum += v
	}

	return sum / float64(len(samples)), true
}

// Values returns the merged value of every key.
func (m *Merged) Values() map[string]float64 {
	out := make(map[string]float64, len(m.keys))
	for _, key := range m.keys {
		out[key], _ = m.Value(key)
	}

	return out
}
