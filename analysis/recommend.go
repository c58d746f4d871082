/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"strings"

	"github.com/humaidq/healthscore/registry"
)

// Recommend builds the recommendation buckets. Each condition name is
// matched against every template substring, so a name can pull in more than
// one template. When only fallback conditions are present, the first few
// items of each general wellness bucket are used instead.
func Recommend(reg *registry.Registry, conditions []DetectedCondition) Recommendations {
	cfg := reg.Recommendations()
	consult, diet, life := newOrderedSet(), newOrderedSet(), newOrderedSet()
	specific := false

	for _, cond := range conditions {
		if cond.IsFallback() {
			continue
		}

		specific = true
		name := strings.ToLower(cond.Name)

		for _, tmpl := range cfg.Templates {
			if !strings.Contains(name, tmpl.Match) {
				continue
			}

			consult.add(tmpl.ProfessionalConsultation...)
			diet.add(tmpl.Dietary...)
			life.add(tmpl.Lifestyle...)
		}
	}

	if !specific {
		consult.add(capList(cfg.General.ProfessionalConsultation, cfg.GeneralLimit)...)
		diet.add(capList(cfg.General.Dietary, cfg.GeneralLimit)...)
		life.add(capList(cfg.General.Lifestyle, cfg.GeneralLimit)...)
	}

	return Recommendations{
		ProfessionalConsultation: consult.list(),
		Dietary:                  diet.list(),
		Lifestyle:                life.list(),
	}
}
