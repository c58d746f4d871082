// SPDX-FileCopyrightText: 2026 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"slices"
	"testing"

	"github.com/humaidq/healthscore/registry"
)

func TestRecommendMergesTemplates(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)
	conds := []DetectedCondition{
		{RuleKey: "prediabetes", Name: "Prediabetes", Priority: registry.PriorityMediumRisk},
		{RuleKey: "borderline_hypothyroidism", Name: "Borderline Hypothyroidism", Priority: registry.PriorityLowRisk},
	}

	recs := Recommend(reg, conds)

	assertContains(t, recs.ProfessionalConsultation, "Schedule an appointment with an endocrinologist")
	assertContains(t, recs.ProfessionalConsultation, "Regular thyroid function monitoring")
	assertContains(t, recs.Dietary, "Ensure adequate iodine intake")

	count := 0
	for _, item := range recs.Lifestyle {
		if item == "Manage stress levels" {
			count++
		}
	}

	if count != 1 {
		t.Fatalf("expected deduplicated lifestyle bucket, got %v", recs.Lifestyle)
	}
}

func TestRecommendNameMatchingSeveralTemplates(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)
	recs := Recommend(reg, []DetectedCondition{
		{RuleKey: "combo", Name: "Thyroid Related Anemia", Priority: registry.PriorityLowRisk},
	})

	assertContains(t, recs.ProfessionalConsultation, "See a hematologist for further evaluation")
	assertContains(t, recs.ProfessionalConsultation, "Consult with an endocrinologist")
}

func TestRecommendGeneralWellness(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)
	general := reg.Recommendations().General

	for _, conds := range [][]DetectedCondition{
		nil,
		{{Name: "Everything Fine", Priority: registry.PriorityExcellentHealth}},
		{{Name: "Health Monitoring Recommended", Priority: registry.PriorityMonitor}},
	} {
		recs := Recommend(reg, conds)

		if !slices.Equal(recs.ProfessionalConsultation, general.ProfessionalConsultation[:2]) {
			t.Fatalf("expected first two general consultation items, got %v", recs.ProfessionalConsultation)
		}

		if !slices.Equal(recs.Dietary, general.Dietary[:2]) || !slices.Equal(recs.Lifestyle, general.Lifestyle[:2]) {
			t.Fatalf("expected first two general items per bucket, got %v", recs)
		}
	}
}

func TestRecommendUnmatchedCondition(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)
	recs := Recommend(reg, []DetectedCondition{
		{RuleKey: "kidney_dysfunction", Name: "Kidney Dysfunction", Priority: registry.PriorityHighRisk},
	})

	if recs.Len() != 0 {
		t.Fatalf("expected empty buckets, got %v", recs)
	}

	if recs.Dietary == nil {
		t.Fatalf("expected non-nil buckets")
	}
}
