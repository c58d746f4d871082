// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"testing"
	"time"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/registry"
)

func TestTemplateFuncs(t *testing.T) {
	t.Parallel()

	if got := statusClass(analysis.CategorySignificantlyHigh); got != "status-significantly-high" {
		t.Fatalf("unexpected status class: %q", got)
	}

	if got := priorityClass(registry.PriorityExcellentHealth); got != "priority-excellent-health" {
		t.Fatalf("unexpected priority class: %q", got)
	}

	for in, want := range map[float64]string{115: "115", 3.2: "3.2", 0.45: "0.45"} {
		if got := formatValue(in); got != want {
			t.Fatalf("formatValue(%v): expected %q, got %q", in, want, got)
		}
	}

	if formatTime(time.Time{}) != "" {
		t.Fatalf("expected empty string for zero time")
	}

	counts := map[analysis.StatusCategory]int{analysis.CategoryOptimal: 3}
	if countOf(counts, "optimal") != 3 || countOf(counts, "unknown") != 0 {
		t.Fatalf("unexpected counts lookup")
	}

	if pngDataURL("") != "" || pngDataURL("aGk=") != "data:image/png;base64,aGk=" {
		t.Fatalf("unexpected pngDataURL output")
	}

	if len(TemplateFuncs()[0]) != 6 {
		t.Fatalf("expected 6 template helpers")
	}
}
