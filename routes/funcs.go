/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	htmltemplate "html/template"
	"strconv"
	"strings"
	"time"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/registry"
)

// TemplateFuncs returns the helpers available to every template.
func TemplateFuncs() []htmltemplate.FuncMap {
	return []htmltemplate.FuncMap{{
		"statusClass":   statusClass,
		"priorityClass": priorityClass,
		"formatValue":   formatValue,
		"formatTime":    formatTime,
		"countOf":       countOf,
		"pngDataURL":    pngDataURL,
	}}
}

func statusClass(c analysis.StatusCategory) string {
	return "status-" + strings.ReplaceAll(string(c), "_", "-")
}

func priorityClass(p registry.Priority) string {
	return "priority-" + strings.ReplaceAll(strings.ToLower(p.String()), " ", "-")
}

// formatValue prints a reading without trailing zeros.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}

// pngDataURL turns a base64 PNG into an image source.
func pngDataURL(b64 string) htmltemplate.URL {
	if b64 == "" {
		return ""
	}

	return htmltemplate.URL("data:image/png;base64," + b64) //nolint:gosec // QR codes are generated server side.
}

func countOf(counts map[analysis.StatusCategory]int, category string) int {
	return counts[analysis.StatusCategory(category)]
}
