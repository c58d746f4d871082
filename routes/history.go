/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/google/uuid"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/db"
	"github.com/humaidq/healthscore/registry"
)

// Seams for tests.
var (
	listAnalysesFn           = db.ListAnalyses
	getAnalysisFn            = db.GetAnalysis
	deleteAnalysisFn         = db.DeleteAnalysis
	listTrackedBiomarkersFn  = db.ListTrackedBiomarkers
	getBiomarkerHistoryFn    = db.GetBiomarkerHistory
	getBiomarkerDefinitionFn = db.GetBiomarkerDefinition
)

const historyUnavailableMessage = "History is not available without a database"

// RequireHistory redirects to the upload form when persistence is off.
func RequireHistory(c flamego.Context, s session.Session) {
	if persistenceEnabledFn() {
		return
	}

	logger.Warn("History requested", "path", c.Request().URL.Path, "error", errHistoryDisabled)
	SetWarningFlash(s, historyUnavailableMessage)
	c.Redirect("/", http.StatusSeeOther)
}

func parseAnalysisID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", errInvalidAnalysisID, err)
	}

	return id, nil
}

// History lists stored analyses and the biomarkers that can be charted.
func History(c flamego.Context, t template.Template, data template.Data) {
	ctx := c.Request().Context()
	data["IsHistory"] = true
	data["PageTitle"] = "History"

	analyses, err := listAnalysesFn(ctx, db.DefaultHistoryLimit)
	if err != nil {
		logger.Error("Error listing analyses", "error", err)
		data["Error"] = "Failed to load analyses"
	} else {
		data["Analyses"] = analyses
	}

	tracked, err := listTrackedBiomarkersFn(ctx)
	if err != nil {
		logger.Error("Error listing tracked biomarkers", "error", err)
	} else {
		data["Tracked"] = tracked
	}

	t.HTML(http.StatusOK, "history")
}

// ViewHistory re-renders a stored report.
func ViewHistory(c flamego.Context, s session.Session, t template.Template, data template.Data, p *Pipeline) {
	id, err := parseAnalysisID(c.Param("id"))
	if err != nil {
		SetErrorFlash(s, "Analysis not found")
		c.Redirect("/history", http.StatusSeeOther)

		return
	}

	stored, err := getAnalysisFn(c.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, db.ErrAnalysisNotFound) {
			logger.Error("Error fetching analysis", "id", id, "error", err)
		}

		SetErrorFlash(s, "Analysis not found")
		c.Redirect("/history", http.StatusSeeOther)

		return
	}

	data["IsHistory"] = true
	data["PageTitle"] = "Report"
	data["Analysis"] = stored
	data["Timestamp"] = stored.CreatedAt

	link := reportURL(c, id)
	data["ShareURL"] = link

	if qr, err := generateQRCodeBase64(link); err != nil {
		logger.Warn("Failed to generate share code", "id", id, "error", err)
	} else {
		data["ShareQR"] = qr
	}

	setReportData(data, p.Analyzer, &stored.Report)
	t.HTML(http.StatusOK, "report")
}

// DeleteHistory removes a stored analysis.
func DeleteHistory(c flamego.Context, s session.Session) {
	id, err := parseAnalysisID(c.Param("id"))
	if err != nil {
		SetErrorFlash(s, "Analysis not found")
		c.Redirect("/history", http.StatusSeeOther)

		return
	}

	if err := deleteAnalysisFn(c.Request().Context(), id); err != nil {
		if errors.Is(err, db.ErrAnalysisNotFound) {
			SetErrorFlash(s, "Analysis not found")
		} else {
			logger.Error("Error deleting analysis", "id", id, "error", err)
			SetErrorFlash(s, "Failed to delete analysis")
		}

		c.Redirect("/history", http.StatusSeeOther)

		return
	}

	logger.Info("Deleted analysis", "id", id)
	SetSuccessFlash(s, "Analysis deleted")
	c.Redirect("/history", http.StatusSeeOther)
}

// trendDefinition returns the stored definition of key, falling back to
// the loaded registry when the database has none.
func trendDefinition(c flamego.Context, reg *registry.Registry, key string) (db.BiomarkerDefinitionRow, bool) {
	row, err := getBiomarkerDefinitionFn(c.Request().Context(), key)
	if err != nil {
		logger.Warn("Failed to get biomarker definition", "key", key, "error", err)
	}

	if row != nil {
		return *row, true
	}

	def, ok := reg.Biomarker(key)
	if !ok {
		return db.BiomarkerDefinitionRow{}, false
	}

	lo, hi := analysis.OptimalRange(def)

	return db.BiomarkerDefinitionRow{
		Key:             def.Key,
		Name:            def.DisplayName(),
		Unit:            def.Unit,
		AcceptableRange: def.AcceptableDisplay(),
		AcceptableMin:   def.AcceptableMin,
		AcceptableMax:   def.AcceptableMax,
		HighThreshold:   def.HighThreshold,
		OptimalMin:      lo,
		OptimalMax:      hi,
	}, true
}

// BiomarkerTrend charts one biomarker across stored analyses.
func BiomarkerTrend(c flamego.Context, s session.Session, t template.Template, data template.Data, p *Pipeline) {
	key := analysis.NormalizeName(c.Param("key"))

	def, ok := trendDefinition(c, p.Analyzer.Registry(), key)
	if !ok {
		SetErrorFlash(s, "Unknown biomarker")
		c.Redirect("/history", http.StatusSeeOther)

		return
	}

	points, err := getBiomarkerHistoryFn(c.Request().Context(), key)
	if err != nil {
		logger.Error("Error fetching biomarker history", "key", key, "error", err)
		data["Error"] = "Failed to load biomarker history"
	}

	chart, err := generateTrendChart(def, points)
	if err != nil {
		logger.Error("Error generating trend chart", "key", key, "error", err)
	} else if chart != "" {
		data["Chart"] = htmltemplate.HTML(chart)
	}

	data["IsHistory"] = true
	data["PageTitle"] = def.Name
	data["Definition"] = def
	data["Points"] = points
	t.HTML(http.StatusOK, "biomarker")
}
