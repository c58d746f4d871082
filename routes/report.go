/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	htmltemplate "html/template"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/ingest"
)

// Index renders the upload form.
func Index(t template.Template, data template.Data, p *Pipeline) {
	data["IsHome"] = true
	data["MaxUploadMB"] = p.MaxUploadBytes >> 20
	data["HistoryEnabled"] = persistenceEnabledFn()
	t.HTML(http.StatusOK, "index")
}

// ParseReportUpload parses the multipart form of the HTML upload before CSRF
// validation reads the token from it, so size and selection errors become
// flash messages rather than token failures.
func ParseReportUpload(c flamego.Context, s session.Session, p *Pipeline) {
	err := c.Request().ParseMultipartForm(multipartMemory)
	if err == nil {
		return
	}

	if isTooLarge(err) {
		SetErrorFlash(s, uploadFailure(ingest.ErrFileTooLarge, p.MaxUploadBytes).message)
	} else {
		SetErrorFlash(s, msgNoFilesUploaded)
	}

	c.Redirect("/", http.StatusSeeOther)
}

// Report handles the HTML form upload. With persistence enabled it redirects
// to the stored report; otherwise it renders the report directly.
func Report(c flamego.Context, s session.Session, t template.Template, data template.Data, p *Pipeline) {
	files, err := readUploads(c.Request().Request, p.MaxUploadBytes)
	if err != nil {
		var uploadErr *uploadError
		if errors.As(err, &uploadErr) {
			SetErrorFlash(s, uploadErr.message)
		} else {
			logger.Error("Error reading upload", "error", err)
			SetErrorFlash(s, "Failed to read the uploaded files")
		}

		c.Redirect("/", http.StatusSeeOther)

		return
	}

	res, err := p.Run(c.Request().Context(), files)
	if err != nil {
		logger.Error("Error running analysis", "error", err)
		SetErrorFlash(s, "Analysis failed, please try again")
		c.Redirect("/", http.StatusSeeOther)

		return
	}

	if res.AnalysisID != "" {
		c.Redirect("/history/"+res.AnalysisID, http.StatusSeeOther)
		return
	}

	setReportData(data, p.Analyzer, res.Report)
	data["FileDetails"] = res.FileDetails
	data["Timestamp"] = res.Timestamp
	data["PageTitle"] = "Report"
	t.HTML(http.StatusOK, "report")
}

// setReportData fills the template data shared by fresh and stored reports.
func setReportData(data template.Data, analyzer *analysis.Analyzer, report *analysis.Report) {
	data["Report"] = report
	data["Counts"] = report.Counts()
	data["HistoryEnabled"] = persistenceEnabledFn()

	chart, err := generateReportChart(analyzer, report)
	if err != nil {
		logger.Error("Error generating report chart", "error", err)
		return
	}

	if chart != "" {
		data["Chart"] = htmltemplate.HTML(chart)
	}
}
